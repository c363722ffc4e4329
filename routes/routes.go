// routes/routes.go
package routes

import (
	"github.com/gorilla/mux"

	"github.com/shivanand-vn/SVPharma-sub001/controllers"
	"github.com/shivanand-vn/SVPharma-sub001/middleware"
)

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(
	router *mux.Router,
	authController *controllers.AuthController,
	connectionController *controllers.ConnectionController,
	medicineController *controllers.MedicineController,
	cartController *controllers.CartController,
	orderController *controllers.OrderController,
	paymentController *controllers.PaymentController,
) {
	// Public routes
	router.HandleFunc("/auth/login", authController.Login).Methods("POST")
	router.HandleFunc("/connection-requests", connectionController.Apply).Methods("POST")
	router.HandleFunc("/medicines", medicineController.GetMedicines).Methods("GET")
	router.HandleFunc("/medicines/{id}", medicineController.GetMedicineByID).Methods("GET")

	// Authenticated customer routes
	protected := router.PathPrefix("/").Subrouter()
	protected.Use(middleware.AuthMiddleware)
	protected.HandleFunc("/profile", authController.GetProfile).Methods("GET")

	protected.HandleFunc("/cart", cartController.AddToCart).Methods("POST")
	protected.HandleFunc("/cart", cartController.GetCart).Methods("GET")
	protected.HandleFunc("/cart/{medicineId}", cartController.RemoveFromCart).Methods("DELETE")

	protected.HandleFunc("/orders", orderController.CreateOrder).Methods("POST")
	protected.HandleFunc("/orders/myorders", orderController.GetMyOrders).Methods("GET")

	protected.HandleFunc("/payments", paymentController.SubmitPayment).Methods("POST")
	protected.HandleFunc("/payments/my", paymentController.GetMyPayments).Methods("GET")
	protected.HandleFunc("/payments/wallet", paymentController.GetWallet).Methods("GET")
	protected.HandleFunc("/payments/{id}/reupload", paymentController.ReuploadProof).Methods("PUT")

	// Admin routes
	admin := router.PathPrefix("/").Subrouter()
	admin.Use(middleware.AuthMiddleware)
	admin.Use(middleware.AdminMiddleware)

	admin.HandleFunc("/medicines", medicineController.CreateMedicine).Methods("POST")
	admin.HandleFunc("/medicines/{id}", medicineController.UpdateMedicine).Methods("PUT")
	admin.HandleFunc("/medicines/{id}", medicineController.DeleteMedicine).Methods("DELETE")

	admin.HandleFunc("/orders", orderController.GetOrders).Methods("GET")
	admin.HandleFunc("/orders/{id}/status", orderController.UpdateOrderStatus).Methods("PUT")
	admin.HandleFunc("/orders/{id}/items", orderController.UpdateOrderItems).Methods("PUT")
	admin.HandleFunc("/orders/{id}/return", orderController.ProcessReturn).Methods("POST")

	admin.HandleFunc("/payments/offline", paymentController.SubmitOfflinePayment).Methods("POST")
	admin.HandleFunc("/payments", paymentController.GetPayments).Methods("GET")
	admin.HandleFunc("/payments/{id}/approve", paymentController.ApprovePayment).Methods("PUT")
	admin.HandleFunc("/payments/{id}/reject", paymentController.RejectPayment).Methods("PUT")

	admin.HandleFunc("/connection-requests", connectionController.List).Methods("GET")
	admin.HandleFunc("/connection-requests/{id}/approve", connectionController.Approve).Methods("PUT")
	admin.HandleFunc("/connection-requests/{id}/reject", connectionController.Reject).Methods("PUT")

	admin.HandleFunc("/otp/request", connectionController.RequestDeleteOTP).Methods("POST")
	admin.HandleFunc("/customers/{id}", connectionController.DeleteCustomer).Methods("DELETE")
}
