// main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/shivanand-vn/SVPharma-sub001/controllers"
	"github.com/shivanand-vn/SVPharma-sub001/otp"
	"github.com/shivanand-vn/SVPharma-sub001/routes"
	"github.com/shivanand-vn/SVPharma-sub001/utils"
)

func main() {
	// Load environment variables from .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Proceeding with environment variables.")
	}

	// Set the JWT secret key
	utils.JwtKey = []byte(os.Getenv("JWT_SECRET"))

	// Initialize EmailService
	emailService := utils.NewEmailService()

	// Connect to MongoDB
	client := utils.ConnectDB()
	defer func() {
		if err = client.Disconnect(context.TODO()); err != nil {
			log.Fatal(err)
		}
	}()
	if err := utils.EnsureIndexes(client); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	// OTP store: Redis when configured, in-process memory otherwise
	var otpStore otp.Store
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		db := 0
		if raw := os.Getenv("REDIS_DB"); raw != "" {
			db, err = strconv.Atoi(raw)
			if err != nil {
				log.Fatalf("Invalid REDIS_DB: %v", err)
			}
		}
		redisStore := otp.NewRedisStore(addr, os.Getenv("REDIS_PASSWORD"), db)
		if err := redisStore.Ping(context.Background()); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisStore.Close()
		otpStore = redisStore
		log.Println("OTP store: redis")
	} else {
		otpStore = otp.NewMemoryStore()
		log.Println("OTP store: in-memory (single instance only)")
	}

	// Initialize controllers
	authController := controllers.NewAuthController(client)
	connectionController := controllers.NewConnectionController(client, emailService, otpStore)
	medicineController := controllers.NewMedicineController(client)
	cartController := controllers.NewCartController(client)
	orderController := controllers.NewOrderController(client, emailService)
	paymentController := controllers.NewPaymentController(client, emailService)

	// Set up the router
	router := mux.NewRouter()
	routes.RegisterRoutes(router, authController, connectionController, medicineController, cartController, orderController, paymentController)

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	fmt.Printf("Server is running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, router))
}
