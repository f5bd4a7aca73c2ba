package routes

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/jasleenkaur1801/leeyaherbals-server/internal/config"
	"github.com/jasleenkaur1801/leeyaherbals-server/internal/handlers"
	"github.com/jasleenkaur1801/leeyaherbals-server/internal/middleware"
	"github.com/jasleenkaur1801/leeyaherbals-server/internal/repositories"
	"github.com/jasleenkaur1801/leeyaherbals-server/internal/services"
	"github.com/jasleenkaur1801/leeyaherbals-server/pkg/rabbitmq"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	var events *rabbitmq.Client
	if cfg.RabbitURL != "" {
		client, err := rabbitmq.NewClient(cfg.RabbitURL)
		if err != nil {
			log.Printf("[Events] RabbitMQ unavailable, events disabled: %v", err)
		} else {
			events = client
		}
	}

	userRepo := repositories.NewGORMUserRepository(db)
	otpRepo := repositories.NewGORMOTPRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)

	mailer := services.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom)
	gateway := services.NewRazorpayClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
	otpService := services.NewOTPService(userRepo, otpRepo, mailer, cfg)
	orderService := services.NewOrderService(orderRepo, gateway, events)

	authHandler := handlers.NewAuthHandler(db, otpService, cfg)
	paymentHandler := handlers.NewPaymentHandler(orderService)
	orderHandler := handlers.NewOrderHandler(orderService)
	productHandler := handlers.NewProductHandler(db)
	reviewHandler := handlers.NewReviewHandler(db)
	profileHandler := handlers.NewProfileHandler(db)
	adminHandler := handlers.NewAdminHandler(db, orderRepo)

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)

	otp := api.Group("/otp")
	otp.Post("/start", authHandler.StartLogin)
	otp.Post("/verify", authHandler.VerifyLogin)
	otp.Post("/resend", authHandler.ResendOTP)

	// Catalog routes
	products := api.Group("/products")
	products.Get("/", productHandler.ListProducts)
	products.Get("/:id", productHandler.GetProduct)
	products.Get("/:id/reviews", reviewHandler.ListReviews)

	// Protected routes
	protected := api.Group("", middleware.AuthMiddleware(cfg))

	payment := protected.Group("/payment")
	payment.Post("/create-order", paymentHandler.CreateIntent)
	payment.Post("/verify-payment", paymentHandler.VerifyPayment)

	protected.Post("/orders", orderHandler.CreateOrder)
	protected.Get("/orders", orderHandler.ListOrders)
	protected.Get("/orders/:id", orderHandler.GetOrder)

	protected.Post("/products/:id/reviews", reviewHandler.CreateReview)

	protected.Get("/profile", profileHandler.GetProfile)
	protected.Put("/profile", profileHandler.UpdateProfile)

	// Admin routes; role is re-checked against the database
	admin := protected.Group("/admin", middleware.RequireAdmin(db))
	admin.Get("/orders", adminHandler.ListAllOrders)
	admin.Put("/orders/:id/status", adminHandler.UpdateOrderStatus)
	admin.Get("/stats", adminHandler.Stats)

	adminCatalog := protected.Group("/products", middleware.RequireAdmin(db))
	adminCatalog.Post("/", productHandler.CreateProduct)
	adminCatalog.Put("/:id", productHandler.UpdateProduct)
	adminCatalog.Delete("/:id", productHandler.DeleteProduct)
}
