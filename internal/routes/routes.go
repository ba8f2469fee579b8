package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"restaurant-management-backend/internal/config"
	handler "restaurant-management-backend/internal/handlers"
	"restaurant-management-backend/internal/middleware"
	"restaurant-management-backend/internal/repository"
	invoicesvc "restaurant-management-backend/internal/services/invoice"
	paymentsvc "restaurant-management-backend/internal/services/payment"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {
	userRepo := repository.NewUserRepository(db)
	restaurantRepo := repository.NewRestaurantRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	invoiceService := invoicesvc.NewService(orderRepo, invoiceRepo)
	paymentService := paymentsvc.NewService(orderRepo, invoiceRepo, paymentRepo, restaurantRepo)

	userHandler := handler.NewUserHandler(userRepo, cfg.JWTSecret, cfg.JWTExpirySecs)
	restaurantHandler := handler.NewRestaurantHandler(restaurantRepo)
	tableHandler := handler.NewTableHandler(db)
	categoryHandler := handler.NewCategoryHandler(db)
	menuHandler := handler.NewMenuHandler(db)
	orderHandler := handler.NewOrderHandler(orderRepo)
	stockHandler := handler.NewStockHandler(db)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService, restaurantRepo)
	paymentHandler := handler.NewPaymentHandler(paymentService)

	api := r.Group("/api")

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	auth := middleware.RequireAuth(db, cfg.JWTSecret)

	// Auth and account routes
	api.POST("/signup", userHandler.Signup)
	api.POST("/login", userHandler.Login)
	api.GET("/me", auth, userHandler.Me)
	api.GET("/users", auth, userHandler.List)
	api.PUT("/user/:id", auth, userHandler.Update)
	api.DELETE("/user/:id", auth, userHandler.Delete)

	// Restaurant directory
	api.POST("/create_restaurant", auth, restaurantHandler.Create)
	api.GET("/get_restaurants", restaurantHandler.List)

	// Tables
	api.POST("/create_table", auth, tableHandler.Create)
	api.GET("/get_tables", tableHandler.List)
	api.GET("/tables_by_id/:id", tableHandler.Get)
	api.PUT("/update_table/:id", auth, tableHandler.Update)
	api.DELETE("/delete_table_by_id/:id", auth, tableHandler.Delete)

	// Menu categories
	api.POST("/create_category", auth, categoryHandler.Create)
	api.GET("/get_categories", categoryHandler.List)

	// Menus
	api.POST("/create_menu", auth, menuHandler.Create)
	api.GET("/get_menus", menuHandler.List)
	api.GET("/get_menu_by_id/:id", menuHandler.Get)
	api.PUT("/update_menu/:id", auth, menuHandler.Update)
	api.DELETE("/delete_menu_by_id/:id", auth, menuHandler.Delete)

	// Orders
	api.POST("/create_order", orderHandler.Create)
	api.GET("/get_orders", orderHandler.List)
	api.GET("/get_order_by_id/:id", orderHandler.Get)
	api.PUT("/update_order/:id", orderHandler.Update)
	api.DELETE("/delete_order_by_id/:id", auth, orderHandler.Delete)
	api.PUT("/update_order_status/:id", auth, orderHandler.UpdateStatus)

	// Stock
	api.POST("/create_stock", auth, stockHandler.Create)
	api.GET("/get_stocks", stockHandler.List)
	api.GET("/get_stock_by_id/:id", stockHandler.Get)
	api.PUT("/update_stock/:id", auth, stockHandler.Update)
	api.DELETE("/delete_stock_by_id/:id", auth, stockHandler.Delete)

	// Invoices
	api.POST("/create_invoice", auth, invoiceHandler.Create)
	api.POST("/create_invoice_for_table", auth, invoiceHandler.CreateForTable)
	api.GET("/get_invoices", invoiceHandler.List)
	api.GET("/get_invoice_by_id/:id", invoiceHandler.Get)
	api.GET("/tables_with_uninvoiced_orders", invoiceHandler.TablesWithUninvoicedOrders)
	api.GET("/invoice/:id/view", invoiceHandler.ViewPage)
	api.PUT("/update_invoice/:id", auth, invoiceHandler.Update)
	api.DELETE("/delete_invoice_by_id/:id", auth, invoiceHandler.Delete)

	// Payments are customer-facing, so no auth on this group.
	payments := api.Group("/payments")
	payments.POST("/create_payment", paymentHandler.Create)
	payments.POST("/webhook/payment", paymentHandler.Webhook)
	payments.GET("/pay/:id", paymentHandler.PayPage)
	payments.GET("/:id", paymentHandler.Get)
	payments.GET("/:id/qr", paymentHandler.ActiveQR)
	payments.GET("/:id/qr/image", paymentHandler.QRImage)
	payments.POST("/:id/revive", paymentHandler.Revive)
	payments.POST("/:id/mark_paid", paymentHandler.MarkPaid)
}
