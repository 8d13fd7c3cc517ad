package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/qrmenu/internal/config"
	"github.com/example/qrmenu/internal/handlers"
	"github.com/example/qrmenu/internal/middleware"
	"github.com/example/qrmenu/internal/store"
	"github.com/example/qrmenu/internal/theme"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, stores *store.Manager, themes *theme.Registry, remote store.RemoteStore, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(db, cfg)
	menuHandler := handlers.NewMenuHandler(stores, themes)
	businessHandler := handlers.NewBusinessHandler(stores, remote)
	catalogHandler := handlers.NewCatalogHandler(stores)
	productHandler := handlers.NewProductHandler(stores)
	feedbackHandler := handlers.NewFeedbackHandler(stores)

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	// Public storefront routes
	menu := api.Group("/menu/:slug")
	menu.Get("/", menuHandler.GetMenu)
	menu.Get("/business", menuHandler.GetBusiness)
	menu.Get("/categories", menuHandler.ListCategories)
	menu.Get("/products", menuHandler.ListProducts)
	menu.Get("/products/:id", menuHandler.GetProduct)
	menu.Get("/theme", menuHandler.GetTheme)
	menu.Post("/feedback", menuHandler.SubmitFeedback)

	// Admin routes
	admin := api.Group("/admin/:slug", middleware.AuthMiddleware(cfg))

	admin.Get("/business", businessHandler.GetBusiness)
	admin.Put("/business", businessHandler.UpdateBusiness)

	admin.Post("/categories", catalogHandler.CreateCategory)
	admin.Put("/categories/:id", catalogHandler.UpdateCategory)
	admin.Delete("/categories/:id", catalogHandler.DeleteCategory)

	admin.Post("/products", productHandler.CreateProduct)
	admin.Put("/products/:id", productHandler.UpdateProduct)
	admin.Delete("/products/:id", productHandler.DeleteProduct)

	admin.Get("/tags", catalogHandler.ListTags)
	admin.Post("/tags", catalogHandler.AddTag)
	admin.Delete("/tags/:name", catalogHandler.RemoveTag)

	admin.Get("/feedback", feedbackHandler.ListFeedback)
	admin.Put("/feedback/:id/read", feedbackHandler.MarkFeedbackRead)
	admin.Delete("/feedback/:id", feedbackHandler.DeleteFeedback)
}
