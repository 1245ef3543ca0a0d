package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/domain"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/transport/http/handler"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/transport/http/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Auth       *handler.AuthHandler
	Product    *handler.ProductHandler
	Image      *handler.ImageHandler
	Category   *handler.CategoryHandler
	Collection *handler.CollectionHandler
	Offer      *handler.OfferHandler
	Settings   *handler.SettingsHandler
	Order      *handler.OrderHandler
	Enquiry    *handler.EnquiryHandler
	Admin      *handler.AdminHandler
}

type RouteDeps struct {
	Auth     *middleware.AuthMiddleware
	Limiter  fiber.Handler
	Gatherer prometheus.Gatherer
}

func RegisterRoutes(app *fiber.App, h *Handlers, deps RouteDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")
	if deps.Limiter != nil {
		api.Use(deps.Limiter)
	}

	isLoggedIn := deps.Auth.IsLoggedIn
	protect := deps.Auth.Protect
	admin := middleware.RestrictTo(domain.RoleAdmin)

	auth := api.Group("/auth")
	auth.Get("/me", protect, h.Auth.GetMe)
	auth.Get("/logout", h.Auth.Logout)

	products := api.Group("/products")
	products.Get("", isLoggedIn, h.Product.List)
	products.Get("/featured", isLoggedIn, h.Product.Featured)
	products.Get("/new-arrivals", isLoggedIn, h.Product.NewArrivals)
	products.Get("/:id", isLoggedIn, h.Product.FindByID)
	products.Post("", protect, admin, h.Product.Create)
	products.Patch("/:id", protect, admin, h.Product.Update)
	products.Delete("/:id", protect, admin, h.Product.Delete)
	products.Post("/:id/images", protect, admin, h.Image.Upload)
	products.Patch("/:id/images/primary", protect, admin, h.Image.SetPrimary)
	products.Delete("/:id/images/:imageId", protect, admin, h.Image.Delete)

	categories := api.Group("/categories")
	categories.Get("", h.Category.List)
	categories.Post("", protect, admin, h.Category.Create)
	categories.Patch("/:id", protect, admin, h.Category.Update)
	categories.Delete("/:id", protect, admin, h.Category.Delete)
	categories.Post("/:id/image", protect, admin, h.Category.UploadImage)

	collections := api.Group("/collections")
	collections.Get("", isLoggedIn, h.Collection.List)
	collections.Get("/featured", isLoggedIn, h.Collection.Featured)
	collections.Get("/:id", isLoggedIn, h.Collection.FindByID)
	collections.Post("", protect, admin, h.Collection.Create)
	collections.Patch("/:id", protect, admin, h.Collection.Update)
	collections.Patch("/:id/featured", protect, admin, h.Collection.ToggleFeatured)
	collections.Delete("/:id", protect, admin, h.Collection.Delete)
	collections.Post("/:id/image", protect, admin, h.Collection.UploadImage)

	offers := api.Group("/offers")
	offers.Get("", h.Offer.List)
	offers.Get("/active", h.Offer.Active)
	offers.Post("", protect, admin, h.Offer.Create)
	offers.Patch("/:id", protect, admin, h.Offer.Update)
	offers.Delete("/:id", protect, admin, h.Offer.Delete)
	offers.Post("/:id/image", protect, admin, h.Offer.UploadImage)

	settings := api.Group("/settings")
	settings.Get("/announcement", h.Settings.Announcement)
	settings.Post("/announcement", protect, admin, h.Settings.SaveAnnouncement)

	orders := api.Group("/orders", protect)
	orders.Post("", h.Order.Create)
	orders.Get("/me", h.Order.ListMine)
	orders.Get("/:id", h.Order.FindByID)

	api.Post("/contact", h.Enquiry.Submit)

	adminGroup := api.Group("/admin", protect, admin)
	adminGroup.Get("/stats", h.Admin.Stats)
	adminGroup.Get("/users", h.Admin.Users)
	adminGroup.Patch("/users/:id/role", h.Admin.UpdateRole)
	adminGroup.Get("/orders", h.Order.ListAll)
	adminGroup.Patch("/orders/:id/status", h.Order.UpdateStatus)
	adminGroup.Get("/enquiries", h.Enquiry.List)
	adminGroup.Patch("/enquiries/:id", h.Enquiry.UpdateStatus)
}
