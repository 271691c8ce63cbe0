package router

import (
	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/interfaces/http/handler"
)

// Handlers holds every HTTP handler the API exposes
type Handlers struct {
	Auth           *handler.AuthHandler
	Product        *handler.ProductHandler
	Cart           *handler.CartHandler
	Checkout       *handler.CheckoutHandler
	Order          *handler.OrderHandler
	ProductRequest *handler.ProductRequestHandler
	Stats          *handler.StatsHandler
	StripeWebhook  *handler.StripeWebhookHandler
}

// Guards are the access-control middleware applied per route group.
// AuthRateLimit may be nil when the stricter login limit is disabled.
type Guards struct {
	Session       gin.HandlerFunc
	Admin         gin.HandlerFunc
	AuthRateLimit gin.HandlerFunc
}

// StorefrontRoutes builds the domain groups mounted under the API base path
func StorefrontRoutes(h Handlers, g Guards) []*DomainGroup {
	catalog := NewDomainGroup("catalog", "/products")
	catalog.GET("", h.Product.List)
	catalog.GET("/categories", h.Product.Categories)
	catalog.GET("/:id", h.Product.Get)

	auth := NewDomainGroup("auth", "/auth")
	auth.POST("/register", g.AuthRateLimit, h.Auth.Register)
	auth.POST("/login", g.AuthRateLimit, h.Auth.Login)
	auth.POST("/logout", g.Session, h.Auth.Logout)
	auth.GET("/user", g.Session, h.Auth.GetCurrentUser)
	auth.PUT("/user", g.Session, h.Auth.UpdateProfile)

	webhooks := NewDomainGroup("webhooks", "/webhooks")
	webhooks.POST("/stripe", h.StripeWebhook.HandleStripeWebhook)

	cart := NewDomainGroup("cart", "/cart").Use(g.Session)
	cart.GET("", h.Cart.Get)
	cart.POST("", h.Cart.Add)
	cart.DELETE("", h.Cart.Clear)
	cart.PUT("/:id", h.Cart.Update)
	cart.DELETE("/:id", h.Cart.Remove)

	checkout := NewDomainGroup("checkout", "").Use(g.Session)
	checkout.GET("/checkout/summary", h.Checkout.Summary)
	checkout.POST("/create-payment-intent", h.Checkout.CreatePaymentIntent)
	checkout.POST("/create-order", h.Checkout.CreateOrder)

	orders := NewDomainGroup("orders", "/orders").Use(g.Session)
	orders.GET("", h.Order.ListMine)
	orders.GET("/:id", h.Order.GetMine)

	requests := NewDomainGroup("product-requests", "/product-requests").Use(g.Session)
	requests.GET("", h.ProductRequest.ListMine)
	requests.POST("", h.ProductRequest.Submit)

	admin := NewDomainGroup("admin", "/admin").Use(g.Session, g.Admin)
	admin.GET("/stats", h.Stats.Dashboard)
	admin.Group("admin-products", "/products").
		GET("", h.Product.AdminList).
		POST("", h.Product.Create).
		PUT("/:id", h.Product.Update).
		DELETE("/:id", h.Product.Delete).
		POST("/:id/image-upload", h.Product.CreateImageUpload)
	admin.Group("admin-orders", "/orders").
		GET("", h.Order.AdminList).
		GET("/:id", h.Order.AdminGet).
		PUT("/:id/status", h.Order.UpdateStatus)
	admin.Group("admin-product-requests", "/product-requests").
		GET("", h.ProductRequest.AdminList).
		PUT("/:id", h.ProductRequest.Respond)

	return []*DomainGroup{catalog, auth, webhooks, cart, checkout, orders, requests, admin}
}
