package router

import (
	"net/http"

	"github.com/Hillarymukuka/ancestrabusiness/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
)

// NewPOSRoutes lays out the console API. session must resolve the caller's
// terminal; every route below depends on it.
func NewPOSRoutes(h *handler.POSHandler, session gin.HandlerFunc) *DomainGroup {
	g := NewDomainGroup("pos", "/pos").Use(session)

	g.Group("catalog", "/catalog").
		GET("", h.SearchCatalog).
		POST("/refresh", h.RefreshCatalog).
		GET("/low-stock", h.LowStock)

	g.Group("cart", "/cart").
		GET("", h.GetCart).
		DELETE("", h.ClearCart).
		POST("/items", h.AddItem).
		PUT("/items/:index", h.SetQuantity).
		DELETE("/items/:index", h.RemoveItem).
		PUT("/details", h.UpdateDetails).
		POST("/submit", h.Submit)

	g.GET("/receipt", h.GetReceipt).
		DELETE("/receipt", h.ClearReceipt).
		GET("/sales", h.History).
		GET("/sales/:id/receipt", h.OpenReceipt).
		GET("/payment-methods", h.PaymentMethods).
		GET("/me", h.Me)

	return g
}

// NewSystemRoutes serves ping and build info under the versioned API
func NewSystemRoutes(h *handler.SystemHandler) *DomainGroup {
	return NewDomainGroup("system", "").
		GET("/ping", h.Ping).
		GET("/system/info", h.GetSystemInfo)
}

// NewHealthRoutes serves the liveness check at the server root
func NewHealthRoutes(h *handler.SystemHandler) *DomainGroup {
	return NewDomainGroup("health", "").GET("/health", h.Health)
}

// NewMetricsRoutes exposes a Prometheus scrape handler at path
func NewMetricsRoutes(path string, metrics http.Handler) *DomainGroup {
	return NewDomainGroup("metrics", "").GET(path, gin.WrapH(metrics))
}

// NewSwaggerRoutes serves the API documentation at the server root. guard
// decides who may read it.
func NewSwaggerRoutes(guard, docs gin.HandlerFunc) *DomainGroup {
	return NewDomainGroup("swagger", "").GET("/swagger/*any", guard, docs)
}
