package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"pos-service/internal/auth"
	"pos-service/internal/currency"
	"pos-service/internal/report"
	"pos-service/internal/service"
	"pos-service/internal/store"
	"pos-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	pos     *service.POSService
	reports *report.Aggregator
	prefs   *currency.Preferences
	auth    *auth.MagicLink
}

// NewHandler creates a new HTTP handler
func NewHandler(
	pos *service.POSService,
	reports *report.Aggregator,
	prefs *currency.Preferences,
	authProvider *auth.MagicLink,
) *Handler {
	return &Handler{
		pos:     pos,
		reports: reports,
		prefs:   prefs,
		auth:    authProvider,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/products", h.listProducts)
		v1.POST("/products", h.createProduct)
		v1.PUT("/products/:id", h.updateProduct)
		v1.DELETE("/products/:id", h.deleteProduct)

		v1.GET("/sales", h.listSales)
		v1.POST("/sales", h.checkout)
		v1.DELETE("/sales", h.clearSales)

		v1.GET("/reports/summary", h.reportSummary)
		v1.GET("/reports/top-products", h.reportTopProducts)
		v1.GET("/reports/daily", h.reportDaily)
		v1.GET("/reports/month-days", h.reportMonthDays)
		v1.GET("/reports/monthly", h.reportMonthly)
		v1.GET("/reports/low-stock", h.reportLowStock)

		v1.GET("/settings/currencies", h.listCurrencies)
		v1.GET("/settings/currency", h.getCurrency)
		v1.PUT("/settings/currency", h.setCurrency)

		v1.POST("/auth/signin", h.signIn)
		v1.POST("/auth/verify", h.verifyToken)
		v1.POST("/auth/signout", h.signOut)
		v1.GET("/auth/me", h.currentUser)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// respondError maps domain errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case service.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, currency.ErrUnknownCurrency):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, auth.ErrInvalidEmail), errors.Is(err, auth.ErrInvalidToken):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, auth.ErrNotSignedIn):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// listProducts returns the full catalog
func (h *Handler) listProducts(c *gin.Context) {
	products, err := h.pos.ListProducts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// createProduct adds a product to the catalog
func (h *Handler) createProduct(c *gin.Context) {
	var req service.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	product, err := h.pos.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// updateProduct replaces the product with the given id
func (h *Handler) updateProduct(c *gin.Context) {
	var req service.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if err := h.pos.UpdateProduct(c.Request.Context(), c.Param("id"), &req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// deleteProduct removes the product with the given id
func (h *Handler) deleteProduct(c *gin.Context) {
	if err := h.pos.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// listSales returns the full sale history
func (h *Handler) listSales(c *gin.Context) {
	sales, err := h.pos.ListSales(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sales": sales})
}

// checkout records a sale from the posted cart
func (h *Handler) checkout(c *gin.Context) {
	var req service.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	sale, err := h.pos.Checkout(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sale)
}

// clearSales wipes the sale history
func (h *Handler) clearSales(c *gin.Context) {
	if err := h.pos.ClearSales(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// reportSummary returns the dashboard rollups
func (h *Handler) reportSummary(c *gin.Context) {
	summary, err := h.reports.Summary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// reportTopProducts returns the weekly top-5 products
func (h *Handler) reportTopProducts(c *gin.Context) {
	ranks, err := h.reports.TopProducts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": ranks})
}

// reportDaily returns per-day revenue for the trailing week
func (h *Handler) reportDaily(c *gin.Context) {
	days, err := h.reports.DailyRevenue(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": days})
}

// reportMonthDays returns per-day revenue for the current calendar month
func (h *Handler) reportMonthDays(c *gin.Context) {
	days, err := h.reports.MonthDailyRevenue(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": days})
}

// reportMonthly returns per-month buckets across all history
func (h *Handler) reportMonthly(c *gin.Context) {
	months, err := h.reports.MonthlyRevenue(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"months": months})
}

// reportLowStock returns products at or below the low-stock threshold
func (h *Handler) reportLowStock(c *gin.Context) {
	products, err := h.reports.LowStock(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// listCurrencies returns the selectable currencies
func (h *Handler) listCurrencies(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"currencies": currency.Currencies})
}

// getCurrency returns the selected display currency
func (h *Handler) getCurrency(c *gin.Context) {
	selected, err := h.prefs.Get(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, selected)
}

// setCurrency persists a new display currency selection
func (h *Handler) setCurrency(c *gin.Context) {
	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	selected, err := h.prefs.Set(c.Request.Context(), req.Code)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, selected)
}

// signIn issues a magic link for the posted email
func (h *Handler) signIn(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if err := h.auth.SignInWithEmail(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "magic link sent"})
}

// verifyToken consumes a magic-link token and establishes the session
func (h *Handler) verifyToken(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	user, err := h.auth.VerifyToken(c.Request.Context(), req.Token)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// signOut ends the session
func (h *Handler) signOut(c *gin.Context) {
	if err := h.auth.SignOut(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// currentUser returns the signed-in user
func (h *Handler) currentUser(c *gin.Context) {
	user, err := h.auth.CurrentUser(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
