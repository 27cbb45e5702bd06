package server

import (
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/carrickvaughan/dropship-trends-app/internal/ads"
	"github.com/carrickvaughan/dropship-trends-app/internal/history"
	"github.com/carrickvaughan/dropship-trends-app/internal/model"
	"github.com/carrickvaughan/dropship-trends-app/internal/pipeline"
	"github.com/carrickvaughan/dropship-trends-app/internal/store"
)

// Handler holds the dependencies for the HTTP surface. The handlers carry
// no scoring logic; they expose the pipeline, store and history analyzer
// to the dashboard.
type Handler struct {
	pipeline *pipeline.Pipeline
	store    store.Store
	ads      *ads.Cache
}

// NewHandler creates the HTTP handler set.
func NewHandler(p *pipeline.Pipeline, st store.Store, adCache *ads.Cache) *Handler {
	return &Handler{pipeline: p, store: st, ads: adCache}
}

// SetupRouter creates and configures the gin router.
func SetupRouter(handler *Handler, releaseMode bool) *gin.Engine {
	if releaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/trends", handler.GetTrends)
		v1.POST("/refresh", handler.Refresh)
		v1.GET("/history", handler.GetHistory)
		v1.GET("/top-gainer", handler.GetTopGainer)
		v1.GET("/ads/:product", handler.GetAds)
		v1.POST("/swipes", handler.SaveSwipe)
		v1.GET("/swipes/export.csv", handler.ExportSwipes)
	}

	return router
}

// HealthCheck reports service liveness.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "dropship-trends",
	})
}

// GetTrends returns the latest scored batch, running a cycle with default
// parameters when none has run yet.
func (h *Handler) GetTrends(c *gin.Context) {
	batch := h.pipeline.Latest()
	if batch == nil {
		batch = h.pipeline.RunCycle(c.Request.Context(), pipeline.DefaultMarkup, pipeline.DefaultShipping)
	}
	c.JSON(http.StatusOK, gin.H{"rows": batch})
}

// Refresh runs one pipeline cycle with user-adjustable markup and shipping
// parameters and returns the new batch.
func (h *Handler) Refresh(c *gin.Context) {
	markup := queryFloat(c, "markup", pipeline.DefaultMarkup)
	shipping := queryFloat(c, "shipping", pipeline.DefaultShipping)
	batch := h.pipeline.RunCycle(c.Request.Context(), markup, shipping)
	c.JSON(http.StatusOK, gin.H{"rows": batch})
}

// GetHistory exports the full persisted history as JSON. A history read
// failure is served as an empty history so charts degrade instead of
// erroring.
func (h *Handler) GetHistory(c *gin.Context) {
	rows, err := h.store.LoadHistory()
	if err != nil {
		log.Printf("[WARN] load history: %v", err)
		rows = nil
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows})
}

// GetTopGainer returns the product with the largest TrendScore gain between
// the two most recent snapshots, or a no-data marker.
func (h *Handler) GetTopGainer(c *gin.Context) {
	rows, err := h.store.LoadHistory()
	if err != nil {
		log.Printf("[WARN] load history: %v", err)
		rows = nil
	}
	delta := history.TopGainer(rows)
	if delta == nil {
		c.JSON(http.StatusOK, gin.H{"status": "no data yet"})
		return
	}
	c.JSON(http.StatusOK, delta)
}

// GetAds returns cached ad creatives for one product.
func (h *Handler) GetAds(c *gin.Context) {
	product := c.Param("product")
	creatives := h.ads.Creatives(c.Request.Context(), product)
	c.JSON(http.StatusOK, gin.H{"product": product, "creatives": creatives})
}

type swipeRequest struct {
	Product   string `json:"product" binding:"required"`
	ImageURL  string `json:"image_url"`
	SourceURL string `json:"source_url"`
	Caption   string `json:"caption"`
}

// SaveSwipe bookmarks one ad creative.
func (h *Handler) SaveSwipe(c *gin.Context) {
	var req swipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sw := &model.SavedSwipe{Product: req.Product, ImageURL: req.ImageURL, SourceURL: req.SourceURL, Caption: req.Caption}
	if err := h.store.SaveSwipe(sw); err != nil {
		log.Printf("[ERROR] save swipe: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}
	c.JSON(http.StatusCreated, sw)
}

// ExportSwipes streams the saved-swipe log as CSV.
func (h *Handler) ExportSwipes(c *gin.Context) {
	swipes, err := h.store.LoadSwipes()
	if err != nil {
		log.Printf("[ERROR] load swipes: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="swipes.csv"`)

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{"id", "product", "image_url", "source_url", "caption", "saved_at"})
	for _, sw := range swipes {
		_ = w.Write([]string{
			strconv.FormatInt(sw.ID, 10),
			sw.Product,
			sw.ImageURL,
			sw.SourceURL,
			sw.Caption,
			sw.SavedAt.Format(time.RFC3339),
		})
	}
	w.Flush()
}

func queryFloat(c *gin.Context, name string, fallback float64) float64 {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("[WARN] bad %s=%q, using %v", name, raw, fallback)
		return fallback
	}
	return v
}

// Run starts the HTTP server on the given address.
func Run(router *gin.Engine, addr string) error {
	log.Printf("[INFO] http server listening on %s", addr)
	if err := router.Run(addr); err != nil {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}
