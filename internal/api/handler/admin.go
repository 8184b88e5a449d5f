package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/minhvu/coolsearch/internal/repository"
	"github.com/minhvu/coolsearch/internal/service"
	"github.com/minhvu/coolsearch/internal/storage"
)

// AdminHandler handles operational endpoints: triggering syncs and exporting
// catalog artifacts.
type AdminHandler struct {
	syncService *service.SyncService
	productRepo *repository.ProductRepository
	jobRepo     *repository.SyncJobRepository
	storage     storage.ObjectStorage
	collection  string
}

// NewAdminHandler creates a new admin handler. storage may be nil when no
// object storage is configured.
func NewAdminHandler(
	syncService *service.SyncService,
	productRepo *repository.ProductRepository,
	jobRepo *repository.SyncJobRepository,
	store storage.ObjectStorage,
	collection string,
) *AdminHandler {
	return &AdminHandler{
		syncService: syncService,
		productRepo: productRepo,
		jobRepo:     jobRepo,
		storage:     store,
		collection:  collection,
	}
}

// SyncRequest controls a manually triggered sync run.
type SyncRequest struct {
	Force bool `json:"force"`
}

// Sync handles POST /api/v1/admin/sync. It loads the stored catalog and
// uploads embeddings to the vector store.
func (h *AdminHandler) Sync(c *gin.Context) {
	var req SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	products, err := h.productRepo.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to load catalog: " + err.Error(),
		})
		return
	}

	stats, err := h.syncService.SyncCatalog(c.Request.Context(), products, &service.SyncOptions{Force: req.Force})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Sync failed: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_items":    stats.TotalItems,
		"uploaded_items": stats.UploadedItems,
		"failed_items":   stats.FailedItems,
		"skipped":        stats.Skipped,
		"duration_ms":    stats.EndTime.Sub(stats.StartTime).Milliseconds(),
	})
}

// LatestJob handles GET /api/v1/admin/jobs/latest.
func (h *AdminHandler) LatestJob(c *gin.Context) {
	job, err := h.jobRepo.Latest(c.Request.Context(), h.collection)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get latest job: " + err.Error(),
		})
		return
	}
	if job == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "No sync jobs recorded",
		})
		return
	}

	c.JSON(http.StatusOK, job)
}

// Export handles POST /api/v1/admin/export. It serializes the stored catalog
// and uploads the JSON artifact to object storage.
func (h *AdminHandler) Export(c *gin.Context) {
	if h.storage == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Object storage is not configured",
		})
		return
	}

	products, err := h.productRepo.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to load catalog: " + err.Error(),
		})
		return
	}

	data, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to serialize catalog: " + err.Error(),
		})
		return
	}

	key := fmt.Sprintf("exports/products-%s.json", time.Now().UTC().Format("20060102-150405"))
	if err := h.storage.Upload(c.Request.Context(), key, bytes.NewReader(data), int64(len(data)), "application/json"); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to upload artifact: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"key":   key,
		"url":   h.storage.GetURL(key),
		"count": len(products),
		"size":  len(data),
	})
}
