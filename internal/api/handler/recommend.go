package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/minhvu/coolsearch/internal/service"
)

// RecommendHandler handles conversational recommendation requests.
type RecommendHandler struct {
	searchService    *service.SearchService
	recommendService *service.RecommendService
}

// NewRecommendHandler creates a new recommend handler.
func NewRecommendHandler(searchService *service.SearchService, recommendService *service.RecommendService) *RecommendHandler {
	return &RecommendHandler{
		searchService:    searchService,
		recommendService: recommendService,
	}
}

// RecommendRequest is a search request plus conversation history.
type RecommendRequest struct {
	Query    string                `json:"query" binding:"required"`
	TopK     int                   `json:"top_k"`
	Category string                `json:"category,omitempty"`
	MinPrice int64                 `json:"min_price,omitempty"`
	MaxPrice int64                 `json:"max_price,omitempty"`
	History  []service.ChatMessage `json:"history,omitempty"`
}

// Recommend handles POST /api/v1/recommend. It searches the catalog and asks
// the LLM for a conversational reply grounded in the results.
func (h *RecommendHandler) Recommend(c *gin.Context) {
	if !h.recommendService.IsEnabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Recommendation is not configured",
		})
		return
	}

	var req RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	searchReq := service.SearchRequest{
		Query:    req.Query,
		TopK:     req.TopK,
		Category: req.Category,
		MinPrice: req.MinPrice,
		MaxPrice: req.MaxPrice,
	}
	searchResp, err := h.searchService.Search(c.Request.Context(), &searchReq)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Search failed: " + err.Error(),
		})
		return
	}

	reply, err := h.recommendService.Recommend(c.Request.Context(), req.Query, req.History, searchResp.Results)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Recommendation failed: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reply":   reply,
		"results": searchResp.Results,
		"query":   req.Query,
	})
}
