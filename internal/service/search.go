package service

import (
	"context"

	"github.com/minhvu/coolsearch/internal/domain"
	"github.com/minhvu/coolsearch/internal/logger"
	"github.com/minhvu/coolsearch/internal/repository"
)

// SearchConfig holds configuration for the search service.
type SearchConfig struct {
	DefaultTopK     int
	MaxTopK         int
	OverfetchFactor int
	ScoreThreshold  float32
}

// SearchService answers free-text queries with a ranked, filtered product list.
type SearchService struct {
	productRepo     *repository.ProductRepository
	index           VectorIndex
	embedding       EmbeddingProvider
	logger          *logger.Logger
	defaultTopK     int
	maxTopK         int
	overfetchFactor int
	scoreThreshold  float32
}

// NewSearchService creates a search service.
func NewSearchService(
	productRepo *repository.ProductRepository,
	index VectorIndex,
	embedding EmbeddingProvider,
	log *logger.Logger,
	cfg *SearchConfig,
) *SearchService {
	s := &SearchService{
		productRepo:     productRepo,
		index:           index,
		embedding:       embedding,
		logger:          log,
		defaultTopK:     5,
		maxTopK:         20,
		overfetchFactor: 2,
	}
	if cfg != nil {
		if cfg.DefaultTopK > 0 {
			s.defaultTopK = cfg.DefaultTopK
		}
		if cfg.MaxTopK > 0 {
			s.maxTopK = cfg.MaxTopK
		}
		if cfg.OverfetchFactor > 0 {
			s.overfetchFactor = cfg.OverfetchFactor
		}
		s.scoreThreshold = cfg.ScoreThreshold
	}
	return s
}

// SearchRequest represents a product search request. Category is an equality
// filter with "" meaning no filter; MinPrice/MaxPrice are inclusive bounds with
// MaxPrice <= 0 meaning no upper bound.
type SearchRequest struct {
	Query    string `json:"query" binding:"required"`
	TopK     int    `json:"top_k"`
	Category string `json:"category,omitempty"`
	MinPrice int64  `json:"min_price,omitempty"`
	MaxPrice int64  `json:"max_price,omitempty"`
}

// ProductResult represents a single search result.
type ProductResult struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Category        string  `json:"category"`
	Price           int64   `json:"price"`
	Description     string  `json:"description"`
	DiscountPercent int     `json:"discount_percent"`
	Score           float32 `json:"score"`
}

// SearchResponse represents the search response.
type SearchResponse struct {
	Results []ProductResult `json:"results"`
	Total   int             `json:"total"`
	Query   string          `json:"query"`
}

// Search embeds the query, over-fetches candidates from the vector store, and
// applies the category/price filters client-side. Results keep the store's
// similarity-descending order; at most TopK survive. An empty result after
// filtering is a normal outcome.
func (s *SearchService) Search(ctx context.Context, req *SearchRequest) (*SearchResponse, error) {
	if req.TopK <= 0 {
		req.TopK = s.defaultTopK
	}
	if req.TopK > s.maxTopK {
		req.TopK = s.maxTopK
	}

	ctx = logger.WithFields(ctx, logger.Fields{
		logger.FieldComponent: "search",
	})
	logger.CtxInfo(ctx, "Performing product search: query=%q, top_k=%d, category=%q, price=[%d,%d]",
		req.Query, req.TopK, req.Category, req.MinPrice, req.MaxPrice)

	queryVector, err := s.embedding.Embed(ctx, req.Query)
	if err != nil {
		return nil, &ProviderError{Op: "embed query", Err: err}
	}

	// Over-fetch so the client-side filters have enough candidates left. The
	// factor is heuristic, not a sufficiency guarantee.
	candidates, err := s.index.Search(ctx, queryVector, req.TopK*s.overfetchFactor)
	if err != nil {
		return nil, &StoreError{Op: "search", Err: err}
	}

	results := make([]ProductResult, 0, req.TopK)
	for _, candidate := range candidates {
		if candidate.Payload == nil {
			continue
		}
		if s.scoreThreshold > 0 && candidate.Score < s.scoreThreshold {
			continue
		}
		if !matchesFilters(candidate.Payload, req) {
			continue
		}
		results = append(results, ProductResult{
			ID:              candidate.Payload.ProductID,
			Title:           candidate.Payload.Title,
			Category:        candidate.Payload.Category,
			Price:           candidate.Payload.Price,
			Description:     candidate.Payload.Description,
			DiscountPercent: candidate.Payload.DiscountPercent,
			Score:           candidate.Score,
		})
		if len(results) >= req.TopK {
			break
		}
	}

	return &SearchResponse{
		Results: results,
		Total:   len(results),
		Query:   req.Query,
	}, nil
}

// matchesFilters applies the category equality and inclusive price-range
// post-filters to one candidate.
func matchesFilters(payload *repository.ProductPayload, req *SearchRequest) bool {
	if req.Category != "" && payload.Category != req.Category {
		return false
	}
	if payload.Price < req.MinPrice {
		return false
	}
	if req.MaxPrice > 0 && payload.Price > req.MaxPrice {
		return false
	}
	return true
}

// GetCategories returns all categories present in the stored catalog.
func (s *SearchService) GetCategories(ctx context.Context) ([]string, error) {
	return s.productRepo.GetCategories(ctx)
}

// GetProduct retrieves a product by id.
func (s *SearchService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.productRepo.GetByID(ctx, id)
}

// ProductListResponse represents the response for listing products.
type ProductListResponse struct {
	Results []ProductResult `json:"results"`
	Total   int             `json:"total"`
	Limit   int             `json:"limit"`
	Offset  int             `json:"offset"`
}

// ListProducts retrieves products from the catalog with an optional category
// filter, in search-result format for API consistency. Score is zero because
// listing is not a similarity query.
func (s *SearchService) ListProducts(ctx context.Context, category string, limit, offset int) (*ProductListResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	products, err := s.productRepo.List(ctx, category, limit, offset)
	if err != nil {
		return nil, err
	}

	results := make([]ProductResult, len(products))
	for i, p := range products {
		results[i] = ProductResult{
			ID:              p.ID,
			Title:           p.Title,
			Category:        p.Category,
			Price:           p.Price,
			Description:     p.Description,
			DiscountPercent: p.DiscountPercent,
		}
	}

	return &ProductListResponse{
		Results: results,
		Total:   len(results),
		Limit:   limit,
		Offset:  offset,
	}, nil
}

// GetStats returns catalog and index statistics.
func (s *SearchService) GetStats(ctx context.Context) (map[string]interface{}, error) {
	vectorCount, err := s.index.Count(ctx)
	if err != nil {
		return nil, &StoreError{Op: "count", Err: err}
	}

	productCount, err := s.productRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	categories, err := s.productRepo.GetCategories(ctx)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"vector_count":     vectorCount,
		"product_count":    productCount,
		"total_categories": len(categories),
		"collection":       s.index.Collection(),
		"embedding_model":  s.embedding.Model(),
		"dimensions":       s.embedding.Dimensions(),
	}, nil
}
