package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/minhvu/coolsearch/internal/repository"
)

func candidate(id, category string, price int64, score float32) repository.SearchResult {
	return repository.SearchResult{
		ID:    id,
		Score: score,
		Payload: &repository.ProductPayload{
			ProductID:   id,
			Title:       "Title " + id,
			Category:    category,
			Price:       price,
			Description: "Description " + id,
		},
	}
}

func newTestSearchService(index *fakeIndex, cfg *SearchConfig) *SearchService {
	return NewSearchService(nil, index, &fakeEmbedder{dims: 512}, nil, cfg)
}

func TestSearchDefaultsAndOverfetch(t *testing.T) {
	index := &fakeIndex{}
	svc := newTestSearchService(index, nil)

	resp, err := svc.Search(context.Background(), &SearchRequest{Query: "áo thun chạy bộ"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	// Default top_k is 5; the store is asked for twice that.
	if index.lastLimit != 10 {
		t.Errorf("store limit = %d, want 10", index.lastLimit)
	}
	if len(resp.Results) != 0 {
		t.Errorf("got %d results from empty store, want 0", len(resp.Results))
	}
	if resp.Query != "áo thun chạy bộ" {
		t.Errorf("Query = %q, want the original query echoed", resp.Query)
	}
}

func TestSearchTopKCap(t *testing.T) {
	index := &fakeIndex{}
	svc := newTestSearchService(index, &SearchConfig{MaxTopK: 20})

	_, err := svc.Search(context.Background(), &SearchRequest{Query: "áo", TopK: 100})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if index.lastLimit != 40 {
		t.Errorf("store limit = %d, want 40 (capped top_k 20 x 2)", index.lastLimit)
	}
}

func TestSearchPreservesStoreOrderAndTruncates(t *testing.T) {
	index := &fakeIndex{
		results: []repository.SearchResult{
			candidate("prod_0001", "Áo thun", 129000, 0.95),
			candidate("prod_0002", "Áo thun", 159000, 0.90),
			candidate("prod_0003", "Áo thun", 199000, 0.85),
			candidate("prod_0004", "Áo thun", 99000, 0.80),
		},
	}
	svc := newTestSearchService(index, nil)

	resp, err := svc.Search(context.Background(), &SearchRequest{Query: "áo thun", TopK: 2})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("got %d results, want 2", len(resp.Results))
	}
	if resp.Results[0].ID != "prod_0001" || resp.Results[1].ID != "prod_0002" {
		t.Errorf("result order = [%s %s], want [prod_0001 prod_0002]",
			resp.Results[0].ID, resp.Results[1].ID)
	}
	if resp.Total != 2 {
		t.Errorf("Total = %d, want 2", resp.Total)
	}
}

func TestSearchCategoryFilter(t *testing.T) {
	index := &fakeIndex{
		results: []repository.SearchResult{
			candidate("prod_0001", "Áo thun", 129000, 0.95),
			candidate("prod_0002", "Quần", 349000, 0.90),
			candidate("prod_0003", "Áo thun", 199000, 0.85),
		},
	}
	svc := newTestSearchService(index, nil)

	resp, err := svc.Search(context.Background(), &SearchRequest{Query: "đồ mặc nhà", Category: "Quần"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].ID != "prod_0002" {
		t.Errorf("results = %+v, want only prod_0002", resp.Results)
	}
}

func TestSearchPriceFilters(t *testing.T) {
	index := &fakeIndex{
		results: []repository.SearchResult{
			candidate("prod_0001", "Áo thun", 99000, 0.95),
			candidate("prod_0002", "Áo thun", 150000, 0.90),
			candidate("prod_0003", "Áo thun", 200000, 0.85),
			candidate("prod_0004", "Áo thun", 300000, 0.80),
		},
	}
	svc := newTestSearchService(index, nil)

	tests := []struct {
		name     string
		min, max int64
		wantIDs  []string
	}{
		{"min only", 150000, 0, []string{"prod_0002", "prod_0003", "prod_0004"}},
		{"max only", 0, 150000, []string{"prod_0001", "prod_0002"}},
		{"range inclusive at both bounds", 150000, 200000, []string{"prod_0002", "prod_0003"}},
		{"range excludes everything", 400000, 500000, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.Search(context.Background(), &SearchRequest{
				Query:    "áo thun",
				MinPrice: tt.min,
				MaxPrice: tt.max,
			})
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			if len(resp.Results) != len(tt.wantIDs) {
				t.Fatalf("got %d results, want %d", len(resp.Results), len(tt.wantIDs))
			}
			for i, want := range tt.wantIDs {
				if resp.Results[i].ID != want {
					t.Errorf("results[%d].ID = %q, want %q", i, resp.Results[i].ID, want)
				}
			}
		})
	}
}

func TestSearchSkipsNilPayload(t *testing.T) {
	index := &fakeIndex{
		results: []repository.SearchResult{
			{ID: "orphan", Score: 0.99},
			candidate("prod_0001", "Áo thun", 129000, 0.95),
		},
	}
	svc := newTestSearchService(index, nil)

	resp, err := svc.Search(context.Background(), &SearchRequest{Query: "áo thun"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].ID != "prod_0001" {
		t.Errorf("results = %+v, want only prod_0001", resp.Results)
	}
}

func TestSearchScoreThreshold(t *testing.T) {
	index := &fakeIndex{
		results: []repository.SearchResult{
			candidate("prod_0001", "Áo thun", 129000, 0.95),
			candidate("prod_0002", "Áo thun", 159000, 0.40),
		},
	}
	svc := newTestSearchService(index, &SearchConfig{ScoreThreshold: 0.5})

	resp, err := svc.Search(context.Background(), &SearchRequest{Query: "áo thun"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].ID != "prod_0001" {
		t.Errorf("results = %+v, want only prod_0001", resp.Results)
	}
}

func TestMatchesFilters(t *testing.T) {
	payload := &repository.ProductPayload{Category: "Áo thun", Price: 150000}

	tests := []struct {
		name string
		req  SearchRequest
		want bool
	}{
		{"no filters", SearchRequest{}, true},
		{"matching category", SearchRequest{Category: "Áo thun"}, true},
		{"other category", SearchRequest{Category: "Quần"}, false},
		{"price at min bound", SearchRequest{MinPrice: 150000}, true},
		{"price below min", SearchRequest{MinPrice: 150001}, false},
		{"price at max bound", SearchRequest{MaxPrice: 150000}, true},
		{"price above max", SearchRequest{MaxPrice: 149999}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			if got := matchesFilters(payload, &req); got != tt.want {
				t.Errorf("matchesFilters() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProviderAndStoreErrorUnwrap(t *testing.T) {
	base := fmt.Errorf("boom")
	var err error = &ProviderError{Op: "embed", Err: base}
	if got := err.(*ProviderError).Unwrap(); got != base {
		t.Errorf("ProviderError.Unwrap() = %v, want %v", got, base)
	}
	err = &StoreError{Op: "count", Err: base}
	if got := err.(*StoreError).Unwrap(); got != base {
		t.Errorf("StoreError.Unwrap() = %v, want %v", got, base)
	}
}
