package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/minhvu/coolsearch/internal/config"
	"github.com/minhvu/coolsearch/internal/domain"
)

func newTestDB(t *testing.T) *ProductRepository {
	t.Helper()
	db, err := InitDB(&config.DatabaseConfig{
		Driver:      "sqlite",
		Path:        filepath.Join(t.TempDir(), "test.db"),
		AutoMigrate: true,
	})
	if err != nil {
		t.Fatalf("InitDB() error = %v", err)
	}
	return NewProductRepository(db)
}

func seedProducts(t *testing.T, repo *ProductRepository) {
	t.Helper()
	products := []domain.Product{
		{ID: "prod_0001", Title: "Áo Thun Nam Basic", Category: "Áo thun", Price: 129000, OriginalPrice: 129000},
		{ID: "prod_0002", Title: "Quần Jogger Nam", Category: "Quần", Price: 349000, OriginalPrice: 437000, DiscountPercent: 20},
		{ID: "prod_0003", Title: "Áo Thun Chạy Bộ", Category: "Áo thun", Price: 199000, OriginalPrice: 199000},
	}
	if err := repo.UpsertAll(context.Background(), products); err != nil {
		t.Fatalf("UpsertAll() error = %v", err)
	}
}

func TestProductRepositoryUpsertAndGet(t *testing.T) {
	repo := newTestDB(t)
	ctx := context.Background()

	product := &domain.Product{
		ID:       "prod_0001",
		Title:    "Áo Thun Nam Basic",
		Category: "Áo thun",
		Price:    129000,
	}
	if err := repo.Upsert(ctx, product); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	got, err := repo.GetByID(ctx, "prod_0001")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Title != "Áo Thun Nam Basic" {
		t.Errorf("Title = %q", got.Title)
	}

	// Upserting the same id replaces the record.
	product.Price = 99000
	if err := repo.Upsert(ctx, product); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	got, err = repo.GetByID(ctx, "prod_0001")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Price != 99000 {
		t.Errorf("Price after upsert = %d, want 99000", got.Price)
	}

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 1 {
		t.Errorf("Count() = %d, want 1", count)
	}
}

func TestProductRepositoryList(t *testing.T) {
	repo := newTestDB(t)
	seedProducts(t, repo)
	ctx := context.Background()

	all, err := repo.List(ctx, "", 10, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d products, want 3", len(all))
	}
	if all[0].ID != "prod_0001" || all[2].ID != "prod_0003" {
		t.Errorf("list not ordered by id: %s .. %s", all[0].ID, all[2].ID)
	}

	shirts, err := repo.List(ctx, "Áo thun", 10, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(shirts) != 2 {
		t.Errorf("got %d products in category, want 2", len(shirts))
	}

	page, err := repo.List(ctx, "", 2, 2)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(page) != 1 || page[0].ID != "prod_0003" {
		t.Errorf("offset page = %+v, want just prod_0003", page)
	}
}

func TestProductRepositoryGetCategories(t *testing.T) {
	repo := newTestDB(t)
	seedProducts(t, repo)

	categories, err := repo.GetCategories(context.Background())
	if err != nil {
		t.Fatalf("GetCategories() error = %v", err)
	}
	if len(categories) != 2 {
		t.Fatalf("got %d categories, want 2", len(categories))
	}
}

func TestSyncJobRepositoryLifecycle(t *testing.T) {
	db, err := InitDB(&config.DatabaseConfig{
		Driver:      "sqlite",
		Path:        filepath.Join(t.TempDir(), "jobs.db"),
		AutoMigrate: true,
	})
	if err != nil {
		t.Fatalf("InitDB() error = %v", err)
	}
	repo := NewSyncJobRepository(db)
	ctx := context.Background()

	job, err := repo.Start(ctx, "coolmate-products", 100)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if job.Status != domain.JobStatusRunning {
		t.Errorf("Status = %q, want running", job.Status)
	}

	if err := repo.Finish(ctx, job, domain.JobStatusCompleted, 98, 2, ""); err != nil {
		t.Fatalf("Finish() error = %v", err)
	}

	latest, err := repo.Latest(ctx, "coolmate-products")
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if latest == nil {
		t.Fatal("Latest() = nil")
	}
	if latest.Status != domain.JobStatusCompleted || latest.UploadedItems != 98 {
		t.Errorf("latest job = %+v", latest)
	}
}

func TestSyncJobRepositoryLatestEmpty(t *testing.T) {
	db, err := InitDB(&config.DatabaseConfig{
		Driver:      "sqlite",
		Path:        filepath.Join(t.TempDir(), "jobs.db"),
		AutoMigrate: true,
	})
	if err != nil {
		t.Fatalf("InitDB() error = %v", err)
	}
	repo := NewSyncJobRepository(db)

	latest, err := repo.Latest(context.Background(), "coolmate-products")
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if latest != nil {
		t.Errorf("Latest() = %+v, want nil", latest)
	}
}
