package repository

import (
	"context"

	"github.com/minhvu/coolsearch/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductRepository handles product catalog persistence.
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new ProductRepository bound to db.
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Upsert creates or replaces a product record keyed by id.
func (r *ProductRepository) Upsert(ctx context.Context, product *domain.Product) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(product).Error
}

// UpsertAll creates or replaces a batch of product records.
func (r *ProductRepository) UpsertAll(ctx context.Context, products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&products).Error
}

// GetByID retrieves a product by its id.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	var product domain.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// GetByIDs retrieves products matching the given ids.
func (r *ProductRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	var products []domain.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// List retrieves products ordered by id with an optional category filter.
func (r *ProductRepository) List(ctx context.Context, category string, limit, offset int) ([]domain.Product, error) {
	query := r.db.WithContext(ctx).Model(&domain.Product{}).Order("id")
	if category != "" {
		query = query.Where("category = ?", category)
	}
	var products []domain.Product
	if err := query.Limit(limit).Offset(offset).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ListAll retrieves the whole catalog ordered by id.
func (r *ProductRepository) ListAll(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := r.db.WithContext(ctx).Order("id").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Count returns the number of stored products.
func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Product{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GetCategories returns the distinct categories present in the catalog.
func (r *ProductRepository) GetCategories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := r.db.WithContext(ctx).Model(&domain.Product{}).
		Distinct("category").Order("category").Pluck("category", &categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}
