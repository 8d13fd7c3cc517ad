package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/qrmenu/internal/models"
)

// RemoteStore is the durability-of-record behind a tenant snapshot. Every
// method is a single request: no retries, no batching. Missing records map
// to ErrNotFound, everything else to TransientError.
type RemoteStore interface {
	FetchBusinessBySlug(ctx context.Context, slug string) (*models.Business, error)
	FetchCategories(ctx context.Context, businessID uuid.UUID) ([]models.Category, error)
	FetchProducts(ctx context.Context, businessID uuid.UUID) ([]models.Product, error)
	FetchTags(ctx context.Context, businessID uuid.UUID) ([]string, error)

	UpdateBusiness(ctx context.Context, business *models.Business) error
	InsertCategory(ctx context.Context, category *models.Category) error
	UpdateCategory(ctx context.Context, category *models.Category) error
	// DeleteCategory cascades: member products are removed in the same
	// transaction as the category itself.
	DeleteCategory(ctx context.Context, businessID, categoryID uuid.UUID) error
	InsertProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, businessID, productID uuid.UUID) error
	InsertTag(ctx context.Context, businessID uuid.UUID, name string) error
	DeleteTag(ctx context.Context, businessID uuid.UUID, name string) error
}

type gormRemote struct {
	db *gorm.DB
}

// NewRemoteStore wraps a gorm connection as the RemoteStore collaborator.
func NewRemoteStore(db *gorm.DB) RemoteStore {
	return &gormRemote{db: db}
}

func (r *gormRemote) FetchBusinessBySlug(ctx context.Context, slug string) (*models.Business, error) {
	var business models.Business
	if err := r.db.WithContext(ctx).First(&business, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, transient("fetch business", err)
	}
	return &business, nil
}

func (r *gormRemote) FetchCategories(ctx context.Context, businessID uuid.UUID) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("created_at asc").
		Find(&categories).Error; err != nil {
		return nil, transient("fetch categories", err)
	}
	return categories, nil
}

func (r *gormRemote) FetchProducts(ctx context.Context, businessID uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("created_at asc").
		Find(&products).Error; err != nil {
		return nil, transient("fetch products", err)
	}
	return products, nil
}

func (r *gormRemote) FetchTags(ctx context.Context, businessID uuid.UUID) ([]string, error) {
	var names []string
	if err := r.db.WithContext(ctx).
		Model(&models.Tag{}).
		Where("business_id = ?", businessID).
		Order("created_at asc").
		Pluck("name", &names).Error; err != nil {
		return nil, transient("fetch tags", err)
	}
	return names, nil
}

func (r *gormRemote) UpdateBusiness(ctx context.Context, business *models.Business) error {
	if err := r.db.WithContext(ctx).Save(business).Error; err != nil {
		return transient("update business", err)
	}
	return nil
}

func (r *gormRemote) InsertCategory(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return transient("insert category", err)
	}
	return nil
}

func (r *gormRemote) UpdateCategory(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Save(category).Error; err != nil {
		return transient("update category", err)
	}
	return nil
}

func (r *gormRemote) DeleteCategory(ctx context.Context, businessID, categoryID uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Product{}, "business_id = ? AND category_id = ?", businessID, categoryID).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Category{}, "business_id = ? AND id = ?", businessID, categoryID).Error
	})
	if err != nil {
		return transient("delete category", err)
	}
	return nil
}

func (r *gormRemote) InsertProduct(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return transient("insert product", err)
	}
	return nil
}

func (r *gormRemote) UpdateProduct(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return transient("update product", err)
	}
	return nil
}

func (r *gormRemote) DeleteProduct(ctx context.Context, businessID, productID uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&models.Product{}, "business_id = ? AND id = ?", businessID, productID).Error; err != nil {
		return transient("delete product", err)
	}
	return nil
}

func (r *gormRemote) InsertTag(ctx context.Context, businessID uuid.UUID, name string) error {
	tag := models.Tag{BusinessID: businessID, Name: name}
	if err := r.db.WithContext(ctx).Create(&tag).Error; err != nil {
		return transient("insert tag", err)
	}
	return nil
}

func (r *gormRemote) DeleteTag(ctx context.Context, businessID uuid.UUID, name string) error {
	if err := r.db.WithContext(ctx).Delete(&models.Tag{}, "business_id = ? AND name = ?", businessID, name).Error; err != nil {
		return transient("delete tag", err)
	}
	return nil
}
