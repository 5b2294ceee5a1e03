package repositories

import (
	"context"
	"strings"

	"boutique/internal/apperrors"
	"boutique/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SetListQuery filters and pages the admin set listing.
type SetListQuery struct {
	OrderBy  string
	OrderAsc bool
	Limit    int
	Offset   int
	Name     string
	Type     string
	IsActive *bool
}

// SetRepository defines the interface for set data access.
type SetRepository interface {
	List(ctx context.Context, q SetListQuery) ([]models.Set, int64, error)
	GetByID(ctx context.Context, id string) (*models.Set, error)
	Create(ctx context.Context, set *models.Set) error
	Update(ctx context.Context, set *models.Set) error
	// DeleteCascade removes the set row, its image rows and its product links
	// in one transaction and returns the image rows that were removed.
	DeleteCascade(ctx context.Context, id string) ([]models.SetImage, error)
	AddProduct(ctx context.Context, setID, productID string) error
	RemoveProduct(ctx context.Context, setID, productID string) error
	ListProductIDs(ctx context.Context, setID string) ([]string, error)
	AddImage(ctx context.Context, image *models.SetImage) error
}

// GORMSetRepository is a GORM implementation of SetRepository.
type GORMSetRepository struct {
	db *gorm.DB
}

// NewGORMSetRepository creates a new GORMSetRepository.
func NewGORMSetRepository(db *gorm.DB) *GORMSetRepository {
	return &GORMSetRepository{db: db}
}

// List returns one page of sets and the total count matching the filters.
// OrderBy must already be a whitelisted column name.
func (r *GORMSetRepository) List(ctx context.Context, q SetListQuery) ([]models.Set, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Set{})
	if q.Name != "" {
		base = base.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q.Name)+"%")
	}
	if q.Type != "" {
		base = base.Where("type = ?", q.Type)
	}
	if q.IsActive != nil {
		base = base.Where("is_active = ?", *q.IsActive)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, translate(err, "count sets", nil)
	}

	direction := " DESC"
	if q.OrderAsc {
		direction = " ASC"
	}
	var sets []models.Set
	err := base.Session(&gorm.Session{}).
		Order(q.OrderBy + direction).
		Limit(q.Limit).
		Offset(q.Offset).
		Find(&sets).Error
	if err != nil {
		return nil, 0, translate(err, "list sets", nil)
	}
	return sets, total, nil
}

// GetByID returns a set with its images.
func (r *GORMSetRepository) GetByID(ctx context.Context, id string) (*models.Set, error) {
	var set models.Set
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		First(&set, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, "get set", apperrors.NotFound("set with ID %s not found", id))
	}
	return &set, nil
}

func (r *GORMSetRepository) Create(ctx context.Context, set *models.Set) error {
	if set.ID == "" {
		set.ID = uuid.New().String()
	}
	return translate(r.db.WithContext(ctx).Omit("Images").Create(set).Error, "create set", nil)
}

func (r *GORMSetRepository) Update(ctx context.Context, set *models.Set) error {
	res := r.db.WithContext(ctx).Model(&models.Set{}).Where("id = ?", set.ID).Updates(map[string]interface{}{
		"name":        set.Name,
		"slug":        set.Slug,
		"description": set.Description,
		"type":        set.Type,
		"is_active":   set.IsActive,
	})
	if res.Error != nil {
		return translate(res.Error, "update set", nil)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("set with ID %s not found for update", set.ID)
	}
	return nil
}

func (r *GORMSetRepository) DeleteCascade(ctx context.Context, id string) ([]models.SetImage, error) {
	var images []models.SetImage
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("set_id = ?", id).Find(&images).Error; err != nil {
			return translate(err, "load set images", nil)
		}
		if err := tx.Delete(&models.SetProduct{}, "set_id = ?", id).Error; err != nil {
			return translate(err, "delete set products", nil)
		}
		if err := tx.Delete(&models.SetImage{}, "set_id = ?", id).Error; err != nil {
			return translate(err, "delete set images", nil)
		}
		res := tx.Delete(&models.Set{}, "id = ?", id)
		if res.Error != nil {
			return translate(res.Error, "delete set", nil)
		}
		if res.RowsAffected == 0 {
			return apperrors.NotFound("set with ID %s not found for deletion", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return images, nil
}

// AddProduct links a product to a set. A second link for the same pair is a conflict.
func (r *GORMSetRepository) AddProduct(ctx context.Context, setID, productID string) error {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.SetProduct{}).
		Where("set_id = ? AND product_id = ?", setID, productID).
		Count(&count).Error
	if err != nil {
		return translate(err, "check set product", nil)
	}
	if count > 0 {
		return apperrors.Conflict("product is already in this set")
	}

	err = r.db.WithContext(ctx).Create(&models.SetProduct{SetID: setID, ProductID: productID}).Error
	if apperrors.Is(translate(err, "add set product", nil), apperrors.KindConflict) {
		return apperrors.Conflict("product is already in this set")
	}
	return translate(err, "add set product", nil)
}

func (r *GORMSetRepository) RemoveProduct(ctx context.Context, setID, productID string) error {
	res := r.db.WithContext(ctx).Delete(&models.SetProduct{}, "set_id = ? AND product_id = ?", setID, productID)
	if res.Error != nil {
		return translate(res.Error, "remove set product", nil)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("product %s is not in set %s", productID, setID)
	}
	return nil
}

func (r *GORMSetRepository) ListProductIDs(ctx context.Context, setID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&models.SetProduct{}).
		Where("set_id = ?", setID).
		Order("created_at").
		Pluck("product_id", &ids).Error
	if err != nil {
		return nil, translate(err, "list set products", nil)
	}
	return ids, nil
}

func (r *GORMSetRepository) AddImage(ctx context.Context, image *models.SetImage) error {
	if image.ID == "" {
		image.ID = uuid.New().String()
	}
	return translate(r.db.WithContext(ctx).Create(image).Error, "add set image", nil)
}
