package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"boutique/internal/apperrors"
	"boutique/internal/models"
	"boutique/internal/repositories"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

// Set listing defaults.
const (
	DefaultSetListLimit = 20
	MaxSetListLimit     = 100
)

// ImageStore stores set images as objects.
type ImageStore interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Remove(ctx context.Context, key string) error
}

// ListSetsQuery is the admin set listing request.
type ListSetsQuery struct {
	OrderBy  string `validate:"omitempty,oneof=created_at updated_at name"`
	OrderAsc bool
	Limit    int `validate:"gte=0"`
	Offset   int `validate:"gte=0"`
	Name     string `validate:"max=200"`
	Type     string `validate:"max=50"`
	IsActive *bool
}

// SetPage is one page of the set listing.
type SetPage struct {
	Sets   []models.Set `json:"sets"`
	Total  int64        `json:"total"`
	Limit  int          `json:"limit"`
	Offset int          `json:"offset"`
}

// SetInput is the editable part of a set.
type SetInput struct {
	Name        string `json:"name" validate:"required,min=2,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Type        string `json:"type" validate:"required,max=50"`
	IsActive    bool   `json:"is_active"`
}

// SetDetail is a set with its images and linked product ids.
type SetDetail struct {
	models.Set
	ProductIDs []string `json:"product_ids"`
}

// SetService handles the admin management of product sets.
type SetService struct {
	sets     repositories.SetRepository
	products repositories.ProductRepository
	images   ImageStore
	logger   *zap.Logger
}

// NewSetService creates a new SetService. images may be nil, in which case
// image uploads fail with a configuration error.
func NewSetService(sets repositories.SetRepository, products repositories.ProductRepository, images ImageStore, logger *zap.Logger) *SetService {
	return &SetService{
		sets:     sets,
		products: products,
		images:   images,
		logger:   logger,
	}
}

// List validates q, applies defaults and returns one page of sets.
func (s *SetService) List(ctx context.Context, q ListSetsQuery) (*SetPage, error) {
	if err := validateStruct(q); err != nil {
		return nil, err
	}
	if q.OrderBy == "" {
		q.OrderBy = "created_at"
	}
	if q.Limit == 0 {
		q.Limit = DefaultSetListLimit
	}
	if q.Limit > MaxSetListLimit {
		q.Limit = MaxSetListLimit
	}

	sets, total, err := s.sets.List(ctx, repositories.SetListQuery{
		OrderBy:  q.OrderBy,
		OrderAsc: q.OrderAsc,
		Limit:    q.Limit,
		Offset:   q.Offset,
		Name:     strings.TrimSpace(q.Name),
		Type:     q.Type,
		IsActive: q.IsActive,
	})
	if err != nil {
		return nil, err
	}
	return &SetPage{Sets: sets, Total: total, Limit: q.Limit, Offset: q.Offset}, nil
}

// Get returns a set with its images and product ids.
func (s *SetService) Get(ctx context.Context, id string) (*SetDetail, error) {
	set, err := s.sets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	productIDs, err := s.sets.ListProductIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	return &SetDetail{Set: *set, ProductIDs: productIDs}, nil
}

// Create stores a new set with a slug derived from its name.
func (s *SetService) Create(ctx context.Context, input SetInput) (*models.Set, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	set := &models.Set{
		Name:        input.Name,
		Slug:        slug.Make(input.Name),
		Description: input.Description,
		Type:        input.Type,
		IsActive:    input.IsActive,
	}
	if err := s.sets.Create(ctx, set); err != nil {
		if apperrors.Is(err, apperrors.KindConflict) {
			return nil, apperrors.Conflict("a set named %q already exists", input.Name)
		}
		return nil, err
	}
	s.logger.Info("set created", zap.String("set_id", set.ID), zap.String("slug", set.Slug))
	return set, nil
}

// Update replaces the editable fields of a set.
func (s *SetService) Update(ctx context.Context, id string, input SetInput) (*models.Set, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	set, err := s.sets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	set.Name = input.Name
	set.Slug = slug.Make(input.Name)
	set.Description = input.Description
	set.Type = input.Type
	set.IsActive = input.IsActive
	if err := s.sets.Update(ctx, set); err != nil {
		if apperrors.Is(err, apperrors.KindConflict) {
			return nil, apperrors.Conflict("a set named %q already exists", input.Name)
		}
		return nil, err
	}
	return set, nil
}

// AddProduct links an existing product to a set.
func (s *SetService) AddProduct(ctx context.Context, setID, productID string) error {
	if _, err := s.sets.GetByID(ctx, setID); err != nil {
		return err
	}
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return err
	}
	return s.sets.AddProduct(ctx, setID, productID)
}

// RemoveProduct unlinks a product from a set.
func (s *SetService) RemoveProduct(ctx context.Context, setID, productID string) error {
	return s.sets.RemoveProduct(ctx, setID, productID)
}

// AddImage uploads an image and appends it to the set. The uploaded object
// is removed again if the row cannot be saved.
func (s *SetService) AddImage(ctx context.Context, setID, filename string, r io.Reader, size int64, contentType string) (*models.SetImage, error) {
	if s.images == nil {
		return nil, apperrors.Configuration("image storage is not configured")
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, apperrors.Validation("file must be an image")
	}
	set, err := s.sets.GetByID(ctx, setID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("sets/%s/%s%s", setID, uuid.New().String(), strings.ToLower(path.Ext(filename)))
	url, err := s.images.Upload(ctx, key, r, size, contentType)
	if err != nil {
		return nil, apperrors.Provider(err, "could not upload image")
	}

	image := &models.SetImage{
		SetID:     setID,
		ObjectKey: key,
		URL:       url,
		Position:  len(set.Images),
	}
	if err := s.sets.AddImage(ctx, image); err != nil {
		if rmErr := s.images.Remove(ctx, key); rmErr != nil {
			s.logger.Error("failed to remove orphaned image", zap.String("key", key), zap.Error(rmErr))
		}
		return nil, err
	}
	return image, nil
}

// DeleteResult lists storage objects that could not be removed after the
// set rows were deleted.
type DeleteResult struct {
	OrphanedKeys []string `json:"orphaned_keys,omitempty"`
}

// Delete removes the set, its images and product links in one transaction,
// then removes the image objects from storage. Storage failures do not undo
// the delete; the affected keys are logged and returned.
func (s *SetService) Delete(ctx context.Context, id string) (*DeleteResult, error) {
	images, err := s.sets.DeleteCascade(ctx, id)
	if err != nil {
		return nil, err
	}

	result := &DeleteResult{}
	for _, image := range images {
		if s.images == nil {
			result.OrphanedKeys = append(result.OrphanedKeys, image.ObjectKey)
			continue
		}
		if err := s.images.Remove(ctx, image.ObjectKey); err != nil {
			s.logger.Error("failed to remove set image from storage",
				zap.String("set_id", id),
				zap.String("key", image.ObjectKey),
				zap.Error(err))
			result.OrphanedKeys = append(result.OrphanedKeys, image.ObjectKey)
		}
	}
	s.logger.Info("set deleted", zap.String("set_id", id), zap.Int("images", len(images)), zap.Int("orphaned", len(result.OrphanedKeys)))
	return result, nil
}
