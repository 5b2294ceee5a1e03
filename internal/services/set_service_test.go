package services_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"boutique/internal/apperrors"
	"boutique/internal/models"
	"boutique/internal/repositories"
	"boutique/internal/services"
	"boutique/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockImageStore is a mock implementation of services.ImageStore
type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	args := m.Called(key, size, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockImageStore) Remove(ctx context.Context, key string) error {
	args := m.Called(key)
	return args.Error(0)
}

type setFixture struct {
	service  *services.SetService
	products repositories.ProductRepository
	images   *MockImageStore
}

func newSetFixture(t *testing.T) *setFixture {
	t.Helper()
	db := testutil.NewDB(t)
	products := repositories.NewGORMProductRepository(db)
	images := new(MockImageStore)
	return &setFixture{
		service:  services.NewSetService(repositories.NewGORMSetRepository(db), products, images, zap.NewNop()),
		products: products,
		images:   images,
	}
}

func TestSetService_CreateAndList(t *testing.T) {
	ctx := context.Background()
	f := newSetFixture(t)

	for _, input := range []services.SetInput{
		{Name: "Bridal Collection", Type: "collection", IsActive: true},
		{Name: "Summer Edit", Type: "edit", IsActive: true},
		{Name: "Archive Bridal", Type: "collection"},
	} {
		_, err := f.service.Create(ctx, input)
		require.NoError(t, err)
	}

	_, err := f.service.Create(ctx, services.SetInput{Name: "Bridal Collection", Type: "collection"})
	assert.True(t, apperrors.Is(err, apperrors.KindConflict))
	_, err = f.service.Create(ctx, services.SetInput{Name: "", Type: "collection"})
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))

	page, err := f.service.List(ctx, services.ListSetsQuery{Name: "BRIDAL", OrderBy: "name", OrderAsc: true})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	require.Len(t, page.Sets, 2)
	assert.Equal(t, "Archive Bridal", page.Sets[0].Name)
	assert.Equal(t, services.DefaultSetListLimit, page.Limit)

	active := true
	page, err = f.service.List(ctx, services.ListSetsQuery{IsActive: &active, Limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, services.MaxSetListLimit, page.Limit)

	page, err = f.service.List(ctx, services.ListSetsQuery{Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Len(t, page.Sets, 1)

	_, err = f.service.List(ctx, services.ListSetsQuery{OrderBy: "price; DROP TABLE sets"})
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
	_, err = f.service.List(ctx, services.ListSetsQuery{Offset: -1})
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
}

func TestSetService_Products(t *testing.T) {
	ctx := context.Background()
	f := newSetFixture(t)
	set, err := f.service.Create(ctx, services.SetInput{Name: "Night Set", Type: "collection"})
	require.NoError(t, err)
	product := &models.Product{Name: "Chemise", Price: 59, Variants: []models.ProductVariant{{Size: "S", Stock: 1}}}
	require.NoError(t, f.products.Create(ctx, product))

	require.NoError(t, f.service.AddProduct(ctx, set.ID, product.ID))
	err = f.service.AddProduct(ctx, set.ID, product.ID)
	assert.True(t, apperrors.Is(err, apperrors.KindConflict))
	err = f.service.AddProduct(ctx, set.ID, "missing")
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))

	detail, err := f.service.Get(ctx, set.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{product.ID}, detail.ProductIDs)

	require.NoError(t, f.service.RemoveProduct(ctx, set.ID, product.ID))
	err = f.service.RemoveProduct(ctx, set.ID, product.ID)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
}

func TestSetService_ImagesAndDelete(t *testing.T) {
	ctx := context.Background()
	f := newSetFixture(t)
	set, err := f.service.Create(ctx, services.SetInput{Name: "Lookbook", Type: "edit"})
	require.NoError(t, err)

	_, err = f.service.AddImage(ctx, set.ID, "notes.txt", strings.NewReader("x"), 1, "text/plain")
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))

	keyFor := mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "sets/"+set.ID+"/") && strings.HasSuffix(key, ".jpg")
	})
	f.images.On("Upload", keyFor, int64(3), "image/jpeg").Return("http://cdn/img-1.jpg", nil).Twice()

	first, err := f.service.AddImage(ctx, set.ID, "front.JPG", strings.NewReader("abc"), 3, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, 0, first.Position)
	second, err := f.service.AddImage(ctx, set.ID, "back.jpg", strings.NewReader("abc"), 3, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, 1, second.Position)

	// One object fails to delete; the set is gone regardless
	f.images.On("Remove", first.ObjectKey).Return(nil).Once()
	f.images.On("Remove", second.ObjectKey).Return(errors.New("bucket unreachable")).Once()

	result, err := f.service.Delete(ctx, set.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{second.ObjectKey}, result.OrphanedKeys)

	_, err = f.service.Get(ctx, set.ID)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
	_, err = f.service.Delete(ctx, set.ID)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
	f.images.AssertExpectations(t)
}

func TestSetService_AddImageWithoutStorage(t *testing.T) {
	db := testutil.NewDB(t)
	service := services.NewSetService(repositories.NewGORMSetRepository(db), repositories.NewGORMProductRepository(db), nil, zap.NewNop())

	_, err := service.AddImage(context.Background(), "s-1", "a.png", strings.NewReader("x"), 1, "image/png")
	assert.True(t, apperrors.Is(err, apperrors.KindConfiguration))
}
