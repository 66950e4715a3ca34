package catalog

import (
	"context"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	categories []CategoryRow
	products   []ProductRow
	lastFilter ListFilter
}

func (f *fakeRepo) ListCategories(ctx context.Context) ([]CategoryRow, error) {
	return f.categories, nil
}

func (f *fakeRepo) CountProducts(ctx context.Context, filter ListFilter) (int64, error) {
	f.lastFilter = filter
	return int64(len(f.products)), nil
}

func (f *fakeRepo) ListProducts(ctx context.Context, filter ListFilter) ([]ProductRow, error) {
	f.lastFilter = filter
	return f.products, nil
}

func (f *fakeRepo) GetProductBySlug(ctx context.Context, slug string) (ProductRow, error) {
	for _, p := range f.products {
		if p.Slug == slug {
			return p, nil
		}
	}
	return ProductRow{}, ErrProductNotFound
}

func TestParseListParamsDefaultsAndCaps(t *testing.T) {
	svc, err := NewService(ServiceConfig{Repo: &fakeRepo{}, DefaultLimit: 20, MaxLimit: 50})
	require.NoError(t, err)

	params, err := svc.ParseListParams(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, 1, params.Page)
	assert.Equal(t, 20, params.Limit)

	params, err = svc.ParseListParams(url.Values{"limit": {"500"}, "page": {"3"}})
	require.NoError(t, err)
	assert.Equal(t, 3, params.Page)
	assert.Equal(t, 50, params.Limit)

	_, err = svc.ParseListParams(url.Values{"page": {"zero"}})
	assert.Error(t, err)
}

func TestListProductsExposesInventoryLocations(t *testing.T) {
	repo := &fakeRepo{products: []ProductRow{
		{ID: uuid.New(), Slug: "sona-masoori-rice", Title: "Sona Masoori Rice 5kg", Price: 45000,
			Locations: []string{"Indiranagar", "Koramangala"}},
		{ID: uuid.New(), Slug: "toor-dal", Title: "Toor Dal 1kg", Price: 16000},
	}}
	svc, err := NewService(ServiceConfig{Repo: repo, DefaultLimit: 20, MaxLimit: 50})
	require.NoError(t, err)

	result, err := svc.ListProducts(context.Background(), ListParams{Page: 2, Limit: 20})
	require.NoError(t, err)
	require.Len(t, result.Items, 2)
	assert.Equal(t, []string{"Indiranagar", "Koramangala"}, result.Items[0].InventoryLocations)
	assert.Equal(t, []string{}, result.Items[1].InventoryLocations, "nil locations marshal as empty array")
	assert.Equal(t, int64(2), result.Total)
	assert.Equal(t, 20, repo.lastFilter.Offset)
}

func TestGetProductDetailNotFound(t *testing.T) {
	svc, err := NewService(ServiceConfig{Repo: &fakeRepo{}})
	require.NoError(t, err)

	_, err = svc.GetProductDetail(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
