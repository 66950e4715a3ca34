package catalog

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/kiranahq/backend-kirana/internal/common"
)

type catalogReader interface {
	ListCategories(ctx context.Context) ([]CategoryRow, error)
	CountProducts(ctx context.Context, f ListFilter) (int64, error)
	ListProducts(ctx context.Context, f ListFilter) ([]ProductRow, error)
	GetProductBySlug(ctx context.Context, slug string) (ProductRow, error)
}

// Service orchestrates catalog queries, DTO assembly, and caching.
type Service struct {
	repo         catalogReader
	cache        *Cache
	defaultLimit int
	maxLimit     int
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Repo         catalogReader
	Cache        *Cache
	DefaultLimit int
	MaxLimit     int
}

// NewService constructs a Service instance.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Repo == nil {
		return nil, errors.New("catalog: repo is required")
	}
	defaultLimit := cfg.DefaultLimit
	if defaultLimit < 1 {
		defaultLimit = 20
	}
	maxLimit := cfg.MaxLimit
	if maxLimit < 1 {
		maxLimit = 100
	}
	if defaultLimit > maxLimit {
		defaultLimit = maxLimit
	}
	return &Service{repo: cfg.Repo, cache: cfg.Cache, defaultLimit: defaultLimit, maxLimit: maxLimit}, nil
}

// ListParams captures filters for product listing.
type ListParams struct {
	Query    string
	Category string
	Page     int
	Limit    int
}

// Category represents the public category payload.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ProductListItem represents an entry in list responses. InventoryLocations
// carries the store names holding the product, as the delivery quote consumes.
type ProductListItem struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	Slug               string   `json:"slug"`
	Price              int64    `json:"price"`
	Category           *string  `json:"category,omitempty"`
	InventoryLocations []string `json:"inventoryLocations"`
}

// ProductDetail aggregates the full detail payload.
type ProductDetail struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	Slug               string   `json:"slug"`
	Description        string   `json:"description"`
	Price              int64    `json:"price"`
	Category           *string  `json:"category,omitempty"`
	InventoryLocations []string `json:"inventoryLocations"`
}

// ProductListResult contains list data and pagination metadata.
type ProductListResult struct {
	Items []ProductListItem
	Total int64
	Page  int
	Limit int
}

// ParseListParams normalises raw query values into strongly typed filters.
func (s *Service) ParseListParams(values url.Values) (ListParams, error) {
	params := ListParams{Page: 1, Limit: s.defaultLimit}
	params.Query = strings.TrimSpace(values.Get("q"))
	params.Category = strings.TrimSpace(values.Get("category"))

	if v := strings.TrimSpace(values.Get("page")); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			return params, common.BadRequest("page must be a positive integer")
		}
		params.Page = page
	}
	if v := strings.TrimSpace(values.Get("limit")); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			return params, common.BadRequest("limit must be a positive integer")
		}
		params.Limit = limit
	}
	if params.Limit > s.maxLimit {
		params.Limit = s.maxLimit
	}
	return params, nil
}

// ListCategories returns all categories sorted by name.
func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	const key = "catalog:categories"
	if s.cache != nil {
		var cached []Category
		if ok, err := s.cache.GetJSON(ctx, key, &cached); err == nil && ok {
			return cached, nil
		}
	}
	rows, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Category, 0, len(rows))
	for _, row := range rows {
		out = append(out, Category{ID: row.ID.String(), Name: row.Name, Slug: row.Slug})
	}
	if s.cache != nil {
		_ = s.cache.SetJSON(ctx, key, out)
	}
	return out, nil
}

// ListProducts returns a filtered product page with pagination metadata.
func (s *Service) ListProducts(ctx context.Context, params ListParams) (ProductListResult, error) {
	key, cacheable := listCacheKey(params, s.defaultLimit)
	if cacheable && s.cache != nil {
		var cached cachedList
		if ok, err := s.cache.GetJSON(ctx, key, &cached); err == nil && ok {
			return ProductListResult{Items: cached.Items, Total: cached.Total, Page: params.Page, Limit: params.Limit}, nil
		}
	}
	filter := ListFilter{
		Query:    params.Query,
		Category: params.Category,
		Limit:    params.Limit,
		Offset:   (params.Page - 1) * params.Limit,
	}
	total, err := s.repo.CountProducts(ctx, filter)
	if err != nil {
		return ProductListResult{}, err
	}
	rows, err := s.repo.ListProducts(ctx, filter)
	if err != nil {
		return ProductListResult{}, err
	}
	items := make([]ProductListItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, ProductListItem{
			ID:                 row.ID.String(),
			Title:              row.Title,
			Slug:               row.Slug,
			Price:              row.Price,
			Category:           row.CategorySlug,
			InventoryLocations: locationsOrEmpty(row.Locations),
		})
	}
	result := ProductListResult{Items: items, Total: total, Page: params.Page, Limit: params.Limit}
	if cacheable && s.cache != nil {
		_ = s.cache.SetJSON(ctx, key, cachedList{Items: items, Total: total})
	}
	return result, nil
}

// GetProductDetail returns the detail payload for a product slug.
func (s *Service) GetProductDetail(ctx context.Context, slug string) (ProductDetail, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return ProductDetail{}, common.BadRequest("slug is required")
	}
	key := "catalog:products:detail:" + slug
	if s.cache != nil {
		var cached ProductDetail
		if ok, err := s.cache.GetJSON(ctx, key, &cached); err == nil && ok {
			return cached, nil
		}
	}
	row, err := s.repo.GetProductBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return ProductDetail{}, common.NotFound("product not found")
		}
		return ProductDetail{}, err
	}
	detail := ProductDetail{
		ID:                 row.ID.String(),
		Title:              row.Title,
		Slug:               row.Slug,
		Description:        row.Description,
		Price:              row.Price,
		Category:           row.CategorySlug,
		InventoryLocations: locationsOrEmpty(row.Locations),
	}
	if s.cache != nil {
		_ = s.cache.SetJSON(ctx, key, detail)
	}
	return detail, nil
}

type cachedList struct {
	Items []ProductListItem `json:"items"`
	Total int64             `json:"total"`
}

// listCacheKey only caches the unfiltered first page, the hot path for
// storefront landings.
func listCacheKey(params ListParams, defaultLimit int) (string, bool) {
	if params.Page != 1 || params.Limit != defaultLimit {
		return "", false
	}
	if params.Query != "" || params.Category != "" {
		return "", false
	}
	return "catalog:products:list:front", true
}

func locationsOrEmpty(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
