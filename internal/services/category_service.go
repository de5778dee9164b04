package services

import (
	"context"
	"time"

	"fintrack/internal/cache"
	"fintrack/internal/graphql"
	"fintrack/internal/models"
)

const categoriesKey = "categories"

// categoryService reads categories from the data API. Categories are shared
// reference data, so one cached list serves every session.
type categoryService struct {
	gql   GraphQLDoer
	cache *cache.LRU[[]models.Category]
}

// NewCategoryService creates a new CategoryServicer that caches the list for ttl.
func NewCategoryService(gql GraphQLDoer, ttl time.Duration) CategoryServicer {
	return &categoryService{
		gql:   gql,
		cache: cache.NewLRU[[]models.Category](1, ttl),
	}
}

// ListCategories returns every category.
func (s *categoryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	if cached, ok := s.cache.Get(categoriesKey); ok {
		return append([]models.Category{}, cached...), nil
	}

	var out struct {
		CategoriesCollection models.Collection[models.Category] `json:"categoriesCollection"`
	}
	if err := s.gql.Do(ctx, graphql.GetCategories, nil, &out); err != nil {
		return nil, upstreamError(err)
	}

	categories := out.CategoriesCollection.Nodes()
	s.cache.Set(categoriesKey, categories)
	return append([]models.Category{}, categories...), nil
}

// ListCategoriesByType returns the categories of one type.
func (s *categoryService) ListCategoriesByType(ctx context.Context, categoryType models.CategoryType) ([]models.Category, error) {
	all, err := s.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	filtered := []models.Category{}
	for _, c := range all {
		if c.Type == categoryType {
			filtered = append(filtered, c)
		}
	}
	return filtered, nil
}
