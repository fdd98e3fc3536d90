package model

import "strings"

// CategorySet provides in-memory lookup over a fetched category list.
type CategorySet struct {
	categories []Category
	byID       map[int]Category
	byName     map[string]Category
}

// NewCategorySet creates a CategorySet from a slice of categories.
func NewCategorySet(categories []Category) *CategorySet {
	byID := make(map[int]Category, len(categories))
	byName := make(map[string]Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
		byName[strings.ToLower(c.Name)] = c
	}
	return &CategorySet{categories: categories, byID: byID, byName: byName}
}

// All returns all categories.
func (s *CategorySet) All() []Category {
	return s.categories
}

// Get returns a category by ID.
func (s *CategorySet) Get(id int) (Category, bool) {
	c, ok := s.byID[id]
	return c, ok
}

// GetByName returns a category by name, case-insensitively.
func (s *CategorySet) GetByName(name string) (Category, bool) {
	c, ok := s.byName[strings.ToLower(name)]
	return c, ok
}

// ByType returns all categories of the given type.
func (s *CategorySet) ByType(categoryType CategoryType) []Category {
	var result []Category
	for _, c := range s.categories {
		if c.Type == categoryType {
			result = append(result, c)
		}
	}
	return result
}
