// Package store provides the persistence adapters behind the article.Store
// port: an in-memory map for tests and development, and a Postgres adapter
// for production.
package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/priceworks/article-service/internal/article"
)

// Memory is a mutex-guarded in-memory article store. It mints UUIDs the same
// way the Postgres adapter does, so code exercised against it sees identical
// identity behavior.
type Memory struct {
	mu       sync.RWMutex
	articles map[string]article.Article
}

// NewMemory constructs an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{articles: make(map[string]article.Article)}
}

// Save upserts the article, minting an id when none is set.
func (m *Memory) Save(_ context.Context, a article.Article) (article.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	m.articles[a.ID] = cloneArticle(a)
	return cloneArticle(a), nil
}

// FindByID returns the stored article or article.ErrNotFound.
func (m *Memory) FindByID(_ context.Context, id string) (article.Article, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.articles[id]
	if !ok {
		return article.Article{}, article.ErrNotFound
	}
	return cloneArticle(a), nil
}

// FindAll returns every stored article.
func (m *Memory) FindAll(_ context.Context) ([]article.Article, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]article.Article, 0, len(m.articles))
	for _, a := range m.articles {
		out = append(out, cloneArticle(a))
	}
	return out, nil
}

// DeleteByID removes the article and reports whether it existed.
func (m *Memory) DeleteByID(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.articles[id]; !ok {
		return false, nil
	}
	delete(m.articles, id)
	return true, nil
}

// ExistsByID reports whether an article with the id is stored.
func (m *Memory) ExistsByID(_ context.Context, id string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.articles[id]
	return ok, nil
}

// cloneArticle deep-copies the discounts slice so callers can never mutate
// stored state through a returned value.
func cloneArticle(a article.Article) article.Article {
	if a.Discounts != nil {
		discounts := make([]article.Discount, len(a.Discounts))
		copy(discounts, a.Discounts)
		a.Discounts = discounts
	}
	return a
}
