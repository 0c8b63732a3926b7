package article

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"cloud.google.com/go/civil"

	"github.com/priceworks/article-service/internal/common"
	"github.com/priceworks/article-service/internal/obs"
)

// ErrNotFound is returned by a Store when no article carries the requested
// id. Absence is a normal outcome, not a failure: callers translate it into
// an empty result or a 404, never a 5xx.
var ErrNotFound = errors.New("article not found")

// Store is the persistence port the service depends on. Implementations live
// in internal/store; the service never touches a database directly.
type Store interface {
	// Save upserts the article, minting an id when none is set, and returns
	// the stored value.
	Save(ctx context.Context, a Article) (Article, error)
	// FindByID returns ErrNotFound when the id is unknown or malformed.
	FindByID(ctx context.Context, id string) (Article, error)
	FindAll(ctx context.Context) ([]Article, error)
	// DeleteByID reports whether an article was actually removed.
	DeleteByID(ctx context.Context, id string) (bool, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
}

// Service orchestrates article reads and writes: load, merge, validate,
// persist. All validation happens before the single storage call, so a store
// reached through this service never holds an article violating the discount
// invariants.
type Service struct {
	store Store
	cache *Cache
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Store Store
	Cache *Cache
}

// NewService constructs a Service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Store == nil {
		return nil, errors.New("article: store is required")
	}
	return &Service{store: cfg.Store, cache: cfg.Cache}, nil
}

// FilterParams captures the list-endpoint query flags. Date is required
// whenever WithPrices or DiscountOnly is set.
type FilterParams struct {
	Date         *civil.Date
	WithPrices   bool
	DiscountOnly bool
}

// FilterResult holds either plain articles or priced projections, depending
// on the flags that produced it. Exactly one of the two slices is non-nil.
type FilterResult struct {
	Articles []Article
	Priced   []PricedArticle
}

// Create persists a new article. A client-supplied id is ignored: creation
// always mints a new identity in the store.
func (s *Service) Create(ctx context.Context, a Article) (Article, error) {
	a.ID = ""
	if a.Discounts == nil {
		a.Discounts = []Discount{}
	}
	if err := validate(a); err != nil {
		return Article{}, err
	}
	saved, err := s.store.Save(ctx, a)
	if err != nil {
		return Article{}, fmt.Errorf("save article: %w", err)
	}
	obs.ArticleWrites.WithLabelValues("create").Inc()
	s.invalidate(ctx)
	return saved, nil
}

// Get returns the article with the given id, or ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (Article, error) {
	return s.store.FindByID(ctx, id)
}

// List returns every stored article, serving from the read cache when
// possible. Cache failures are ignored; the store is the source of truth.
func (s *Service) List(ctx context.Context) ([]Article, error) {
	if s.cache != nil {
		var cached []Article
		if ok, err := s.cache.GetJSON(ctx, listCacheKey, &cached); err == nil && ok {
			return cached, nil
		}
	}
	articles, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	if s.cache != nil {
		_ = s.cache.SetJSON(ctx, listCacheKey, articles)
	}
	return articles, nil
}

// ListWithFilters implements the four-way filter branch:
//
//   - neither flag: all articles unmodified
//   - withPrices: every article as a PricedArticle for the date
//   - discountOnly: only articles with a discount valid on the date
//   - both: priced projections filtered to those with an applied discount
//
// The date precondition is checked before any storage read.
func (s *Service) ListWithFilters(ctx context.Context, p FilterParams) (FilterResult, error) {
	if (p.WithPrices || p.DiscountOnly) && p.Date == nil {
		obs.ValidationFailures.WithLabelValues("date_required").Inc()
		return FilterResult{}, &common.AppError{
			Code:       "VALIDATION",
			Message:    "date parameter is required when withPrices=true or discountOnly=true",
			HTTPStatus: http.StatusBadRequest,
		}
	}

	articles, err := s.List(ctx)
	if err != nil {
		return FilterResult{}, err
	}

	switch {
	case p.WithPrices:
		priced := make([]PricedArticle, 0, len(articles))
		for _, a := range articles {
			pa := NewPricedArticle(a, *p.Date)
			if p.DiscountOnly && pa.AppliedDiscount == nil {
				continue
			}
			priced = append(priced, pa)
		}
		return FilterResult{Priced: priced}, nil
	case p.DiscountOnly:
		matched := make([]Article, 0, len(articles))
		for _, a := range articles {
			if a.ApplicableDiscount(*p.Date) != nil {
				matched = append(matched, a)
			}
		}
		return FilterResult{Articles: matched}, nil
	default:
		return FilterResult{Articles: articles}, nil
	}
}

// Update loads the article, overwrites every mutable field from the patch,
// and persists the merged result after validation. The discount collection is
// replaced only when the patch carries one; a nil patch collection means
// "leave discounts as they are". A missing id yields ErrNotFound.
func (s *Service) Update(ctx context.Context, id string, patch Article) (Article, error) {
	existing, err := s.store.FindByID(ctx, id)
	if err != nil {
		return Article{}, err
	}

	existing.Name = patch.Name
	existing.Slogan = patch.Slogan
	existing.NetPrice = patch.NetPrice
	existing.SalesPrice = patch.SalesPrice
	existing.VATRatio = patch.VATRatio
	if patch.Discounts != nil {
		existing.Discounts = patch.Discounts
	}

	if err := validate(existing); err != nil {
		return Article{}, err
	}
	saved, err := s.store.Save(ctx, existing)
	if err != nil {
		return Article{}, fmt.Errorf("save article: %w", err)
	}
	obs.ArticleWrites.WithLabelValues("update").Inc()
	s.invalidate(ctx)
	return saved, nil
}

// Delete removes the article and reports whether anything was deleted.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	deleted, err := s.store.DeleteByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete article: %w", err)
	}
	if deleted {
		obs.ArticleWrites.WithLabelValues("delete").Inc()
		s.invalidate(ctx)
	}
	return deleted, nil
}

// Exists reports whether an article with the given id is stored.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	return s.store.ExistsByID(ctx, id)
}

// validate is the single gate run on create and update. Overlap is checked
// first, then the net-price floor; the first failure is surfaced.
func validate(a Article) error {
	if !a.ValidateNoOverlappingDiscounts() {
		obs.ValidationFailures.WithLabelValues("overlap").Inc()
		return &common.AppError{
			Code:       "VALIDATION",
			Message:    "multiple discounts have overlapping date ranges; only one discount can be applicable at a time",
			HTTPStatus: http.StatusBadRequest,
		}
	}
	if !a.ValidateDiscountFloor() {
		obs.ValidationFailures.WithLabelValues("below_net_price").Inc()
		return &common.AppError{
			Code:       "VALIDATION",
			Message:    "discounts would cause the article price to go below net price, resulting in a loss",
			HTTPStatus: http.StatusBadRequest,
		}
	}
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.Delete(ctx, listCacheKey)
	}
}
