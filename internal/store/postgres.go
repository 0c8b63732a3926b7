package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/priceworks/article-service/internal/article"
)

// Postgres persists articles in a single table. Scalar prices live in numeric
// columns; the discount collection is stored as an ordered jsonb document, so
// first-match discount priority survives a round trip.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs the adapter around an existing pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

const articleColumns = `id, name, slogan, net_price::text, sales_price::text, vat_ratio::text, discounts`

// Save upserts the article, minting an id when none is set.
func (p *Postgres) Save(ctx context.Context, a article.Article) (article.Article, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	} else if _, err := uuid.Parse(a.ID); err != nil {
		return article.Article{}, fmt.Errorf("save article: invalid id %q", a.ID)
	}

	discounts, err := json.Marshal(a.Discounts)
	if err != nil {
		return article.Article{}, fmt.Errorf("encode discounts: %w", err)
	}

	_, err = p.pool.Exec(ctx, `
		INSERT INTO articles (id, name, slogan, net_price, sales_price, vat_ratio, discounts, updated_at)
		VALUES ($1, $2, $3, $4::numeric, $5::numeric, $6::numeric, $7, now())
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			slogan = EXCLUDED.slogan,
			net_price = EXCLUDED.net_price,
			sales_price = EXCLUDED.sales_price,
			vat_ratio = EXCLUDED.vat_ratio,
			discounts = EXCLUDED.discounts,
			updated_at = now()
	`, a.ID, a.Name, nullableString(a.Slogan), decimalText(a.NetPrice), decimalText(a.SalesPrice), decimalText(a.VATRatio), discounts)
	if err != nil {
		return article.Article{}, fmt.Errorf("upsert article: %w", err)
	}
	return a, nil
}

// FindByID returns article.ErrNotFound for unknown ids. A malformed id is
// treated the same as an unknown one.
func (p *Postgres) FindByID(ctx context.Context, id string) (article.Article, error) {
	if _, err := uuid.Parse(id); err != nil {
		return article.Article{}, article.ErrNotFound
	}
	row := p.pool.QueryRow(ctx, `SELECT `+articleColumns+` FROM articles WHERE id = $1`, id)
	a, err := scanArticle(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return article.Article{}, article.ErrNotFound
		}
		return article.Article{}, fmt.Errorf("find article: %w", err)
	}
	return a, nil
}

// FindAll returns every stored article in creation order.
func (p *Postgres) FindAll(ctx context.Context) ([]article.Article, error) {
	rows, err := p.pool.Query(ctx, `SELECT `+articleColumns+` FROM articles ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	var out []article.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	if out == nil {
		out = []article.Article{}
	}
	return out, nil
}

// DeleteByID removes the article and reports whether a row was deleted.
func (p *Postgres) DeleteByID(ctx context.Context, id string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, nil
	}
	tag, err := p.pool.Exec(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete article: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ExistsByID reports whether an article with the id is stored.
func (p *Postgres) ExistsByID(ctx context.Context, id string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, nil
	}
	var exists bool
	if err := p.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM articles WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check article: %w", err)
	}
	return exists, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (article.Article, error) {
	var (
		a          article.Article
		slogan     *string
		netPrice   *string
		salesPrice *string
		vatRatio   *string
		discounts  []byte
	)
	if err := row.Scan(&a.ID, &a.Name, &slogan, &netPrice, &salesPrice, &vatRatio, &discounts); err != nil {
		return article.Article{}, err
	}
	if slogan != nil {
		a.Slogan = *slogan
	}
	var err error
	if a.NetPrice, err = parseDecimal(netPrice); err != nil {
		return article.Article{}, err
	}
	if a.SalesPrice, err = parseDecimal(salesPrice); err != nil {
		return article.Article{}, err
	}
	if a.VATRatio, err = parseDecimal(vatRatio); err != nil {
		return article.Article{}, err
	}
	a.Discounts = []article.Discount{}
	if len(discounts) > 0 {
		if err := json.Unmarshal(discounts, &a.Discounts); err != nil {
			return article.Article{}, fmt.Errorf("decode discounts: %w", err)
		}
	}
	return a, nil
}

func parseDecimal(text *string) (*decimal.Decimal, error) {
	if text == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(*text)
	if err != nil {
		return nil, fmt.Errorf("parse numeric %q: %w", *text, err)
	}
	return &d, nil
}

func decimalText(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
