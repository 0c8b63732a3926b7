// Package article contains the pricing core: the Article aggregate, its
// time-bounded percentage discounts, the discounted-price calculation, and
// the validation rules enforced before any write reaches storage.
package article

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// priceScale is the number of decimal places used for money amounts.
// Rounding is half-up at this scale everywhere; there is no per-currency
// configuration.
const priceScale = 2

var oneHundred = decimal.NewFromInt(100)

func init() {
	// Money and percentage fields serialise as JSON numbers, matching the
	// persisted document shape.
	decimal.MarshalJSONWithoutQuotes = true
}

// Discount is a percentage reduction valid over an inclusive date range.
// Optional fields are pointers; absent is not the same as zero.
type Discount struct {
	ID          string           `json:"id,omitempty"`
	Description string           `json:"description,omitempty"`
	Percentage  *decimal.Decimal `json:"discountPercentage,omitempty"`
	StartDate   *civil.Date      `json:"startDate,omitempty"`
	EndDate     *civil.Date      `json:"endDate,omitempty"`
}

// IsValidOn reports whether date falls within [StartDate, EndDate], inclusive
// on both ends. Both bounds are required: calling this on a discount with an
// unset bound is a contract violation and panics rather than silently
// returning false.
func (d Discount) IsValidOn(date civil.Date) bool {
	return !date.Before(*d.StartDate) && !date.After(*d.EndDate)
}

// HasPeriod reports whether both date bounds are set.
func (d Discount) HasPeriod() bool {
	return d.StartDate != nil && d.EndDate != nil
}

// Article is the aggregate root: a sellable item with a net (floor) price, a
// regular sales price, and an ordered list of discounts. Discount order is
// significant: the first discount valid on a date wins.
type Article struct {
	ID         string           `json:"id,omitempty"`
	Name       string           `json:"name" validate:"required"`
	Slogan     string           `json:"slogan,omitempty"`
	NetPrice   *decimal.Decimal `json:"netPrice,omitempty"`
	SalesPrice *decimal.Decimal `json:"salesPrice,omitempty"`
	VATRatio   *decimal.Decimal `json:"vatRatio,omitempty"`
	Discounts  []Discount       `json:"discounts"`
}

// ApplicableDiscount returns the first discount, in collection order, that is
// valid on the given date, or nil when none applies. DiscountedPrice uses the
// same selection so the two always agree on which discount is "the" one.
func (a *Article) ApplicableDiscount(date civil.Date) *Discount {
	for i := range a.Discounts {
		if a.Discounts[i].IsValidOn(date) {
			return &a.Discounts[i]
		}
	}
	return nil
}

// DiscountedPrice computes the effective sale price on the given date.
//
// When the sales price is unset or no discount applies, the sales price is
// returned unchanged (including the unset case). Otherwise the discount
// amount is salesPrice * percentage / 100 rounded half-up to two decimals,
// and the result is clamped so it never drops below the net price.
func (a *Article) DiscountedPrice(date civil.Date) *decimal.Decimal {
	if a.SalesPrice == nil || len(a.Discounts) == 0 {
		return a.SalesPrice
	}

	applicable := a.ApplicableDiscount(date)
	if applicable == nil {
		return a.SalesPrice
	}

	amount := a.SalesPrice.Mul(*applicable.Percentage).Div(oneHundred).Round(priceScale)
	price := a.SalesPrice.Sub(amount)

	if a.NetPrice != nil && price.LessThan(*a.NetPrice) {
		return a.NetPrice
	}
	return &price
}

// ValidateNoOverlappingDiscounts checks every pair of discounts that carry
// both date bounds for an interval collision. Closed intervals: periods that
// merely touch on a boundary date count as overlapping. Discounts missing a
// bound are exempt from the check.
func (a *Article) ValidateNoOverlappingDiscounts() bool {
	if len(a.Discounts) <= 1 {
		return true
	}

	dated := make([]Discount, 0, len(a.Discounts))
	for _, d := range a.Discounts {
		if d.HasPeriod() {
			dated = append(dated, d)
		}
	}

	for i := 0; i < len(dated); i++ {
		for j := i + 1; j < len(dated); j++ {
			if periodsOverlap(*dated[i].StartDate, *dated[i].EndDate, *dated[j].StartDate, *dated[j].EndDate) {
				return false
			}
		}
	}
	return true
}

func periodsOverlap(start1, end1, start2, end2 civil.Date) bool {
	return !start1.After(end2) && !start2.After(end1)
}

// ValidateDiscountFloor checks that no discount with a percentage set would
// push the discounted price below the net price. The check is skipped
// entirely when either price is unset.
func (a *Article) ValidateDiscountFloor() bool {
	if a.SalesPrice == nil || a.NetPrice == nil {
		return true
	}
	for _, d := range a.Discounts {
		if d.Percentage == nil {
			continue
		}
		amount := a.SalesPrice.Mul(*d.Percentage).Div(oneHundred).Round(priceScale)
		if a.SalesPrice.Sub(amount).LessThan(*a.NetPrice) {
			return false
		}
	}
	return true
}

// PricedArticle augments an article snapshot with the price computed for a
// query date. It is a read-only projection built per request, never stored.
type PricedArticle struct {
	Article
	FinalPrice        *decimal.Decimal `json:"finalPrice,omitempty"`
	AppliedDiscount   *Discount        `json:"appliedDiscount,omitempty"`
	HasActiveDiscount bool             `json:"hasActiveDiscount"`
}

// NewPricedArticle builds the priced projection of an article for a date.
func NewPricedArticle(a Article, date civil.Date) PricedArticle {
	applied := a.ApplicableDiscount(date)
	return PricedArticle{
		Article:           a,
		FinalPrice:        a.DiscountedPrice(date),
		AppliedDiscount:   applied,
		HasActiveDiscount: applied != nil,
	}
}
