package service

import (
	"strings"

	"github.com/abgdnv/xmlcatalog/internal/store"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Report summarizes the catalog prices.
type Report struct {
	TotalProducts int             `json:"total_products"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	Shares        []Share         `json:"shares"`
}

// Share is one product's part of the price total, in percent rounded to two decimals.
type Share struct {
	ID         int             `json:"id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Percentage decimal.Decimal `json:"percentage"`
}

// BuildReport computes the report for the given products, keeping their order.
// Prices that are missing or not numeric count as zero. When the total is zero
// every share is zero.
func BuildReport(products []store.Product) *Report {
	prices := make([]decimal.Decimal, len(products))
	total := decimal.Zero
	for i, p := range products {
		prices[i] = ParsePrice(p.Price)
		total = total.Add(prices[i])
	}

	shares := make([]Share, len(products))
	for i, p := range products {
		percentage := decimal.Zero
		if !total.IsZero() {
			percentage = prices[i].Div(total).Mul(hundred).Round(2)
		}
		shares[i] = Share{
			ID:         p.ID,
			Name:       p.Name,
			Price:      prices[i],
			Percentage: percentage,
		}
	}

	return &Report{
		TotalProducts: len(products),
		TotalPrice:    total,
		Shares:        shares,
	}
}

// ParsePrice reads a decimal price, falling back to zero.
func ParsePrice(text string) decimal.Decimal {
	price, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil {
		return decimal.Zero
	}
	return price
}
