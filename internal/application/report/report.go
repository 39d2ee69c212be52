// Package report aggregates the sale ledger. Every function is pure and
// works on whatever slice of sales the caller has already filtered.
package report

import (
	"sort"

	"github.com/sangkips/pdv-api/internal/domain/entity"
	"github.com/sangkips/pdv-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// NameResolver maps a product id to its current catalog name
type NameResolver func(productID string) (string, bool)

// MethodShare is the revenue of one payment method
type MethodShare struct {
	Method  enum.PaymentMethod `json:"method"`
	Revenue decimal.Decimal    `json:"revenue"`
	Share   decimal.Decimal    `json:"share"`
	Count   int                `json:"count"`
}

// ProductRank is one entry of the top products ranking
type ProductRank struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
}

// Summary is the full report over a set of sales
type Summary struct {
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
	SaleCount       int             `json:"sale_count"`
	AverageTicket   decimal.Decimal `json:"average_ticket"`
	ItemsSold       int             `json:"items_sold"`
	ByPaymentMethod []MethodShare   `json:"by_payment_method"`
	TopProducts     []ProductRank   `json:"top_products"`
}

func TotalRevenue(sales []entity.Sale) decimal.Decimal {
	total := decimal.Zero
	for _, s := range sales {
		total = total.Add(s.Total)
	}
	return total
}

// AverageTicket is zero for an empty ledger
func AverageTicket(sales []entity.Sale) decimal.Decimal {
	if len(sales) == 0 {
		return decimal.Zero
	}
	return TotalRevenue(sales).Div(decimal.NewFromInt(int64(len(sales)))).Round(2)
}

// RevenueByPaymentMethod always has an entry for every known method
func RevenueByPaymentMethod(sales []entity.Sale) map[enum.PaymentMethod]decimal.Decimal {
	out := make(map[enum.PaymentMethod]decimal.Decimal, len(enum.PaymentMethods))
	for _, m := range enum.PaymentMethods {
		out[m] = decimal.Zero
	}
	for _, s := range sales {
		out[s.PaymentMethod] = out[s.PaymentMethod].Add(s.Total)
	}
	return out
}

// PaymentBreakdown lists each known method in declaration order with its
// percentage of total revenue
func PaymentBreakdown(sales []entity.Sale) []MethodShare {
	revenue := RevenueByPaymentMethod(sales)
	counts := make(map[enum.PaymentMethod]int, len(enum.PaymentMethods))
	for _, s := range sales {
		counts[s.PaymentMethod]++
	}
	total := TotalRevenue(sales)

	out := make([]MethodShare, 0, len(enum.PaymentMethods))
	for _, m := range enum.PaymentMethods {
		share := decimal.Zero
		if total.IsPositive() {
			share = revenue[m].Mul(hundred).Div(total).Round(2)
		}
		out = append(out, MethodShare{Method: m, Revenue: revenue[m], Share: share, Count: counts[m]})
	}
	return out
}

func ItemsSold(sales []entity.Sale) int {
	n := 0
	for _, s := range sales {
		n += s.Items.Units()
	}
	return n
}

// TopProducts ranks products by units sold. Ties go to the name, then the
// product id. Products missing from the catalog are reported as removed.
// n <= 0 returns the full ranking.
func TopProducts(sales []entity.Sale, n int, resolve NameResolver) []ProductRank {
	qty := map[string]int{}
	for _, s := range sales {
		for _, l := range s.Items {
			qty[l.ProductID] += l.Quantity
		}
	}

	ranks := make([]ProductRank, 0, len(qty))
	for id, q := range qty {
		name := entity.RemovedProductName
		if resolve != nil {
			if resolved, ok := resolve(id); ok {
				name = resolved
			}
		}
		ranks = append(ranks, ProductRank{ProductID: id, Name: name, Quantity: q})
	}

	sort.Slice(ranks, func(i, j int) bool {
		a, b := ranks[i], ranks[j]
		if a.Quantity != b.Quantity {
			return a.Quantity > b.Quantity
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ProductID < b.ProductID
	})

	if n > 0 && len(ranks) > n {
		ranks = ranks[:n]
	}
	return ranks
}

// Summarize builds every aggregate in one pass over the report functions
func Summarize(sales []entity.Sale, top int, resolve NameResolver) Summary {
	return Summary{
		TotalRevenue:    TotalRevenue(sales),
		SaleCount:       len(sales),
		AverageTicket:   AverageTicket(sales),
		ItemsSold:       ItemsSold(sales),
		ByPaymentMethod: PaymentBreakdown(sales),
		TopProducts:     TopProducts(sales, top, resolve),
	}
}

// CatalogResolver resolves names from a product list
func CatalogResolver(products []entity.Product) NameResolver {
	names := make(map[string]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}
	return func(id string) (string, bool) {
		name, ok := names[id]
		return name, ok
	}
}
