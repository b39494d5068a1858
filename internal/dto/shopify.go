package dto

import (
	"strconv"
	"strings"
)

// CatalogResponse is the top-level payload of a storefront's /products.json
// feed.
type CatalogResponse struct {
	Products []CatalogProduct `json:"products"`
}

// CatalogProduct is one raw product entry from the catalog feed.
type CatalogProduct struct {
	Title     string           `json:"title"`
	Handle    string           `json:"handle"`
	UpdatedAt string           `json:"updated_at"`
	Variants  []CatalogVariant `json:"variants"`
}

// CatalogVariant is one purchase variant of a catalog product. Only the first
// variant's price is used.
type CatalogVariant struct {
	Price FlexPrice `json:"price"`
}

// FlexPrice decodes a price that upstream may serialize as a number, a quoted
// string, or garbage. Anything unparsable normalizes to zero, which downstream
// treats as "unknown price".
type FlexPrice float64

func (p *FlexPrice) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	s = strings.Trim(s, `"`)
	if s == "" || s == "null" {
		*p = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		*p = 0
		return nil
	}
	*p = FlexPrice(f)
	return nil
}

// Product is a normalized product observation extracted from the catalog feed,
// ready to persist as price history.
type Product struct {
	Name      string  `json:"product_name"`
	Price     float64 `json:"price"`
	Currency  string  `json:"currency"`
	Handle    string  `json:"product_handle"`
	UpdatedAt string  `json:"updated_at"`
}
