package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Category classifies a product.
type Category string

const (
	CategoryAlimentos Category = "alimentos"
	CategoryLimpeza   Category = "limpeza"
	CategoryHigiene   Category = "higiene"
	CategoryOutros    Category = "outros"
)

// Categories returns all product categories in display order.
func Categories() []Category {
	return []Category{CategoryAlimentos, CategoryLimpeza, CategoryHigiene, CategoryOutros}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryAlimentos, CategoryLimpeza, CategoryHigiene, CategoryOutros:
		return true
	}
	return false
}

// ParseCategory converts user input into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
	return c, nil
}

// Priority is the urgency of a shopping list item, ordered baixa < média < alta.
type Priority string

const (
	PriorityBaixa Priority = "baixa"
	PriorityMedia Priority = "média"
	PriorityAlta  Priority = "alta"
)

// Priorities returns all priorities in ascending order.
func Priorities() []Priority {
	return []Priority{PriorityBaixa, PriorityMedia, PriorityAlta}
}

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityBaixa, PriorityMedia, PriorityAlta:
		return true
	}
	return false
}

// Rank returns the sort weight of the priority. Higher means more urgent.
func (p Priority) Rank() int {
	switch p {
	case PriorityAlta:
		return 3
	case PriorityMedia:
		return 2
	case PriorityBaixa:
		return 1
	}
	return 0
}

// ParsePriority converts user input into a Priority. The accented and
// unaccented spellings of "média" are both accepted.
func ParsePriority(s string) (Priority, error) {
	in := strings.ToLower(strings.TrimSpace(s))
	if in == "media" {
		in = string(PriorityMedia)
	}
	p := Priority(in)
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, s)
	}
	return p, nil
}

// Status is the fulfillment state of a shopping list item. Transitions are
// freely bidirectional; items always start as "a comprar".
type Status string

const (
	StatusAComprar  Status = "a comprar"
	StatusComprando Status = "comprando"
	StatusComprado  Status = "comprado"
)

// Statuses returns all statuses in display order.
func Statuses() []Status {
	return []Status{StatusAComprar, StatusComprando, StatusComprado}
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusAComprar, StatusComprando, StatusComprado:
		return true
	}
	return false
}

// ParseStatus converts user input into a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return st, nil
}

// User is a household member who can own shopping list items.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Product is a catalog entry available to be added to the shopping list.
type Product struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Category Category        `json:"category"`
	Price    decimal.Decimal `json:"price"`
}

// Item associates a product with a user on the shopping list. At most one
// item exists per product at any time.
type Item struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	UserID    string    `json:"user_id"`
	Quantity  int       `json:"quantity"`
	Priority  Priority  `json:"priority"`
	DateAdded time.Time `json:"date_added"`
	Status    Status    `json:"status"`
}
