package store

import (
	"strings"

	"github.com/shopspring/decimal"
)

// State is one snapshot of the three collections. Reduce never mutates a
// State in place; every transition produces a fresh value sharing nothing
// mutable with its predecessor.
type State struct {
	Users    []User    `json:"users"`
	Products []Product `json:"products"`
	Items    []Item    `json:"items"`
}

// Seed returns the default session state: two household members, a small
// starter catalog and an empty shopping list.
func Seed() State {
	return State{
		Users: []User{
			{ID: "1", Name: "Alice", Email: "alice@example.com"},
			{ID: "2", Name: "Bob", Email: "bob@example.com"},
		},
		Products: []Product{
			{ID: "101", Name: "Maçãs", Category: CategoryAlimentos, Price: mustPrice("5.50")},
			{ID: "102", Name: "Sabão em pó", Category: CategoryLimpeza, Price: mustPrice("12.00")},
			{ID: "103", Name: "Pasta de dente", Category: CategoryHigiene, Price: mustPrice("3.75")},
			{ID: "104", Name: "Baterias", Category: CategoryOutros, Price: mustPrice("15.00")},
		},
	}
}

// UserByID looks up a user in the snapshot.
func (s State) UserByID(id string) (User, bool) {
	for _, u := range s.Users {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}

// ProductByID looks up a product in the snapshot.
func (s State) ProductByID(id string) (Product, bool) {
	for _, p := range s.Products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// ItemByID looks up a shopping list item in the snapshot.
func (s State) ItemByID(id string) (Item, bool) {
	for _, it := range s.Items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// HasProductNamed reports whether a product with the given name already
// exists, compared case-insensitively.
func (s State) HasProductNamed(name string) bool {
	for _, p := range s.Products {
		if strings.EqualFold(p.Name, name) {
			return true
		}
	}
	return false
}

// HasItemForProduct reports whether the shopping list already carries an
// item for the given product.
func (s State) HasItemForProduct(productID string) bool {
	for _, it := range s.Items {
		if it.ProductID == productID {
			return true
		}
	}
	return false
}

func mustPrice(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (s State) clone() State {
	return State{
		Users:    append([]User(nil), s.Users...),
		Products: append([]Product(nil), s.Products...),
		Items:    append([]Item(nil), s.Items...),
	}
}
