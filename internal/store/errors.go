package store

import "errors"

var (
	ErrEmptyName        = errors.New("name must not be empty")
	ErrInvalidEmail     = errors.New("invalid email address")
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
	ErrNegativePrice    = errors.New("price must not be negative")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrInvalidPriority  = errors.New("invalid priority")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrDuplicateProduct = errors.New("a product with this name already exists")
	ErrDuplicateItem    = errors.New("this product is already on the shopping list")
	ErrProductNotFound  = errors.New("product not found")
	ErrUserNotFound     = errors.New("user not found")
)
