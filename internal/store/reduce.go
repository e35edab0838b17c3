package store

// Reduce applies a single action to a snapshot and returns the next one.
// It is a pure function: the input State is never modified, and on a rejected
// action the input State is returned unchanged alongside the error.
//
// All cross-collection effects of an action (cascading removal of items when
// a user or product goes away) are computed from the same prior snapshot and
// applied together, so a partially applied cascade cannot be observed.
func Reduce(s State, a Action) (State, error) {
	switch a := a.(type) {
	case AddUser:
		next := s
		next.Users = append(append([]User(nil), s.Users...), a.User)
		return next, nil

	case RemoveUser:
		next := s
		next.Users = usersWithout(s.Users, a.ID)
		next.Items = itemsWhere(s.Items, func(it Item) bool { return it.UserID != a.ID })
		return next, nil

	case AddProduct:
		if s.HasProductNamed(a.Product.Name) {
			return s, ErrDuplicateProduct
		}
		next := s
		next.Products = append(append([]Product(nil), s.Products...), a.Product)
		return next, nil

	case RemoveProduct:
		next := s
		next.Products = productsWithout(s.Products, a.ID)
		next.Items = itemsWhere(s.Items, func(it Item) bool { return it.ProductID != a.ID })
		return next, nil

	case AddItem:
		if _, ok := s.ProductByID(a.Item.ProductID); !ok {
			return s, ErrProductNotFound
		}
		if _, ok := s.UserByID(a.Item.UserID); !ok {
			return s, ErrUserNotFound
		}
		if s.HasItemForProduct(a.Item.ProductID) {
			return s, ErrDuplicateItem
		}
		next := s
		next.Items = append(append([]Item(nil), s.Items...), a.Item)
		return next, nil

	case RemoveItem:
		next := s
		next.Items = itemsWhere(s.Items, func(it Item) bool { return it.ID != a.ID })
		return next, nil

	case UpdateItemStatus:
		if !a.Status.Valid() {
			return s, ErrInvalidStatus
		}
		next := s
		next.Items = make([]Item, len(s.Items))
		for i, it := range s.Items {
			if it.ID == a.ID {
				it.Status = a.Status
			}
			next.Items[i] = it
		}
		return next, nil
	}

	return s, nil
}

func usersWithout(users []User, id string) []User {
	out := make([]User, 0, len(users))
	for _, u := range users {
		if u.ID != id {
			out = append(out, u)
		}
	}
	return out
}

func productsWithout(products []Product, id string) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}

func itemsWhere(items []Item, keep func(Item) bool) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}
