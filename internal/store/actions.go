package store

// Action is a mutation request applied to a State by Reduce. Payloads carry
// fully formed entities; id and timestamp generation happens at the caller
// (see the Store helpers).
type Action interface {
	isAction()
}

// AddUser appends a user. It always succeeds.
type AddUser struct {
	User User
}

// RemoveUser removes a user and, in the same transition, every shopping list
// item that references it. Unknown ids are a no-op.
type RemoveUser struct {
	ID string
}

// AddProduct appends a product to the catalog. Rejected when another product
// carries the same name, compared case-insensitively.
type AddProduct struct {
	Product Product
}

// RemoveProduct removes a product and, in the same transition, every shopping
// list item that references it. Unknown ids are a no-op.
type RemoveProduct struct {
	ID string
}

// AddItem appends a shopping list item. Rejected when the list already
// carries an item for the same product, or when the referenced product or
// user does not exist.
type AddItem struct {
	Item Item
}

// RemoveItem removes a shopping list item. Unknown ids are a no-op.
type RemoveItem struct {
	ID string
}

// UpdateItemStatus replaces the status of the matching item and nothing else.
// Unknown ids are a no-op.
type UpdateItemStatus struct {
	ID     string
	Status Status
}

func (AddUser) isAction()          {}
func (RemoveUser) isAction()       {}
func (AddProduct) isAction()       {}
func (RemoveProduct) isAction()    {}
func (AddItem) isAction()          {}
func (RemoveItem) isAction()       {}
func (UpdateItemStatus) isAction() {}
