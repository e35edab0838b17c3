package store

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store owns the state of one shopping list session, from creation until the
// session is discarded. Nothing is persisted.
//
// All mutations funnel through Dispatch, which serializes them behind a
// mutex. Within one session that gives the sequential, run-to-completion
// semantics of a UI event loop even when the host (a bot webhook, for
// instance) handles requests concurrently.
type Store struct {
	mu    sync.Mutex
	state State
}

// New creates a store preloaded with the default seed state.
func New() *Store {
	return &Store{state: Seed()}
}

// NewWithState creates a store starting from an arbitrary snapshot.
func NewWithState(s State) *Store {
	return &Store{state: s.clone()}
}

// Snapshot returns a copy of the current state. The copy is detached; later
// mutations do not show through it.
func (st *Store) Snapshot() State {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.state.clone()
}

// Dispatch applies one action atomically. On error the state is unchanged.
func (st *Store) Dispatch(a Action) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	next, err := Reduce(st.state, a)
	if err != nil {
		return err
	}
	st.state = next
	return nil
}

// CreateUser validates the payload, assigns an id and dispatches AddUser.
func (st *Store) CreateUser(name, email string) (User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return User{}, ErrEmptyName
	}
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return User{}, ErrInvalidEmail
	}

	u := User{ID: uuid.NewString(), Name: name, Email: email}
	if err := st.Dispatch(AddUser{User: u}); err != nil {
		return User{}, err
	}
	return u, nil
}

// CreateProduct validates the payload, assigns an id and dispatches
// AddProduct. Name uniqueness is re-checked inside Reduce.
func (st *Store) CreateProduct(name string, category Category, price decimal.Decimal) (Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Product{}, ErrEmptyName
	}
	if !category.Valid() {
		return Product{}, ErrInvalidCategory
	}
	if price.IsNegative() {
		return Product{}, ErrNegativePrice
	}

	p := Product{ID: uuid.NewString(), Name: name, Category: category, Price: price}
	if err := st.Dispatch(AddProduct{Product: p}); err != nil {
		return Product{}, err
	}
	return p, nil
}

// CreateItem validates the payload, assigns an id and creation time, and
// dispatches AddItem. New items always start as "a comprar". Referential and
// one-item-per-product checks happen inside Reduce.
func (st *Store) CreateItem(productID, userID string, quantity int, priority Priority) (Item, error) {
	if quantity < 1 {
		return Item{}, ErrInvalidQuantity
	}
	if !priority.Valid() {
		return Item{}, ErrInvalidPriority
	}

	it := Item{
		ID:        uuid.NewString(),
		ProductID: productID,
		UserID:    userID,
		Quantity:  quantity,
		Priority:  priority,
		DateAdded: time.Now().UTC(),
		Status:    StatusAComprar,
	}
	if err := st.Dispatch(AddItem{Item: it}); err != nil {
		return Item{}, err
	}
	return it, nil
}
