package store

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testItem(id, productID, userID string, qty int, prio Priority, added time.Time) Item {
	return Item{
		ID:        id,
		ProductID: productID,
		UserID:    userID,
		Quantity:  qty,
		Priority:  prio,
		DateAdded: added,
		Status:    StatusAComprar,
	}
}

// assertNoDanglingRefs checks the core referential integrity invariant: every
// item points at a user and a product present in the same snapshot.
func assertNoDanglingRefs(t *testing.T, s State) {
	t.Helper()
	for _, it := range s.Items {
		_, ok := s.ProductByID(it.ProductID)
		assert.True(t, ok, "item %s references missing product %s", it.ID, it.ProductID)
		_, ok = s.UserByID(it.UserID)
		assert.True(t, ok, "item %s references missing user %s", it.ID, it.UserID)
	}
}

func TestSeed(t *testing.T) {
	s := Seed()

	require.Len(t, s.Users, 2)
	require.Len(t, s.Products, 4)
	assert.Empty(t, s.Items)

	apples, ok := s.ProductByID("101")
	require.True(t, ok)
	assert.Equal(t, "Maçãs", apples.Name)
	assert.Equal(t, CategoryAlimentos, apples.Category)
	assert.True(t, apples.Price.Equal(decimal.RequireFromString("5.50")))
}

func TestReduceAddRemoveUser(t *testing.T) {
	s := Seed()

	next, err := Reduce(s, AddUser{User: User{ID: "3", Name: "Carol", Email: "carol@example.com"}})
	require.NoError(t, err)
	require.Len(t, next.Users, 3)
	assert.Len(t, s.Users, 2, "input snapshot must not change")

	next, err = Reduce(next, RemoveUser{ID: "3"})
	require.NoError(t, err)
	assert.Len(t, next.Users, 2)

	// Removing an unknown id is an idempotent no-op.
	again, err := Reduce(next, RemoveUser{ID: "3"})
	require.NoError(t, err)
	assert.Equal(t, next.Users, again.Users)
}

func TestReduceRemoveUserCascades(t *testing.T) {
	s := Seed()
	added := time.Now().UTC()
	s, err := Reduce(s, AddItem{Item: testItem("i1", "101", "1", 1, PriorityAlta, added)})
	require.NoError(t, err)
	s, err = Reduce(s, AddItem{Item: testItem("i2", "102", "2", 1, PriorityBaixa, added)})
	require.NoError(t, err)

	s, err = Reduce(s, RemoveUser{ID: "1"})
	require.NoError(t, err)

	require.Len(t, s.Items, 1)
	for _, it := range s.Items {
		assert.NotEqual(t, "1", it.UserID)
	}
	assertNoDanglingRefs(t, s)
}

func TestReduceRemoveProductCascades(t *testing.T) {
	s := Seed()
	added := time.Now().UTC()
	s, err := Reduce(s, AddItem{Item: testItem("i1", "101", "1", 1, PriorityAlta, added)})
	require.NoError(t, err)
	s, err = Reduce(s, AddItem{Item: testItem("i2", "102", "2", 1, PriorityBaixa, added)})
	require.NoError(t, err)

	s, err = Reduce(s, RemoveProduct{ID: "101"})
	require.NoError(t, err)

	_, ok := s.ProductByID("101")
	assert.False(t, ok)
	require.Len(t, s.Items, 1)
	for _, it := range s.Items {
		assert.NotEqual(t, "101", it.ProductID)
	}
	assertNoDanglingRefs(t, s)
}

func TestReduceRejectsDuplicateProductName(t *testing.T) {
	s := Seed()

	dupe := Product{ID: "200", Name: "maçãs", Category: CategoryAlimentos, Price: decimal.RequireFromString("4.00")}
	next, err := Reduce(s, AddProduct{Product: dupe})
	require.ErrorIs(t, err, ErrDuplicateProduct)
	assert.Len(t, next.Products, len(s.Products), "rejected action must leave state unchanged")
}

func TestReduceRejectsSecondItemForProduct(t *testing.T) {
	s := Seed()
	added := time.Now().UTC()
	s, err := Reduce(s, AddItem{Item: testItem("i1", "101", "1", 2, PriorityMedia, added)})
	require.NoError(t, err)

	next, err := Reduce(s, AddItem{Item: testItem("i2", "101", "2", 1, PriorityAlta, added)})
	require.ErrorIs(t, err, ErrDuplicateItem)
	assert.Len(t, next.Items, 1)
}

func TestReduceRejectsDanglingItemRefs(t *testing.T) {
	s := Seed()
	added := time.Now().UTC()

	_, err := Reduce(s, AddItem{Item: testItem("i1", "999", "1", 1, PriorityBaixa, added)})
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = Reduce(s, AddItem{Item: testItem("i1", "101", "999", 1, PriorityBaixa, added)})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestReduceUpdateItemStatus(t *testing.T) {
	s := Seed()
	added := time.Now().UTC()
	s, err := Reduce(s, AddItem{Item: testItem("i1", "101", "1", 3, PriorityAlta, added)})
	require.NoError(t, err)
	s, err = Reduce(s, AddItem{Item: testItem("i2", "102", "2", 1, PriorityBaixa, added)})
	require.NoError(t, err)

	before, _ := s.ItemByID("i1")

	next, err := Reduce(s, UpdateItemStatus{ID: "i1", Status: StatusComprando})
	require.NoError(t, err)

	updated, ok := next.ItemByID("i1")
	require.True(t, ok)
	assert.Equal(t, StatusComprando, updated.Status)

	// Only the status field changed.
	before.Status = StatusComprando
	assert.Equal(t, before, updated)

	// The other item is untouched.
	other, ok := next.ItemByID("i2")
	require.True(t, ok)
	assert.Equal(t, StatusAComprar, other.Status)

	// Transitions are freely bidirectional.
	next, err = Reduce(next, UpdateItemStatus{ID: "i1", Status: StatusAComprar})
	require.NoError(t, err)
	updated, _ = next.ItemByID("i1")
	assert.Equal(t, StatusAComprar, updated.Status)
}

func TestReduceUpdateItemStatusUnknownIDIsNoOp(t *testing.T) {
	s := Seed()
	added := time.Now().UTC()
	s, err := Reduce(s, AddItem{Item: testItem("i1", "101", "1", 1, PriorityAlta, added)})
	require.NoError(t, err)

	next, err := Reduce(s, UpdateItemStatus{ID: "ghost", Status: StatusComprado})
	require.NoError(t, err)
	assert.Equal(t, s.Items, next.Items)
}

func TestReduceUpdateItemStatusRejectsUnknownStatus(t *testing.T) {
	s := Seed()
	_, err := Reduce(s, UpdateItemStatus{ID: "i1", Status: Status("perdido")})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestStoreCreateUserValidation(t *testing.T) {
	st := New()

	_, err := st.CreateUser("", "alice@example.com")
	assert.ErrorIs(t, err, ErrEmptyName)

	_, err = st.CreateUser("Carol", "not-an-email")
	assert.ErrorIs(t, err, ErrInvalidEmail)

	u, err := st.CreateUser("Carol", "carol@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)

	snap := st.Snapshot()
	_, ok := snap.UserByID(u.ID)
	assert.True(t, ok)
}

func TestStoreCreateProductValidation(t *testing.T) {
	st := New()

	_, err := st.CreateProduct("  ", CategoryAlimentos, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, ErrEmptyName)

	_, err = st.CreateProduct("Leite", Category("eletrônicos"), decimal.NewFromInt(1))
	assert.ErrorIs(t, err, ErrInvalidCategory)

	_, err = st.CreateProduct("Leite", CategoryAlimentos, decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, ErrNegativePrice)

	_, err = st.CreateProduct("MAÇÃS", CategoryAlimentos, decimal.NewFromInt(4))
	assert.ErrorIs(t, err, ErrDuplicateProduct)

	p, err := st.CreateProduct("Leite", CategoryAlimentos, decimal.RequireFromString("6.80"))
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
}

func TestStoreCreateItemValidation(t *testing.T) {
	st := New()

	_, err := st.CreateItem("101", "1", 0, PriorityAlta)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = st.CreateItem("101", "1", 1, Priority("urgente"))
	assert.ErrorIs(t, err, ErrInvalidPriority)

	it, err := st.CreateItem("101", "1", 2, PriorityAlta)
	require.NoError(t, err)
	assert.Equal(t, StatusAComprar, it.Status)
	assert.False(t, it.DateAdded.IsZero())

	_, err = st.CreateItem("101", "2", 1, PriorityBaixa)
	assert.ErrorIs(t, err, ErrDuplicateItem)
	assert.Len(t, st.Snapshot().Items, 1)
}

func TestStoreSnapshotIsDetached(t *testing.T) {
	st := New()
	snap := st.Snapshot()

	_, err := st.CreateUser("Carol", "carol@example.com")
	require.NoError(t, err)

	assert.Len(t, snap.Users, 2)
	assert.Len(t, st.Snapshot().Users, 3)
}

// TestShoppingScenario walks the end-to-end flow: add an item for Alice,
// mark it as being bought, then remove Alice and watch the item go with her.
func TestShoppingScenario(t *testing.T) {
	st := New()

	it, err := st.CreateItem("101", "1", 3, PriorityAlta)
	require.NoError(t, err)
	assert.Equal(t, StatusAComprar, it.Status)

	snap := st.Snapshot()
	product, ok := snap.ProductByID("101")
	require.True(t, ok)
	assert.Equal(t, "16.50", LineTotal(product, it).StringFixed(2))

	require.NoError(t, st.Dispatch(UpdateItemStatus{ID: it.ID, Status: StatusComprando}))

	snap = st.Snapshot()
	got, ok := snap.ItemByID(it.ID)
	require.True(t, ok)
	assert.Equal(t, StatusComprando, got.Status)
	assert.Equal(t, 3, got.Quantity)
	assert.Equal(t, PriorityAlta, got.Priority)

	require.NoError(t, st.Dispatch(RemoveUser{ID: "1"}))

	snap = st.Snapshot()
	assert.Empty(t, snap.Items)
	assertNoDanglingRefs(t, snap)
}
