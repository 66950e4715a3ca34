package cart

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	carts    map[uuid.UUID]Cart
	items    map[uuid.UUID]Item
	products map[uuid.UUID]Product
	touched  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		carts:    map[uuid.UUID]Cart{},
		items:    map[uuid.UUID]Item{},
		products: map[uuid.UUID]Product{},
	}
}

func (f *fakeStore) CreateCart(ctx context.Context, userID *uuid.UUID, anonID *string, expiresAt time.Time) (Cart, error) {
	c := Cart{ID: uuid.New(), UserID: userID, AnonID: anonID, ExpiresAt: &expiresAt}
	f.carts[c.ID] = c
	return c, nil
}

func (f *fakeStore) GetCartByID(ctx context.Context, id uuid.UUID) (Cart, error) {
	c, ok := f.carts[id]
	if !ok {
		return Cart{}, pgx.ErrNoRows
	}
	return c, nil
}

func (f *fakeStore) GetActiveCartByUser(ctx context.Context, userID uuid.UUID) (Cart, error) {
	for _, c := range f.carts {
		if c.UserID != nil && *c.UserID == userID {
			return c, nil
		}
	}
	return Cart{}, pgx.ErrNoRows
}

func (f *fakeStore) GetActiveCartByAnon(ctx context.Context, anonID string) (Cart, error) {
	for _, c := range f.carts {
		if c.AnonID != nil && *c.AnonID == anonID {
			return c, nil
		}
	}
	return Cart{}, pgx.ErrNoRows
}

func (f *fakeStore) TouchCart(ctx context.Context, id uuid.UUID, expiresAt time.Time) error {
	f.touched++
	return nil
}

func (f *fakeStore) ListItems(ctx context.Context, cartID uuid.UUID) ([]Item, error) {
	var out []Item
	for _, it := range f.items {
		if it.CartID == cartID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeStore) FindItemByProduct(ctx context.Context, cartID, productID uuid.UUID) (Item, error) {
	for _, it := range f.items {
		if it.CartID == cartID && it.ProductID == productID {
			return it, nil
		}
	}
	return Item{}, pgx.ErrNoRows
}

func (f *fakeStore) GetItemByID(ctx context.Context, id uuid.UUID) (Item, error) {
	it, ok := f.items[id]
	if !ok {
		return Item{}, pgx.ErrNoRows
	}
	return it, nil
}

func (f *fakeStore) CreateItem(ctx context.Context, cartID, productID uuid.UUID, qty int32, unitPrice int64) error {
	it := Item{ID: uuid.New(), CartID: cartID, ProductID: productID, Qty: qty, UnitPrice: unitPrice, Subtotal: int64(qty) * unitPrice}
	f.items[it.ID] = it
	return nil
}

func (f *fakeStore) UpdateItemQty(ctx context.Context, id uuid.UUID, qty int32, subtotal int64) error {
	it := f.items[id]
	it.Qty = qty
	it.Subtotal = subtotal
	f.items[id] = it
	return nil
}

func (f *fakeStore) DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) error {
	delete(f.items, itemID)
	return nil
}

func (f *fakeStore) GetProductForCart(ctx context.Context, id uuid.UUID) (Product, error) {
	p, ok := f.products[id]
	if !ok {
		return Product{}, pgx.ErrNoRows
	}
	return p, nil
}

func (f *fakeStore) ClearItems(ctx context.Context, cartID uuid.UUID) error {
	for id, it := range f.items {
		if it.CartID == cartID {
			delete(f.items, id)
		}
	}
	return nil
}

func TestEnsureCartCreatesThenReuses(t *testing.T) {
	store := newFakeStore()
	svc := &Service{Repo: store}
	userID := uuid.New()

	first, err := svc.EnsureCart(context.Background(), &userID, nil)
	require.NoError(t, err)

	second, err := svc.EnsureCart(context.Background(), &userID, nil)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, store.touched, "existing cart gets its expiry extended")
}

func TestEnsureCartRequiresIdentity(t *testing.T) {
	svc := &Service{Repo: newFakeStore()}
	_, err := svc.EnsureCart(context.Background(), nil, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAddItemIncrementsExistingLine(t *testing.T) {
	store := newFakeStore()
	svc := &Service{Repo: store}
	cartID := uuid.New()
	store.carts[cartID] = Cart{ID: cartID}
	productID := uuid.New()
	store.products[productID] = Product{ID: productID, Title: "Toor Dal 1kg", Price: 16000, IsActive: true}

	require.NoError(t, svc.AddItem(context.Background(), cartID, productID, 2))
	require.NoError(t, svc.AddItem(context.Background(), cartID, productID, 3))

	items, err := store.ListItems(context.Background(), cartID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int32(5), items[0].Qty)
	assert.Equal(t, int64(80000), items[0].Subtotal)
}

func TestAddItemRejectsInactiveProduct(t *testing.T) {
	store := newFakeStore()
	svc := &Service{Repo: store}
	cartID := uuid.New()
	productID := uuid.New()
	store.products[productID] = Product{ID: productID, Price: 100, IsActive: false}

	err := svc.AddItem(context.Background(), cartID, productID, 1)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateQtyRejectsForeignCart(t *testing.T) {
	store := newFakeStore()
	svc := &Service{Repo: store}
	itemID := uuid.New()
	store.items[itemID] = Item{ID: itemID, CartID: uuid.New(), Qty: 1, UnitPrice: 100, Subtotal: 100}

	err := svc.UpdateQty(context.Background(), uuid.New(), itemID, 4)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetRejectsExpiredCart(t *testing.T) {
	store := newFakeStore()
	now := time.Now()
	svc := &Service{Repo: store, Now: func() time.Time { return now }}
	cartID := uuid.New()
	expired := now.Add(-time.Minute)
	store.carts[cartID] = Cart{ID: cartID, ExpiresAt: &expired}

	_, _, err := svc.Get(context.Background(), cartID)
	assert.ErrorIs(t, err, ErrNotFound)
}
