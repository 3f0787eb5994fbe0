package cart_test

import (
	"math/rand/v2"
	"strconv"
	"sync"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/nikolayk812/beautyshop/internal/cart"
	"github.com/nikolayk812/beautyshop/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

type notificationRecorder struct {
	mu   sync.Mutex
	sent []domain.Notification
}

func (r *notificationRecorder) Notify(n domain.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
}

func TestStore_AddItem(t *testing.T) {
	tests := []struct {
		name      string
		products  []domain.Product
		wantItems []domain.LineItem
		wantQty   int
		wantTotal int64
		wantError string
	}{
		{
			name:     "same product twice: one line with quantity 2",
			products: []domain.Product{product(1, 6240), product(1, 6240)},
			wantItems: []domain.LineItem{
				lineItem(1, 6240, 2),
			},
			wantQty:   2,
			wantTotal: 12480,
		},
		{
			name:     "distinct products keep insertion order",
			products: []domain.Product{product(2, 3120), product(1, 5000), product(2, 3120)},
			wantItems: []domain.LineItem{
				lineItem(2, 3120, 2),
				lineItem(1, 5000, 1),
			},
			wantQty:   3,
			wantTotal: 11240,
		},
		{
			name:      "empty product ID: error",
			products:  []domain.Product{product(0, 100)},
			wantError: "product ID is empty",
		},
		{
			name: "currency mismatch: error",
			products: []domain.Product{{
				ID:    3,
				Name:  "Imported Balm",
				Price: domain.NewMoney(decimal.NewFromInt(10), currency.USD),
			}},
			wantError: "product[3] currency[USD] does not match cart currency[KES]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := cart.New(domain.KES, nil)

			var err error
			for _, p := range tt.products {
				if err = store.AddItem(p); err != nil {
					break
				}
			}
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				assert.True(t, store.Snapshot().IsEmpty())
				return
			}
			require.NoError(t, err)

			snapshot := store.Snapshot()
			assertItems(t, tt.wantItems, snapshot.Items)
			assert.Equal(t, tt.wantQty, snapshot.TotalQuantity)
			assert.True(t, snapshot.TotalAmount.Amount.Equal(decimal.NewFromInt(tt.wantTotal)),
				"total %s", snapshot.TotalAmount.Amount)
		})
	}
}

func TestStore_AddItem_Notifies(t *testing.T) {
	recorder := &notificationRecorder{}
	store := cart.New(domain.KES, recorder)

	require.NoError(t, store.AddItem(product(1, 6240)))

	require.Len(t, recorder.sent, 1)
	assert.Equal(t, domain.Notification{
		Message: "product-1 added to cart",
		Type:    domain.NotificationSuccess,
	}, recorder.sent[0])
}

func TestStore_RemoveOneUnit(t *testing.T) {
	tests := []struct {
		name      string
		setup     []domain.Product
		remove    domain.ProductID
		wantItems []domain.LineItem
		wantGone  bool
	}{
		{
			name:      "quantity 2 drops to 1",
			setup:     []domain.Product{product(1, 5000), product(1, 5000)},
			remove:    1,
			wantItems: []domain.LineItem{lineItem(1, 5000, 1)},
		},
		{
			name:      "quantity 1 removes the line",
			setup:     []domain.Product{product(1, 5000), product(2, 700)},
			remove:    1,
			wantItems: []domain.LineItem{lineItem(2, 700, 1)},
			wantGone:  true,
		},
		{
			name:      "unknown product is a no-op",
			setup:     []domain.Product{product(1, 5000)},
			remove:    42,
			wantItems: []domain.LineItem{lineItem(1, 5000, 1)},
		},
		{
			name:     "empty cart is a no-op",
			remove:   1,
			wantGone: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := cart.New(domain.KES, nil)
			for _, p := range tt.setup {
				require.NoError(t, store.AddItem(p))
			}

			store.RemoveOneUnit(tt.remove)

			snapshot := store.Snapshot()
			assertItems(t, tt.wantItems, snapshot.Items)
			assertConsistent(t, snapshot)
			if tt.wantGone {
				_, found := snapshot.Item(tt.remove)
				assert.False(t, found)
			}
		})
	}
}

func TestStore_DeleteItem(t *testing.T) {
	store := cart.New(domain.KES, nil)
	for range 3 {
		require.NoError(t, store.AddItem(product(1, 5000)))
	}
	require.NoError(t, store.AddItem(product(2, 700)))

	store.DeleteItem(1)

	snapshot := store.Snapshot()
	assertItems(t, []domain.LineItem{lineItem(2, 700, 1)}, snapshot.Items)
	assert.Equal(t, 1, snapshot.TotalQuantity)

	store.DeleteItem(99)
	assert.Len(t, store.Snapshot().Items, 1)
}

func TestStore_Clear(t *testing.T) {
	store := cart.New(domain.KES, nil)
	for range gofakeit.IntRange(1, 10) {
		require.NoError(t, store.AddItem(randomProduct()))
	}

	store.Clear()

	snapshot := store.Snapshot()
	assert.Empty(t, snapshot.Items)
	assert.Zero(t, snapshot.TotalQuantity)
	assert.True(t, snapshot.TotalAmount.IsZero())
	assert.Equal(t, domain.KES, snapshot.TotalAmount.Currency)

	store.Clear()
	assert.True(t, store.Snapshot().IsEmpty())
}

func TestStore_Snapshot_IsACopy(t *testing.T) {
	store := cart.New(domain.KES, nil)
	require.NoError(t, store.AddItem(product(1, 5000)))

	snapshot := store.Snapshot()
	snapshot.Items[0] = snapshot.Items[0].WithQuantity(100)

	require.NoError(t, store.AddItem(product(2, 700)))

	again := store.Snapshot()
	assert.Equal(t, 1, again.Items[0].Quantity)
	assert.Len(t, snapshot.Items, 1)
}

func TestStore_TotalsStayConsistent(t *testing.T) {
	store := cart.New(domain.KES, nil)
	catalog := make([]domain.Product, 5)
	for i := range catalog {
		catalog[i] = randomProduct()
		catalog[i].ID = domain.ProductID(i + 1)
	}

	for range 500 {
		p := catalog[rand.IntN(len(catalog))]
		switch rand.IntN(3) {
		case 0:
			require.NoError(t, store.AddItem(p))
		case 1:
			store.RemoveOneUnit(p.ID)
		case 2:
			store.DeleteItem(p.ID)
		}

		assertConsistent(t, store.Snapshot())
	}
}

func TestStore_ConcurrentMutations(t *testing.T) {
	store := cart.New(domain.KES, nil)

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.AddItem(product(1, 100)))
			assert.NoError(t, store.AddItem(product(2, 50)))
			store.RemoveOneUnit(2)
		}()
	}
	wg.Wait()

	snapshot := store.Snapshot()
	item, ok := snapshot.Item(1)
	require.True(t, ok)
	assert.Equal(t, 50, item.Quantity)
	assert.Equal(t, 50, snapshot.TotalQuantity)
	assertConsistent(t, snapshot)
}

func assertConsistent(t *testing.T, c domain.Cart) {
	t.Helper()

	qty := 0
	total := decimal.Zero
	for _, item := range c.Items {
		require.Positive(t, item.Quantity)
		require.True(t, item.TotalPrice.Amount.Equal(item.UnitPrice.Amount.Mul(decimal.NewFromInt(int64(item.Quantity)))))
		qty += item.Quantity
		total = total.Add(item.UnitPrice.Amount.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	assert.Equal(t, qty, c.TotalQuantity)
	assert.True(t, c.TotalAmount.Amount.Equal(total), "total %s != %s", c.TotalAmount.Amount, total)
}

func assertItems(t *testing.T, expected, actual []domain.LineItem) {
	t.Helper()

	decimalComparer := cmp.Comparer(func(x, y decimal.Decimal) bool {
		return x.Equal(y)
	})
	currencyComparer := cmp.Comparer(func(x, y currency.Unit) bool {
		return x.String() == y.String()
	})

	if len(expected) == 0 {
		assert.Empty(t, actual)
		return
	}

	diff := cmp.Diff(expected, actual, decimalComparer, currencyComparer)
	assert.Empty(t, diff)
}

func product(id int64, price int64) domain.Product {
	return domain.Product{
		ID:    domain.ProductID(id),
		Name:  "product-" + strconv.FormatInt(id, 10),
		Price: domain.NewMoney(decimal.NewFromInt(price), domain.KES),
		Image: "product.jpg",
	}
}

func lineItem(id int64, price int64, qty int) domain.LineItem {
	return domain.NewLineItem(product(id, price)).WithQuantity(qty)
}

func randomProduct() domain.Product {
	return domain.Product{
		ID:    domain.ProductID(gofakeit.Int64()&0xffff + 1),
		Name:  gofakeit.ProductName(),
		Price: domain.NewMoney(decimal.NewFromFloat(gofakeit.Price(500, 9000)).Round(2), domain.KES),
		Image: gofakeit.URL(),
	}
}
