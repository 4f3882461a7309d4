package service

import (
	"context"
	"errors"
	"testing"

	"restaurant-storefront/cart"
	"restaurant-storefront/dbtest"
	"restaurant-storefront/events"
	"restaurant-storefront/models"
	"restaurant-storefront/receipt"
	"restaurant-storefront/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, ev events.OrderEvent) error {
	return m.Called(ev.Type, ev.OrderID).Error(0)
}

func (m *mockPublisher) Close() error { return nil }

type fixture struct {
	db        *gorm.DB
	menuRepo  repository.MenuRepository
	orderRepo repository.OrderRepository
	carts     *cart.MemoryStore
	publisher *mockPublisher

	menu     *MenuService
	cart     *CartService
	checkout *CheckoutService
	payment  *PaymentService
	orders   *OrderService

	pizza, salad, retired *models.MenuItem
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.Open(t)
	log := zap.NewNop()
	f := &fixture{
		db:        db,
		menuRepo:  repository.NewMenuRepository(db),
		orderRepo: repository.NewOrderRepository(db),
		carts:     cart.NewMemoryStore(),
		publisher: &mockPublisher{},
	}
	f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil).Maybe()

	f.pizza = &models.MenuItem{Name: "Margherita", Price: decimal.NewFromInt(100), Category: "Pizza", Available: true}
	f.salad = &models.MenuItem{Name: "Greek Salad", Price: decimal.NewFromInt(50), Category: "Salads", Available: true}
	f.retired = &models.MenuItem{Name: "Retired Special", Price: decimal.NewFromInt(10), Category: "Pizza", Available: false}
	require.NoError(t, f.menuRepo.Create(context.Background(), f.pizza, f.salad, f.retired))

	f.menu = NewMenuService(f.menuRepo, nil, log)
	f.cart = NewCartService(f.carts, f.menu, log)
	f.checkout = NewCheckoutService(f.orderRepo, f.carts, f.publisher, log)
	f.payment = NewPaymentService(f.orderRepo, f.publisher, log)
	f.orders = NewOrderService(f.orderRepo, receipt.DefaultQRGenerator{BaseURL: "http://localhost:8080"})
	return f
}

var contact = CheckoutRequest{
	CustomerName:    "Asha",
	CustomerPhone:   "555-0100",
	CustomerAddress: "12 Lake Road",
}

func (f *fixture) placeOrder(t *testing.T, userID uint) *models.Order {
	t.Helper()
	ctx := context.Background()
	_, err := f.cart.Add(ctx, userID, f.pizza.ID)
	require.NoError(t, err)
	_, err = f.cart.Add(ctx, userID, f.pizza.ID)
	require.NoError(t, err)
	_, err = f.cart.Add(ctx, userID, f.salad.ID)
	require.NoError(t, err)
	order, err := f.checkout.Checkout(ctx, userID, contact)
	require.NoError(t, err)
	return order
}

func TestGroupByCategory(t *testing.T) {
	items := []models.MenuItem{
		{Name: "a", Category: "Desserts"},
		{Name: "b", Category: "Mains"},
		{Name: "c", Category: "Mains"},
		{Name: "d", Category: "Starters"},
	}
	groups := GroupByCategory(items)
	require.Len(t, groups, 3)
	assert.Equal(t, "Desserts", groups[0].Category)
	assert.Equal(t, "Mains", groups[1].Category)
	assert.Len(t, groups[1].Items, 2)
	assert.Equal(t, "c", groups[1].Items[1].Name)
	assert.Empty(t, GroupByCategory(nil))
}

func TestMenuService_GroupedSkipsUnavailable(t *testing.T) {
	f := newFixture(t)
	groups, err := f.menu.Grouped(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "Pizza", groups[0].Category)
	require.Len(t, groups[0].Items, 1)
	assert.Equal(t, "Margherita", groups[0].Items[0].Name)
}

func TestMenuService_AdminEdits(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	name, cat := "Tiramisu", "Desserts"
	price := decimal.RequireFromString("120.456")
	item, err := f.menu.AddItem(ctx, MenuItemInput{Name: &name, Price: &price, Category: &cat})
	require.NoError(t, err)
	assert.True(t, item.Available)
	assert.Equal(t, "120.46", item.Price.StringFixed(2))

	_, err = f.menu.AddItem(ctx, MenuItemInput{Name: &name})
	assert.ErrorIs(t, err, ErrValidation)

	off := false
	updated, err := f.menu.UpdateItem(ctx, item.ID, MenuItemInput{Available: &off})
	require.NoError(t, err)
	assert.False(t, updated.Available)

	_, err = f.menu.UpdateItem(ctx, "missing", MenuItemInput{Available: &off})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, f.menu.DeleteItem(ctx, item.ID))
	assert.ErrorIs(t, f.menu.DeleteItem(ctx, item.ID), ErrNotFound)
}

func TestMenuService_DeleteKeepsOrderedItems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.placeOrder(t, 1)

	err := f.menu.DeleteItem(ctx, f.pizza.ID)
	assert.ErrorIs(t, err, ErrConflict)

	history, err := f.orders.History(ctx, 1)
	require.NoError(t, err)
	require.Len(t, history, 1)
	names := map[string]bool{}
	for _, it := range history[0].Items {
		require.NotNil(t, it.MenuItem)
		names[it.MenuItem.Name] = true
	}
	assert.True(t, names["Margherita"])
	assert.True(t, names["Greek Salad"])

	// an item nobody ordered can still go
	require.NoError(t, f.menu.DeleteItem(ctx, f.retired.ID))
}

func TestCartService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.cart.Add(ctx, 1, f.pizza.ID)
	require.NoError(t, err)
	_, err = f.cart.Add(ctx, 1, f.pizza.ID)
	require.NoError(t, err)
	view, err := f.cart.Add(ctx, 1, f.salad.ID)
	require.NoError(t, err)
	assert.Equal(t, "250.00", view.Total.StringFixed(2))
	assert.Equal(t, 3, view.Count)
	assert.Len(t, view.Items, 2)

	_, err = f.cart.Add(ctx, 1, f.retired.ID)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.cart.Add(ctx, 1, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	view, err = f.cart.Decrement(ctx, 1, f.pizza.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, view.Count)
	assert.Equal(t, "150.00", view.Total.StringFixed(2))
	_, err = f.cart.Decrement(ctx, 1, f.retired.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	view, err = f.cart.UpdateQuantity(ctx, 1, f.pizza.ID, -3)
	require.NoError(t, err)
	assert.Len(t, view.Items, 1)
	assert.Equal(t, "50.00", view.Total.StringFixed(2))

	_, err = f.cart.Remove(ctx, 1, f.pizza.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	view, err = f.cart.Remove(ctx, 1, f.salad.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.Equal(t, 0, view.Count)

	// carts are per user
	other, err := f.cart.View(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, other.Items)
}

func TestCheckout_CreatesPendingOrderAndClearsCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order := f.placeOrder(t, 1)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, "250.00", order.TotalAmount.StringFixed(2))
	assert.Nil(t, order.PaymentMethod)
	assert.True(t, order.TotalAmount.Equal(order.ItemsTotal()))

	stored, err := f.orderRepo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Items, 2)
	require.Len(t, stored.StatusHistory, 1)
	assert.Equal(t, models.StatusPending, stored.StatusHistory[0].ToStatus)

	view, err := f.cart.View(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, view.Items)

	f.publisher.AssertCalled(t, "Publish", events.OrderCreated, order.ID)
}

func TestCheckout_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.checkout.Checkout(ctx, 1, contact)
	assert.ErrorIs(t, err, ErrEmptyCart)

	_, err = f.cart.Add(ctx, 1, f.pizza.ID)
	require.NoError(t, err)
	_, err = f.checkout.Checkout(ctx, 1, CheckoutRequest{CustomerName: "  ", CustomerPhone: "1", CustomerAddress: "x"})
	assert.ErrorIs(t, err, ErrValidation)

	count, err := f.orderRepo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	// the cart survives a rejected checkout
	view, err := f.cart.View(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Count)
}

// lateAddStore adds a line right after the checkout has read the cart.
type lateAddStore struct {
	*cart.MemoryStore
	late cart.Item
	once bool
}

func (s *lateAddStore) Load(ctx context.Context, userID uint) (*cart.Cart, error) {
	c, err := s.MemoryStore.Load(ctx, userID)
	if err != nil || s.once {
		return c, err
	}
	s.once = true
	_, err = s.MemoryStore.Update(ctx, userID, func(cur *cart.Cart) error {
		cur.Add(s.late)
		cur.Add(cart.Item{ID: "pizza-line"})
		return nil
	})
	return c, err
}

func TestCheckout_KeepsLinesAddedDuringCheckout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	store := &lateAddStore{MemoryStore: cart.NewMemoryStore(), late: cart.Item{ID: "late", Name: "Lassi", Price: decimal.NewFromInt(40)}}
	_, err := store.Update(ctx, 1, func(c *cart.Cart) error {
		c.Add(cart.Item{ID: "pizza-line", Name: "Pizza", Price: decimal.NewFromInt(100)})
		return nil
	})
	require.NoError(t, err)
	checkout := NewCheckoutService(f.orderRepo, store, f.publisher, zap.NewNop())

	order, err := checkout.Checkout(ctx, 1, contact)
	require.NoError(t, err)
	assert.Equal(t, "100.00", order.TotalAmount.StringFixed(2))

	left, err := store.MemoryStore.Load(ctx, 1)
	require.NoError(t, err)
	require.Len(t, left.Items, 2)
	late, ok := left.Find("late")
	require.True(t, ok)
	assert.Equal(t, 1, late.Quantity)
	pizza, ok := left.Find("pizza-line")
	require.True(t, ok)
	assert.Equal(t, 1, pizza.Quantity)
}

func TestCheckout_PublishFailureDoesNotFail(t *testing.T) {
	f := newFixture(t)
	pub := &mockPublisher{}
	pub.On("Publish", events.OrderCreated, mock.Anything).Return(errors.New("broker down")).Once()
	f.checkout = NewCheckoutService(f.orderRepo, f.carts, pub, zap.NewNop())

	order := f.placeOrder(t, 1)
	assert.NotEmpty(t, order.ID)
	pub.AssertExpectations(t)
}

func TestPayment_MarksOrderPaid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.placeOrder(t, 1)

	paid, err := f.payment.Pay(ctx, 1, order.ID, PaymentRequest{
		PaymentMethod: models.PaymentUPI,
		Amount:        decimal.RequireFromString("250.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaid, paid.Status)
	require.NotNil(t, paid.PaymentMethod)
	assert.Equal(t, models.PaymentUPI, *paid.PaymentMethod)
	require.Len(t, paid.StatusHistory, 2)
	assert.Equal(t, models.StatusPending, paid.StatusHistory[1].FromStatus)
	assert.Equal(t, models.StatusPaid, paid.StatusHistory[1].ToStatus)
	f.publisher.AssertCalled(t, "Publish", events.OrderPaid, order.ID)

	_, err = f.payment.Pay(ctx, 1, order.ID, PaymentRequest{PaymentMethod: models.PaymentCard, Amount: order.TotalAmount})
	assert.ErrorIs(t, err, ErrTransition)
}

func TestPayment_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.placeOrder(t, 1)

	tests := []struct {
		name   string
		userID uint
		id     string
		req    PaymentRequest
		want   error
	}{
		{"unknown method", 1, order.ID, PaymentRequest{PaymentMethod: "cash", Amount: order.TotalAmount}, ErrValidation},
		{"missing order", 1, "nope", PaymentRequest{PaymentMethod: models.PaymentCard, Amount: order.TotalAmount}, ErrNotFound},
		{"someone else's order", 2, order.ID, PaymentRequest{PaymentMethod: models.PaymentCard, Amount: order.TotalAmount}, ErrForbidden},
		{"wrong amount", 1, order.ID, PaymentRequest{PaymentMethod: models.PaymentCard, Amount: decimal.NewFromInt(1)}, ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.payment.Pay(ctx, tt.userID, tt.id, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	stored, err := f.orderRepo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, stored.Status)
}

func TestOrderService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.placeOrder(t, 1)
	second := f.placeOrder(t, 1)
	f.placeOrder(t, 2)

	_, err := f.payment.Pay(ctx, 1, first.ID, PaymentRequest{PaymentMethod: models.PaymentCard, Amount: first.TotalAmount})
	require.NoError(t, err)

	history, err := f.orders.History(ctx, 1)
	require.NoError(t, err)
	require.Len(t, history, 2)
	ids := []string{history[0].ID, history[1].ID}
	assert.ElementsMatch(t, []string{first.ID, second.ID}, ids)
	assert.False(t, history[0].CreatedAt.Before(history[1].CreatedAt))
	for _, v := range history {
		assert.Equal(t, v.Status.Badge(), v.Badge)
		require.NotEmpty(t, v.Items)
		require.NotNil(t, v.Items[0].MenuItem)
		assert.NotEmpty(t, v.Items[0].MenuItem.Name)
	}

	_, err = f.orders.Detail(ctx, 2, first.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.orders.Detail(ctx, 1, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	png, err := f.orders.Receipt(ctx, 1, first.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), png[:4])

	overview, err := f.orders.AdminOverview(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 3, overview.Total)
	require.Len(t, overview.Summary, 5)
	assert.Equal(t, models.StatusPending, overview.Summary[0].Status)
	assert.Equal(t, 2, overview.Summary[0].Count)
	assert.Equal(t, "500.00", overview.Summary[0].Amount.StringFixed(2))
	assert.Equal(t, 1, overview.Summary[1].Count)

	paidOnly, err := f.orders.AdminOverview(ctx, models.StatusPaid)
	require.NoError(t, err)
	assert.Equal(t, 1, paidOnly.Total)

	_, err = f.orders.AdminOverview(ctx, "shipped")
	assert.ErrorIs(t, err, ErrValidation)
}
