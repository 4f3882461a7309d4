package service

import (
	"context"
	"testing"
	"time"

	"restaurant-storefront/cart"
	"restaurant-storefront/dbtest"
	"restaurant-storefront/models"
	"restaurant-storefront/repository"
	"restaurant-storefront/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newAuth(t *testing.T, db *gorm.DB, admins ...string) (*AuthService, *session.Manager) {
	t.Helper()
	mgr := session.NewManager(repository.NewSessionRepository(db), []byte("test-secret"), time.Hour)
	svc := NewAuthService(repository.NewUserRepository(db), mgr, admins, zap.NewNop())
	svc.cost = bcrypt.MinCost
	return svc, mgr
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	db := dbtest.Open(t)
	auth, mgr := newAuth(t, db, "Chef@Example.com")
	ctx := context.Background()

	user, sess, err := auth.Register(ctx, RegisterRequest{Name: "Asha", Email: " Asha@Example.com ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", user.Email)
	assert.Equal(t, models.RoleCustomer, user.Role)
	assert.NotEqual(t, "secret1", user.PasswordHash)

	resolved, err := mgr.Resolve(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.UserID)

	profile, err := NewProfileService(repository.NewProfileRepository(db)).Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Asha", profile.FullName)

	_, _, err = auth.Register(ctx, RegisterRequest{Name: "Other", Email: "asha@example.com", Password: "secret2"})
	assert.ErrorIs(t, err, ErrConflict)

	_, _, err = auth.Register(ctx, RegisterRequest{Name: "Short", Email: "short@example.com", Password: "abc"})
	assert.ErrorIs(t, err, ErrValidation)

	admin, _, err := auth.Register(ctx, RegisterRequest{Name: "Chef", Email: "chef@example.com", Password: "kitchen"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)

	_, _, err = auth.Login(ctx, LoginRequest{Email: "asha@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, _, err = auth.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrUnauthorized)

	again, sess2, err := auth.Login(ctx, LoginRequest{Email: "ASHA@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)
	assert.NotEqual(t, sess.ID, sess2.ID)
}

func TestAuthService_LogoutDropsCart(t *testing.T) {
	db := dbtest.Open(t)
	auth, mgr := newAuth(t, db)
	ctx := context.Background()

	store := cart.NewMemoryStore()
	carts := NewCartService(store, nil, zap.NewNop())
	unsubscribe := mgr.Subscribe(carts.HandleSessionEvent)
	defer unsubscribe()

	user, sess, err := auth.Register(ctx, RegisterRequest{Name: "Asha", Email: "asha@example.com", Password: "secret1"})
	require.NoError(t, err)
	_, err = store.Update(ctx, user.ID, func(c *cart.Cart) error {
		c.Add(cart.Item{ID: "x", Name: "Pizza"})
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, auth.Logout(ctx, sess))

	c, err := store.Load(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())

	_, err = mgr.Resolve(ctx, sess.Token)
	assert.ErrorIs(t, err, session.ErrInvalid)
}

func TestProfileService_Update(t *testing.T) {
	db := dbtest.Open(t)
	svc := NewProfileService(repository.NewProfileRepository(db))
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }
	ctx := context.Background()

	empty, err := svc.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, uint(42), empty.ID)
	assert.Empty(t, empty.FullName)

	p, err := svc.Update(ctx, 42, ProfileUpdate{FullName: " Asha Rao ", Phone: "555-0100", Address: "12 Lake Road"})
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", p.FullName)
	assert.True(t, fixed.Equal(p.UpdatedAt))

	later := fixed.Add(time.Hour)
	svc.now = func() time.Time { return later }
	p, err = svc.Update(ctx, 42, ProfileUpdate{FullName: "Asha Rao", Phone: "555-0199"})
	require.NoError(t, err)
	assert.Equal(t, "555-0199", p.Phone)
	assert.Empty(t, p.Address)
	assert.True(t, later.Equal(p.UpdatedAt))

	_, err = svc.Update(ctx, 42, ProfileUpdate{FullName: "", Phone: "1"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestFeedbackService_Submit(t *testing.T) {
	db := dbtest.Open(t)
	svc := NewFeedbackService(repository.NewFeedbackRepository(db))
	ctx := context.Background()

	f, err := svc.Submit(ctx, FeedbackRequest{Name: "Asha", Email: "asha@example.com", Message: "Great biryani"})
	require.NoError(t, err)
	assert.Equal(t, 5, f.Rating)

	_, err = svc.Submit(ctx, FeedbackRequest{Name: "Asha", Email: "asha@example.com", Message: "Meh", Rating: 9})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Submit(ctx, FeedbackRequest{Name: "Asha", Email: "not-an-email", Message: "Hi", Rating: 3})
	assert.ErrorIs(t, err, ErrValidation)

	recent, err := svc.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}
