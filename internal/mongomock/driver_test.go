package mongomock

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/geethwish/sales-crm/internal/clock"
	"github.com/geethwish/sales-crm/internal/docstore"
	"github.com/geethwish/sales-crm/internal/domain/order"
)

func TestClient_Lifecycle(t *testing.T) {
	c := NewClient(WithLogger(zaptest.NewLogger(t)))
	ctx := context.Background()

	// The double starts out ready.
	assert.Equal(t, docstore.StateConnected, c.State())
	assert.True(t, c.State().Ready())

	require.NoError(t, c.Connect(ctx))
	assert.Equal(t, docstore.StateConnected, c.State())

	require.NoError(t, c.Disconnect(ctx))
	assert.Equal(t, docstore.StateDisconnected, c.State())

	require.NoError(t, c.Connect(ctx))
	assert.True(t, c.State().Ready())
}

func TestClient_SessionIDPerConnect(t *testing.T) {
	c := NewClient()
	ctx := context.Background()

	first := c.SessionID()
	require.NotEmpty(t, first)

	require.NoError(t, c.Connect(ctx))
	second := c.SessionID()

	assert.NotEqual(t, first, second)
}

func TestClient_IsValidObjectID(t *testing.T) {
	c := NewClient()

	assert.True(t, c.IsValidObjectID("507f1f77bcf86cd799439011"))
	assert.True(t, c.IsValidObjectID("definitely not an id"))
	assert.True(t, c.IsValidObjectID(""))
}

func TestRegisterModel_ReturnsSameInstance(t *testing.T) {
	c := NewClient()

	schema := NewSchema().Field("customer", FieldSpec{Type: "string", Required: true})
	first := RegisterModel(c, "Order", schema, order.Defaulter(clock.NewSystem()))

	// Re-registration ignores its arguments and returns the existing model.
	second := RegisterModel[order.Order](c, "Order", NewSchema(), nil)

	assert.Same(t, first, second)

	got, ok := c.RegisteredSchema("Order")
	require.True(t, ok)
	assert.True(t, got.HasField("customer"))
}

func TestRegisterModel_DifferentTypeSameName(t *testing.T) {
	c := NewClient()

	type user struct{ Name string }
	orders := RegisterModel[order.Order](c, "Order", nil, nil)
	users := RegisterModel[user](c, "Order", nil, nil)

	// The mismatched caller gets a usable standalone double.
	require.NotNil(t, users)
	assert.Equal(t, "Order", users.Name())
	created, err := users.Create(context.Background(), user{Name: "Alice"})
	require.NoError(t, err)
	assert.Equal(t, "Alice", created.Name)

	// The registry keeps the original registration.
	again := RegisterModel[order.Order](c, "Order", nil, nil)
	assert.Same(t, orders, again)
}

func TestRegisterModel_SeparateNames(t *testing.T) {
	c := NewClient()

	orders := RegisterModel[order.Order](c, "Order", nil, nil)
	users := RegisterModel[struct{ Name string }](c, "User", nil, nil)

	assert.Equal(t, "Order", orders.Name())
	assert.Equal(t, "User", users.Name())

	_, ok := c.RegisteredSchema("Order")
	assert.False(t, ok)
}
