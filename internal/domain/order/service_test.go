package order_test

import (
	"context"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/geethwish/sales-crm/internal/clock"
	"github.com/geethwish/sales-crm/internal/docstore"
	"github.com/geethwish/sales-crm/internal/domain/order"
	"github.com/geethwish/sales-crm/internal/mongomock"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newFixture(t *testing.T) (*order.Service, *mongomock.Model[order.Order]) {
	t.Helper()
	clk := clock.NewFixed(testNow)
	c := mongomock.NewClient()
	m := mongomock.RegisterModel(c, "Order", mongomock.NewSchema(), order.Defaulter(clk))
	return order.NewService(m, clk, nil), m
}

func TestService_List(t *testing.T) {
	svc, m := newFixture(t)

	got, err := svc.List(context.Background(), order.ListFilter{Status: order.StatusPending, Source: "web"})
	require.NoError(t, err)
	assert.Empty(t, got)

	last, ok := m.LastCall(mongomock.OpFind)
	require.True(t, ok)
	assert.Equal(t, bson.M{"status": order.StatusPending, "source": "web"}, last.Args[0])
}

func TestService_Get(t *testing.T) {
	svc, m := newFixture(t)
	ctx := context.Background()

	t.Run("invalid id yields cast error", func(t *testing.T) {
		_, err := svc.Get(ctx, "not-an-id")
		assert.True(t, docstore.IsCast(err))
		// The model was never consulted.
		assert.Equal(t, 0, m.CallCount(mongomock.OpFindByID))
	})

	t.Run("missing document yields not found", func(t *testing.T) {
		_, err := svc.Get(ctx, primitive.NewObjectID().Hex())
		assert.True(t, docstore.IsNotFound(err))
	})

	t.Run("stubbed document is returned", func(t *testing.T) {
		want := order.WithDefaults(order.Order{Customer: "Alice"}, clock.NewFixed(testNow))
		m.StubFindByID(&want, nil)

		got, err := svc.Get(ctx, want.ID.Hex())
		require.NoError(t, err)
		assert.Equal(t, "Alice", got.Customer)
	})
}

func TestService_Create(t *testing.T) {
	svc, m := newFixture(t)
	ctx := context.Background()

	t.Run("applies defaults", func(t *testing.T) {
		created, err := svc.Create(ctx, order.CreateInput{Customer: "Alice"})
		require.NoError(t, err)

		assert.Equal(t, "Alice", created.Customer)
		assert.False(t, created.ID.IsZero())
		assert.Equal(t, order.DefaultCategory, created.Category)
		assert.Equal(t, order.DefaultSource, created.Source)
		assert.Equal(t, order.DefaultRegion, created.Region)
		assert.Equal(t, order.DefaultStatus, created.Status)
		assert.True(t, created.Amount.IsZero())
		assert.Equal(t, testNow, created.CreatedAt)
	})

	t.Run("missing customer", func(t *testing.T) {
		_, err := svc.Create(ctx, order.CreateInput{})
		assert.True(t, docstore.IsValidation(err))
	})

	t.Run("negative amount", func(t *testing.T) {
		_, err := svc.Create(ctx, order.CreateInput{
			Customer: "Alice",
			Amount:   decimal.RequireFromString("-5"),
		})
		assert.True(t, docstore.IsValidation(err))
	})

	t.Run("injected driver failure", func(t *testing.T) {
		m.StubCreate(&docstore.NetworkError{Op: "insert", Err: errors.New("connection reset")})
		defer m.Reset()

		_, err := svc.Create(ctx, order.CreateInput{Customer: "Alice"})
		require.Error(t, err)
		var ne *docstore.NetworkError
		assert.ErrorAs(t, err, &ne)
	})
}

func TestService_Update(t *testing.T) {
	svc, m := newFixture(t)
	ctx := context.Background()
	id := primitive.NewObjectID().Hex()

	t.Run("missing document yields not found", func(t *testing.T) {
		status := order.StatusShipped
		_, err := svc.Update(ctx, id, order.UpdateInput{Status: &status})
		assert.True(t, docstore.IsNotFound(err))
	})

	t.Run("builds a set update", func(t *testing.T) {
		want := order.WithDefaults(order.Order{Customer: "Alice"}, clock.NewFixed(testNow))
		m.StubFindByIDAndUpdate(&want, nil)
		defer m.Reset()

		status := order.StatusShipped
		amount := decimal.RequireFromString("25.00")
		_, err := svc.Update(ctx, id, order.UpdateInput{Status: &status, Amount: &amount})
		require.NoError(t, err)

		last, ok := m.LastCall(mongomock.OpFindByIDAndUpdate)
		require.True(t, ok)
		assert.Equal(t, id, last.Args[0])
		set := last.Args[1].(bson.M)["$set"].(bson.M)
		assert.Equal(t, order.StatusShipped, set["status"])
		assert.Equal(t, testNow, set["updated_at"])
		assert.NotContains(t, set, "category")
	})

	t.Run("negative amount", func(t *testing.T) {
		amount := decimal.RequireFromString("-1")
		_, err := svc.Update(ctx, id, order.UpdateInput{Amount: &amount})
		assert.True(t, docstore.IsValidation(err))
	})
}

func TestService_Delete(t *testing.T) {
	svc, m := newFixture(t)
	ctx := context.Background()

	t.Run("invalid id", func(t *testing.T) {
		err := svc.Delete(ctx, "nope")
		assert.True(t, docstore.IsCast(err))
	})

	t.Run("missing document", func(t *testing.T) {
		err := svc.Delete(ctx, primitive.NewObjectID().Hex())
		assert.True(t, docstore.IsNotFound(err))
	})

	t.Run("stubbed document deletes", func(t *testing.T) {
		want := order.WithDefaults(order.Order{Customer: "Alice"}, clock.NewFixed(testNow))
		m.StubFindByIDAndDelete(&want, nil)
		defer m.Reset()

		require.NoError(t, svc.Delete(ctx, want.ID.Hex()))
	})
}

func TestService_Count(t *testing.T) {
	svc, m := newFixture(t)
	ctx := context.Background()

	n, err := svc.Count(ctx, order.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	m.StubCountDocuments(7, nil)
	n, err = svc.Count(ctx, order.ListFilter{Category: "hardware"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)

	last, ok := m.LastCall(mongomock.OpCountDocuments)
	require.True(t, ok)
	assert.Equal(t, bson.M{"category": "hardware"}, last.Args[0])
}

func TestService_RevenueBySource(t *testing.T) {
	svc, m := newFixture(t)
	ctx := context.Background()

	t.Run("empty by default", func(t *testing.T) {
		buckets, err := svc.RevenueBySource(ctx)
		require.NoError(t, err)
		assert.Empty(t, buckets)
	})

	t.Run("decodes stubbed rows", func(t *testing.T) {
		m.StubAggregate([]bson.M{
			{"_id": "web", "orders": int64(3), "revenue": "120.50"},
			{"_id": "referral", "orders": int32(1), "revenue": 49.99},
		}, nil)
		defer m.Reset()

		buckets, err := svc.RevenueBySource(ctx)
		require.NoError(t, err)
		require.Len(t, buckets, 2)

		assert.Equal(t, "web", buckets[0].Key)
		assert.Equal(t, int64(3), buckets[0].Orders)
		assert.True(t, decimal.RequireFromString("120.50").Equal(buckets[0].Revenue))

		assert.Equal(t, "referral", buckets[1].Key)
		assert.Equal(t, int64(1), buckets[1].Orders)
	})

	t.Run("group stage targets source", func(t *testing.T) {
		_, err := svc.RevenueBySource(ctx)
		require.NoError(t, err)

		last, ok := m.LastCall(mongomock.OpAggregate)
		require.True(t, ok)
		pipeline := last.Args[0].([]bson.M)
		group := pipeline[0]["$group"].(bson.M)
		assert.Equal(t, "$source", group["_id"])
	})

	t.Run("malformed row", func(t *testing.T) {
		m.StubAggregate([]bson.M{{"_id": 42}}, nil)
		defer m.Reset()

		_, err := svc.RevenueBySource(ctx)
		require.Error(t, err)
	})
}
