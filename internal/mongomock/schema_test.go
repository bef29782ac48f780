package mongomock

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/geethwish/sales-crm/internal/domain/order"
)

func TestSchema_RecordsDeclarations(t *testing.T) {
	s := NewSchema().
		Field("customer", FieldSpec{Type: "string", Required: true}).
		Field("status", FieldSpec{Type: "string", Default: "pending"}).
		Index(bson.M{"user_id": 1}, false).
		Index(bson.M{"customer": 1, "date": -1}, true).
		Pre("save", func() {}).
		Pre("save", func() {}).
		Post("remove", func() {}).
		VirtualProp("displayName", Virtual{Getter: func() any { return "" }})

	fields := s.Fields()
	require.Len(t, fields, 2)
	assert.True(t, fields["customer"].Required)
	assert.Equal(t, "pending", fields["status"].Default)
	assert.True(t, s.HasField("status"))
	assert.False(t, s.HasField("amount"))

	indexes := s.Indexes()
	require.Len(t, indexes, 2)
	assert.False(t, indexes[0].Unique)
	assert.True(t, indexes[1].Unique)

	assert.Equal(t, 2, s.PreHookCount("save"))
	assert.Equal(t, 0, s.PreHookCount("remove"))
	assert.Equal(t, 1, s.PostHookCount("remove"))

	assert.True(t, s.HasVirtual("displayName"))
	assert.False(t, s.HasVirtual("other"))
}

func TestSchema_FieldRedeclarationOverwrites(t *testing.T) {
	s := NewSchema().
		Field("status", FieldSpec{Type: "string", Default: "pending"}).
		Field("status", FieldSpec{Type: "string", Default: "shipped"})

	assert.Equal(t, "shipped", s.Fields()["status"].Default)
}

func TestSchema_NeverEnforced(t *testing.T) {
	c := NewClient()
	schema := NewSchema().Field("customer", FieldSpec{Type: "string", Required: true})
	m := RegisterModel[order.Order](c, "Order", schema, nil)

	// The required field is missing, yet the model accepts the document.
	created, err := m.Create(context.Background(), order.Order{Category: "hardware"})
	require.NoError(t, err)
	assert.Empty(t, created.Customer)
}
