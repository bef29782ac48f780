package order

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/geethwish/sales-crm/internal/clock"
)

// Status enumerates the order lifecycle states.
type Status string

const (
	StatusPending   Status = "pending"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// Defaults applied to omitted fields on construction.
const (
	DefaultCategory = "general"
	DefaultSource   = "direct"
	DefaultRegion   = "unknown"
	DefaultStatus   = StatusPending
)

// Order is a sales record as stored in the orders collection. It is a plain
// value: construction applies defaults, nothing persists it.
type Order struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Customer  string             `bson:"customer" json:"customer"`
	Category  string             `bson:"category" json:"category"`
	Date      time.Time          `bson:"date" json:"date"`
	Source    string             `bson:"source" json:"source"`
	Region    string             `bson:"region" json:"region"`
	Amount    decimal.Decimal    `bson:"amount" json:"amount"`
	Status    Status             `bson:"status" json:"status"`
	UserID    string             `bson:"user_id" json:"userId"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}

// WithDefaults returns o with every omitted field set to its default: a
// fresh object ID, the Default* constants above, and timestamps from clk.
// Provided fields pass through untouched. Amount's zero value is already
// the documented default.
func WithDefaults(o Order, clk clock.Clock) Order {
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	if o.Category == "" {
		o.Category = DefaultCategory
	}
	if o.Source == "" {
		o.Source = DefaultSource
	}
	if o.Region == "" {
		o.Region = DefaultRegion
	}
	if o.Status == "" {
		o.Status = DefaultStatus
	}

	now := clk.Now()
	if o.Date.IsZero() {
		o.Date = now
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	if o.UpdatedAt.IsZero() {
		o.UpdatedAt = now
	}
	return o
}

// Defaulter binds clk into the defaulting hook used when registering the
// orders model with the mock driver.
func Defaulter(clk clock.Clock) func(Order) Order {
	return func(o Order) Order {
		return WithDefaults(o, clk)
	}
}
