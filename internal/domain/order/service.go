package order

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/geethwish/sales-crm/internal/clock"
	"github.com/geethwish/sales-crm/internal/docstore"
)

// modelName tags taxonomy errors raised by the service.
const modelName = "Order"

// ListFilter narrows List and Count to matching orders. Zero fields are
// not included in the query.
type ListFilter struct {
	Status   Status
	Category string
	Source   string
	UserID   string
}

// CreateInput holds the caller-supplied fields for a new order. Omitted
// fields receive the documented defaults.
type CreateInput struct {
	Customer string
	Category string
	Source   string
	Region   string
	Amount   decimal.Decimal
	Status   Status
	UserID   string
}

// UpdateInput holds the mutable fields for an order update. Nil pointers
// leave the stored value untouched.
type UpdateInput struct {
	Status   *Status
	Category *string
	Amount   *decimal.Decimal
}

// RevenueBucket is one row of a revenue aggregation, keyed by the grouped
// field value.
type RevenueBucket struct {
	Key     string
	Orders  int64
	Revenue decimal.Decimal
}

// Service implements the order use cases on top of a registered document
// model. It holds no state of its own.
type Service struct {
	orders docstore.Model[Order]
	clk    clock.Clock
	lg     *zap.Logger
}

// NewService creates an order Service. A nil logger is replaced with a
// no-op one.
func NewService(orders docstore.Model[Order], clk clock.Clock, lg *zap.Logger) *Service {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Service{orders: orders, clk: clk, lg: lg}
}

// List returns the orders matching the filter.
func (s *Service) List(ctx context.Context, f ListFilter) ([]Order, error) {
	filter := f.query()

	docs, err := s.orders.Find(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "find orders")
	}

	s.lg.Debug("listed orders", zap.Int("count", len(docs)))
	return docs, nil
}

// Get returns the order with the given ID. A malformed ID yields a
// CastError, a missing document a NotFoundError.
func (s *Service) Get(ctx context.Context, id string) (*Order, error) {
	if !docstore.IsValidObjectID(id) {
		return nil, &docstore.CastError{Path: "_id", Value: id}
	}

	doc, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "find order %s", id)
	}
	if doc == nil {
		return nil, &docstore.NotFoundError{Model: modelName, ID: id}
	}
	return doc, nil
}

// Create validates the input, fills defaults, and persists a new order.
func (s *Service) Create(ctx context.Context, in CreateInput) (Order, error) {
	if in.Customer == "" {
		return Order{}, &docstore.ValidationError{Model: modelName, Field: "customer", Reason: "required"}
	}
	if in.Amount.IsNegative() {
		return Order{}, &docstore.ValidationError{Model: modelName, Field: "amount", Reason: "must not be negative"}
	}

	doc := WithDefaults(Order{
		Customer: in.Customer,
		Category: in.Category,
		Source:   in.Source,
		Region:   in.Region,
		Amount:   in.Amount,
		Status:   in.Status,
		UserID:   in.UserID,
	}, s.clk)

	created, err := s.orders.Create(ctx, doc)
	if err != nil {
		return Order{}, errors.Wrap(err, "create order")
	}

	s.lg.Info("created order",
		zap.String("id", created.ID.Hex()),
		zap.String("customer", created.Customer),
		zap.String("amount", created.Amount.String()),
	)
	return created, nil
}

// Update applies the given changes to the order and returns the resulting
// document.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*Order, error) {
	if !docstore.IsValidObjectID(id) {
		return nil, &docstore.CastError{Path: "_id", Value: id}
	}

	set := bson.M{"updated_at": s.clk.Now()}
	if in.Status != nil {
		set["status"] = *in.Status
	}
	if in.Category != nil {
		set["category"] = *in.Category
	}
	if in.Amount != nil {
		if in.Amount.IsNegative() {
			return nil, &docstore.ValidationError{Model: modelName, Field: "amount", Reason: "must not be negative"}
		}
		set["amount"] = *in.Amount
	}

	doc, err := s.orders.FindByIDAndUpdate(ctx, id, bson.M{"$set": set})
	if err != nil {
		return nil, errors.Wrapf(err, "update order %s", id)
	}
	if doc == nil {
		return nil, &docstore.NotFoundError{Model: modelName, ID: id}
	}

	s.lg.Info("updated order", zap.String("id", id))
	return doc, nil
}

// Delete removes the order with the given ID.
func (s *Service) Delete(ctx context.Context, id string) error {
	if !docstore.IsValidObjectID(id) {
		return &docstore.CastError{Path: "_id", Value: id}
	}

	doc, err := s.orders.FindByIDAndDelete(ctx, id)
	if err != nil {
		return errors.Wrapf(err, "delete order %s", id)
	}
	if doc == nil {
		return &docstore.NotFoundError{Model: modelName, ID: id}
	}

	s.lg.Info("deleted order", zap.String("id", id))
	return nil
}

// Count returns the number of orders matching the filter.
func (s *Service) Count(ctx context.Context, f ListFilter) (int64, error) {
	n, err := s.orders.CountDocuments(ctx, f.query())
	if err != nil {
		return 0, errors.Wrap(err, "count orders")
	}
	return n, nil
}

// RevenueBySource groups orders by source channel and sums their amounts.
func (s *Service) RevenueBySource(ctx context.Context) ([]RevenueBucket, error) {
	return s.revenueBy(ctx, "source")
}

// RevenueByCategory groups orders by category and sums their amounts.
func (s *Service) RevenueByCategory(ctx context.Context) ([]RevenueBucket, error) {
	return s.revenueBy(ctx, "category")
}

func (s *Service) revenueBy(ctx context.Context, field string) ([]RevenueBucket, error) {
	pipeline := []bson.M{
		{"$group": bson.M{
			"_id":     "$" + field,
			"orders":  bson.M{"$sum": 1},
			"revenue": bson.M{"$sum": "$amount"},
		}},
		{"$sort": bson.M{"revenue": -1}},
	}

	rows, err := s.orders.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, errors.Wrapf(err, "aggregate revenue by %s", field)
	}

	buckets := make([]RevenueBucket, 0, len(rows))
	for _, row := range rows {
		b, err := bucketFromRow(row)
		if err != nil {
			return nil, errors.Wrapf(err, "decode revenue row for %s", field)
		}
		buckets = append(buckets, b)
	}
	return buckets, nil
}

func bucketFromRow(row bson.M) (RevenueBucket, error) {
	var b RevenueBucket

	key, ok := row["_id"].(string)
	if !ok {
		return b, errors.Errorf("unexpected _id %v", row["_id"])
	}
	b.Key = key

	switch n := row["orders"].(type) {
	case int64:
		b.Orders = n
	case int32:
		b.Orders = int64(n)
	case int:
		b.Orders = int64(n)
	default:
		return b, errors.Errorf("unexpected orders count %v", row["orders"])
	}

	switch v := row["revenue"].(type) {
	case decimal.Decimal:
		b.Revenue = v
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return b, errors.Wrap(err, "parse revenue")
		}
		b.Revenue = d
	case float64:
		b.Revenue = decimal.NewFromFloat(v)
	default:
		return b, errors.Errorf("unexpected revenue %v", row["revenue"])
	}

	return b, nil
}

func (f ListFilter) query() bson.M {
	q := bson.M{}
	if f.Status != "" {
		q["status"] = f.Status
	}
	if f.Category != "" {
		q["category"] = f.Category
	}
	if f.Source != "" {
		q["source"] = f.Source
	}
	if f.UserID != "" {
		q["user_id"] = f.UserID
	}
	return q
}
