// Command order-sim runs the order workflows end to end against the mock
// driver. It is a smoke harness for the test doubles: everything it talks
// to is in-process and canned, so it works with no database around.
package main

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	sdkapp "github.com/go-faster/sdk/app"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/geethwish/sales-crm/internal/clock"
	"github.com/geethwish/sales-crm/internal/docstore"
	"github.com/geethwish/sales-crm/internal/domain/order"
	"github.com/geethwish/sales-crm/internal/mongomock"
)

func main() {
	sdkapp.Run(func(ctx context.Context, lg *zap.Logger, _ *sdkapp.Metrics) error {
		cfg, err := LoadConfig()
		if err != nil {
			return err
		}
		return run(ctx, lg, cfg)
	})
}

var sources = []string{"web", "referral", "direct", "partner"}

var categories = []string{"software", "hardware", "services"}

func run(ctx context.Context, lg *zap.Logger, cfg *Config) error {
	client := mongomock.NewClient(mongomock.WithLogger(lg))
	if err := client.Connect(ctx); err != nil {
		return errors.Wrap(err, "connect")
	}
	defer func() {
		_ = client.Disconnect(ctx)
	}()

	lg.Info("mock driver ready",
		zap.Stringer("state", client.State()),
		zap.String("session", client.SessionID()),
	)

	schema := mongomock.NewSchema().
		Field("customer", mongomock.FieldSpec{Type: "string", Required: true}).
		Field("category", mongomock.FieldSpec{Type: "string", Default: order.DefaultCategory}).
		Field("source", mongomock.FieldSpec{Type: "string", Default: order.DefaultSource}).
		Field("status", mongomock.FieldSpec{Type: "string", Default: string(order.DefaultStatus)}).
		Index(bson.M{"user_id": 1}, false).
		Index(bson.M{"date": -1}, false).
		Pre("save", func() {})

	clk := clock.NewSystem()
	orders := mongomock.RegisterModel(client, "Order", schema, order.Defaulter(clk))
	svc := order.NewService(orders, clk, lg)

	userID := cfg.UserID
	if userID == "" {
		userID = uuid.NewString()
	}

	created := make([]order.Order, 0, cfg.Orders)
	for i := 0; i < cfg.Orders; i++ {
		o, err := svc.Create(ctx, order.CreateInput{
			Customer: fmt.Sprintf("customer-%02d", i+1),
			Category: categories[i%len(categories)],
			Source:   sources[i%len(sources)],
			Amount:   decimal.NewFromInt(int64(25 + i*10)),
			UserID:   userID,
		})
		if err != nil {
			return errors.Wrap(err, "create order")
		}
		created = append(created, o)
	}

	// Listing answers with whatever the double is told to hold.
	orders.StubFind(created, nil)
	orders.StubCountDocuments(int64(len(created)), nil)
	if cfg.FailFind {
		orders.StubFind(nil, &docstore.NetworkError{Op: "find", Err: errors.New("injected")})
	}

	listed, err := svc.List(ctx, order.ListFilter{Status: order.Status(cfg.Status), UserID: userID})
	if err != nil {
		return errors.Wrap(err, "list orders")
	}
	total, err := svc.Count(ctx, order.ListFilter{UserID: userID})
	if err != nil {
		return errors.Wrap(err, "count orders")
	}
	lg.Info("listed orders", zap.Int("listed", len(listed)), zap.Int64("total", total))

	orders.StubAggregate(revenueRows(created), nil)
	buckets, err := svc.RevenueBySource(ctx)
	if err != nil {
		return errors.Wrap(err, "revenue by source")
	}
	for _, b := range buckets {
		lg.Info("revenue bucket",
			zap.String("source", b.Key),
			zap.Int64("orders", b.Orders),
			zap.String("revenue", b.Revenue.String()),
		)
	}

	lg.Info("simulation done",
		zap.Int("model_calls", len(orders.Calls())),
		zap.Int("creates", orders.CallCount(mongomock.OpCreate)),
	)
	return nil
}

// revenueRows folds the created orders into the rows the aggregate stub
// answers with, shaped like a $group on source.
func revenueRows(docs []order.Order) []bson.M {
	type agg struct {
		orders  int64
		revenue decimal.Decimal
	}
	bySource := make(map[string]*agg)
	keys := make([]string, 0, len(sources))
	for _, doc := range docs {
		a, ok := bySource[doc.Source]
		if !ok {
			a = &agg{}
			bySource[doc.Source] = a
			keys = append(keys, doc.Source)
		}
		a.orders++
		a.revenue = a.revenue.Add(doc.Amount)
	}

	rows := make([]bson.M, 0, len(bySource))
	for _, k := range keys {
		rows = append(rows, bson.M{
			"_id":     k,
			"orders":  bySource[k].orders,
			"revenue": bySource[k].revenue.String(),
		})
	}
	return rows
}
