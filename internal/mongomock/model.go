package mongomock

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/geethwish/sales-crm/internal/docstore"
)

// Operation names as recorded in calls, matching the mimicked driver
// surface.
const (
	OpFind              = "find"
	OpFindOne           = "findOne"
	OpFindByID          = "findById"
	OpFindByIDAndUpdate = "findByIdAndUpdate"
	OpFindByIDAndDelete = "findByIdAndDelete"
	OpCreate            = "create"
	OpInsertMany        = "insertMany"
	OpUpdateOne         = "updateOne"
	OpUpdateMany        = "updateMany"
	OpDeleteOne         = "deleteOne"
	OpDeleteMany        = "deleteMany"
	OpCountDocuments    = "countDocuments"
	OpAggregate         = "aggregate"
)

// Call records one invocation of a model operation: the operation name and
// the arguments it received, in order, context excluded.
type Call struct {
	Op   string
	Args []any
}

// stub holds a reconfigured response for one operation. The zero value
// means "use the documented canned default".
type stub[R any] struct {
	set    bool
	result R
	err    error
}

func (s stub[R]) or(def R) (R, error) {
	if s.set {
		return s.result, s.err
	}
	return def, nil
}

// Model is a record-and-respond double for docstore.Model[T]. Every
// operation ignores the semantic validity of its arguments and resolves to
// a canned value; it never fails unless a test injects an error through
// one of the Stub methods. All invocations are recorded for assertions.
// Safe for concurrent use.
type Model[T any] struct {
	name     string
	defaults func(T) T

	mu    sync.Mutex
	calls []Call

	find       stub[[]T]
	findOne    stub[*T]
	findByID   stub[*T]
	findUpdate stub[*T]
	findDelete stub[*T]
	createErr  error
	insertErr  error
	updateOne  stub[docstore.UpdateResult]
	updateMany stub[docstore.UpdateResult]
	deleteOne  stub[docstore.DeleteResult]
	deleteMany stub[docstore.DeleteResult]
	count      stub[int64]
	aggregate  stub[[]bson.M]
}

// NewModel creates a standalone model double. defaults is applied to every
// document passed to Create and InsertMany; nil leaves documents as given.
// Most callers register models through a Client instead.
func NewModel[T any](name string, defaults func(T) T) *Model[T] {
	if defaults == nil {
		defaults = func(doc T) T { return doc }
	}
	return &Model[T]{name: name, defaults: defaults}
}

// Name returns the name the model was registered under.
func (m *Model[T]) Name() string {
	return m.name
}

func (m *Model[T]) record(op string, args ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, Call{Op: op, Args: args})
}

// Calls returns a copy of all recorded invocations in order.
func (m *Model[T]) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns how many times op was invoked.
func (m *Model[T]) CallCount(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// LastCall returns the most recent invocation of op.
func (m *Model[T]) LastCall(op string) (Call, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.calls) - 1; i >= 0; i-- {
		if m.calls[i].Op == op {
			return m.calls[i], true
		}
	}
	return Call{}, false
}

// Reset clears all recorded calls and reconfigured responses, returning
// the model to its documented defaults.
func (m *Model[T]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
	m.find = stub[[]T]{}
	m.findOne = stub[*T]{}
	m.findByID = stub[*T]{}
	m.findUpdate = stub[*T]{}
	m.findDelete = stub[*T]{}
	m.createErr = nil
	m.insertErr = nil
	m.updateOne = stub[docstore.UpdateResult]{}
	m.updateMany = stub[docstore.UpdateResult]{}
	m.deleteOne = stub[docstore.DeleteResult]{}
	m.deleteMany = stub[docstore.DeleteResult]{}
	m.count = stub[int64]{}
	m.aggregate = stub[[]bson.M]{}
}

// Stub methods reconfigure one operation's response. Passing a non-nil err
// makes the operation fail; the doubles never fail on their own.

func (m *Model[T]) StubFind(docs []T, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.find = stub[[]T]{set: true, result: docs, err: err}
}

func (m *Model[T]) StubFindOne(doc *T, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.findOne = stub[*T]{set: true, result: doc, err: err}
}

func (m *Model[T]) StubFindByID(doc *T, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.findByID = stub[*T]{set: true, result: doc, err: err}
}

func (m *Model[T]) StubFindByIDAndUpdate(doc *T, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.findUpdate = stub[*T]{set: true, result: doc, err: err}
}

func (m *Model[T]) StubFindByIDAndDelete(doc *T, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.findDelete = stub[*T]{set: true, result: doc, err: err}
}

func (m *Model[T]) StubCreate(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createErr = err
}

func (m *Model[T]) StubInsertMany(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.insertErr = err
}

func (m *Model[T]) StubUpdateOne(res docstore.UpdateResult, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateOne = stub[docstore.UpdateResult]{set: true, result: res, err: err}
}

func (m *Model[T]) StubUpdateMany(res docstore.UpdateResult, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateMany = stub[docstore.UpdateResult]{set: true, result: res, err: err}
}

func (m *Model[T]) StubDeleteOne(res docstore.DeleteResult, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteOne = stub[docstore.DeleteResult]{set: true, result: res, err: err}
}

func (m *Model[T]) StubDeleteMany(res docstore.DeleteResult, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteMany = stub[docstore.DeleteResult]{set: true, result: res, err: err}
}

func (m *Model[T]) StubCountDocuments(n int64, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.count = stub[int64]{set: true, result: n, err: err}
}

func (m *Model[T]) StubAggregate(rows []bson.M, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.aggregate = stub[[]bson.M]{set: true, result: rows, err: err}
}

// --- docstore.Model implementation ---

func (m *Model[T]) Find(_ context.Context, filter bson.M) ([]T, error) {
	m.record(OpFind, filter)
	m.mu.Lock()
	s := m.find
	m.mu.Unlock()
	return s.or([]T{})
}

func (m *Model[T]) FindOne(_ context.Context, filter bson.M) (*T, error) {
	m.record(OpFindOne, filter)
	m.mu.Lock()
	s := m.findOne
	m.mu.Unlock()
	return s.or(nil)
}

func (m *Model[T]) FindByID(_ context.Context, id string) (*T, error) {
	m.record(OpFindByID, id)
	m.mu.Lock()
	s := m.findByID
	m.mu.Unlock()
	return s.or(nil)
}

func (m *Model[T]) FindByIDAndUpdate(_ context.Context, id string, update bson.M) (*T, error) {
	m.record(OpFindByIDAndUpdate, id, update)
	m.mu.Lock()
	s := m.findUpdate
	m.mu.Unlock()
	return s.or(nil)
}

func (m *Model[T]) FindByIDAndDelete(_ context.Context, id string) (*T, error) {
	m.record(OpFindByIDAndDelete, id)
	m.mu.Lock()
	s := m.findDelete
	m.mu.Unlock()
	return s.or(nil)
}

func (m *Model[T]) Create(_ context.Context, doc T) (T, error) {
	m.record(OpCreate, doc)
	m.mu.Lock()
	err := m.createErr
	m.mu.Unlock()
	if err != nil {
		var zero T
		return zero, err
	}
	return m.defaults(doc), nil
}

func (m *Model[T]) InsertMany(_ context.Context, docs []T) ([]T, error) {
	m.record(OpInsertMany, docs)
	m.mu.Lock()
	err := m.insertErr
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}
	out := make([]T, len(docs))
	for i, doc := range docs {
		out[i] = m.defaults(doc)
	}
	return out, nil
}

func (m *Model[T]) UpdateOne(_ context.Context, filter, update bson.M) (docstore.UpdateResult, error) {
	m.record(OpUpdateOne, filter, update)
	m.mu.Lock()
	s := m.updateOne
	m.mu.Unlock()
	return s.or(docstore.UpdateResult{MatchedCount: 1, ModifiedCount: 1})
}

func (m *Model[T]) UpdateMany(_ context.Context, filter, update bson.M) (docstore.UpdateResult, error) {
	m.record(OpUpdateMany, filter, update)
	m.mu.Lock()
	s := m.updateMany
	m.mu.Unlock()
	return s.or(docstore.UpdateResult{})
}

func (m *Model[T]) DeleteOne(_ context.Context, filter bson.M) (docstore.DeleteResult, error) {
	m.record(OpDeleteOne, filter)
	m.mu.Lock()
	s := m.deleteOne
	m.mu.Unlock()
	return s.or(docstore.DeleteResult{DeletedCount: 1})
}

func (m *Model[T]) DeleteMany(_ context.Context, filter bson.M) (docstore.DeleteResult, error) {
	m.record(OpDeleteMany, filter)
	m.mu.Lock()
	s := m.deleteMany
	m.mu.Unlock()
	return s.or(docstore.DeleteResult{})
}

func (m *Model[T]) CountDocuments(_ context.Context, filter bson.M) (int64, error) {
	m.record(OpCountDocuments, filter)
	m.mu.Lock()
	s := m.count
	m.mu.Unlock()
	return s.or(0)
}

func (m *Model[T]) Aggregate(_ context.Context, pipeline []bson.M) ([]bson.M, error) {
	m.record(OpAggregate, pipeline)
	m.mu.Lock()
	s := m.aggregate
	m.mu.Unlock()
	return s.or([]bson.M{})
}

var _ docstore.Model[struct{}] = (*Model[struct{}])(nil)
