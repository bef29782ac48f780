package mongomock

import (
	"sync"

	"go.mongodb.org/mongo-driver/bson"
)

// FieldSpec describes one schema field declaration.
type FieldSpec struct {
	Type     string
	Required bool
	Default  any
}

// IndexSpec describes one index declaration.
type IndexSpec struct {
	Keys   bson.M
	Unique bool
}

// HookFunc is a lifecycle hook body. The schema double records hooks but
// never invokes them.
type HookFunc func()

// Virtual describes a computed property declaration. Getter and setter are
// recorded but never invoked.
type Virtual struct {
	Getter func() any
	Setter func(any)
}

// Schema is a schema-definition double. Declarative calls are recorded for
// assertions and never enforced: a model registered with this schema still
// accepts any document. All declaration methods return the schema for
// chaining. Safe for concurrent use.
type Schema struct {
	mu       sync.Mutex
	fields   map[string]FieldSpec
	indexes  []IndexSpec
	pre      map[string][]HookFunc
	post     map[string][]HookFunc
	virtuals map[string]Virtual
}

// NewSchema creates an empty schema double.
func NewSchema() *Schema {
	return &Schema{
		fields:   make(map[string]FieldSpec),
		pre:      make(map[string][]HookFunc),
		post:     make(map[string][]HookFunc),
		virtuals: make(map[string]Virtual),
	}
}

// Field declares a field. Redeclaring a name overwrites the previous spec.
func (s *Schema) Field(name string, spec FieldSpec) *Schema {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fields[name] = spec
	return s
}

// Index declares an index over the given keys.
func (s *Schema) Index(keys bson.M, unique bool) *Schema {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.indexes = append(s.indexes, IndexSpec{Keys: keys, Unique: unique})
	return s
}

// Pre declares a hook to run before op.
func (s *Schema) Pre(op string, fn HookFunc) *Schema {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pre[op] = append(s.pre[op], fn)
	return s
}

// Post declares a hook to run after op.
func (s *Schema) Post(op string, fn HookFunc) *Schema {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.post[op] = append(s.post[op], fn)
	return s
}

// VirtualProp declares a computed property with optional getter and setter.
func (s *Schema) VirtualProp(name string, v Virtual) *Schema {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.virtuals[name] = v
	return s
}

// Fields returns a copy of the declared fields.
func (s *Schema) Fields() map[string]FieldSpec {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]FieldSpec, len(s.fields))
	for k, v := range s.fields {
		out[k] = v
	}
	return out
}

// HasField reports whether name was declared.
func (s *Schema) HasField(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.fields[name]
	return ok
}

// Indexes returns a copy of the declared indexes in declaration order.
func (s *Schema) Indexes() []IndexSpec {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]IndexSpec, len(s.indexes))
	copy(out, s.indexes)
	return out
}

// PreHookCount returns how many pre hooks were declared for op.
func (s *Schema) PreHookCount(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pre[op])
}

// PostHookCount returns how many post hooks were declared for op.
func (s *Schema) PostHookCount(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.post[op])
}

// HasVirtual reports whether a virtual property was declared under name.
func (s *Schema) HasVirtual(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.virtuals[name]
	return ok
}
