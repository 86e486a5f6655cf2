package relstore

import (
	"context"
	"fmt"
	"sync"
)

// Persistable is the capability interface the store requires of anything it
// persists. [Entity] is the generic implementation; callers with their own
// entity types satisfy it directly.
type Persistable interface {
	// Key returns the entity's key.
	Key() Key

	// SetKey finalizes the key after a successful insert. The store calls
	// it exactly once per entity; implementations must reject a second
	// finalization.
	SetKey(Key)

	// Properties returns the live property bag, keyed by property name.
	// Values referencing other entities are carried as [Key] values (or as
	// nested Persistables, which Save resolves into keys). The store
	// substitutes resolved keys into this map during Save.
	Properties() map[string]any
}

// Entity is the generic materialized property bag for one row. A zero-value
// Entity is not usable; construct one with [NewEntity] or receive one from
// the store.
//
// Entities returned by [Store.Ref] and nested references surfaced by
// [Store.PropertiesOf] are lazy: their properties are fetched on first
// access, so idle references stay cheap.
type Entity struct {
	mu     sync.Mutex
	key    Key
	props  map[string]any
	loader func(ctx context.Context) (map[string]any, error)
}

// NewEntity returns a transient entity of the given type with an empty
// property bag.
func NewEntity(entity string) *Entity {
	return &Entity{key: NewKey(entity), props: make(map[string]any)}
}

// newLoadedEntity builds a persistent entity around an already materialized
// property bag.
func newLoadedEntity(key Key, props map[string]any) *Entity {
	return &Entity{key: key, props: props}
}

// newLazyEntity builds a persistent placeholder whose properties are fetched
// by loader on first access.
func newLazyEntity(key Key, loader func(ctx context.Context) (map[string]any, error)) *Entity {
	return &Entity{key: key, loader: loader}
}

// Key implements Persistable.
func (e *Entity) Key() Key {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.key
}

// SetKey implements Persistable. It panics when the current key is already
// persistent: finalization happens exactly once.
func (e *Entity) SetKey(k Key) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.key.IsPersistent() {
		panic(fmt.Sprintf("relstore: SetKey on already persistent %s", e.key))
	}
	e.key = k
}

// Set assigns a property value and returns the entity for chaining. Setting
// a property on a lazy placeholder forces no load; the assigned value is
// merged over the loaded row on first access.
func (e *Entity) Set(name string, v any) *Entity {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.props == nil {
		e.props = make(map[string]any)
	}
	e.props[name] = v
	return e
}

// Properties implements Persistable. It returns the live bag without
// triggering a lazy load; use [Entity.Load] or [Entity.Property] to
// materialize a placeholder first.
func (e *Entity) Properties() map[string]any {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.props == nil {
		e.props = make(map[string]any)
	}
	return e.props
}

// Property returns one property value, materializing the entity on first
// access if it is a lazy placeholder.
func (e *Entity) Property(ctx context.Context, name string) (any, error) {
	if err := e.Load(ctx); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.props[name], nil
}

// Load materializes a lazy placeholder. It is a no-op on an already loaded
// entity. Values assigned with Set before the load win over stored values.
func (e *Entity) Load(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.loader == nil {
		return nil
	}
	loaded, err := e.loader(ctx)
	if err != nil {
		return err
	}
	for name, v := range e.props {
		loaded[name] = v
	}
	e.props = loaded
	e.loader = nil
	return nil
}

// Loaded reports whether the entity's properties are materialized.
func (e *Entity) Loaded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loader == nil
}

var _ Persistable = (*Entity)(nil)
