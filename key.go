package relstore

import "fmt"

// Key identifies one row of a registered entity type. A key starts out
// transient, carrying no identifier, and becomes persistent exactly once, when the
// store inserts the row and finalizes the key with the generated id. After
// that a key never changes again.
//
// Key is a value type; the transient/persistent distinction is part of the
// value, not a nullable field.
type Key struct {
	entity     string
	id         int64
	persistent bool
}

// NewKey returns a transient key for the given entity type.
func NewKey(entity string) Key {
	return Key{entity: entity}
}

// PersistentKey returns a persistent key carrying an existing identifier.
func PersistentKey(entity string, id int64) Key {
	return Key{entity: entity, id: id, persistent: true}
}

// Entity returns the entity type name.
func (k Key) Entity() string { return k.entity }

// ID returns the identifier and whether the key is persistent. A transient
// key has no identifier.
func (k Key) ID() (int64, bool) {
	return k.id, k.persistent
}

// IsPersistent reports whether the key carries an identifier.
func (k Key) IsPersistent() bool { return k.persistent }

// WithID returns the persistent variant of the key. The store calls this
// once per entity, right after the insert succeeds.
func (k Key) WithID(id int64) Key {
	return Key{entity: k.entity, id: id, persistent: true}
}

// String returns "Type(id)" for persistent keys and "Type(transient)"
// otherwise.
func (k Key) String() string {
	if k.persistent {
		return fmt.Sprintf("%s(%d)", k.entity, k.id)
	}
	return k.entity + "(transient)"
}
