// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
)

// EntityType names a kind of record mirrored from the remote authority.
type EntityType string

const (
	EntityProject      EntityType = "project"
	EntityTask         EntityType = "task"
	EntityIdea         EntityType = "idea"
	EntityFocusSession EntityType = "focus_session"
)

// EntityTypes lists every entity kind the engine mirrors, in refresh order.
var EntityTypes = []EntityType{EntityProject, EntityTask, EntityIdea, EntityFocusSession}

// Valid reports whether t is one of the known entity kinds.
func (t EntityType) Valid() bool {
	for _, known := range EntityTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Label returns a human readable name used in notifications ("focus session").
func (t EntityType) Label() string {
	return strings.ReplaceAll(string(t), "_", " ")
}

// IDKind tags an EntityID as local-only or server-assigned.
type IDKind uint8

const (
	// RemoteIDKind marks an id assigned by the remote authority.
	RemoteIDKind IDKind = iota
	// LocalIDKind marks an id produced by the local generator before the
	// remote authority confirmed creation.
	LocalIDKind
)

const localIDPrefix = "local:"

// ErrInvalidEntityID is returned by ParseEntityID for malformed input.
var ErrInvalidEntityID = errors.New("invalid entity id")

// EntityID identifies a record within its entity type. The kind tag is part
// of the identity, so LocalID(7) and RemoteID(7) never collide.
type EntityID struct {
	Kind  IDKind
	Value int64
}

// LocalID returns a local-only id.
func LocalID(n int64) EntityID {
	return EntityID{Kind: LocalIDKind, Value: n}
}

// RemoteID returns a server-assigned id.
func RemoteID(n int64) EntityID {
	return EntityID{Kind: RemoteIDKind, Value: n}
}

// IsLocal reports whether the id was produced locally and has not been
// confirmed by the remote authority.
func (id EntityID) IsLocal() bool {
	return id.Kind == LocalIDKind
}

// IsZero reports whether id is the zero value.
func (id EntityID) IsZero() bool {
	return id.Kind == RemoteIDKind && id.Value == 0
}

// String renders "local:42" for local ids and "917" for remote ids.
func (id EntityID) String() string {
	if id.IsLocal() {
		return localIDPrefix + strconv.FormatInt(id.Value, 10)
	}
	return strconv.FormatInt(id.Value, 10)
}

// ParseEntityID is the inverse of EntityID.String.
func ParseEntityID(s string) (EntityID, error) {
	kind := RemoteIDKind
	raw := s
	if rest, ok := strings.CutPrefix(s, localIDPrefix); ok {
		kind = LocalIDKind
		raw = rest
	}

	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return EntityID{}, fmt.Errorf("%w: %q", ErrInvalidEntityID, s)
	}

	return EntityID{Kind: kind, Value: n}, nil
}

// MarshalText implements encoding.TextMarshaler.
func (id EntityID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *EntityID) UnmarshalText(b []byte) error {
	parsed, err := ParseEntityID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// EntityRef addresses one record: entity type plus id.
type EntityRef struct {
	EntityType EntityType `json:"entity_type"`
	ID         EntityID   `json:"id"`
}

func (r EntityRef) String() string {
	return string(r.EntityType) + "/" + r.ID.String()
}

// Fields is the opaque payload of a record.
type Fields map[string]any

// Clone returns a shallow copy of f.
func (f Fields) Clone() Fields {
	if f == nil {
		return nil
	}
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// DiffFields returns the sorted set of keys whose values differ between a
// and b, including keys present on only one side.
func DiffFields(a, b Fields) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	var diff []string

	for k, av := range a {
		seen[k] = struct{}{}
		bv, ok := b[k]
		if !ok || !reflect.DeepEqual(av, bv) {
			diff = append(diff, k)
		}
	}
	for k := range b {
		if _, ok := seen[k]; !ok {
			diff = append(diff, k)
		}
	}

	sort.Strings(diff)
	return diff
}

// EntityRecord is the local snapshot of one logical entity.
type EntityRecord struct {
	EntityType EntityType `json:"entity_type"`
	ID         EntityID   `json:"id"`
	Fields     Fields     `json:"fields"`
	// Version is the remote authority's version counter; zero while the
	// record is local-only.
	Version     int64     `json:"version"`
	UpdatedAt   time.Time `json:"updated_at"`
	IsLocalOnly bool      `json:"is_local_only"`
}

// Ref returns the record's address.
func (r EntityRecord) Ref() EntityRef {
	return EntityRef{EntityType: r.EntityType, ID: r.ID}
}

// Snapshot is one side of a conflict: a field set plus its version.
type Snapshot struct {
	Fields    Fields    `json:"fields"`
	Version   int64     `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
	Deleted   bool      `json:"deleted"`
}
