/*
Copyright 2022 by Milo Christiansen

This software is provided 'as-is', without any express or implied warranty. In
no event will the authors be held liable for any damages arising from the use of
this software.

Permission is granted to anyone to use this software for any purpose, including
commercial applications, and to alter it and redistribute it freely, subject to
the following restrictions:

1. The origin of this software must not be misrepresented; you must not claim
that you wrote the original software. If you use this software in a product, an
acknowledgment in the product documentation would be appreciated but is not
required.

2. Altered source versions must be plainly marked as such, and must not be
misrepresented as being the original software.

3. This notice may not be removed or altered from any source distribution.
*/

package parse

import (
	"strconv"
	"time"

	"github.com/milochristiansen/financisto-ledger/parse/lex"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// Kind identifies which field of a Value is meaningful.
type Kind int

// Value kinds. Every value starts out as KindRaw and is given one of the other kinds by Normalize.
const (
	KindRaw = Kind(iota)
	KindString
	KindNumber
	KindTime
	KindRef
)

// Value is a single record field.
type Value struct {
	Kind Kind
	Raw  string // The text exactly as it appeared in the backup.

	Str  string          // KindString
	Num  decimal.Decimal // KindNumber
	Time time.Time       // KindTime
	Ref  Ref             // KindRef
}

// Ref is a reference to a record in another collection by identifier.
type Ref struct {
	Type string
	ID   int64
}

// RawValue wraps text read from the backup.
func RawValue(s string) Value {
	return Value{Kind: KindRaw, Raw: s}
}

// String returns the value as text: the unquoted text for strings, the backup text for everything else.
func (v Value) String() string {
	if v.Kind == KindString {
		return v.Str
	}
	return v.Raw
}

// Int returns the value as an integer, truncating any fraction. Only numbers and refs have integer values.
func (v Value) Int() (int64, bool) {
	switch v.Kind {
	case KindNumber:
		return v.Num.IntPart(), true
	case KindRef:
		return v.Ref.ID, true
	}
	return 0, false
}

// Field is a single key/value pair from a record.
type Field struct {
	Key   string
	Value Value
}

// Record is a single entity from the backup. Field order is the order the fields were read in.
type Record struct {
	Fields   []Field
	Location lex.Location // Where the record starts.
}

func (r *Record) index(key string) int {
	return slices.IndexFunc(r.Fields, func(f Field) bool { return f.Key == key })
}

// Get returns the value of the named field.
func (r *Record) Get(key string) (Value, bool) {
	i := r.index(key)
	if i < 0 {
		return Value{}, false
	}
	return r.Fields[i].Value, true
}

// Set replaces the value of the named field, adding it to the end of the record if it is new.
func (r *Record) Set(key string, v Value) {
	if i := r.index(key); i >= 0 {
		r.Fields[i].Value = v
		return
	}
	r.Fields = append(r.Fields, Field{Key: key, Value: v})
}

// Delete removes the named field if it exists.
func (r *Record) Delete(key string) {
	if i := r.index(key); i >= 0 {
		r.Fields = slices.Delete(r.Fields, i, i+1)
	}
}

// ID returns the record identifier from the _id field, if it has one.
func (r *Record) ID() (int64, bool) {
	v, ok := r.Get("_id")
	if !ok {
		return 0, false
	}
	if v.Kind == KindRaw {
		id, err := strconv.ParseInt(v.Raw, 10, 64)
		return id, err == nil
	}
	return v.Int()
}

// Collection is every record of one entity type, in the order they were read.
type Collection struct {
	Type    string
	Records []*Record

	byID map[int64]int // Position in Records by identifier.
}

// NewCollection returns an empty collection for the given entity type.
func NewCollection(typ string) *Collection {
	return &Collection{Type: typ, byID: map[int64]int{}}
}

// Add stores a record. A record with an identifier replaces any earlier record with the same identifier,
// in place. Anything else is appended.
func (c *Collection) Add(r *Record) {
	id, ok := r.ID()
	if !ok {
		c.Records = append(c.Records, r)
		return
	}

	if i, ok := c.byID[id]; ok {
		c.Records[i] = r
		return
	}
	c.byID[id] = len(c.Records)
	c.Records = append(c.Records, r)
}

// Get returns the record with the given identifier, or nil.
func (c *Collection) Get(id int64) *Record {
	i, ok := c.byID[id]
	if !ok {
		return nil
	}
	return c.Records[i]
}

// Collections is the whole backup as untyped records, grouped by entity type.
type Collections struct {
	Types []string // Entity types in the order their first block was found.

	byType map[string]*Collection
}

// NewCollections returns an empty set of collections.
func NewCollections() *Collections {
	return &Collections{byType: map[string]*Collection{}}
}

// Get returns the collection for the given type, or nil if no block of that type was read.
func (cs *Collections) Get(typ string) *Collection {
	return cs.byType[typ]
}

// Add stores a record in the collection for the given type, creating the collection if needed.
func (cs *Collections) Add(typ string, r *Record) {
	c := cs.touch(typ)
	c.Add(r)
}

// touch makes sure a collection exists for typ, even if it never receives any records.
func (cs *Collections) touch(typ string) *Collection {
	c, ok := cs.byType[typ]
	if !ok {
		c = NewCollection(typ)
		cs.byType[typ] = c
		cs.Types = append(cs.Types, typ)
	}
	return c
}
