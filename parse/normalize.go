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
	"regexp"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

var (
	// from_account_id -> from_account, a reference into the account collection.
	foreignKey = regexp.MustCompile(`^((?:\w+_)?(\w+))_id$`)
	quoted     = regexp.MustCompile(`^'(.+)'$`)
	number     = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?$`)
)

type handler func(raw string) (Value, bool)

// Per type field handlers. These run before the generic quote and number rules.
var handlers = map[string]map[string]handler{
	"account": {
		"creation_date": asTime,
	},
	"currency_exchange_rate": {
		"rate_date":  asTime,
		"updated_on": asTime,
	},
	"transaction": {
		"datetime":   asTime,
		"updated_on": asTime,
	},
}

// asTime reads a millisecond unix timestamp.
func asTime(raw string) (Value, bool) {
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return Value{}, false
	}
	return Value{Kind: KindTime, Raw: raw, Time: time.UnixMilli(ms)}, true
}

// Normalize gives every raw value in every collection a type. For each field, the first rule that
// applies wins:
//
//  1. A field named <prefix_><type>_id is replaced by a reference field named <prefix_><type>, if a
//     collection of <type> exists and the value is an integer.
//  2. A type specific handler, if one is registered for the field.
//  3. A single quoted value becomes the string between the quotes.
//  4. A value that reads as a number becomes a number.
//
// Anything else becomes a plain string. Values that already have a type are left alone, so running
// Normalize more than once changes nothing.
func Normalize(cs *Collections) {
	for _, typ := range cs.Types {
		for _, r := range cs.Get(typ).Records {
			cs.normalizeRecord(typ, r)
		}
	}
}

func (cs *Collections) normalizeRecord(typ string, r *Record) {
	// Iterate over a copy, references rename fields as they go.
	for _, f := range slices.Clone(r.Fields) {
		if f.Value.Kind != KindRaw {
			continue
		}
		raw := f.Value.Raw

		if m := foreignKey.FindStringSubmatch(f.Key); m != nil && cs.Get(m[2]) != nil {
			if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
				r.Delete(f.Key)
				r.Set(m[1], Value{Kind: KindRef, Raw: raw, Ref: Ref{Type: m[2], ID: id}})
				continue
			}
		}

		if h, ok := handlers[typ][f.Key]; ok {
			if v, ok := h(raw); ok {
				r.Set(f.Key, v)
				continue
			}
		}

		r.Set(f.Key, normalizeScalar(raw))
	}
}

func normalizeScalar(raw string) Value {
	if m := quoted.FindStringSubmatch(raw); m != nil {
		return Value{Kind: KindString, Raw: raw, Str: m[1]}
	}

	if number.MatchString(raw) {
		if d, err := decimal.NewFromString(raw); err == nil {
			return Value{Kind: KindNumber, Raw: raw, Num: d}
		}
	}

	return Value{Kind: KindString, Raw: raw, Str: raw}
}

// selfReference links a split to its parent transaction. It is resolved when the split tree is
// built, not through a collection.
const selfReference = "parent_id"

// Unresolved counts the fields, per <type>.<field>, that look like references but were left as plain
// values because the collection they point at does not exist. parent_id is not counted.
func Unresolved(cs *Collections) map[string]int {
	counts := map[string]int{}
	for _, typ := range cs.Types {
		if typ == HeaderType {
			continue
		}
		for _, r := range cs.Get(typ).Records {
			for _, f := range r.Fields {
				if f.Key == selfReference {
					continue
				}
				if f.Value.Kind != KindRef && foreignKey.MatchString(f.Key) {
					counts[typ+"."+f.Key]++
				}
			}
		}
	}
	return counts
}
