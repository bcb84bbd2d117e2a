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

package backup

import (
	"time"

	"github.com/milochristiansen/financisto-ledger/parse"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// Backup is the typed entity graph of one backup. It is built once by Link and is not safe to share
// between goroutines that modify it.
type Backup struct {
	Header map[string]string

	Currencies    []*Currency
	Accounts      []*Account
	Categories    []*Category
	Payees        []*Payee
	Projects      []*Project
	Locations     []*Location
	Transactions  []*Transaction
	ExchangeRates []*ExchangeRate

	currencies   map[int64]*Currency
	accounts     map[int64]*Account
	categories   map[int64]*Category
	payees       map[int64]*Payee
	projects     map[int64]*Project
	locations    map[int64]*Location
	transactions map[int64]*Transaction
}

// Options controls how entity names are derived.
type Options struct {
	AccountPrefix string // Prefix for account titles that are not already hierarchical.
}

// Entity types Link cannot work without.
var required = []string{"account", "category", "currency", "transaction"}

// Link builds the typed entity graph from normalized collections. Entities are built first, then every
// reference is resolved against the finished entity indexes, and finally names and the split tree are
// derived. A reference to an identifier that does not exist resolves to nil.
func Link(cs *parse.Collections, opts Options) (*Backup, error) {
	for _, typ := range required {
		if cs.Get(typ) == nil {
			return nil, parse.ErrMissingBlock(typ)
		}
	}

	b := &Backup{
		Header:       map[string]string{},
		currencies:   map[int64]*Currency{},
		accounts:     map[int64]*Account{},
		categories:   map[int64]*Category{},
		payees:       map[int64]*Payee{},
		projects:     map[int64]*Project{},
		locations:    map[int64]*Location{},
		transactions: map[int64]*Transaction{},
	}

	if c := cs.Get(parse.HeaderType); c != nil {
		for _, r := range c.Records {
			for _, f := range r.Fields {
				b.Header[f.Key] = f.Value.String()
			}
		}
	}

	// Pass one: everything that does not point at something else.
	for _, r := range records(cs, "currency") {
		c := &Currency{
			ID:           id(r),
			Name:         text(r, "name"),
			Title:        text(r, "title"),
			Symbol:       text(r, "symbol"),
			Decimals:     int(integer(r, "decimals")),
			SymbolFormat: text(r, "symbol_format"),
			IsDefault:    integer(r, "is_default") != 0,
		}
		b.Currencies = append(b.Currencies, c)
		index(r, b.currencies, c)
	}
	for _, r := range records(cs, "category") {
		c := &Category{
			ID:    id(r),
			Title: text(r, "title"),
			Name:  text(r, "title"),
			Left:  integer(r, "left"),
			Right: integer(r, "right"),
		}
		b.Categories = append(b.Categories, c)
		index(r, b.categories, c)
	}
	for _, r := range records(cs, "payee") {
		p := &Payee{ID: id(r), Title: text(r, "title")}
		b.Payees = append(b.Payees, p)
		index(r, b.payees, p)
	}
	for _, r := range records(cs, "project") {
		p := &Project{ID: id(r), Title: text(r, "title")}
		b.Projects = append(b.Projects, p)
		index(r, b.projects, p)
	}
	for _, r := range records(cs, "location") {
		l := &Location{ID: id(r), Name: text(r, "name")}
		b.Locations = append(b.Locations, l)
		index(r, b.locations, l)
	}

	accountRecs := records(cs, "account")
	for _, r := range accountRecs {
		a := &Account{
			ID:           id(r),
			Title:        text(r, "title"),
			Note:         text(r, "note"),
			Type:         text(r, "type"),
			CreationDate: timestamp(r, "creation_date"),
			IsActive:     integer(r, "is_active") != 0,
		}
		b.Accounts = append(b.Accounts, a)
		index(r, b.accounts, a)
	}

	rateRecs := records(cs, "currency_exchange_rate")
	for _, r := range rateRecs {
		b.ExchangeRates = append(b.ExchangeRates, &ExchangeRate{
			RateDate: timestamp(r, "rate_date"),
			Rate:     number(r, "rate"),
		})
	}

	transactionRecs := records(cs, "transaction")
	for _, r := range transactionRecs {
		t := &Transaction{
			ID:                 id(r),
			Datetime:           timestamp(r, "datetime"),
			Status:             text(r, "status"),
			Note:               text(r, "note"),
			FromAmount:         integer(r, "from_amount"),
			ToAmount:           integer(r, "to_amount"),
			OriginalFromAmount: integer(r, "original_from_amount"),
			Longitude:          number(r, "longitude"),
			Latitude:           number(r, "latitude"),
			Provider:           text(r, "provider"),
			IsTemplate:         integer(r, "is_template") != 0,
			ParentID:           integer(r, "parent_id"),
		}
		b.Transactions = append(b.Transactions, t)
		index(r, b.transactions, t)
	}

	// Pass two: references.
	for i, r := range accountRecs {
		b.Accounts[i].Currency = resolve(r, "currency", "currency", b.currencies)
	}
	for i, r := range rateRecs {
		b.ExchangeRates[i].From = resolve(r, "from_currency", "currency", b.currencies)
		b.ExchangeRates[i].To = resolve(r, "to_currency", "currency", b.currencies)
	}
	for i, r := range transactionRecs {
		t := b.Transactions[i]
		t.FromAccount = resolve(r, "from_account", "account", b.accounts)
		t.ToAccount = resolve(r, "to_account", "account", b.accounts)
		t.OriginalCurrency = resolve(r, "original_currency", "currency", b.currencies)
		t.Category = resolve(r, "category", "category", b.categories)
		t.Payee = resolve(r, "payee", "payee", b.payees)
		t.Project = resolve(r, "project", "project", b.projects)
		t.Location = resolve(r, "location", "location", b.locations)
	}

	// Negative identifiers mark placeholder records (the split category, for one). They stay
	// reachable through references but are left out of every list.
	b.Currencies = slices.DeleteFunc(b.Currencies, func(c *Currency) bool { return c.ID < 0 })
	b.Accounts = slices.DeleteFunc(b.Accounts, func(a *Account) bool { return a.ID < 0 })
	b.Categories = slices.DeleteFunc(b.Categories, func(c *Category) bool { return c.ID < 0 })
	b.Payees = slices.DeleteFunc(b.Payees, func(p *Payee) bool { return p.ID < 0 })
	b.Projects = slices.DeleteFunc(b.Projects, func(p *Project) bool { return p.ID < 0 })
	b.Locations = slices.DeleteFunc(b.Locations, func(l *Location) bool { return l.ID < 0 })
	b.Transactions = slices.DeleteFunc(b.Transactions, func(t *Transaction) bool { return t.ID < 0 })

	nameAccounts(b.Accounts, opts.AccountPrefix)
	nameCategories(b.Categories)
	collectSplits(b.Transactions, b.transactions)

	return b, nil
}

// Category returns the category with the given identifier, or nil.
func (b *Backup) Category(id int64) *Category {
	return b.categories[id]
}

// Transaction returns the transaction with the given identifier, or nil.
func (b *Backup) Transaction(id int64) *Transaction {
	return b.transactions[id]
}

func records(cs *parse.Collections, typ string) []*parse.Record {
	c := cs.Get(typ)
	if c == nil {
		return nil
	}
	return c.Records
}

func index[T any](r *parse.Record, m map[int64]T, v T) {
	if id, ok := r.ID(); ok {
		m[id] = v
	}
}

func resolve[T any](r *parse.Record, key, typ string, m map[int64]*T) *T {
	v, ok := r.Get(key)
	if !ok || v.Kind != parse.KindRef || v.Ref.Type != typ {
		return nil
	}
	return m[v.Ref.ID]
}

func id(r *parse.Record) int64 {
	id, _ := r.ID()
	return id
}

func text(r *parse.Record, key string) string {
	v, ok := r.Get(key)
	if !ok {
		return ""
	}
	return v.String()
}

func integer(r *parse.Record, key string) int64 {
	v, ok := r.Get(key)
	if !ok {
		return 0
	}
	i, _ := v.Int()
	return i
}

func number(r *parse.Record, key string) decimal.Decimal {
	v, ok := r.Get(key)
	if !ok || v.Kind != parse.KindNumber {
		return decimal.Zero
	}
	return v.Num
}

func timestamp(r *parse.Record, key string) time.Time {
	v, ok := r.Get(key)
	if !ok || v.Kind != parse.KindTime {
		return time.Time{}
	}
	return v.Time
}
