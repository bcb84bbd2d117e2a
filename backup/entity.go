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

/*
Package backup turns normalized backup records into typed, cross referenced entities.

Entities live in one slice per type, in backup order, with an identifier index next to each slice.
References between entities are plain pointers into those slices, resolved by Link once every
entity has been built.
*/
package backup

import (
	"time"

	"github.com/shopspring/decimal"
)

// Currency is a commodity that accounts are kept in.
type Currency struct {
	ID           int64
	Name         string // ISO code as entered by the user, also used as the locale key.
	Title        string
	Symbol       string
	Decimals     int
	SymbolFormat string // L, LS, R or RS
	IsDefault    bool
}

// Account is a Financisto account, which becomes an asset or liability account in the ledger.
type Account struct {
	ID           int64
	Title        string
	Note         string
	Type         string
	Currency     *Currency
	CreationDate time.Time
	IsActive     bool

	Name string // Fully qualified ledger account name.
}

// Category is one node of the nested set category tree.
type Category struct {
	ID    int64
	Title string
	Left  int64
	Right int64

	Name string // Fully qualified, colon delimited, root first.
}

// Payee is somebody money was paid to or received from.
type Payee struct {
	ID    int64
	Title string
}

// Project is a user defined grouping of transactions.
type Project struct {
	ID    int64
	Title string
}

// Location is a named place transactions can be tagged with.
type Location struct {
	ID   int64
	Name string
}

// ExchangeRate is the price of one unit of From in To at a point in time.
type ExchangeRate struct {
	From     *Currency
	To       *Currency
	RateDate time.Time
	Rate     decimal.Decimal
}

// Transaction is a single Financisto transaction. Amounts are fixed point, scaled by 100.
type Transaction struct {
	ID       int64
	Datetime time.Time
	Status   string // RS, PN, UR, CL or RC
	Note     string

	FromAccount *Account
	ToAccount   *Account
	FromAmount  int64
	ToAmount    int64

	OriginalCurrency   *Currency
	OriginalFromAmount int64

	Category *Category
	Payee    *Payee
	Project  *Project
	Location *Location

	Longitude decimal.Decimal
	Latitude  decimal.Decimal
	Provider  string

	IsTemplate bool
	ParentID   int64

	Parent *Transaction   // Set for the parts of a split transaction.
	Splits []*Transaction // The parts of a split transaction, in backup order.
}

// IsTransfer returns true if the transaction moves money between two accounts.
func (t *Transaction) IsTransfer() bool {
	return t.FromAccount != nil && t.ToAccount != nil
}
