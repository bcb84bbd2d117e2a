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
Package ledger contains the output model for Ledger CLI journals generated from Financisto backups.

Transactions, postings and directives all implement String, producing text that Ledger can read
directly. Amounts carry both their exact decimal value and the text already formatted for their
commodity, so rendering never has to know anything about currencies.
*/
package ledger

import (
	"bytes"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

type status int

// Status constants for Transaction.Status
const (
	StatusUndefined = status(iota)
	StatusPending
	StatusClear
)

// AccountPadding is the column the amount of a negative posting starts at (not counting the leading tab).
// Positive amounts start one column later so the digits line up.
const AccountPadding = 40

// Transaction is a single transaction bound for a ledger file.
type Transaction struct {
	Date   time.Time // 2020/10/10
	Status status    //   | ! | *
	Payee  string    // Spent monie on stuf
	Note   string    // ; Stuff (same line as the payee)

	KVPairs  []KVPair // ; Key: Value, one per line before the postings
	Postings []Posting
}

// KVPair is a single metadata comment line. Order is preserved when rendering.
type KVPair struct {
	Key   string
	Value string
}

// Amount is a value in some commodity, along with its display form.
type Amount struct {
	Value decimal.Decimal
	Text  string // $1,000.00, 12.50 EUR, etc.
}

// Posting is a single line item in a Transaction.
type Posting struct {
	Account string  // Account:Name
	Amount  *Amount // nil if the amount is implied
	Cost    *Amount // (@@) total cost of the posting in another commodity (optional)
	Note    string  // ; Stuff
	Project string  // rendered on its own aligned line as ; Project: Name
}

// SortPostings orders the postings by ascending amount. Postings with an implied amount sort as zero.
// The sort is stable, so postings with equal amounts keep their relative order.
func (t *Transaction) SortPostings() {
	slices.SortStableFunc(t.Postings, func(a, b Posting) int {
		return a.value().Cmp(b.value())
	})
}

func (p *Posting) value() decimal.Decimal {
	if p.Amount == nil {
		return decimal.Zero
	}
	return p.Amount.Value
}

func (t *Transaction) String() string {
	buf := new(bytes.Buffer)

	buf.WriteString(t.Date.Format("2006/01/02"))

	switch t.Status {
	case StatusClear:
		buf.WriteString(" * ")
	case StatusPending:
		buf.WriteString(" ! ")
	default:
		buf.WriteString("   ")
	}

	buf.WriteString(t.Payee)
	if t.Note != "" {
		fmt.Fprintf(buf, "  ; %v", t.Note)
	}
	buf.WriteRune('\n')

	for _, kv := range t.KVPairs {
		fmt.Fprintf(buf, "\t; %v: %v\n", kv.Key, kv.Value)
	}

	for _, p := range t.Postings {
		buf.WriteString(p.String())
	}

	return buf.String()
}

// String renders the posting, including the trailing newline and the project line if there is one.
func (p *Posting) String() string {
	buf := new(bytes.Buffer)

	buf.WriteRune('\t')
	if p.Amount != nil {
		// Leave room for the minus sign so positive and negative amounts align.
		width := AccountPadding
		if !p.Amount.Value.IsNegative() {
			width++
		}
		fmt.Fprintf(buf, "%-*s  %v", width, p.Account, p.Amount.Text)

		if p.Cost != nil {
			fmt.Fprintf(buf, " (@@) %v", p.Cost.Text)
		}
	} else {
		buf.WriteString(p.Account)
	}

	base := utf8.RuneCount(buf.Bytes())

	if p.Note != "" {
		fmt.Fprintf(buf, "  ; %v", p.Note)
	}
	buf.WriteRune('\n')

	if p.Project != "" {
		fmt.Fprintf(buf, "%-*s  ; Project: %v\n", base, "\t", p.Project)
	}

	return buf.String()
}
