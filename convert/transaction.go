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

package convert

import (
	"regexp"
	"strconv"

	ledger "github.com/milochristiansen/financisto-ledger"
	"github.com/milochristiansen/financisto-ledger/backup"
	"github.com/milochristiansen/financisto-ledger/currency"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// ((EUR 12.50)) Rest of the note
// ((12.50 €)) Rest of the note
var noteCost = regexp.MustCompile(`^\(\((.*?)\s*(-?\d+\.?\d*)\s*(.*?)\)\)\s*(.*)$`)

// override is a cost given in a transaction note, for when the amount was really paid in some other
// currency than the account's.
type override struct {
	Amount   decimal.Decimal
	Currency *backup.Currency
	Note     string // The rest of the note.
}

// parseNote reads a cost override from a note. If the note does not have one, or the symbol does not
// match any currency, the result is nil.
func (c *Converter) parseNote(note string) *override {
	m := noteCost.FindStringSubmatch(note)
	if m == nil {
		return nil
	}

	symbol := m[1]
	if symbol == "" {
		symbol = m[3]
	}
	cur, ok := c.symbols[symbol]
	if !ok {
		return nil
	}

	amount, err := decimal.NewFromString(m[2])
	if err != nil {
		return nil
	}
	return &override{Amount: amount, Currency: cur, Note: m[4]}
}

// transaction converts a top level transaction. Templates and splits return nil, as do transactions
// that cannot be converted at all.
func (c *Converter) transaction(t *backup.Transaction) (*ledger.Transaction, error) {
	if t.IsTemplate || t.Parent != nil {
		return nil, nil
	}
	if t.ParentID != 0 {
		c.log.Warn().Int64("id", t.ID).Int64("parent", t.ParentID).Msg("Split without a parent, skipping.")
		return nil, nil
	}
	if t.FromAccount == nil {
		c.log.Warn().Int64("id", t.ID).Msg("Transaction without an account, skipping.")
		return nil, nil
	}

	ov := c.parseNote(t.Note)

	lt := &ledger.Transaction{
		Date:  t.Datetime.In(c.cfg.Location),
		Payee: c.cfg.UnknownPayee,
		Note:  t.Note,
	}
	if ov != nil {
		lt.Note = ov.Note
	}
	if t.Payee != nil {
		lt.Payee = t.Payee.Title
	}

	switch t.Status {
	case "PN":
		lt.Status = ledger.StatusPending
	case "RC":
		lt.Status = ledger.StatusClear
	}

	if c.cfg.Debug {
		lt.KVPairs = append(lt.KVPairs, ledger.KVPair{Key: "FinancistoId", Value: strconv.FormatInt(t.ID, 10)})
	}
	if c.cfg.Projects && t.Project != nil && t.Project.ID != 0 {
		lt.KVPairs = append(lt.KVPairs, ledger.KVPair{Key: "Project", Value: t.Project.Title})
	}
	if c.cfg.Locations && t.Location != nil && t.Location.ID != 0 {
		lt.KVPairs = append(lt.KVPairs, ledger.KVPair{Key: "Location", Value: t.Location.Name})
	}
	if c.cfg.LonLats && !t.Longitude.IsZero() && !t.Latitude.IsZero() && t.Provider != "" {
		lt.KVPairs = append(lt.KVPairs, ledger.KVPair{
			Key:   "LonLat",
			Value: t.Longitude.String() + ", " + t.Latitude.String() + " (" + t.Provider + ")",
		})
	}
	if c.ids != nil {
		id, err := c.ids.Generate()
		if err != nil {
			return nil, errors.Wrap(err, "generating transaction id")
		}
		lt.KVPairs = append(lt.KVPairs, ledger.KVPair{Key: "ID", Value: id})
	}

	switch {
	case t.IsTransfer():
		postings, err := c.transfer(t, ov)
		if err != nil {
			return nil, err
		}
		lt.Postings = postings
	case len(t.Splits) == 0:
		lt.Postings = c.simpleExpense(t)
	default:
		lt.Postings = c.splitExpense(t)
	}

	lt.SortPostings()
	return lt, nil
}

// transfer moves money between two accounts. Each side is in its own currency. When the currencies
// differ the destination carries the source amount as its cost, so the rate is the one recorded.
func (c *Converter) transfer(t *backup.Transaction, ov *override) ([]ledger.Posting, error) {
	from, to := t.FromAccount, t.ToAccount

	postings := []ledger.Posting{
		{Account: from.Name, Amount: c.amount(from.Currency, t.FromAmount)},
		{Account: to.Name, Amount: c.amount(to.Currency, t.ToAmount)},
	}

	switch {
	case ov != nil:
		if from.Currency != to.Currency {
			return nil, ValidationError{t.ID, "a cost override may only be given for same-currency transfers"}
		}
		v := ov.Amount.Mul(decimal.NewFromInt(-sign(t.FromAmount)))
		postings[0].Cost = c.value(ov.Currency, v)
		postings[1].Cost = c.value(ov.Currency, v)
	case from.Currency != to.Currency:
		postings[1].Cost = c.amount(from.Currency, abs(t.FromAmount))
	}

	if c.cfg.Simplify && ov == nil {
		i := 1
		if postings[1].Cost != nil {
			i = 0
		}
		postings[i].Amount = nil
	}

	return postings, nil
}

// simpleExpense is a single account and category. If the money was spent in another currency the
// category is charged in that currency, at the cost of the account amount.
func (c *Converter) simpleExpense(t *backup.Transaction) []ledger.Posting {
	account := t.FromAccount
	amount := c.amount(account.Currency, t.FromAmount)
	negated := c.amount(account.Currency, -t.FromAmount)

	postings := []ledger.Posting{
		{Account: account.Name, Amount: amount},
		{Account: c.categoryName(t.Category), Amount: negated},
	}

	if t.OriginalCurrency != nil {
		postings[1].Amount = c.amount(t.OriginalCurrency, -t.OriginalFromAmount)
		if t.FromAmount < 0 {
			postings[1].Cost = negated
		} else {
			postings[1].Cost = amount
		}
	}

	if c.cfg.Simplify {
		i := 0
		if t.OriginalCurrency == nil && t.FromAmount <= 0 {
			i = 1
		}
		postings[i].Amount = nil
	}

	return postings
}

// splitExpense is one account leg followed by a leg per split. A split is a transfer to another
// account, an amount paid in another currency (given in the split note), or plain.
func (c *Converter) splitExpense(t *backup.Transaction) []ledger.Posting {
	account := t.FromAccount

	// Simplifying is only safe while every split goes the opposite way to the account leg.
	parentSign := sign(t.FromAmount)
	mixed := false

	postings := []ledger.Posting{
		{Account: account.Name, Amount: c.amount(account.Currency, t.FromAmount)},
	}

	for _, s := range t.Splits {
		ov := c.parseNote(s.Note)
		from := s.FromAccount
		if from == nil {
			from = account
		}

		p := ledger.Posting{Account: c.categoryName(s.Category)}
		if s.ToAccount != nil {
			p.Account = s.ToAccount.Name
		}

		switch {
		case s.ToAmount != 0 && s.ToAccount != nil:
			p.Amount = c.amount(s.ToAccount.Currency, s.ToAmount)
			if s.ToAccount.Currency != from.Currency {
				p.Cost = c.amount(from.Currency, abs(s.FromAmount))
			}
		case ov != nil:
			p.Amount = c.value(ov.Currency, ov.Amount.Mul(decimal.NewFromInt(-sign(s.FromAmount))))
			p.Cost = c.amount(from.Currency, abs(s.FromAmount))
			p.Note = ov.Note
		default:
			p.Amount = c.amount(from.Currency, -s.FromAmount)
		}

		if ov == nil {
			p.Note = s.Note
		}

		if int64(p.Amount.Value.Sign()) == parentSign {
			mixed = true
		}

		if c.cfg.Projects && s.Project != nil && s.Project.ID != 0 {
			p.Project = s.Project.Title
		}

		postings = append(postings, p)
	}

	if c.cfg.Simplify && !mixed {
		i := 0
		if len(postings) == 2 && postings[1].Cost == nil && parentSign <= 0 {
			i = 1
		}
		postings[i].Amount = nil
	}

	return postings
}

func (c *Converter) categoryName(cat *backup.Category) string {
	if cat == nil {
		return c.cfg.UnknownExpense
	}
	return cat.Name
}

// amount formats a fixed point backup amount.
func (c *Converter) amount(cur *backup.Currency, fixed int64) *ledger.Amount {
	return c.value(cur, decimal.New(fixed, -currency.Scale))
}

func (c *Converter) value(cur *backup.Currency, v decimal.Decimal) *ledger.Amount {
	return &ledger.Amount{Value: v, Text: c.locale(cur).Format(v)}
}

// Used for amounts in accounts with no currency.
var bareLocale, _ = currency.NewLocale("", "", currency.Scale, string(currency.SymbolPrefix))

func (c *Converter) locale(cur *backup.Currency) *currency.Locale {
	if cur == nil {
		return bareLocale
	}
	return c.locales.Get(cur)
}

func sign(v int64) int64 {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
