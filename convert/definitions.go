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
	"strings"
	"time"

	ledger "github.com/milochristiansen/financisto-ledger"
	"github.com/milochristiansen/financisto-ledger/backup"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Tags declared by the definitions, in order, with the option that enables each.
var tags = []struct {
	name   string
	option func(c *Converter) bool
}{
	{"Location", func(c *Converter) bool { return c.cfg.Locations }},
	{"LonLat", func(c *Converter) bool { return c.cfg.LonLats }},
	{"Project", func(c *Converter) bool { return c.cfg.Projects }},
}

// definitions renders the commodity, account, payee and tag directives. The second result is false
// if no kind of definition is enabled.
func (c *Converter) definitions() (string, bool) {
	buf := new(strings.Builder)
	enabled := false
	col := collate.New(language.Und)

	if c.cfg.Currencies {
		enabled = true
		for _, cur := range byName(c.backup.Currencies) {
			d := c.commodity(cur)
			buf.WriteString(d.String())
			buf.WriteRune('\n')
		}
	}

	if c.cfg.Accounts {
		enabled = true
		accounts := slices.Clone(c.backup.Accounts)
		slices.SortStableFunc(accounts, func(a, b *backup.Account) int {
			return col.CompareString(a.Title, b.Title)
		})
		for _, a := range accounts {
			d := c.account(a)
			buf.WriteString(d.String())
			buf.WriteRune('\n')
		}

		categories := slices.Clone(c.backup.Categories)
		slices.SortStableFunc(categories, func(a, b *backup.Category) int {
			return col.CompareString(a.Name, b.Name)
		})
		for _, cat := range categories {
			d := ledger.Directive{Type: "account", Argument: cat.Name}
			buf.WriteString(d.String())
			buf.WriteRune('\n')
		}
		buf.WriteRune('\n')
	}

	if c.cfg.Payees {
		enabled = true
		payees := slices.Clone(c.backup.Payees)
		slices.SortStableFunc(payees, func(a, b *backup.Payee) int {
			return col.CompareString(a.Title, b.Title)
		})
		for _, p := range payees {
			d := ledger.Directive{Type: "payee", Argument: p.Title}
			buf.WriteString(d.String())
		}
		buf.WriteRune('\n')
	}

	for _, tag := range tags {
		if tag.option(c) {
			enabled = true
			d := ledger.Directive{Type: "tag", Argument: tag.name}
			buf.WriteString(d.String())
		}
	}

	return buf.String(), enabled
}

// byName returns the currencies sorted by name.
func byName(currencies []*backup.Currency) []*backup.Currency {
	col := collate.New(language.Und)
	sorted := slices.Clone(currencies)
	slices.SortStableFunc(sorted, func(a, b *backup.Currency) int {
		return col.CompareString(a.Name, b.Name)
	})
	return sorted
}

func (c *Converter) commodity(cur *backup.Currency) ledger.Directive {
	return ledger.Directive{
		Type:     "commodity",
		Argument: cur.Symbol,
		Lines: []string{
			"note " + cur.Name + " - " + cur.Title,
			"format " + c.locale(cur).Format(decimal.NewFromInt(1000)),
		},
	}
}

func (c *Converter) account(a *backup.Account) ledger.Directive {
	d := ledger.Directive{Type: "account", Argument: a.Name}
	if a.Note != "" {
		d.Lines = append(d.Lines, "note "+a.Note)
	}
	if a.Currency != nil {
		d.Lines = append(d.Lines, `assert commodity == "`+a.Currency.Symbol+`"`)
	}
	if !a.IsActive {
		d.Lines = append(d.Lines, "assert post.date < ["+c.cfg.Now().In(c.cfg.Location).Format("2006/01/02")+"]")
	}
	return d
}

type price struct {
	at   time.Time
	text string
}

// priceDB renders a P line for every exchange rate, oldest first.
func (c *Converter) priceDB() string {
	prices := []price{}
	for _, r := range c.backup.ExchangeRates {
		if r.From == nil || r.To == nil {
			c.log.Warn().Time("date", r.RateDate).Msg("Exchange rate with a missing currency, skipping.")
			continue
		}

		d := ledger.Directive{
			Type:     "P",
			Argument: r.RateDate.In(c.cfg.Location).Format("2006/01/02 15:04:05") + "\t" + r.From.Symbol + "\t" + c.locale(r.To).Format(r.Rate),
		}
		prices = append(prices, price{r.RateDate, d.String()})
	}

	slices.SortStableFunc(prices, func(a, b price) int {
		return a.at.Compare(b.at)
	})

	buf := new(strings.Builder)
	for _, p := range prices {
		buf.WriteString(p.text)
	}
	return buf.String()
}
