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
Package convert turns a Financisto backup into Ledger CLI text.

A conversion runs the whole pipeline in order: the backup is split into records, the records are
normalized and linked into an entity graph, a number format is built for every currency, and finally
the transactions, price database and definitions are rendered. Each stage depends on the previous one
having finished, and nothing is shared between conversions.
*/
package convert

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	ledger "github.com/milochristiansen/financisto-ledger"
	"github.com/milochristiansen/financisto-ledger/backup"
	"github.com/milochristiansen/financisto-ledger/config"
	"github.com/milochristiansen/financisto-ledger/currency"
	"github.com/milochristiansen/financisto-ledger/parse"
	"github.com/milochristiansen/financisto-ledger/parse/lex"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/teris-io/shortid"
	"golang.org/x/exp/slices"
)

// ValidationError is returned when a transaction cannot be expressed as requested, for example a
// cross-currency transfer with a cost override in its note.
type ValidationError struct {
	TransactionID int64
	Reason        string
}

func (err ValidationError) Error() string {
	return fmt.Sprintf("Invalid transaction %v: %v", err.TransactionID, err.Reason)
}

// Converter renders one linked backup. Create one per backup with New.
type Converter struct {
	cfg     *config.Config
	log     zerolog.Logger
	backup  *backup.Backup
	locales currency.Locales
	symbols map[string]*backup.Currency // First currency by name for each symbol.
	ids     *shortid.Shortid
}

// FromString converts the text of a decompressed backup. A nil cfg means config.Defaults().
func FromString(text string, cfg *config.Config, log zerolog.Logger) (*ledger.Result, error) {
	return fromCharReader(lex.NewCharReader(text, 1), cfg, log)
}

// FromReader converts a decompressed backup read from r.
func FromReader(r io.Reader, cfg *config.Config, log zerolog.Logger) (*ledger.Result, error) {
	return fromCharReader(lex.NewRawCharReader(bufio.NewReader(r), 1), cfg, log)
}

func fromCharReader(cr *lex.CharReader, cfg *config.Config, log zerolog.Logger) (*ledger.Result, error) {
	if cfg == nil {
		cfg = config.Defaults()
	}
	log = log.With().Str("run", uuid.NewString()).Logger()

	cs, err := parse.Parse(cr)
	if err != nil {
		return nil, errors.Wrap(err, "reading backup")
	}
	for _, typ := range cs.Types {
		log.Debug().Str("type", typ).Int("records", len(cs.Get(typ).Records)).Msg("Read block.")
	}

	parse.Normalize(cs)
	for field, n := range parse.Unresolved(cs) {
		log.Debug().Str("field", field).Int("count", n).Msg("Reference to missing collection left as is.")
	}

	b, err := backup.Link(cs, backup.Options{AccountPrefix: cfg.AccountPrefix})
	if err != nil {
		return nil, errors.Wrap(err, "linking backup")
	}

	c, err := New(b, cfg, log)
	if err != nil {
		return nil, err
	}
	return c.Convert()
}

// New prepares a converter for a linked backup, building the currency locales. Unknown currency
// symbol formats are logged and fall back to a default. A cfg without a time zone or clock uses the
// system's.
func New(b *backup.Backup, cfg *config.Config, log zerolog.Logger) (*Converter, error) {
	if cfg == nil {
		cfg = config.Defaults()
	}
	cfg = cfg.Complete()

	c := &Converter{
		cfg:    cfg,
		log:    log,
		backup: b,
	}

	c.symbols = map[string]*backup.Currency{}
	for _, cur := range byName(b.Currencies) {
		if _, ok := c.symbols[cur.Symbol]; !ok {
			c.symbols[cur.Symbol] = cur
		}
	}

	var warnings []error
	c.locales, warnings = currency.Build(b.Currencies)
	for _, w := range warnings {
		log.Warn().Err(w).Msg("Currency format fallback.")
	}

	if cfg.IDs {
		ids, err := shortid.New(16, shortid.DefaultABC, uint64(cfg.Now().UnixNano()))
		if err != nil {
			return nil, errors.Wrap(err, "creating id source")
		}
		c.ids = ids
	}

	return c, nil
}

// Convert renders every part enabled in the configuration. Parts that are disabled are nil in the
// result.
func (c *Converter) Convert() (*ledger.Result, error) {
	r := &ledger.Result{}

	if c.cfg.PriceDB {
		s := c.priceDB()
		r.PriceDB = &s
	}

	if defs, ok := c.definitions(); ok {
		r.Definitions = &defs
	}

	if c.cfg.Budgets {
		c.log.Warn().Msg("Budget conversion is not supported, skipping.")
	}

	if c.cfg.Transactions {
		s, err := c.journal()
		if err != nil {
			return nil, err
		}
		r.Ledger = &s
	}

	return r, nil
}

// Automated transaction that tags every expense posting with its market value.
var valueDirectives = []ledger.Directive{
	{Type: "tag", Argument: "VALUE"},
	{Type: "=", Argument: "/^Expenses:/", Lines: []string{"; VALUE:: market(post.commodity, post.date, exchange)"}},
}

// journal renders the top level transactions in date order, preceded by the VALUE automated
// transaction.
func (c *Converter) journal() (string, error) {
	f := &ledger.File{D: slices.Clone(valueDirectives)}

	skipped := 0
	for _, t := range c.backup.Transactions {
		lt, err := c.transaction(t)
		if err != nil {
			return "", err
		}
		if lt == nil {
			skipped++
			continue
		}
		f.T = append(f.T, *lt)
	}
	c.log.Debug().Int("converted", len(f.T)).Int("skipped", skipped).Msg("Converted transactions.")

	f.SortByDate()

	buf := new(strings.Builder)
	err := f.Format(buf)
	if err != nil {
		return "", errors.Wrap(err, "formatting journal")
	}
	return buf.String(), nil
}
