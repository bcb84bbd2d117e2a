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
Package currency builds a number format for every currency in a backup.

Each currency gets a format mask in the usual numeral style (0,0.00[00000000], with $ marking where
the symbol goes) and a Locale that formats and parses amounts to match it. Locales are keyed by
currency name.
*/
package currency

import (
	"fmt"
	"strings"

	"github.com/milochristiansen/financisto-ledger/backup"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// SymbolFormat says where the currency symbol goes relative to the number.
type SymbolFormat string

// Symbol formats, as stored in the backup.
const (
	SymbolPrefix      = SymbolFormat("L")  // $1.00
	SymbolPrefixSpace = SymbolFormat("LS") // $ 1.00
	SymbolSuffix      = SymbolFormat("R")  // 1.00$
	SymbolSuffixSpace = SymbolFormat("RS") // 1.00 $
)

// marker stands in for the currency symbol in a mask.
const marker = "$"

// MaxDecimals is the number of decimal places a formatted amount may have, mandatory and optional combined.
const MaxDecimals = 10

// Scale is the fixed point scale amounts are stored with in the backup.
const Scale = 2

// ConfigError is returned alongside a working locale when a currency has a symbol format that is not
// recognized. The locale falls back to SymbolSuffixSpace.
type ConfigError struct {
	Currency     string
	SymbolFormat string
}

func (err ConfigError) Error() string {
	return fmt.Sprintf("Currency %v has unknown symbol format %q, using %v.", err.Currency, err.SymbolFormat, SymbolSuffixSpace)
}

// Locale formats amounts in one currency. Formatting is driven by Mask, the fields after it are
// compiled from the mask when the locale is made.
type Locale struct {
	Name     string
	Symbol   string
	Position SymbolFormat
	Mask     string

	before, after    string // Text around the number, with the symbol marker already replaced.
	grouped          bool
	minFrac, maxFrac int
	printer          *message.Printer
}

// Locales maps currency names to their locale.
type Locales map[string]*Locale

// Build creates a locale for every currency. Unknown symbol formats do not stop the build, they are
// returned as ConfigErrors after every locale has been made.
func Build(currencies []*backup.Currency) (Locales, []error) {
	locales := Locales{}
	warnings := []error{}
	for _, c := range currencies {
		l, err := NewLocale(c.Name, c.Symbol, c.Decimals, c.SymbolFormat)
		if err != nil {
			warnings = append(warnings, err)
		}
		locales[c.Name] = l
	}
	return locales, warnings
}

// Get returns the locale for a currency. A currency without a registered locale gets a default one.
func (ls Locales) Get(c *backup.Currency) *Locale {
	if l, ok := ls[c.Name]; ok {
		return l
	}
	l, _ := NewLocale(c.Name, c.Symbol, c.Decimals, c.SymbolFormat)
	return l
}

// NewLocale creates a locale. If the symbol format is not recognized the locale is still returned,
// using SymbolSuffixSpace, along with a ConfigError.
func NewLocale(name, symbol string, decimals int, format string) (*Locale, error) {
	if decimals < 0 {
		decimals = 0
	}
	if decimals > MaxDecimals {
		decimals = MaxDecimals
	}

	l := &Locale{
		Name:     name,
		Symbol:   symbol,
		Position: SymbolFormat(format),
	}

	var err error
	switch l.Position {
	case SymbolPrefix, SymbolPrefixSpace, SymbolSuffix, SymbolSuffixSpace:
	default:
		err = ConfigError{Currency: name, SymbolFormat: format}
		l.Position = SymbolSuffixSpace
	}

	l.Mask = l.wrap(mask(decimals))
	l.compile()
	return l, err
}

// mask builds the number part of a format mask.
func mask(decimals int) string {
	if decimals == 0 {
		return "0,0[.][" + strings.Repeat("0", MaxDecimals) + "]"
	}

	m := "0,0." + strings.Repeat("0", decimals)
	if decimals < MaxDecimals {
		m += "[" + strings.Repeat("0", MaxDecimals-decimals) + "]"
	}
	return m
}

// wrap places the symbol marker around a number mask.
func (l *Locale) wrap(s string) string {
	switch l.Position {
	case SymbolPrefix:
		return marker + s
	case SymbolPrefixSpace:
		return marker + " " + s
	case SymbolSuffix:
		return s + marker
	}
	return s + " " + marker
}

// compile reads the mask into the settings Format uses.
func (l *Locale) compile() {
	m := l.Mask
	first := strings.IndexAny(m, "0#")
	last := strings.LastIndexAny(m, "0#]")
	if first < 0 {
		first, last = len(m), len(m)-1
	}
	l.before = strings.Replace(m[:first], marker, l.Symbol, 1)
	l.after = strings.Replace(m[last+1:], marker, l.Symbol, 1)

	num := m[first : last+1]
	l.grouped = strings.Contains(num, ",")

	_, frac, _ := strings.Cut(num, ".")
	required, optional, _ := strings.Cut(frac, "[")
	l.minFrac = strings.Count(required, "0")
	l.maxFrac = l.minFrac + strings.Count(optional, "0")

	l.printer = message.NewPrinter(language.English)
}

// FormatFixed formats a fixed point amount as stored in the backup.
func (l *Locale) FormatFixed(amount int64) string {
	return l.Format(decimal.New(amount, -Scale))
}

// Format formats a value. A minus sign always comes first, even before a leading symbol.
//
// The printer only takes native numbers, so it groups the integer part and the fraction is taken
// from the decimal's own digits.
func (l *Locale) Format(v decimal.Decimal) string {
	neg := v.IsNegative()
	v = v.Abs().Round(int32(l.maxFrac))

	opts := []number.Option{}
	if !l.grouped {
		opts = append(opts, number.NoSeparator())
	}
	s := l.printer.Sprint(number.Decimal(v.IntPart(), opts...))

	_, frac, _ := strings.Cut(v.StringFixed(int32(l.maxFrac)), ".")
	frac = strings.TrimRight(frac, "0")
	if len(frac) < l.minFrac {
		frac += strings.Repeat("0", l.minFrac-len(frac))
	}
	if frac != "" {
		s += "." + frac
	}

	s = l.before + s + l.after
	if neg {
		return "-" + s
	}
	return s
}

// Parse reads back an amount produced by Format.
func (l *Locale) Parse(s string) (decimal.Decimal, error) {
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	s = strings.TrimSuffix(strings.TrimPrefix(s, l.before), l.after)
	s = strings.ReplaceAll(s, ",", "")

	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, err
	}
	if neg {
		d = d.Neg()
	}
	return d, nil
}
