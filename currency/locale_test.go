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

package currency

import (
	"testing"

	"github.com/milochristiansen/financisto-ledger/backup"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMask(t *testing.T) {
	cases := []struct {
		decimals int
		format   string
		mask     string
	}{
		{2, "L", "$0,0.00[00000000]"},
		{2, "LS", "$ 0,0.00[00000000]"},
		{2, "R", "0,0.00[00000000]$"},
		{2, "RS", "0,0.00[00000000] $"},
		{0, "RS", "0,0[.][0000000000] $"},
		{10, "L", "$0,0.0000000000"},
	}

	for _, c := range cases {
		l, err := NewLocale("X", "x", c.decimals, c.format)
		require.NoError(t, err)
		assert.Equal(t, c.mask, l.Mask, "decimals %v format %v", c.decimals, c.format)
	}
}

func TestUnknownSymbolFormat(t *testing.T) {
	l, err := NewLocale("Euro", "€", 2, "XX")
	require.Error(t, err)
	assert.Equal(t, ConfigError{Currency: "Euro", SymbolFormat: "XX"}, err)
	assert.Equal(t, SymbolSuffixSpace, l.Position)
	assert.Equal(t, "1.00 €", l.FormatFixed(100))
}

func TestFormat(t *testing.T) {
	usd, _ := NewLocale("USD", "$", 2, "L")
	assert.Equal(t, "$1.00", usd.FormatFixed(100))
	assert.Equal(t, "-$1.00", usd.FormatFixed(-100))
	assert.Equal(t, "$1,234,567.89", usd.FormatFixed(123456789))
	assert.Equal(t, "$0.00", usd.FormatFixed(0))
	assert.Equal(t, "$1.2345", usd.Format(decimal.RequireFromString("1.2345")))

	yen, _ := NewLocale("JPY", "¥", 0, "RS")
	assert.Equal(t, "1,000 ¥", yen.Format(decimal.NewFromInt(1000)))
	assert.Equal(t, "12.5 ¥", yen.FormatFixed(1250))
	assert.Equal(t, "-12 ¥", yen.FormatFixed(-1200))

	rub, _ := NewLocale("RUB", "р.", 2, "R")
	assert.Equal(t, "100.00р.", rub.FormatFixed(10000))
}

func TestRoundTrip(t *testing.T) {
	amounts := []int64{0, 1, -1, 99, 100, -500, 10000, 123456789, -987654321}
	for _, format := range []string{"L", "LS", "R", "RS"} {
		l, err := NewLocale("Test", "T$", 2, format)
		require.NoError(t, err)
		for _, a := range amounts {
			v, err := l.Parse(l.FormatFixed(a))
			require.NoError(t, err)
			assert.True(t, decimal.New(a, -2).Equal(v), "%v: %v != %v", format, a, v)
		}
	}
}

func TestBuild(t *testing.T) {
	ls, warnings := Build([]*backup.Currency{
		{ID: 1, Name: "USD", Symbol: "$", Decimals: 2, SymbolFormat: "L"},
		{ID: 2, Name: "EUR", Symbol: "€", Decimals: 2, SymbolFormat: "bogus"},
	})

	require.Len(t, warnings, 1)
	assert.ErrorAs(t, warnings[0], new(ConfigError))
	require.Contains(t, ls, "USD")
	require.Contains(t, ls, "EUR")
	assert.Equal(t, "2.50 €", ls["EUR"].FormatFixed(250))

	missing := ls.Get(&backup.Currency{Name: "GBP", Symbol: "£", Decimals: 2, SymbolFormat: "L"})
	assert.Equal(t, "£3.00", missing.FormatFixed(300))
}

func TestMaskDrivesFormat(t *testing.T) {
	l := &Locale{Symbol: "kr", Mask: "0.0[0] $"}
	l.compile()
	assert.Equal(t, "1234.5 kr", l.Format(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "1234.57 kr", l.Format(decimal.RequireFromString("1234.5678")))

	l = &Locale{Symbol: "kr", Mask: "$0,0"}
	l.compile()
	assert.Equal(t, "kr1,235", l.Format(decimal.RequireFromString("1234.5")))
}

func TestFormatKeepsPrecision(t *testing.T) {
	l, err := NewLocale("BTC", "₿", 8, "RS")
	require.NoError(t, err)
	v := decimal.RequireFromString("12345678.0123456789")
	assert.Equal(t, "12,345,678.0123456789 ₿", l.Format(v))

	back, err := l.Parse(l.Format(v))
	require.NoError(t, err)
	assert.True(t, v.Equal(back))
}
