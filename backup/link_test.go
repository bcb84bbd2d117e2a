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
	"strings"
	"testing"

	"github.com/milochristiansen/financisto-ledger/parse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func block(typ string, fields ...string) string {
	return "$ENTITY:" + typ + "\n" + strings.Join(fields, "\n") + "\n$$\n"
}

func link(t *testing.T, blocks ...string) *Backup {
	cs, err := parse.ParseString("#START\n" + strings.Join(blocks, "") + "#END\n")
	require.NoError(t, err)
	parse.Normalize(cs)

	b, err := Link(cs, Options{AccountPrefix: "Assets:"})
	require.NoError(t, err)
	return b
}

var base = []string{
	block("currency", "_id:1", "name:USD", "symbol:$", "decimals:2", "symbol_format:L"),
	block("currency", "_id:2", "name:CAD", "symbol:$", "decimals:2", "symbol_format:L"),
	block("account", "_id:1", "title:Cash", "currency_id:1", "is_active:1"),
	block("account", "_id:2", "title:Liabilities:Visa", "currency_id:2", "is_active:0"),
	block("account", "_id:3", "title::Odd", "currency_id:9"),
	block("category", "_id:0", "title:<NO_CATEGORY>", "left:0", "right:0"),
}

func TestLinkMissingBlock(t *testing.T) {
	for _, typ := range []string{"currency", "account", "category", "transaction"} {
		blocks := []string{}
		for _, b := range append(base, block("transactions", "_id:1")) {
			if !strings.HasPrefix(b, "$ENTITY:"+typ) {
				blocks = append(blocks, b)
			}
		}

		cs, err := parse.ParseString("#START\n" + strings.Join(blocks, "") + "#END\n")
		require.NoError(t, err)
		parse.Normalize(cs)

		_, err = Link(cs, Options{})
		var ferr parse.FormatError
		require.ErrorAs(t, err, &ferr, typ)
		assert.Contains(t, ferr.Reason, typ)
	}
}

func TestAccountNames(t *testing.T) {
	b := link(t, append(base, block("transactions", "_id:1"))...)

	require.Len(t, b.Accounts, 3)
	assert.Equal(t, "Assets:Cash", b.Accounts[0].Name)
	assert.Equal(t, "Liabilities:Visa", b.Accounts[1].Name)
	assert.Equal(t, "Assets::Odd", b.Accounts[2].Name)

	assert.Same(t, b.Currencies[0], b.Accounts[0].Currency)
	assert.Same(t, b.Currencies[1], b.Accounts[1].Currency)
	assert.True(t, b.Accounts[0].IsActive)
	assert.False(t, b.Accounts[1].IsActive)

	// A reference to a record that does not exist is nil.
	assert.Nil(t, b.Accounts[2].Currency)
}

func TestCategoryNames(t *testing.T) {
	b := link(t, append(base,
		block("category", "_id:1", "title:Expenses", "left:1", "right:10"),
		block("category", "_id:2", "title:Food", "left:2", "right:7"),
		block("category", "_id:3", "title:Groceries", "left:3", "right:4"),
		block("category", "_id:4", "title:Restaurants", "left:5", "right:6"),
		block("category", "_id:5", "title:Car", "left:8", "right:9"),
		block("category", "_id:6", "title:Income", "left:11", "right:14"),
		block("category", "_id:7", "title:Salary", "left:12", "right:13"),
		block("transactions", "_id:1"),
	)...)

	names := map[int64]string{}
	for _, c := range b.Categories {
		names[c.ID] = c.Name
	}
	assert.Equal(t, map[int64]string{
		0: FallbackCategory,
		1: "Expenses",
		2: "Expenses:Food",
		3: "Expenses:Food:Groceries",
		4: "Expenses:Food:Restaurants",
		5: "Expenses:Car",
		6: "Income",
		7: "Income:Salary",
	}, names)

	// Every category is prefixed by exactly the categories whose bounds enclose it.
	for _, c := range b.Categories {
		if c.ID == 0 {
			continue
		}
		depth := 0
		for _, o := range b.Categories {
			if o.ID != 0 && o.Left < c.Left && c.Left <= o.Right {
				depth++
			}
		}
		assert.Equal(t, depth, strings.Count(c.Name, Separator), c.Name)
	}

	assert.Equal(t, "Expenses:Food:Groceries", b.Category(3).Name)
	assert.Nil(t, b.Category(99))
}

func TestSplits(t *testing.T) {
	b := link(t, append(base,
		block("transactions", "_id:1", "from_account_id:1", "from_amount:-300", "category_id:0", "datetime:1704067200000"),
		block("transactions", "_id:2", "parent_id:1", "from_account_id:1", "from_amount:-100"),
		block("transactions", "_id:3", "parent_id:1", "from_account_id:1", "from_amount:-200"),
		block("transactions", "_id:4", "parent_id:77", "from_account_id:1", "from_amount:-5"),
		block("transactions", "_id:5", "from_account_id:1", "to_account_id:2", "from_amount:-5", "to_amount:7"),
	)...)

	parent := b.Transaction(1)
	require.NotNil(t, parent)
	require.Len(t, parent.Splits, 2)
	assert.Same(t, b.Transaction(2), parent.Splits[0])
	assert.Same(t, b.Transaction(3), parent.Splits[1])
	assert.Same(t, parent, b.Transaction(2).Parent)
	assert.False(t, parent.IsTransfer())
	assert.Equal(t, FallbackCategory, parent.Category.Name)
	assert.Equal(t, 2024, parent.Datetime.UTC().Year())

	orphan := b.Transaction(4)
	assert.Nil(t, orphan.Parent)
	assert.EqualValues(t, 77, orphan.ParentID)
	assert.Empty(t, orphan.Splits)

	transfer := b.Transaction(5)
	assert.True(t, transfer.IsTransfer())
	assert.EqualValues(t, -5, transfer.FromAmount)
	assert.EqualValues(t, 7, transfer.ToAmount)
}

func TestExchangeRates(t *testing.T) {
	b := link(t, append(base,
		block("currency_exchange_rate", "from_currency_id:1", "to_currency_id:2", "rate_date:1704067200000", "rate:1.35"),
		block("transactions", "_id:1"),
	)...)

	require.Len(t, b.ExchangeRates, 1)
	r := b.ExchangeRates[0]
	assert.Same(t, b.Currencies[0], r.From)
	assert.Same(t, b.Currencies[1], r.To)
	assert.Equal(t, "1.35", r.Rate.String())
}

func TestNegativeIDsUnlisted(t *testing.T) {
	b := link(t, append(base,
		block("category", "_id:-1", "title:<SPLIT_CATEGORY>", "left:0", "right:0"),
		block("transactions", "_id:1", "from_account_id:1", "category_id:-1"),
		block("transactions", "_id:-5", "from_account_id:1"),
	)...)

	for _, c := range b.Categories {
		assert.NotEqual(t, int64(-1), c.ID)
	}
	require.Len(t, b.Transactions, 1)

	split := b.Category(-1)
	require.NotNil(t, split)
	assert.Equal(t, "<SPLIT_CATEGORY>", split.Name)
	assert.Same(t, split, b.Transaction(1).Category)
}
