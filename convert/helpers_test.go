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
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	ledger "github.com/milochristiansen/financisto-ledger"
	"github.com/milochristiansen/financisto-ledger/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const header = "PACKAGE:ru.orangesoftware.financisto\nVERSION_CODE:200\nVERSION_NAME:1.8.2\nDATABASE_VERSION:217\n"

const valueHeader = "tag VALUE\n= /^Expenses:/\n\t; VALUE:: market(post.commodity, post.date, exchange)\n\n"

// Shared entities: two currencies, three accounts, a small category tree, and one of each of the rest.
var fixture = strings.Join([]string{
	block("currency", "_id:1", "name:USD", "title:US Dollar", "symbol:$", "decimals:2", "symbol_format:L", "is_default:1"),
	block("currency", "_id:2", "name:EUR", "title:Euro", "symbol:€", "decimals:2", "symbol_format:RS", "is_default:0"),
	block("account", "_id:1", "title:Cash", "currency_id:1", "is_active:1", "creation_date:"+day(0)),
	block("account", "_id:2", "title:Bank:Euro", "currency_id:2", "is_active:1", "creation_date:"+day(0)),
	block("account", "_id:3", "title:Card", "note:Old card", "currency_id:1", "is_active:0", "creation_date:"+day(0)),
	block("category", "_id:0", "title:<NO_CATEGORY>", "left:0", "right:0"),
	block("category", "_id:1", "title:Expenses", "left:1", "right:6"),
	block("category", "_id:2", "title:Food", "left:2", "right:3"),
	block("category", "_id:3", "title:Fuel", "left:4", "right:5"),
	block("payee", "_id:1", "title:Grocer"),
	block("project", "_id:0", "title:No project"),
	block("project", "_id:1", "title:Trip"),
	block("locations", "_id:0", "name:Current location"),
	block("locations", "_id:1", "name:Home"),
	block("currency_exchange_rate", "from_currency_id:1", "to_currency_id:2", "rate_date:"+day(1), "rate:0.9"),
	block("currency_exchange_rate", "from_currency_id:2", "to_currency_id:1", "rate_date:"+day(0), "rate:1.1111"),
}, "")

func block(typ string, fields ...string) string {
	return "$ENTITY:" + typ + "\n" + strings.Join(fields, "\n") + "\n$$\n"
}

func tx(fields ...string) string {
	return block("transactions", fields...)
}

func backupWith(transactions ...string) string {
	return header + "#START\n" + fixture + strings.Join(transactions, "") + "#END\n"
}

// day returns the backup timestamp for midnight UTC, n days after 2024/01/01.
func day(n int) string {
	return strconv.FormatInt(time.Date(2024, 1, 1+n, 0, 0, 0, 0, time.UTC).UnixMilli(), 10)
}

func testConfig() *config.Config {
	cfg := config.Defaults()
	cfg.Location = time.UTC
	cfg.Now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	return cfg
}

func convertText(t require.TestingT, text string, cfg *config.Config) *ledger.Result {
	r, err := FromString(text, cfg, zerolog.Nop())
	require.NoError(t, err)
	return r
}

// post renders a posting line the way the journal aligns them.
func post(account, amount string) string {
	return postLine(account, amount) + "\n"
}

func postLine(account, amount string) string {
	width := ledger.AccountPadding
	if !strings.HasPrefix(amount, "-") {
		width++
	}
	return fmt.Sprintf("\t%-*s  %v", width, account, amount)
}

// postProject renders a posting with a note, followed by its project line aligned after the amount.
func postProject(account, amount, note, project string) string {
	line := postLine(account, amount)
	return line + "  ; " + note + "\n" + fmt.Sprintf("%-*s  ; Project: %v\n", utf8.RuneCountInString(line), "\t", project)
}

func bare(account string) string {
	return "\t" + account + "\n"
}
