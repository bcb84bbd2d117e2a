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

package ledger

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
)

// Output file names used by Result.WriteDir.
const (
	DefinitionsFile = "definitions.ledger"
	PriceDBFile     = "prices.db"
	LedgerFile      = "financisto.ledger"
)

// Result holds the three independently generated parts of a conversion. A nil field means the part
// was not requested, which is different from a part that was requested but came out empty.
type Result struct {
	Definitions *string // commodity, account, payee and tag directives
	PriceDB     *string // P lines
	Ledger      *string // the transactions
}

func has(s *string) bool {
	return s != nil && *s != ""
}

// WriteTo writes every non-empty part to w, one after another, as a single journal.
func (r *Result) WriteTo(w io.Writer) (int64, error) {
	buf := new(bytes.Buffer)
	for _, part := range []*string{r.Definitions, r.PriceDB, r.Ledger} {
		if has(part) {
			buf.WriteString(*part)
			buf.WriteRune('\n')
		}
	}
	buf.WriteRune('\n')

	return buf.WriteTo(w)
}

// WriteDir writes each non-empty part to its own file in dir, creating the directory if needed. The
// ledger file includes the other two files when they were written.
func (r *Result) WriteDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	if has(r.Definitions) {
		if err := os.WriteFile(filepath.Join(dir, DefinitionsFile), []byte(*r.Definitions), 0644); err != nil {
			return err
		}
	}

	if has(r.PriceDB) {
		if err := os.WriteFile(filepath.Join(dir, PriceDBFile), []byte(*r.PriceDB), 0644); err != nil {
			return err
		}
	}

	if !has(r.Ledger) {
		return nil
	}

	buf := new(bytes.Buffer)
	if has(r.Definitions) {
		buf.WriteString("include " + DefinitionsFile + "\n\n")
	}
	if has(r.PriceDB) {
		buf.WriteString("include " + PriceDBFile + "\n\n")
	}
	buf.WriteString(*r.Ledger)
	buf.WriteRune('\n')

	return os.WriteFile(filepath.Join(dir, LedgerFile), buf.Bytes(), 0644)
}
