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

package parse

import (
	"fmt"

	"github.com/milochristiansen/financisto-ledger/parse/lex"
)

// FormatError is returned when the backup text does not have the expected shape, or when a block
// type that conversion depends on is missing entirely. A zero Location means the problem is not tied
// to any one place in the input.
type FormatError struct {
	Location lex.Location
	Reason   string
}

func (err FormatError) Error() string {
	if err.Location == 0 {
		return fmt.Sprintf("Malformed backup: %v", err.Reason)
	}
	return fmt.Sprintf("Malformed backup on line %v: %v", err.Location.Line(), err.Reason)
}

// ErrMissingBlock returns the FormatError used when no block of the given entity type was found.
func ErrMissingBlock(typ string) FormatError {
	return FormatError{Reason: fmt.Sprintf("no $ENTITY:%v blocks", typ)}
}
