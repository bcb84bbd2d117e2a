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

import "bytes"

// Directive is a simple type to represent a command directive such as account, commodity, payee, tag, or P.
type Directive struct {
	Type     string   // The keyword that starts the directive.
	Argument string   // Any remaining content that was on the first line of the directive.
	Lines    []string // Subsequent indented lines, written with a leading tab.

	FoundBefore int // The transaction index this directive precedes.
}

func (d *Directive) String() string {
	buf := new(bytes.Buffer)

	buf.WriteString(d.Type)
	if d.Argument != "" {
		buf.WriteRune(' ')
		buf.WriteString(d.Argument)
	}
	buf.WriteRune('\n')

	for _, line := range d.Lines {
		buf.WriteRune('\t')
		buf.WriteString(line)
		buf.WriteRune('\n')
	}

	return buf.String()
}
