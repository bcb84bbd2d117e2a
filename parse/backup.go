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
Package parse reads Financisto backup files into untyped records.

A backup is a header block, a #START line, one $ENTITY block per record, and a closing #END line:

	PACKAGE:ru.orangesoftware.financisto
	VERSION_CODE:200
	#START
	$ENTITY:currency
	_id:1
	name:'EUR'
	...
	$$
	#END

Every field value is kept as raw text until Normalize gives it a type.
*/
package parse

import (
	"regexp"
	"strings"

	"github.com/milochristiansen/financisto-ledger/parse/lex"
)

// HeaderType is the collection the header block is stored under.
const HeaderType = "header"

const (
	startMarker  = "#START"
	endMarker    = "#END"
	entityPrefix = "$ENTITY:"
	blockEnd     = "$$"
)

// Some block types are plural in the backup.
var typeNames = map[string]string{
	"transactions": "transaction",
	"locations":    "location",
}

var (
	fieldLine = regexp.MustCompile(`^(\w+):(.*)$`)
	typeName  = regexp.MustCompile(`^\w+$`)
)

type line struct {
	text string
	at   lex.Location
}

// ParseString splits a decompressed backup into collections of records.
func ParseString(input string) (*Collections, error) {
	return Parse(lex.NewCharReader(input, 1))
}

// Parse splits a decompressed backup read from a CharReader into collections of records.
func Parse(cr *lex.CharReader) (*Collections, error) {
	cs := NewCollections()

	// Everything before the start marker is the header.
	header := []line{}
	for {
		if cr.EOF {
			return nil, FormatError{Reason: "no " + startMarker + " line"}
		}
		ln, at := cr.ReadLine()
		if ln == startMarker {
			break
		}
		header = append(header, line{ln, at})
	}
	cs.Add(HeaderType, parseRecord(header))

	ended := false
	for !cr.EOF {
		ln, at := cr.ReadLine()
		if ln == endMarker {
			ended = true
			break
		}

		// Anything between blocks is ignored.
		if !strings.HasPrefix(ln, entityPrefix) {
			continue
		}

		typ := ln[len(entityPrefix):]
		if !typeName.MatchString(typ) {
			return nil, FormatError{at, "bad entity type " + typ}
		}
		if rename, ok := typeNames[typ]; ok {
			typ = rename
		}

		block, err := readBlock(cr, at)
		if err != nil {
			return nil, err
		}

		cs.touch(typ)
		for _, lines := range splitRecords(block) {
			cs.Add(typ, parseRecord(lines))
		}
	}
	if !ended {
		return nil, FormatError{cr.L, "no " + endMarker + " line"}
	}

	// Only blank lines may follow the end marker.
	for !cr.EOF {
		ln, at := cr.ReadLine()
		if strings.TrimSpace(ln) != "" {
			return nil, FormatError{at, "content after " + endMarker}
		}
	}

	return cs, nil
}

// readBlock reads lines up to the block terminator, which is consumed.
func readBlock(cr *lex.CharReader, start lex.Location) ([]line, error) {
	block := []line{}
	for !cr.EOF {
		ln, at := cr.ReadLine()
		switch ln {
		case blockEnd:
			return block, nil
		case endMarker:
			return nil, FormatError{start, "unterminated " + entityPrefix + " block"}
		}
		block = append(block, line{ln, at})
	}
	return nil, FormatError{start, "unterminated " + entityPrefix + " block"}
}

// splitRecords splits a block on blank lines. Backups written by Financisto have exactly one record
// per block, but nothing stops a block from holding several.
func splitRecords(block []line) [][]line {
	rtn := [][]line{}
	current := []line{}
	for _, ln := range block {
		if strings.TrimSpace(ln.text) == "" {
			if len(current) > 0 {
				rtn = append(rtn, current)
				current = []line{}
			}
			continue
		}
		current = append(current, ln)
	}
	if len(current) > 0 {
		rtn = append(rtn, current)
	}
	return rtn
}

// parseRecord reads key:value lines in order, stopping at the first line that is not one.
func parseRecord(lines []line) *Record {
	r := &Record{}
	if len(lines) > 0 {
		r.Location = lines[0].at
	}

	for _, ln := range lines {
		m := fieldLine.FindStringSubmatch(ln.text)
		if m == nil {
			break
		}
		r.Set(m[1], RawValue(m[2]))
	}
	return r
}
