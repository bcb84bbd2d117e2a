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
	"errors"
	"io"

	"golang.org/x/exp/slices"
)

// File holds a ledger journal stored as lists of Directives and Transactions.
type File struct {
	T []Transaction
	D []Directive
}

// ErrImproperInterleave is returned by File.Format if the lists do not interleave properly.
// Caused by bad FoundBefore values in the directives.
var ErrImproperInterleave = errors.New("Ledger file transaction and directive lists do not interleave properly.")

// SortByDate sorts the transactions chronologically. Transactions with the same timestamp keep their
// relative order. Directive FoundBefore values are not adjusted, so sort before placing directives.
func (f *File) SortByDate() {
	slices.SortStableFunc(f.T, func(a, b Transaction) int {
		return a.Date.Compare(b.Date)
	})
}

// Format writes out a ledger file, interleaving the transactions and directives according to the
// "FoundBefore" values in the directives. The directive list is sorted on the FoundBefore values as
// part of this operation.
//
// Every transaction is followed by a blank line, as is every run of consecutive directives.
func (f *File) Format(w io.Writer) error {
	// Use a stable sort to be minimally disruptive.
	slices.SortStableFunc(f.D, func(a, b Directive) int {
		return a.FoundBefore - b.FoundBefore
	})

	ctr, cdr := 0, 0
	run := false
	for ctr < len(f.T) || cdr < len(f.D) {
		// If we have remaining directives and the next directive goes before the current transaction
		if cdr < len(f.D) && f.D[cdr].FoundBefore == ctr {
			if _, err := io.WriteString(w, f.D[cdr].String()); err != nil {
				return err
			}
			run = true
			cdr++
			continue
		}

		// If we have remaining directives and we are out of transactions
		if ctr >= len(f.T) {
			return ErrImproperInterleave
		}

		if run {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
			run = false
		}

		// Write next transaction
		if _, err := io.WriteString(w, f.T[ctr].String()+"\n"); err != nil {
			return err
		}
		ctr++
	}

	if run {
		_, err := io.WriteString(w, "\n")
		return err
	}
	return nil
}
