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
	"sort"
	"strings"

	"golang.org/x/exp/slices"
)

// FallbackCategory is the name given to the root category, which has no identifier.
const FallbackCategory = "Expenses:Unknown"

// Separator delimits the levels of an account or category name.
const Separator = ":"

// nameAccounts qualifies every account title that is not already hierarchical with prefix. A title that
// merely starts with the separator does not count as hierarchical.
func nameAccounts(accounts []*Account, prefix string) {
	for _, a := range accounts {
		if strings.Index(a.Title, Separator) > 0 {
			a.Name = a.Title
			continue
		}
		a.Name = prefix + a.Title
	}
}

// nameCategories derives qualified names from the nested set bounds. Working from the largest left bound
// down, each category prefixes its name onto every category whose left bound falls in (left, right].
// Descendants are always handled before their ancestors, so by the time an ancestor runs its children
// already carry the names of everything between them and it.
func nameCategories(categories []*Category) {
	byLeft := map[int64]*Category{}
	for _, c := range categories {
		byLeft[c.Left] = c
		c.Name = c.Title
	}

	lefts := make([]int64, 0, len(byLeft))
	for left := range byLeft {
		lefts = append(lefts, left)
	}
	slices.Sort(lefts)

	order := slices.Clone(categories)
	slices.SortStableFunc(order, func(a, b *Category) int {
		switch {
		case a.Left > b.Left:
			return -1
		case a.Left < b.Left:
			return 1
		}
		return 0
	})

	for _, c := range order {
		if c.ID == 0 {
			c.Name = FallbackCategory
			continue
		}

		// First left bound after this one.
		i := sort.Search(len(lefts), func(i int) bool { return lefts[i] > c.Left })
		for ; i < len(lefts) && lefts[i] <= c.Right; i++ {
			child := byLeft[lefts[i]]
			child.Name = c.Name + Separator + child.Name
		}
	}
}

// collectSplits attaches every transaction that has a parent to its parent's split list.
func collectSplits(transactions []*Transaction, byID map[int64]*Transaction) {
	for _, t := range transactions {
		t.Splits = []*Transaction{}
	}

	for _, t := range transactions {
		if t.ParentID == 0 {
			continue
		}
		parent, ok := byID[t.ParentID]
		if !ok {
			continue
		}
		parent.Splits = append(parent.Splits, t)
		t.Parent = parent
	}
}
