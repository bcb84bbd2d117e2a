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

package tools

import (
	"strconv"
	"strings"

	"github.com/milochristiansen/financisto-ledger/config"
	"github.com/spf13/pflag"
)

var usage = map[string]string{
	"unknownExpense": "Account for unspecified expenses.",
	"unknownPayee":   "Default payee where unspecified.",
	"accountPrefix":  "Account prefix to use if the account name is not hierarchical.",

	"transactions": "Convert transactions.",
	"accounts":     "Add 'account ...' definitions.",
	"currencies":   "Add 'commodity ...' definitions.",
	"payees":       "Add 'payee ...' definitions.",
	"pricedb":      "Add 'P ...' exchange rates.",
	"projects":     "Add Projects to postings as tags.",
	"locations":    "Add Locations to postings as tags.",
	"lonlats":      "Add longitude and latitude to postings as tags.",
	"simplify":     "Simplify the file where possible to ease readability.",
	"debug":        "Add debug information to postings.",
	"ids":          "Add a generated ID to every transaction.",
	"budgets":      "Convert budgets (not supported yet).",
}

// ConfigFlags holds the command line overrides for a config.Config. Flags are parsed before the
// config file is known, so the values are collected separately and applied with Apply.
type ConfigFlags struct {
	fs     *pflag.FlagSet
	values *config.Config
}

// BindConfigFlags registers a flag for every option. String options get --kebab-name, switches get a
// --name and --no-name pair. Defaults shown in the help are the built in defaults.
func BindConfigFlags(fs *pflag.FlagSet) *ConfigFlags {
	cf := &ConfigFlags{fs: fs, values: config.Defaults()}

	for name, v := range cf.values.Strings() {
		fs.StringVar(v, FlagName(name), *v, usage[name])
	}

	for name, v := range cf.values.Switches() {
		fs.BoolVar(v, FlagName(name), *v, usage[name])

		no := fs.VarPF((*negated)(v), "no-"+FlagName(name), "", "")
		no.NoOptDefVal = "true"
		fs.MarkHidden(no.Name)
	}

	return cf
}

// Apply copies every option given on the command line into cfg.
func (cf *ConfigFlags) Apply(cfg *config.Config) {
	for name, v := range cf.values.Strings() {
		if cf.fs.Changed(FlagName(name)) {
			*cfg.Strings()[name] = *v
		}
	}

	for name, v := range cf.values.Switches() {
		if cf.fs.Changed(FlagName(name)) || cf.fs.Changed("no-"+FlagName(name)) {
			*cfg.Switches()[name] = *v
		}
	}
}

// FlagName turns an option name into a flag name, for example unknownPayee becomes unknown-payee.
func FlagName(option string) string {
	buf := new(strings.Builder)
	for i, r := range option {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				buf.WriteByte('-')
			}
			r += 'a' - 'A'
		}
		buf.WriteRune(r)
	}
	return buf.String()
}

// negated is a boolean flag that stores the inverse of its value.
type negated bool

func (n *negated) Set(s string) error {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*n = negated(!b)
	return nil
}

func (n *negated) String() string {
	return strconv.FormatBool(!bool(*n))
}

func (n *negated) Type() string {
	return "bool"
}
