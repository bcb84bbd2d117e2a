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
Package config holds the options that control a conversion.

Options start at Defaults and may be overridden, in order, by a YAML file, by a .env file or the
process environment (FINANCISTO_* variables), and finally by command line flags.
*/
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to the upper snake case name of every option to form its environment variable.
const EnvPrefix = "FINANCISTO_"

// Config controls what the converter emits and how it names things.
type Config struct {
	UnknownExpense string `yaml:"unknownExpense"` // Category for expenses that have none.
	UnknownPayee   string `yaml:"unknownPayee"`   // Payee for transactions that have none.
	AccountPrefix  string `yaml:"accountPrefix"`  // Prepended to account titles that are not already hierarchical.

	Transactions bool `yaml:"transactions"`
	Accounts     bool `yaml:"accounts"`
	Currencies   bool `yaml:"currencies"`
	Payees       bool `yaml:"payees"`
	PriceDB      bool `yaml:"pricedb"`
	Projects     bool `yaml:"projects"`
	Locations    bool `yaml:"locations"`
	LonLats      bool `yaml:"lonlats"`
	Simplify     bool `yaml:"simplify"`
	Debug        bool `yaml:"debug"`
	IDs          bool `yaml:"ids"`
	Budgets      bool `yaml:"budgets"`

	// Location is the time zone dates are rendered in.
	Location *time.Location `yaml:"-"`

	// Now is used for the inactive account assertions.
	Now func() time.Time `yaml:"-"`
}

// Defaults returns the default configuration.
func Defaults() *Config {
	return &Config{
		UnknownExpense: "Expenses:Unknown",
		UnknownPayee:   "Unknown",
		AccountPrefix:  "Assets:",

		Transactions: true,
		Accounts:     true,
		Currencies:   true,
		Payees:       true,
		PriceDB:      true,
		Projects:     true,
		Locations:    true,

		Location: time.Local,
		Now:      time.Now,
	}
}

// Complete returns a copy of cfg with Location and Now set to the system time zone and clock if
// they were left unset.
func (cfg *Config) Complete() *Config {
	c := *cfg
	if c.Location == nil {
		c.Location = time.Local
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return &c
}

// Load builds a configuration from the defaults, the YAML file at path, and the environment. Either
// path may be empty. If envPath is empty a .env file in the working directory is used if present.
func Load(path, envPath string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "reading config")
		}
		err = yaml.Unmarshal(content, cfg)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing config %v", path)
		}
	}

	if envPath != "" {
		err := godotenv.Load(envPath)
		if err != nil {
			return nil, errors.Wrap(err, "loading env file")
		}
	} else {
		_ = godotenv.Load()
	}

	err := cfg.ApplyEnv(os.LookupEnv)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Strings returns pointers to the string options, keyed by option name.
func (cfg *Config) Strings() map[string]*string {
	return map[string]*string{
		"unknownExpense": &cfg.UnknownExpense,
		"unknownPayee":   &cfg.UnknownPayee,
		"accountPrefix":  &cfg.AccountPrefix,
	}
}

// Switches returns pointers to the boolean options, keyed by option name.
func (cfg *Config) Switches() map[string]*bool {
	return map[string]*bool{
		"transactions": &cfg.Transactions,
		"accounts":     &cfg.Accounts,
		"currencies":   &cfg.Currencies,
		"payees":       &cfg.Payees,
		"pricedb":      &cfg.PriceDB,
		"projects":     &cfg.Projects,
		"locations":    &cfg.Locations,
		"lonlats":      &cfg.LonLats,
		"simplify":     &cfg.Simplify,
		"debug":        &cfg.Debug,
		"ids":          &cfg.IDs,
		"budgets":      &cfg.Budgets,
	}
}

// ApplyEnv overrides options from environment variables, looked up with lookup.
func (cfg *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	for name, v := range cfg.Strings() {
		if s, ok := lookup(EnvName(name)); ok {
			*v = s
		}
	}

	for name, v := range cfg.Switches() {
		s, ok := lookup(EnvName(name))
		if !ok || s == "" {
			continue
		}
		b, err := strconv.ParseBool(s)
		if err != nil {
			return errors.Wrapf(err, "invalid value for %v", EnvName(name))
		}
		*v = b
	}
	return nil
}

// EnvName returns the environment variable for an option name, for example unknownPayee becomes
// FINANCISTO_UNKNOWN_PAYEE.
func EnvName(option string) string {
	buf := new(strings.Builder)
	buf.WriteString(EnvPrefix)
	for i, r := range option {
		if r >= 'A' && r <= 'Z' && i > 0 {
			buf.WriteByte('_')
		}
		buf.WriteRune(r)
	}
	return strings.ToUpper(buf.String())
}
