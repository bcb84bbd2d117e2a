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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slices"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, "Expenses:Unknown", cfg.UnknownExpense)
	assert.Equal(t, "Unknown", cfg.UnknownPayee)
	assert.Equal(t, "Assets:", cfg.AccountPrefix)

	on := []string{"transactions", "accounts", "currencies", "payees", "pricedb", "projects", "locations"}
	for name, v := range cfg.Switches() {
		assert.Equal(t, slices.Contains(on, name), *v, name)
	}
	assert.NotNil(t, cfg.Location)
	assert.NotNil(t, cfg.Now)
}

func TestComplete(t *testing.T) {
	cfg := &Config{AccountPrefix: "Assets:"}
	c := cfg.Complete()
	assert.Equal(t, time.Local, c.Location)
	require.NotNil(t, c.Now)
	assert.False(t, c.Now().IsZero())
	assert.Equal(t, "Assets:", c.AccountPrefix)
	assert.Nil(t, cfg.Location)

	utc := &Config{Location: time.UTC}
	assert.Equal(t, time.UTC, utc.Complete().Location)
}

func TestEnvName(t *testing.T) {
	assert.Equal(t, "FINANCISTO_UNKNOWN_PAYEE", EnvName("unknownPayee"))
	assert.Equal(t, "FINANCISTO_PRICEDB", EnvName("pricedb"))
	assert.Equal(t, "FINANCISTO_LONLATS", EnvName("lonlats"))
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"FINANCISTO_UNKNOWN_PAYEE": "Somebody",
		"FINANCISTO_SIMPLIFY":      "true",
		"FINANCISTO_PAYEES":        "0",
		"FINANCISTO_DEBUG":         "",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Defaults()
	require.NoError(t, cfg.ApplyEnv(lookup))
	assert.Equal(t, "Somebody", cfg.UnknownPayee)
	assert.True(t, cfg.Simplify)
	assert.False(t, cfg.Payees)
	assert.False(t, cfg.Debug)

	env["FINANCISTO_IDS"] = "maybe"
	assert.Error(t, Defaults().ApplyEnv(lookup))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("accountPrefix: \"Liabilities:\"\nsimplify: true\npricedb: false\n"), 0644))

	envPath := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envPath, []byte("FINANCISTO_UNKNOWN_EXPENSE=Expenses:Misc\n"), 0644))
	t.Setenv("FINANCISTO_UNKNOWN_EXPENSE", "")
	os.Unsetenv("FINANCISTO_UNKNOWN_EXPENSE")

	cfg, err := Load(path, envPath)
	require.NoError(t, err)
	assert.Equal(t, "Liabilities:", cfg.AccountPrefix)
	assert.Equal(t, "Expenses:Misc", cfg.UnknownExpense)
	assert.True(t, cfg.Simplify)
	assert.False(t, cfg.PriceDB)
	assert.True(t, cfg.Accounts)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(filepath.Join(dir, "missing.yaml"), "")
	assert.Error(t, err)

	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("simplify: [\n"), 0644))
	_, err = Load(path, "")
	assert.Error(t, err)
}
