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

package main

import (
	"os"

	"github.com/milochristiansen/financisto-ledger/config"
	"github.com/milochristiansen/financisto-ledger/convert"
	"github.com/milochristiansen/financisto-ledger/tools"
	"github.com/spf13/cobra"
)

func main() {
	tools.HandleErr(command().Execute())
}

func command() *cobra.Command {
	var (
		cfgFile string
		envFile string
		verbose bool
		flags   *tools.ConfigFlags
	)

	cmd := &cobra.Command{
		Use:   "financisto [flags] <backup> [output-dir]",
		Short: "Financisto backup to ledger file format converter.",
		Long:  usage,
		Args:  cobra.RangeArgs(1, 2),

		SilenceUsage:  true,
		SilenceErrors: true,

		RunE: func(cmd *cobra.Command, args []string) error {
			log := tools.NewLogger(os.Stderr, verbose)

			cfg, err := config.Load(cfgFile, envFile)
			if err != nil {
				return err
			}
			flags.Apply(cfg)

			r, closer, err := tools.OpenBackup(args[0])
			if err != nil {
				return err
			}
			defer closer.Close()

			result, err := convert.FromReader(r, cfg, log)
			if err != nil {
				return err
			}

			dir := ""
			if len(args) > 1 {
				dir = args[1]
			}
			return tools.WriteResult(result, dir)
		},
	}

	cmd.Flags().StringVar(&cfgFile, "config", "", "YAML config `file`.")
	cmd.Flags().StringVar(&envFile, "env", "", "Environment `file` (default is .env if present).")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log progress to standard error.")
	flags = tools.BindConfigFlags(cmd.Flags())

	return cmd
}

var usage = `Financisto backup to ledger file format converter.

Reads a Financisto backup (gzip compressed or plain text) and writes ledger
definitions, a price database and the transactions.

With no output directory everything is written to standard output. Otherwise
the directory is created if needed and definitions.ledger, prices.db and
financisto.ledger are written to it, the last including the other two.

Options are read from, in increasing priority: built in defaults, the --config
YAML file, the .env file and FINANCISTO_* environment variables, and the
command line. Every on/off option has a --no-<option> form.
`
