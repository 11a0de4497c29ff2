// Package main implements the vsa CLI tool.
//
// vsa runs the value-set analysis engine over a JSON-described CFG
// program, driven by a YAML run configuration (stack pointer/memory
// variable identities, the widening threshold, the memory size cap, and
// the initial memory image). It is the command-line front end over the
// vsa Go package; library users embedding the engine directly never
// need this tool.
//
// Usage:
//
//	vsa analyze --config run.yaml --program prog.json
//	vsa eval --config run.yaml --program prog.json --expr expr.json --vertex bb1
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var log = logrus.New()

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "vsa",
		Short:         "Value-set analysis over SSA control-flow graphs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logrus.ParseLevel(verbosity)
			if err != nil {
				return fmt.Errorf("invalid --verbosity %q: %w", verbosity, err)
			}
			log.SetLevel(level)
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&verbosity, "verbosity", "warn", "log level (trace, debug, info, warn, error)")
	cmd.AddCommand(newAnalyzeCmd())
	cmd.AddCommand(newEvalCmd())
	return cmd
}

var verbosity string
