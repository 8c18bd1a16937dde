// Command ctableau drives the connection-tableau prover from the command
// line. It wires Settings from flags, builds an Environment over a
// MatrixSource, and runs it to a terminal state.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/hashicorp/cli"
	"github.com/hashicorp/go-hclog"

	"github.com/gitrdm/ctableau/pkg/ctableau"
)

func main() {
	c := cli.NewCLI("ctableau", version)
	c.Args = os.Args[1:]
	c.Commands = map[string]cli.CommandFactory{
		"prove": func() (cli.Command, error) {
			return &proveCommand{}, nil
		},
	}

	exitStatus, err := c.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(exitStatus)
}

const version = "0.1.0"

// proveCommand implements `ctableau prove`, the one subcommand this repo
// ships: load a matrix, drive the engine to a terminal state, print the
// verdict. Patterned on the single-command-plus-help-UI shape
// hashicorp/cli commands conventionally take.
type proveCommand struct{}

func (c *proveCommand) Help() string {
	return `Usage: ctableau prove [options] <matrix-file>

  Searches for a closed connection tableau over the clauses in
  <matrix-file>, reporting Theorem or Non-Theorem, or Unknown when the
  step budget runs out first.

Options:
  -logic string          classical, intuitionistic, d, t, s4, s5 (default "classical")
  -domain string         constant, cumulative, varying (default "constant")
  -translate string      (reserved for a future external CNF/iCNF translator; unused)
  -print-ratio           print the proof length and the depth bound on success
  -max-steps int         step budget before giving up (default 100000)
  -v                     verbose (debug) logging
`
}

func (c *proveCommand) Synopsis() string {
	return "Search for a closed connection tableau over a matrix file"
}

func (c *proveCommand) Run(args []string) int {
	fs := flag.NewFlagSet("prove", flag.ContinueOnError)
	logicFlag := fs.String("logic", "classical", "classical, intuitionistic, d, t, s4, s5")
	domainFlag := fs.String("domain", "constant", "constant, cumulative, varying")
	_ = fs.String("translate", "", "reserved for a future external CNF/iCNF translator; unused")
	printRatio := fs.Bool("print-ratio", false, "print the proof length and the depth bound on success")
	maxSteps := fs.Int("max-steps", 100000, "step budget before giving up")
	verbose := fs.Bool("v", false, "verbose (debug) logging")

	if err := fs.Parse(args); err != nil {
		return 1
	}
	positional := fs.Args()
	if len(positional) != 1 {
		fmt.Fprintln(os.Stderr, c.Help())
		return 1
	}

	level := hclog.Info
	if *verbose {
		level = hclog.Trace
	}
	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "ctableau",
		Level: level,
	})

	settings, err := ctableau.NewSettingsFromStrings(*logicFlag, *domainFlag, ctableau.DefaultSettings())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	env, err := ctableau.NewEnvironment(ctableau.ReadCNFFile, positional[0], settings, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	info, err := env.Drive(context.Background(), *maxSteps)
	if err == ctableau.ErrStepBudgetExhausted {
		fmt.Println("Unknown")
		return 0
	}
	if err != nil && err != ctableau.ErrNonTheorem {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if info.Theorem {
		fmt.Println("Theorem")
		if *printRatio && info.ProofLength > 0 {
			fmt.Printf("proof-length/depth-bound: %d/%d\n", info.ProofLength, info.Depth)
		}
		return 0
	}
	fmt.Println("Non-Theorem")
	return 0
}
