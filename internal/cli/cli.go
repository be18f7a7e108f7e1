package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// version is set at build time via -ldflags.
var version = "dev"

// usageError marks errors caused by invalid invocation.
type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }

func (e usageError) Unwrap() error { return e.err }

// errUsage is returned when the root command runs without a subcommand.
var errUsage = errors.New("missing command")

// Run executes the CLI and returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	if err == nil {
		return ExitOK
	}
	if errors.Is(err, errUsage) {
		return ExitUsage
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	var usage usageError
	if errors.As(err, &usage) || strings.HasPrefix(err.Error(), "unknown command") {
		fmt.Fprintln(stderr)
		fmt.Fprint(stderr, root.UsageString())
		return ExitUsage
	}
	return ExitError
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "abstain",
		Short: "Measure whether language models abstain when they do not know",
		Long: "abstain asks every model every question under each system prompt,\n" +
			"grades the answers with a judge model, and appends the verdicts to a\n" +
			"resumable ledger.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			_ = cmd.Help()
			return errUsage
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err: err}
	})
	root.AddCommand(newRunCmd(), newStatusCmd(), newValidateCmd())
	return root
}
