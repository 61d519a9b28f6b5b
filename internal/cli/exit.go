package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ExitError reports that a command failed with a specific exit code. Its
// message has already been printed.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// exitWith prints msg and returns an *ExitError for code. A zero code
// prints msg and returns nil.
func exitWith(cmd *cobra.Command, code int, format string, args ...interface{}) error {
	fmt.Fprintf(cmd.OutOrStdout(), format+"\n", args...)
	if code == 0 {
		return nil
	}
	return &ExitError{Code: code}
}

// say prints a line of command output.
func say(cmd *cobra.Command, format string, args ...interface{}) {
	fmt.Fprintf(cmd.OutOrStdout(), format+"\n", args...)
}
