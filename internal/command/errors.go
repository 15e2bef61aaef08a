package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
)

func writeCommandError(cmd *cobra.Command, err error) error {
	var merr *multierror.Error
	if errors.As(err, &merr) {
		for _, e := range merr.Errors {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", e.Error())
		}
	} else {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", err.Error())
	}

	if isSchemaError(err) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Hint: This does not look like a slackdump archive. Was it created by slackdump v3 or later?")
	}

	return err
}

// isSchemaError checks if an error is a SQLite schema mismatch.
func isSchemaError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "no such column") ||
		strings.Contains(msg, "no such table") ||
		strings.Contains(msg, "has no column")
}
