package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/statusdesk/status-admin/internal/semexpr"
)

var errInvalidExpressions = errors.New("one or more expressions are invalid")

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate EXPR...",
		Short: "Check version expressions without touching the store",
		Example: `  status-admin validate ">=1.0.0 <2.0.0|=3.1.0"
  status-admin validate "*" "<=9"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			failed := false
			for _, expr := range args {
				parsed, err := semexpr.ParseExpression(expr)
				if err != nil {
					failed = true
					fmt.Fprintf(out, "INVALID %s\n", err)
					continue
				}
				fmt.Fprintf(out, "OK      %q (%d group(s))\n", parsed.String(), len(parsed.Groups))
			}
			if failed {
				return errInvalidExpressions
			}
			return nil
		},
	}
}
