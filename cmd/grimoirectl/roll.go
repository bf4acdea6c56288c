package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"grimoires/internal/dice"
)

func newRollCmd() *cobra.Command {
	var seedFlag int64

	cmd := &cobra.Command{
		Use:   "roll <expression>",
		Short: "Roll a dice expression such as \"1d20 + 3\"",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := strings.Join(args, " ")
			if dice.IsCommand(input) {
				input = strings.TrimSpace(input)[len(dice.CommandPrefix):]
			}
			expr, err := dice.Parse(input)
			if err != nil {
				return err
			}

			seed := seedFlag
			if !cmd.Flags().Changed("seed") {
				seed = time.Now().UnixNano()
			}
			result, err := dice.Roll(expr, seed)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s = %d\n", result.Expression, result.Detail(), result.Total)
			return nil
		},
	}
	cmd.Flags().Int64Var(&seedFlag, "seed", 0, "Seed for a reproducible roll")
	return cmd
}
