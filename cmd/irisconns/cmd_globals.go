package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/willibrandon/irisconns/internal/conns"
	"github.com/willibrandon/irisconns/internal/globals"
)

// newGetCmd creates the get subcommand
func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <global> [subscripts...]",
		Short: "Print the value of a global node",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := connection(cmd)
			if err != nil {
				return err
			}

			value, err := h.Get(cmd.Context(), args[0], subscripts(args[1:])...)
			if errors.Is(err, globals.ErrUndefined) {
				return fmt.Errorf("%s is undefined", globals.Ref(args[0], subscripts(args[1:])...))
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}
}

// newSetCmd creates the set subcommand
func newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <value> <global> [subscripts...]",
		Short: "Store a value in a global node",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := connection(cmd)
			if err != nil {
				return err
			}
			return h.Set(cmd.Context(), args[0], args[1], subscripts(args[2:])...)
		},
	}
}

// newKillCmd creates the kill subcommand
func newKillCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kill <global> [subscripts...]",
		Short: "Remove a global node and everything beneath it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := connection(cmd)
			if err != nil {
				return err
			}
			return h.Kill(cmd.Context(), args[0], subscripts(args[1:])...)
		},
	}
}

// connection resolves the selected connection through the registry.
func connection(cmd *cobra.Command) (conns.Handle, error) {
	h, err := current.registry.GetByName(cmd.Context(), connName)
	if errors.Is(err, conns.ErrNotDeclared) {
		name := connName
		if name == "" {
			name = current.registry.DefaultName()
		}
		return nil, fmt.Errorf("connection %q is not declared in any irisconns file (see 'irisconns files')", name)
	}
	return h, err
}

func subscripts(args []string) []any {
	out := make([]any, len(args))
	for i, a := range args {
		out[i] = a
	}
	return out
}
