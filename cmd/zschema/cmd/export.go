package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/twoojoo/zschema/entities"
)

func newExportCmd(a *app) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "export <schema>",
		Short: "Print the JSON Schema of a registered schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, ok := entities.Lookup(args[0])
			if !ok {
				return fmt.Errorf("unknown schema %q, run 'zschema list' for the available names", args[0])
			}
			s := entry.Schema
			if strict {
				s = s.Strict()
			}
			b, err := s.JSONSchemaIndent("", "  ")
			if err != nil {
				return fmt.Errorf("export %s: %w", entry.Name, err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", b)
			return err
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "emit additionalProperties: false")
	return cmd
}
