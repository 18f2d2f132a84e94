package main

import (
	"fmt"

	"github.com/qwello/everest/pkg/schema"
	"github.com/spf13/cobra"
)

var manifestCmd = &cobra.Command{
	Use:   "manifest <paths...>",
	Short: "validate one or more manifest documents",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, path := range args {
			if _, err := schema.LoadManifestFile(path); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d manifest(s) OK\n", len(args))
		return nil
	},
}

var interfaceCmd = &cobra.Command{
	Use:   "interface <paths...>",
	Short: "validate one or more interface documents",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, path := range args {
			if _, err := schema.LoadInterfaceFile(path); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d interface(s) OK\n", len(args))
		return nil
	},
}

var typesCmd = &cobra.Command{
	Use:   "type <paths...>",
	Short: "validate one or more data-type documents",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, path := range args {
			if _, err := schema.LoadDataTypesFile(path); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d type document(s) OK\n", len(args))
		return nil
	},
}
