package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/qwello/everest/pkg/codegen"
	"github.com/spf13/cobra"
)

var (
	generateModule        string
	generateManifest      string
	generatePackage       string
	generateRuntimeImport string
	generateOut           string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "generate the Go service interfaces and dispatch glue for a module",
	Long: `generate loads a manifest and the interfaces its slots name, then emits
a single Go source file: a metadata constant, one service interface and
dispatch-registration function per provided slot, and a module
constructor. It is the Go equivalent of the original build.rs step —
typically invoked from a //go:generate directive.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if generateModule == "" || generateManifest == "" {
			return fmt.Errorf("generate: --module and --manifest are required")
		}
		b := codegen.New(generateModule, generateManifest, generatePackage, generateRuntimeImport)
		out := generateOut
		if out == "" {
			out = filepath.Join(b.OutDir(), "generated.go")
		}
		src, err := b.Generate()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			return fmt.Errorf("generate: create output directory: %w", err)
		}
		if err := os.WriteFile(out, src, 0o644); err != nil {
			return fmt.Errorf("generate: write %s: %w", out, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVar(&generateModule, "module", "", "module type name, e.g. RustKvs")
	generateCmd.Flags().StringVar(&generateManifest, "manifest", "", "path to the module's manifest.yaml")
	generateCmd.Flags().StringVar(&generatePackage, "package", "generated", "package name for the generated file")
	generateCmd.Flags().StringVar(&generateRuntimeImport, "runtime-import", "", "import path of the everest runtime package")
	generateCmd.Flags().StringVar(&generateOut, "out", "", "output file path (default: <manifest dir>/generated/generated.go)")
	rootCmd.AddCommand(generateCmd)
}
