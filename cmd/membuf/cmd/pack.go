/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ssargent/membuf/pkg/manifest"
)

// packCmd represents the pack command
var packCmd = &cobra.Command{
	Use:   "pack <manifest.yaml> <out-file>",
	Short: "Build a buffer file from a field manifest",
	Long: `Build a finalized buffer file from a YAML field manifest.

File paths inside the manifest are resolved relative to the manifest's
directory.

Example:
  membuf pack fields.yaml article.membuf`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := runPack(args[0], args[1])
		if err != nil {
			return err
		}
		cmd.Printf("Wrote %d bytes to %s\n", n, args[1])
		return nil
	},
}

func runPack(manifestPath, outPath string) (int, error) {
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return 0, err
	}

	w, err := m.Compile(filepath.Dir(manifestPath))
	if err != nil {
		return 0, fmt.Errorf("compile manifest: %w", err)
	}

	buf := w.Finalize()
	if err := os.WriteFile(outPath, buf, 0600); err != nil {
		return 0, fmt.Errorf("write buffer: %w", err)
	}
	return len(buf), nil
}

func init() {
	rootCmd.AddCommand(packCmd)
}
