/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ssargent/membuf/pkg/membuf"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Print a buffer file's descriptor table",
	Long: `Print the descriptor table of a buffer file without decoding any
field payloads.

Example:
  membuf inspect article.membuf`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(filepath.Clean(args[0]))
		if err != nil {
			return err
		}

		r, err := membuf.NewReader(data)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}

		cmd.Printf("%d fields, %d payload bytes\n", r.Len(), r.PayloadLen())
		for _, f := range r.Fields() {
			cmd.Printf("  key=%-8d type=%-14s offset=%-10d length=%d\n",
				f.Key, f.Tag, f.Pos.Offset, f.Pos.Length)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
