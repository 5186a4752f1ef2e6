/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// putCmd represents the put command
var putCmd = &cobra.Command{
	Use:   "put <file>",
	Short: "Store a buffer file in the blob store",
	Long: `Store a finalized buffer file in the local blob store and print the
id it was stored under. The file must parse as a valid buffer.

Example:
  membuf put article.membuf`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(filepath.Clean(args[0]))
		if err != nil {
			return err
		}

		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		id, err := store.Create(data)
		if err != nil {
			return fmt.Errorf("store %s: %w", args[0], err)
		}
		cmd.Println(id.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(putCmd)
}
