/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/segmentio/ksuid"
	"github.com/spf13/cobra"
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch <id> <out-file>",
	Short: "Fetch a stored buffer from the blob store",
	Long: `Fetch a buffer from the local blob store by id and write it to a
file.

Example:
  membuf fetch 2YxPa1NpXvDmkSfhCZqQaHqjWtN article.membuf`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := ksuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid blob id %q: %w", args[0], err)
		}

		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		data, err := store.Read(&id)
		if err != nil {
			return err
		}
		if err := os.WriteFile(args[1], data, 0600); err != nil {
			return fmt.Errorf("write %s: %w", args[1], err)
		}
		cmd.Printf("Wrote %d bytes to %s\n", len(data), args[1])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}
