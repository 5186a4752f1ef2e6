/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Report blob store contents",
	Long: `Report how many blobs the local store holds, their total size and
pebble's on-disk footprint.

Example:
  membuf stats`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		st, err := store.Stats()
		if err != nil {
			return err
		}
		cmd.Printf("blobs:      %d\n", st.Blobs)
		cmd.Printf("blob bytes: %d\n", st.BlobBytes)
		cmd.Printf("disk usage: %d\n", st.DiskUsage)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
