/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ssargent/membuf/pkg/blobstore"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "membuf",
	Short: "MemBuf - lazy binary field buffers",
	Long: `MemBuf packs independently-typed fields into one contiguous buffer
and reads them back lazily, one field at a time. Buffers can be built from
YAML manifests, inspected without decoding their payloads, kept in a local
blob store, and served over HTTP.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global data directory flag
	rootCmd.PersistentFlags().StringP("data-dir", "d", "./data", "Data directory for the blob store")
}

// openStore opens the blob store under the configured data directory.
func openStore(cmd *cobra.Command) (*blobstore.Store, error) {
	dataDir, _ := cmd.Flags().GetString("data-dir")
	return blobstore.Open(filepath.Join(dataDir, "blobs"))
}
