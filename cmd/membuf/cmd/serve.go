/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ssargent/membuf/pkg/api"
	"github.com/ssargent/membuf/pkg/blobstore"
	"github.com/ssargent/membuf/pkg/config"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the blob server",
	Long: `Start the HTTP blob server. Buffers can be stored, fetched whole,
or read one field at a time without the server ever decoding the rest.

Configuration is read from the config file (see 'membuf init') and
overridden by flags.

Examples:
  membuf serve --api-key=mysecretkey --port=9300
  membuf serve --config=./membuf.yaml --data-dir=./data`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		port, _ := cmd.Flags().GetInt("port")
		bind, _ := cmd.Flags().GetString("bind")
		apiKey, _ := cmd.Flags().GetString("api-key")

		cfg := config.DefaultConfig()
		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}
		if config.ConfigExists(configPath) {
			loaded, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
			cmd.Printf("Loaded config from %s\n", configPath)
		}

		// Flags override the config file.
		if cmd.Flags().Changed("port") {
			cfg.Port = port
		}
		if cmd.Flags().Changed("bind") {
			cfg.Bind = bind
		}
		if apiKey != "" {
			cfg.APIKey = apiKey
		}
		if cmd.Flags().Changed("data-dir") {
			dataDir, _ := cmd.Flags().GetString("data-dir")
			cfg.DataDir = dataDir
		}

		if cfg.APIKey == "" || cfg.APIKey == "auto" {
			cmd.Println("Error: no API key configured (run 'membuf init' or pass --api-key)")
			return nil
		}

		store, err := blobstore.Open(filepath.Join(cfg.DataDir, "blobs"))
		if err != nil {
			return err
		}
		defer store.Close()

		return api.StartServer(store, api.ServerConfig{
			Port:   cfg.Port,
			Bind:   cfg.Bind,
			APIKey: cfg.APIKey,
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("config", "", "Path to the config file")
	serveCmd.Flags().Int("port", 9300, "Port to listen on")
	serveCmd.Flags().String("bind", "127.0.0.1", "Address to bind to")
	serveCmd.Flags().String("api-key", "", "API key protecting the server")
}
