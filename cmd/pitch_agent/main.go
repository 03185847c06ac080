// Package main provides the entry point for the creator pitch service and
// its command line client.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configFile string
	serverURL  string
)

var rootCmd = &cobra.Command{
	Use:   "pitch_agent",
	Short: "Creator pitch HTTP API server and client",
	Long:  "Creator pitch enriches a TikTok creator with audience data and matching brands, then drafts brand pitch strategies via REST API.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to a config file (YAML, JSON or TOML); environment variables override it")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("PITCH_SERVER_URL", "http://localhost:8080"), "Base URL of a running pitch server")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
