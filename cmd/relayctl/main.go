package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	serverURL string
	token     string
)

var rootCmd = &cobra.Command{
	Use:   "relayctl",
	Short: "Client for the streamrelay service",
	Long: `relayctl talks to a running streamrelay instance.

  relayctl watch <username>    Follow a streamer's event feed in the terminal
  relayctl sessions            List active upstream sessions
  relayctl evict <username>    Force-release a streamer's upstream session`,
	SilenceUsage: true,
}

func main() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8477",
		"base URL of the streamrelay server")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("RELAY_TOKEN"),
		"bearer token for the operator API (API key or JWT)")

	rootCmd.AddCommand(watchCmd, sessionsCmd, evictCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
