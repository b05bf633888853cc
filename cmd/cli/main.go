package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	host       string
	token      string
	userID     string
	jwtSecret  string
	cronSecret string
)

var rootCmd = &cobra.Command{
	Use:   "pickup-cli",
	Short: "A CLI to interact with the pickup games server",
	Long: `A command-line interface for making requests to the various endpoints
of the pickup games server.

App endpoints need a bearer token. Pass one with --token, or pass --user and
--jwt-secret to mint a short-lived token locally.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&host, "host", "http://localhost:8080", "The host address of the server")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Bearer token for app endpoints")
	rootCmd.PersistentFlags().StringVar(&userID, "user", "", "User id to mint a token for")
	rootCmd.PersistentFlags().StringVar(&jwtSecret, "jwt-secret", os.Getenv("JWT_SECRET"), "Secret used to mint tokens with --user")
	rootCmd.PersistentFlags().StringVar(&cronSecret, "cron-secret", os.Getenv("CRON_SECRET"), "Shared secret for scheduler endpoints")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your command '%s'", err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
