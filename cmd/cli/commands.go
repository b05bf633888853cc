package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/gatorpickup/pickup/internal/auth"
	server "github.com/gatorpickup/pickup/internal/http"
	"github.com/spf13/cobra"
)

var (
	sportFilter string
	mineOnly    bool
	dryRun      bool
)

func init() {
	gamesCmd.Flags().StringVar(&sportFilter, "sport", "", "Only list games of this sport")
	gamesCmd.Flags().BoolVar(&mineOnly, "mine", false, "Only list games you host or joined")
	dispatchCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Count reminders without sending them")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(locationsCmd)
	rootCmd.AddCommand(gamesCmd)
	rootCmd.AddCommand(rosterCmd)
	rootCmd.AddCommand(joinCmd)
	rootCmd.AddCommand(leaveCmd)
	rootCmd.AddCommand(dispatchCmd)
	rootCmd.AddCommand(completeCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/health", nil)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/metrics", nil)
	},
}

var locationsCmd = &cobra.Command{
	Use:   "locations",
	Short: "List the courts and fields games can be played at",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/locations", bearer)
	},
}

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "List upcoming games",
	RunE: func(cmd *cobra.Command, args []string) error {
		q := url.Values{}
		if sportFilter != "" {
			q.Set("sport", sportFilter)
		}
		if mineOnly {
			q.Set("mine", "true")
		}
		endpoint := "/games"
		if len(q) > 0 {
			endpoint += "?" + q.Encode()
		}
		return performRequest(http.MethodGet, endpoint, bearer)
	},
}

var rosterCmd = &cobra.Command{
	Use:   "roster <game-id>",
	Short: "List the players who joined a game",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/games/"+url.PathEscape(args[0])+"/roster", bearer)
	},
}

var joinCmd = &cobra.Command{
	Use:   "join <game-id>",
	Short: "Join a game",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/games/"+url.PathEscape(args[0])+"/join", bearer)
	},
}

var leaveCmd = &cobra.Command{
	Use:   "leave <game-id>",
	Short: "Leave a game",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/games/"+url.PathEscape(args[0])+"/leave", bearer)
	},
}

var dispatchCmd = &cobra.Command{
	Use:   "dispatch",
	Short: "Trigger one reminder dispatch run",
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := "/reminders/dispatch"
		if dryRun {
			endpoint += "?dry_run=true"
		}
		return performRequest(http.MethodPost, endpoint, withCronSecret)
	},
}

var completeCmd = &cobra.Command{
	Use:   "complete",
	Short: "Mark games that are long over as completed",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/games/complete-past", withCronSecret)
	},
}

// bearer sets the Authorization header from --token, or mints one from --user.
func bearer(req *http.Request) error {
	t := token
	if t == "" {
		if userID == "" || jwtSecret == "" {
			return fmt.Errorf("either --token or --user with --jwt-secret is required")
		}
		var err error
		t, err = auth.NewVerifier(jwtSecret).Sign(userID, 15*time.Minute)
		if err != nil {
			return err
		}
	}
	req.Header.Set("Authorization", "Bearer "+t)
	return nil
}

func withCronSecret(req *http.Request) error {
	if cronSecret != "" {
		req.Header.Set(server.CronSecretHeader, cronSecret)
	}
	return nil
}

func performRequest(method, endpoint string, prepare func(*http.Request) error) error {
	url := host + endpoint
	fmt.Printf("Making %s request to %s\n", method, url)

	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if prepare != nil {
		if err := prepare(req); err != nil {
			return err
		}
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
