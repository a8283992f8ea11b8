// mytimecli is a small admin client for the mytime API.
package main

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
)

var apiBase string

var rootCmd = &cobra.Command{
	Use:   "mytimecli",
	Short: "Inspect the mytime activity tracker from the command line",
	Long: `mytimecli queries a running mytime API server.

Examples:
  mytimecli totals                       # hours per category across all days
  mytimecli day 2025-03-14               # derived timeline for one day
  mytimecli days                         # days that have recorded activities
  mytimecli --api http://host:8080 days  # point at a remote server`,
}

var totalsCmd = &cobra.Command{
	Use:   "totals",
	Short: "Print aggregate hours per category",
	RunE: func(cmd *cobra.Command, args []string) error {
		var totals []struct {
			Name  string  `json:"name"`
			Color string  `json:"color"`
			Value float64 `json:"value"`
		}
		if err := fetch("/v1/totals", &totals); err != nil {
			return err
		}
		for _, t := range totals {
			fmt.Printf("%-24s %6.1fh\n", t.Name, t.Value)
		}
		return nil
	},
}

var dayCmd = &cobra.Command{
	Use:   "day <date>",
	Short: "Print the derived timeline for one day (YYYY-MM-DD)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var timeline struct {
			Day     string `json:"day"`
			Entries []struct {
				Time            string `json:"time"`
				CategoryName    string `json:"category_name"`
				IsAnchor        bool   `json:"is_anchor"`
				DurationMinutes int    `json:"duration_minutes"`
				OpenEnded       bool   `json:"open_ended"`
			} `json:"entries"`
			DayStartMinutes int `json:"day_start_minutes"`
			DayEndMinutes   int `json:"day_end_minutes"`
		}
		if err := fetch("/v1/days/"+args[0], &timeline); err != nil {
			return err
		}
		fmt.Printf("%s  window %s-%s\n", timeline.Day,
			clock(timeline.DayStartMinutes), clock(timeline.DayEndMinutes))
		for _, e := range timeline.Entries {
			marker := " "
			if e.IsAnchor {
				marker = "*"
			}
			tail := ""
			if e.OpenEnded {
				tail = " (open)"
			}
			fmt.Printf("%s %s  %-24s %4dmin%s\n", marker, e.Time, e.CategoryName, e.DurationMinutes, tail)
		}
		return nil
	},
}

var daysCmd = &cobra.Command{
	Use:   "days",
	Short: "List days that have recorded activities",
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp struct {
			Days []string `json:"days"`
		}
		if err := fetch("/v1/days", &resp); err != nil {
			return err
		}
		for _, day := range resp.Days {
			fmt.Println(day)
		}
		return nil
	},
}

func fetch(path string, out interface{}) error {
	resp, err := http.Get(apiBase + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned %d: %s", path, resp.StatusCode, string(body))
	}
	return sonic.Unmarshal(body, out)
}

func clock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", (minutes/60)%24, minutes%60)
}

func main() {
	rootCmd.PersistentFlags().StringVar(&apiBase, "api", "http://localhost:8080", "base URL of the mytime API")
	rootCmd.AddCommand(totalsCmd, dayCmd, daysCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
