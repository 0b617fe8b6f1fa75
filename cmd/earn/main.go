package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/robby/earn/internal/api"
	"github.com/robby/earn/internal/auth"
	"github.com/robby/earn/internal/config"
	"github.com/robby/earn/internal/kv"
	"github.com/robby/earn/internal/listings"
	"github.com/robby/earn/internal/promo"
	"github.com/robby/earn/internal/store"
	"github.com/robby/earn/internal/tui"
	"github.com/spf13/cobra"
)

var (
	// CLI flags
	configFlag  string
	apiFlag     string
	stateFlag   string
	logFileFlag string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "earn",
		Short: "Browse bounties and grants from the terminal",
		Long: `earn is a terminal view of open bounties and grants.

Session:
  1. System keyring: Run 'earn login <token>' (preferred)
  2. Environment variable: Set EARN_SESSION_TOKEN

Signing in is optional; listings are public.`,
		SilenceUsage: true,
		RunE:         run,
	}

	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to a TOML config file.")
	rootCmd.PersistentFlags().StringVar(&apiFlag, "api", "", "Listings API base URL. Overrides api.base_url.")
	rootCmd.PersistentFlags().StringVar(&stateFlag, "state", "", "Path of the local state file. Overrides state.path.")
	rootCmd.Flags().StringVar(&logFileFlag, "log-file", "", "Diagnostics log file. Overrides log.file.")

	rootCmd.AddCommand(listCmd(), loginCmd(), logoutCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig applies CLI flag overrides on top of file and env config.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	if apiFlag != "" {
		cfg.API.BaseURL = apiFlag
	}
	if stateFlag != "" {
		cfg.State.Path = stateFlag
	}
	if logFileFlag != "" {
		cfg.Log.File = logFileFlag
	}
	return cfg, nil
}

func newClient(cfg config.Config) (*api.Client, error) {
	burst := int(cfg.API.RateLimit)
	if burst < 1 {
		burst = 1
	}
	client, err := api.New(cfg.API.BaseURL,
		api.WithTokenProvider(auth.DefaultChain()),
		api.WithRateLimit(cfg.API.RateLimit, burst),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}
	return client, nil
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so diagnostics go to a file
	if err := os.MkdirAll(filepath.Dir(cfg.Log.File), 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	logFile, err := tea.LogToFile(cfg.Log.File, "earn")
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()

	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	// Create stores
	s := store.New()
	gate := promo.NewGate(kv.NewFileStore(cfg.State.Path))
	// A pending promo trigger must not outlive the view
	defer gate.Cancel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	home := tui.NewHomeModel(ctx, tui.Deps{
		Loader:   listings.NewLoader(client, s),
		Store:    s,
		Sessions: client,
		Gate:     gate,
		SiteURL:  cfg.Site.URL,
	})

	// Run Bubble Tea program
	p := tea.NewProgram(home, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}

	return nil
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print open bounties and grants without the interactive view",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			client, err := newClient(cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			s := store.New()
			if err := listings.NewLoader(client, s).Load(ctx); err != nil {
				return fmt.Errorf("load listings: %w", err)
			}

			snap := s.Snapshot()
			now := time.Now()
			out := cmd.OutOrStdout()

			open, _ := listings.FindTab(listings.BuildTabs(false, snap.Bounties, now), listings.TabOpen)
			fmt.Fprintf(out, "Open bounties (%d):\n", len(open.Bounties))
			for _, b := range open.Bounties {
				due := "rolling"
				if !b.Deadline.IsZero() {
					due = humanize.Time(b.Deadline)
				}
				fmt.Fprintf(out, "  %-48s %12s %-5s  %s\n", b.Title, humanize.Commaf(b.RewardAmount), b.Token, due)
			}

			fmt.Fprintf(out, "\nGrants (%d):\n", len(snap.Grants))
			for _, g := range snap.Grants {
				fmt.Fprintf(out, "  %-48s up to %s %s\n", g.Title, humanize.Commaf(g.RewardAmount), g.Token)
			}
			return nil
		},
	}
}

func loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <session-token>",
		Short: "Store a session token in the system keyring",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := auth.SaveToken(args[0]); err != nil {
				return fmt.Errorf("save token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Session token saved.")
			return nil
		},
	}
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := auth.DeleteToken(); err != nil {
				return fmt.Errorf("delete token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}
