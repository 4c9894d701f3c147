package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/autoseat/claimlens/internal/model"
	"github.com/autoseat/claimlens/internal/remote"
)

var syncFlags struct {
	file  string
	since string
}

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize claims with the claims server",
	Long: `Synchronize a local claims JSON file with the shared claims server.

pull fetches the server's collection; with --since only records updated
after the cursor are fetched and merged into the local file by id. push
uploads the local collection wholesale. watch keeps the local file in
step with server notifications until interrupted.`,
}

var syncPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Fetch claims from the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		logger := newLogger(cfg)
		defer func() { _ = logger.Sync() }()

		local, err := loadClaimsFile(syncFlags.file)
		if err != nil {
			return err
		}

		syncer := remote.NewSyncer(remote.NewClient(cfg.Remote), cfg.Remote.RetryDelay, logger)
		merged, status, err := syncer.Pull(cmd.Context(), local, syncFlags.since)
		if err != nil {
			return err
		}

		if err := saveClaimsFile(syncFlags.file, merged); err != nil {
			return err
		}
		fmt.Printf("Pulled %d claims (version %s) into %s\n", len(merged), status.Version, syncFlags.file)
		return nil
	},
}

var syncPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Upload the local claims to the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		logger := newLogger(cfg)
		defer func() { _ = logger.Sync() }()

		local, err := loadClaimsFile(syncFlags.file)
		if err != nil {
			return err
		}
		if len(local) == 0 {
			return fmt.Errorf("nothing to push: %s is empty or missing", syncFlags.file)
		}

		syncer := remote.NewSyncer(remote.NewClient(cfg.Remote), cfg.Remote.RetryDelay, logger)
		status, err := syncer.Push(cmd.Context(), local)
		if err != nil {
			return err
		}
		fmt.Printf("Pushed %d claims, server version %s\n", len(local), status.Version)
		return nil
	},
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show server connectivity and dataset version",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		logger := newLogger(cfg)
		defer func() { _ = logger.Sync() }()

		syncer := remote.NewSyncer(remote.NewClient(cfg.Remote), cfg.Remote.RetryDelay, logger)
		status := syncer.Check(cmd.Context())

		fmt.Printf("Server:       %s\n", cfg.Remote.BaseURL)
		if !status.Connected {
			fmt.Printf("Status:       unreachable (%s)\n", status.Error)
			return nil
		}
		fmt.Printf("Status:       connected\n")
		fmt.Printf("Version:      %s\n", status.Version)
		fmt.Printf("Last updated: %s\n", formatTimestamp(status.LastUpdated))
		return nil
	},
}

var syncWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow server updates and keep the local file current",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		logger := newLogger(cfg)
		defer func() { _ = logger.Sync() }()

		syncer := remote.NewSyncer(remote.NewClient(cfg.Remote), cfg.Remote.RetryDelay, logger)

		// Start from the server's full collection.
		local, _, err := syncer.Pull(cmd.Context(), nil, "")
		if err != nil {
			return err
		}
		if err := saveClaimsFile(syncFlags.file, local); err != nil {
			return err
		}
		fmt.Printf("Watching %s (%d claims), ctrl-c to stop\n", cfg.Remote.BaseURL, len(local))

		return syncer.Watch(cmd.Context(), local, func(claims []model.CleanedClaim, status remote.SyncStatus) {
			if err := saveClaimsFile(syncFlags.file, claims); err != nil {
				fmt.Fprintf(os.Stderr, "write %s: %v\n", syncFlags.file, err)
				return
			}
			fmt.Printf("Updated: %d claims (version %s)\n", len(claims), status.Version)
		})
	},
}

func loadClaimsFile(path string) ([]model.CleanedClaim, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read claims file: %w", err)
	}
	var claims []model.CleanedClaim
	if err := json.Unmarshal(data, &claims); err != nil {
		return nil, fmt.Errorf("decode claims file: %w", err)
	}
	return claims, nil
}

func saveClaimsFile(path string, claims []model.CleanedClaim) error {
	data, err := json.MarshalIndent(claims, "", "  ")
	if err != nil {
		return fmt.Errorf("encode claims: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write claims file: %w", err)
	}
	return nil
}

func init() {
	syncCmd.PersistentFlags().StringVar(&syncFlags.file, "file", "claims.json", "local claims JSON file")
	syncPullCmd.Flags().StringVar(&syncFlags.since, "since", "", "only fetch claims updated after this RFC3339 timestamp")

	syncCmd.AddCommand(syncPullCmd)
	syncCmd.AddCommand(syncPushCmd)
	syncCmd.AddCommand(syncStatusCmd)
	syncCmd.AddCommand(syncWatchCmd)
	rootCmd.AddCommand(syncCmd)
}
