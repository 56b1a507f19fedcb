package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/openclaw-concierge/internal/config"
	"github.com/ajitpratap0/openclaw-concierge/internal/models"
	"github.com/ajitpratap0/openclaw-concierge/internal/preferences"
)

func prefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Read and write stored user preference profiles",
	}
	cmd.AddCommand(prefsGetCmd(), prefsPutCmd(), prefsDeleteCmd())
	return cmd
}

func prefsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [user-id]",
		Short: "Print the preference profile of a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := newPreferenceStore(cmd.Context())
			if err != nil {
				return fmt.Errorf("prefs get: %w", err)
			}
			defer closeStore()

			p, err := store.Get(cmd.Context(), args[0])
			if errors.Is(err, preferences.ErrNotFound) {
				return fmt.Errorf("prefs get: no profile stored for %s", args[0])
			}
			if err != nil {
				return fmt.Errorf("prefs get: %w", err)
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(p)
		},
	}
}

func prefsPutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "put [user-id] [profile.json]",
		Short: "Store a preference profile read from a JSON file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("prefs put: reading %s: %w", args[1], err)
			}
			var p models.UserPreferenceProfile
			if err := json.Unmarshal(data, &p); err != nil {
				return fmt.Errorf("prefs put: parsing %s: %w", args[1], err)
			}

			store, closeStore, err := newPreferenceStore(cmd.Context())
			if err != nil {
				return fmt.Errorf("prefs put: %w", err)
			}
			defer closeStore()

			if cfg.Preferences.Backend != config.PrefsRedis {
				fmt.Fprintln(os.Stderr, "warning: the memory preference backend does not persist across runs")
			}
			if err := store.Put(cmd.Context(), args[0], p); err != nil {
				return fmt.Errorf("prefs put: %w", err)
			}
			fmt.Printf("Stored preferences for %s\n", args[0])
			return nil
		},
	}
}

func prefsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [user-id]",
		Short: "Delete the preference profile of a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := newPreferenceStore(cmd.Context())
			if err != nil {
				return fmt.Errorf("prefs delete: %w", err)
			}
			defer closeStore()

			if err := store.Delete(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("prefs delete: %w", err)
			}
			fmt.Printf("Deleted preferences for %s\n", args[0])
			return nil
		},
	}
}
