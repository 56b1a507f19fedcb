package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func detectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect [message]",
		Short: "Detect the language of a client message",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			det := newEngine(newLogger()).DetectLanguage(joinArgs(args))
			fmt.Printf("%s (%s)\n", det.Language, det.Confidence)
			return nil
		},
	}
}

func classifyCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "classify [message]",
		Short: "Classify a client message into a concierge intent",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			svc, _, closeAll := newService(cmd.Context(), true, logger)
			defer closeAll()

			intent := svc.Engine().Classify(joinArgs(args), svc.Catalog(cmd.Context()))
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(intent)
			}

			fmt.Printf("Intent:     %s\n", intent.Category)
			fmt.Printf("Confidence: %.2f\n", intent.Confidence)
			for _, e := range intent.Entities {
				switch {
				case e.Item != nil:
					fmt.Printf("  %-14s %s (%s)\n", e.Kind, e.Item.Name, e.Item.ID)
				default:
					fmt.Printf("  %-14s %s [%s]\n", e.Kind, e.Keyword, e.Bucket)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the intent as JSON")
	return cmd
}
