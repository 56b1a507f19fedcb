package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func recommendCmd() *cobra.Command {
	var (
		userID  string
		limit   int
		explain bool
	)

	cmd := &cobra.Command{
		Use:   "recommend [message]",
		Short: "Rank catalog venues for a client message",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return fmt.Errorf("recommend: --limit must be >= 0")
			}
			logger := newLogger()
			svc, _, closeAll := newService(cmd.Context(), true, logger)
			defer closeAll()

			rec := svc.Recommend(cmd.Context(), joinArgs(args), userID)
			fmt.Printf("Language: %s (%s)  Intent: %s\n\n", rec.Language.Language, rec.Language.Confidence, rec.Intent.Category)

			candidates := rec.Candidates
			if limit > 0 && len(candidates) > limit {
				candidates = candidates[:limit]
			}
			if len(candidates) == 0 {
				fmt.Println("No matching venues.")
			}
			for i, c := range candidates {
				sponsored := ""
				if c.Item.Sponsored {
					sponsored = " [sponsored]"
				}
				fmt.Printf("[%d] %-28s score=%-4d %s%s\n", i+1, truncate(c.Item.Name, 28), c.Score, c.Item.Category, sponsored)
				if explain && len(c.Factors) > 0 {
					fmt.Printf("    %s\n", strings.Join(c.Factors, ", "))
				}
			}

			fmt.Printf("\n%s\n", rec.Text)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user whose preference profile drives ranking")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum venues to list (0 = all)")
	cmd.Flags().BoolVar(&explain, "explain", false, "print the scoring factors of each venue")
	return cmd
}
