package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ajitpratap0/openclaw-concierge/internal/chat"
)

func chatCmd() *cobra.Command {
	var (
		userID  string
		offline bool
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the concierge interactively",
		Long: `Reads client messages from stdin, one per line, and prints the concierge reply.
Replies answered by the deterministic engine are marked when the completion
service is enabled. Type /quit or send EOF to leave.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			svc, _, closeAll := newService(cmd.Context(), offline, logger)
			defer closeAll()

			prompt := color.New(color.FgCyan, color.Bold)
			concierge := color.New(color.FgGreen)
			note := color.New(color.FgYellow)

			var convID string
			scanner := bufio.NewScanner(os.Stdin)
			for {
				prompt.Print("you> ")
				if !scanner.Scan() {
					fmt.Println()
					break
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "/quit" || line == "/exit" {
					break
				}
				if cmd.Context().Err() != nil {
					break
				}

				reply := svc.Turn(cmd.Context(), chat.TurnRequest{
					ConversationID: convID,
					UserID:         userID,
					Message:        line,
				})
				convID = reply.ConversationID

				concierge.Print("concierge> ")
				fmt.Println(reply.Text)
				if reply.Source == chat.SourceEngine && !offline && cfg.Completion.Enabled() {
					note.Println("  (deterministic reply)")
				}
			}

			if convID != "" {
				_ = svc.End(convID)
			}
			return scanner.Err()
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id whose stored preferences apply")
	cmd.Flags().BoolVar(&offline, "offline", false, "never call the completion service")
	return cmd
}
