package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clinicai/clinicai-go/internal/db"
)

var statusCmd = &cobra.Command{
	Use:   "status <session-id>",
	Short: "Show the processing status of a session",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	sessionID := args[0]
	ctx := context.Background()

	t, err := dbClient.GetTranscription(ctx, sessionID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("no transcription found for session %s (still queued or unknown)", sessionID)
		}
		return fmt.Errorf("load transcription: %w", err)
	}

	fmt.Printf("Session:  %s\n", t.SessionID)
	fmt.Printf("Status:   %s\n", t.Status)
	if t.ErrorMessage != "" {
		fmt.Printf("Error:    %s\n", t.ErrorMessage)
	}
	if t.Language != "" {
		fmt.Printf("Language: %s\n", t.Language)
	}
	if t.Duration > 0 {
		fmt.Printf("Duration: %.1fs\n", t.Duration)
	}
	if t.Text != "" {
		fmt.Printf("\n%s\n", t.Text)
	}
	return nil
}
