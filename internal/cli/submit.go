package cli

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/clinicai/clinicai-go/internal/models"
)

var (
	submitAudioURL string
	submitText     string
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a new consultation session",
	Long: `Submit a new consultation session for processing.

Provide either an audio URL (the daemon downloads and transcribes it) or an
already-available transcription text (the transcription stage is skipped).

Examples:
  clinicai submit --audio-url https://example.com/consultation.mp3
  clinicai submit --text "Patient reports mild headache for 3 days"`,
	RunE: runSubmit,
}

func init() {
	submitCmd.Flags().StringVar(&submitAudioURL, "audio-url", "", "URL of the consultation audio recording")
	submitCmd.Flags().StringVar(&submitText, "text", "", "transcription text, skipping the audio stage")
}

func runSubmit(cmd *cobra.Command, args []string) error {
	if submitAudioURL == "" && submitText == "" {
		return fmt.Errorf("either --audio-url or --text must be provided")
	}

	ctx := context.Background()
	sessionID := uuid.NewString()

	if submitAudioURL != "" {
		if err := dbClient.CreateQueueEntry(ctx, sessionID, submitAudioURL); err != nil {
			return fmt.Errorf("queue session: %w", err)
		}
		fmt.Printf("Session %s queued (%s)\n", sessionID, models.StatusTranscriptionWaiting)
		return nil
	}

	t := models.Transcription{
		SessionID: sessionID,
		Text:      submitText,
		Status:    models.StatusTranscriptionFinished,
	}
	if err := dbClient.SaveTranscription(ctx, t); err != nil {
		return fmt.Errorf("save transcription: %w", err)
	}
	fmt.Printf("Session %s created (%s)\n", sessionID, models.StatusTranscriptionFinished)
	return nil
}
