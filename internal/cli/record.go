package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/clinicai/clinicai-go/internal/db"
)

var recordReportOnly bool

var recordCmd = &cobra.Command{
	Use:   "record <session-id>",
	Short: "Show the clinical record of a session",
	Long: `Show the clinical record of a session as JSON, or just the composed
diagnosis report with --report.`,
	Args: cobra.ExactArgs(1),
	RunE: runRecord,
}

func init() {
	recordCmd.Flags().BoolVar(&recordReportOnly, "report", false, "print only the markdown diagnosis report")
}

func runRecord(cmd *cobra.Command, args []string) error {
	sessionID := args[0]
	ctx := context.Background()

	record, err := dbClient.GetClinicalRecord(ctx, sessionID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("no clinical record found for session %s", sessionID)
		}
		return fmt.Errorf("load clinical record: %w", err)
	}

	if recordReportOnly {
		if record.DiagnosisReport == "" {
			return fmt.Errorf("session %s has no diagnosis report yet", sessionID)
		}
		fmt.Println(record.DiagnosisReport)
		return nil
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(record)
}
