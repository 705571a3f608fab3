// Package cli provides the command-line interface for clinicai.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/clinicai/clinicai-go/internal/config"
	"github.com/clinicai/clinicai-go/internal/db"
	"github.com/clinicai/clinicai-go/internal/embedding"
	"github.com/clinicai/clinicai-go/internal/kb"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global config and db client
	cfg      config.Config
	dbClient *db.Client
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "clinicai",
	Short: "Clinical consultation processing pipeline",
	Long: `Clinicai processes clinical consultations end to end: audio transcription,
structured medical information extraction, and diagnosis report generation.

The CLI submits sessions, inspects their progress, and manages the medical
knowledge base. The pipeline itself runs in the clinicaid daemon.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip DB connection for version and help commands
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		cfg = config.Load()

		ctx := context.Background()
		dbCfg := db.Config{
			URL:       cfg.SurrealDBURL,
			Namespace: cfg.SurrealDBNamespace,
			Database:  cfg.SurrealDBDatabase,
			Username:  cfg.SurrealDBUser,
			Password:  cfg.SurrealDBPass,
			AuthLevel: cfg.SurrealDBAuthLevel,
		}

		var err error
		dbClient, err = db.NewClient(ctx, dbCfg, nil)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}

		if err := dbClient.InitSchema(ctx); err != nil {
			return fmt.Errorf("initialize schema: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if dbClient != nil {
			if err := dbClient.Close(context.Background()); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", err)
			}
		}
	},
}

// newRetriever builds the knowledge-base retriever from the loaded config.
func newRetriever() (*kb.QdrantRetriever, error) {
	embedder, err := embedding.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}
	retriever, err := kb.NewQdrantRetriever(cfg.QdrantHost, cfg.QdrantPort, cfg.QdrantCollection, embedder, nil)
	if err != nil {
		return nil, fmt.Errorf("connect to qdrant: %w", err)
	}
	return retriever, nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(kbCmd)
}
