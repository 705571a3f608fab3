package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clinicai/clinicai-go/internal/kb"
)

var kbSearchTopK int

var kbCmd = &cobra.Command{
	Use:   "kb",
	Short: "Manage the medical knowledge base",
}

var kbLoadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load the built-in medical reference documents into qdrant",
	RunE:  runKBLoad,
}

var kbSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the medical knowledge base",
	Args:  cobra.ExactArgs(1),
	RunE:  runKBSearch,
}

func init() {
	kbSearchCmd.Flags().IntVarP(&kbSearchTopK, "top-k", "k", 3, "number of results")
	kbCmd.AddCommand(kbLoadCmd)
	kbCmd.AddCommand(kbSearchCmd)
}

func runKBLoad(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	retriever, err := newRetriever()
	if err != nil {
		return err
	}
	defer retriever.Close()

	if err := retriever.EnsureCollection(ctx); err != nil {
		return fmt.Errorf("prepare collection: %w", err)
	}

	docs := kb.SeedDocuments()
	if err := retriever.LoadDocuments(ctx, docs); err != nil {
		return fmt.Errorf("load documents: %w", err)
	}

	fmt.Printf("Loaded %d documents into collection %q\n", len(docs), cfg.QdrantCollection)
	return nil
}

func runKBSearch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	retriever, err := newRetriever()
	if err != nil {
		return err
	}
	defer retriever.Close()

	snippets, err := retriever.Search(ctx, args[0], kbSearchTopK)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	if len(snippets) == 0 {
		fmt.Println("No results.")
		return nil
	}

	for i, s := range snippets {
		fmt.Printf("%d. [%.3f] %s\n", i+1, s.Score, s.Content)
		if s.Topic != "" {
			fmt.Printf("   topic: %s", s.Topic)
			if s.Urgency != "" {
				fmt.Printf("  urgency: %s", s.Urgency)
			}
			fmt.Println()
		}
	}
	return nil
}
