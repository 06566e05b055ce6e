package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pagemonk/pagemonk/cmd/pagemonk/ui"
	"github.com/pagemonk/pagemonk/internal/extract"
)

var (
	extractDocumentID int
	extractSchemaID   int
	extractOutputDir  string
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Run schema extraction against a converted document",
	Long: `Apply an extraction schema to a completed document and print the
structured result. Only documents whose conversion has completed are
valid candidates.`,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().IntVar(&extractDocumentID, "document", 0, "document ID (required)")
	extractCmd.Flags().IntVar(&extractSchemaID, "schema", 0, "schema ID (required)")
	extractCmd.Flags().StringVarP(&extractOutputDir, "output-dir", "o", "", "save the result as a JSON artifact in this directory")
	_ = extractCmd.MarkFlagRequired("document")
	_ = extractCmd.MarkFlagRequired("schema")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	_, logger, cl, err := setup()
	if err != nil {
		return err
	}
	ui.Init(noColor, verbose)

	ctx := context.Background()

	// Only completed documents are offered for extraction
	doc, err := cl.GetDocument(ctx, extractDocumentID)
	if err != nil {
		return fmt.Errorf("get document: %w", err)
	}
	if !doc.Completed() {
		return fmt.Errorf("document %d is not ready for extraction (status: %s)",
			doc.ID, doc.ProcessingStatus)
	}

	spin := ui.NewSpinner(fmt.Sprintf("extracting %s...", doc.Filename))
	spin.Start()
	runner := extract.NewRunner(cl, logger)
	res := runner.Run(ctx, extractDocumentID, extractSchemaID)
	spin.Stop()

	if !res.Success {
		ui.Error("%s", res.Error)
		return fmt.Errorf("extraction failed")
	}

	ui.Success("extraction completed for %s", doc.Filename)

	if extractOutputDir != "" {
		path, err := extract.WriteJSON(extractOutputDir, doc.Filename, res)
		if err != nil {
			return fmt.Errorf("export result: %w", err)
		}
		ui.Success("saved %s", path)
		return nil
	}

	pretty, err := json.MarshalIndent(json.RawMessage(res.Data), "", "  ")
	if err != nil {
		return fmt.Errorf("format result: %w", err)
	}
	fmt.Fprintln(os.Stdout, string(pretty))
	return nil
}
