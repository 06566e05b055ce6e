package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pagemonk/pagemonk/cmd/pagemonk/ui"
)

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "Manage backend documents",
}

var documentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all documents",
	RunE:  runDocumentsList,
}

var documentsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentsDelete,
}

func init() {
	documentsCmd.AddCommand(documentsListCmd)
	documentsCmd.AddCommand(documentsDeleteCmd)
	rootCmd.AddCommand(documentsCmd)
}

func runDocumentsList(cmd *cobra.Command, args []string) error {
	_, _, cl, err := setup()
	if err != nil {
		return err
	}
	ui.Init(noColor, verbose)

	docs, err := cl.ListDocuments(context.Background())
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}

	if len(docs) == 0 {
		ui.Info("no documents")
		return nil
	}

	rows := make([][]string, 0, len(docs))
	for _, d := range docs {
		uploaded := ""
		if !d.UploadDate.IsZero() {
			uploaded = d.UploadDate.Format("2006-01-02 15:04")
		}
		rows = append(rows, []string{
			strconv.Itoa(d.ID),
			d.Filename,
			ui.FormatBytes(d.FileSize),
			ui.StatusString(string(d.ProcessingStatus)),
			uploaded,
		})
	}
	ui.Table([]string{"ID", "Filename", "Size", "Status", "Uploaded"}, rows)
	return nil
}

func runDocumentsDelete(cmd *cobra.Command, args []string) error {
	_, _, cl, err := setup()
	if err != nil {
		return err
	}
	ui.Init(noColor, verbose)

	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid document id: %s", args[0])
	}

	if err := cl.DeleteDocument(context.Background(), id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	ui.Success("deleted document %d", id)
	return nil
}
