package commands

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pagemonk/pagemonk/cmd/pagemonk/ui"
	"github.com/pagemonk/pagemonk/internal/domain"
	"github.com/pagemonk/pagemonk/internal/extract"
	"github.com/pagemonk/pagemonk/internal/orchestrator"
)

var processOutputDir string

var processCmd = &cobra.Command{
	Use:   "process <file>...",
	Short: "Upload documents and convert them to structured markdown",
	Long: `Upload one or more documents and drive each through conversion:
upload, conversion request, then status polling until the backend
reports a terminal state. Files are validated locally before any
network call; every accepted file runs its own independent sequence.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runProcess,
}

func init() {
	processCmd.Flags().StringVarP(&processOutputDir, "output-dir", "o", "", "save converted markdown for completed documents to this directory")
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg, logger, cl, err := setup()
	if err != nil {
		return err
	}
	ui.Init(noColor, verbose)

	orch := orchestrator.New(cl, logger, orchestrator.Options{
		PollInterval: cfg.Processing.PollInterval,
		PollBudget:   cfg.Processing.PollBudget,
	})
	defer orch.Close()

	events, unsubscribe := orch.Subscribe()
	defer unsubscribe()

	ui.Section("Document Processing")

	submitted := make(map[uuid.UUID]string)
	for _, path := range args {
		id, err := orch.Submit(path)
		if err != nil {
			ui.Error("%s: %v", path, err)
			continue
		}
		submitted[id] = path
		ui.Verbose("submitted %s", path)
	}

	if len(submitted) == 0 {
		return fmt.Errorf("no files accepted")
	}

	watchQueue(orch, events, len(submitted) == 1)

	items := orch.Items()
	printOutcomes(items)

	if processOutputDir != "" {
		saveConverted(items)
	}

	for _, it := range items {
		if it.Status == domain.StatusFailed {
			return fmt.Errorf("%d of %d documents failed", countFailed(items), len(items))
		}
	}
	return nil
}

// watchQueue consumes orchestrator snapshots until every item is
// terminal. With a single item it renders a live progress bar and
// spinner; with several it prints transition lines.
func watchQueue(orch *orchestrator.Orchestrator, events <-chan orchestrator.Item, single bool) {
	var bar *ui.UploadBar
	var spin *ui.Spinner
	lastStatus := make(map[uuid.UUID]domain.Status)

	allDone := make(chan struct{})
	go func() {
		orch.Wait()
		close(allDone)
	}()

	render := func(it orchestrator.Item) {
		if single {
			switch it.Status {
			case domain.StatusUploading:
				if bar == nil {
					bar = ui.NewUploadBar("uploading " + it.Filename)
				}
				bar.Set(it.Progress)
			case domain.StatusProcessing:
				if bar != nil {
					bar.Finish()
					bar = nil
				}
				if spin == nil {
					spin = ui.NewSpinner("converting " + it.Filename + "...")
					spin.Start()
				}
			default:
				if bar != nil {
					bar.Finish()
					bar = nil
				}
				if spin != nil {
					spin.Stop()
					spin = nil
				}
			}
		} else if lastStatus[it.ID] != it.Status {
			ui.Info("%s: %s", it.Filename, ui.StatusString(string(it.Status)))
		}
		lastStatus[it.ID] = it.Status
	}

	for {
		select {
		case it := <-events:
			render(it)
		case <-allDone:
			if bar != nil {
				bar.Finish()
			}
			if spin != nil {
				spin.Stop()
			}
			return
		}
	}
}

func printOutcomes(items []orchestrator.Item) {
	ui.Newline()
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		detail := ""
		switch it.Status {
		case domain.StatusCompleted:
			detail = fmt.Sprintf("document %d", it.DocumentID)
		case domain.StatusFailed:
			detail = it.Err
		}
		rows = append(rows, []string{
			it.Filename,
			ui.FormatBytes(it.Size),
			ui.StatusString(string(it.Status)),
			detail,
		})
	}
	ui.Table([]string{"File", "Size", "Status", "Detail"}, rows)
}

func saveConverted(items []orchestrator.Item) {
	for _, it := range items {
		if it.Status != domain.StatusCompleted {
			continue
		}
		path, err := extract.WriteMarkdown(processOutputDir, it.Filename, it.Content)
		if err != nil {
			ui.Error("save %s: %v", it.Filename, err)
			continue
		}
		ui.Success("saved %s", path)
	}
}

func countFailed(items []orchestrator.Item) int {
	n := 0
	for _, it := range items {
		if it.Status == domain.StatusFailed {
			n++
		}
	}
	return n
}
