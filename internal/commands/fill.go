package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/bilant/internal/report"
	"github.com/cleared-dev/bilant/internal/runlog"
	"github.com/cleared-dev/bilant/internal/xfa"
)

type fillOptions struct {
	results      string
	priorResults string
	runID        int64
	templatePDF  string
	out          string
}

func newFillCommand(repoDir *string) *cobra.Command {
	var o fillOptions

	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Fill computed values into the XFA form PDF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (o.results == "") == (o.runID == 0) {
				return fmt.Errorf("exactly one of --results or --run is required")
			}
			p, err := openProject(*repoDir, o.runID != 0)
			if err != nil {
				return err
			}
			return runFill(cmd.OutOrStdout(), p, o)
		},
	}

	cmd.Flags().StringVar(&o.results, "results", "", "results CSV written by generate")
	cmd.Flags().Int64Var(&o.runID, "run", 0, "history run id to fill instead of a results CSV")
	cmd.Flags().StringVar(&o.priorResults, "prior-results", "", "results CSV whose current values fill the prior column")
	cmd.Flags().StringVar(&o.templatePDF, "template-pdf", "", "blank form PDF (default form.template_pdf)")
	cmd.Flags().StringVar(&o.out, "out", "", "PDF to write (required)")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func runFill(out io.Writer, p *project, o fillOptions) error {
	pdfPath := o.templatePDF
	if pdfPath == "" {
		pdfPath = p.path(p.cfg.Form.TemplatePDF)
	}
	if pdfPath == "" {
		return fmt.Errorf("no form PDF: pass --template-pdf or set form.template_pdf")
	}

	lines, form, err := loadResults(p, o)
	if err != nil {
		return err
	}
	current := report.CurrentValues(lines)
	prior := report.PriorValues(lines)
	if o.priorResults != "" {
		priorLines, err := report.LoadCSV(o.priorResults)
		if err != nil {
			return err
		}
		prior = report.CurrentValues(priorLines)
	}

	doc, err := xfa.OpenFile(pdfPath)
	if err != nil {
		return err
	}
	filled, rep, err := doc.Fill(current, prior)
	if err != nil {
		return err
	}
	if form != "" && form != rep.Form {
		slog.Warn("results were computed for a different form", "results", form, "pdf", rep.Form)
	}

	if err := os.MkdirAll(filepath.Dir(o.out), 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	if err := os.WriteFile(o.out, filled, 0o644); err != nil {
		return fmt.Errorf("writing PDF: %w", err)
	}

	fmt.Fprintf(out, "Form %s: filled %d current and %d prior values -> %s\n", rep.Form, rep.Current, rep.Prior, p.display(o.out))

	input := p.display(o.results)
	if o.runID != 0 {
		input = fmt.Sprintf("run #%d", o.runID)
	}
	return p.record(runlog.Entry{
		Command: "fill",
		Form:    rep.Form,
		Input:   input,
		Output:  p.display(o.out),
		Rows:    rep.Current + rep.Prior,
	}, o.out)
}

// loadResults returns the lines to fill and, for history runs, their form.
func loadResults(p *project, o fillOptions) ([]report.Line, string, error) {
	if o.runID == 0 {
		lines, err := report.LoadCSV(o.results)
		return lines, "", err
	}
	store, closeStore, err := p.openHistory()
	if err != nil {
		return nil, "", err
	}
	defer closeStore()
	run, err := store.GetRun(o.runID)
	if err != nil {
		return nil, "", err
	}
	lines, err := store.LoadResults(o.runID)
	return lines, run.Form, err
}
