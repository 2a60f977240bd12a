package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/bilant/internal/balanta"
	"github.com/cleared-dev/bilant/internal/history"
	"github.com/cleared-dev/bilant/internal/id"
	"github.com/cleared-dev/bilant/internal/report"
	"github.com/cleared-dev/bilant/internal/resolver"
	"github.com/cleared-dev/bilant/internal/runlog"
	"github.com/cleared-dev/bilant/internal/templates"
	"github.com/cleared-dev/bilant/internal/xfa"
)

type generateOptions struct {
	balanta  string
	prior    string
	template string
	form     string
	name     string
	xlsx     bool
	save     bool
}

func newGenerateCommand(repoDir *string) *cobra.Command {
	var o generateOptions

	cmd := &cobra.Command{
		Use:   "generate <balanta>",
		Short: "Compute the balance sheet from a trial balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(*repoDir, true)
			if err != nil {
				return err
			}
			o.balanta = args[0]
			return runGenerate(cmd.OutOrStdout(), p, o)
		},
	}

	cmd.Flags().StringVar(&o.prior, "prior", "", "prior period trial balance")
	cmd.Flags().StringVar(&o.template, "template", "", "template CSV (default from templates dir)")
	cmd.Flags().StringVar(&o.form, "form", "", "form type, F10L or F10S (default from bilant.yaml)")
	cmd.Flags().StringVar(&o.name, "name", "", "output file name without extension (default bilant-<FORM>)")
	cmd.Flags().BoolVar(&o.xlsx, "xlsx", false, "also write an XLSX workbook")
	cmd.Flags().BoolVar(&o.save, "save", false, "save the run to history")

	return cmd
}

func runGenerate(out io.Writer, p *project, o generateOptions) error {
	t, templatePath, err := loadTemplate(p, o.template, o.form)
	if err != nil {
		return err
	}

	current, err := balanta.Load(o.balanta)
	if err != nil {
		return err
	}
	res := resolver.Resolve(t.Rows(), current)

	var priorRes *resolver.Result
	if o.prior != "" {
		prior, err := balanta.Load(o.prior)
		if err != nil {
			return err
		}
		priorRes = resolver.Resolve(t.Rows(), prior)
	}
	lines := report.Build(res, priorRes)

	dir := p.outputDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	base := o.name
	if base == "" {
		base = "bilant-" + t.Form
	}
	csvPath := filepath.Join(dir, base+".csv")
	if err := report.SaveCSV(csvPath, lines); err != nil {
		return err
	}
	written := []string{csvPath}
	if o.xlsx {
		xlsxPath := filepath.Join(dir, base+".xlsx")
		if err := report.SaveXLSX(xlsxPath, lines); err != nil {
			return err
		}
		written = append(written, xlsxPath)
	}

	fmt.Fprintf(out, "Form %s: %d rows from %d accounts -> %s\n", t.Form, len(lines), len(current), p.display(csvPath))
	printDiagnostics(out, res)

	if o.save {
		store, closeStore, err := p.openHistory()
		if err != nil {
			return err
		}
		defer closeStore()
		runID, err := store.SaveRun(history.Run{
			Form:         t.Form,
			Company:      p.cfg.Company.Name,
			Balanta:      p.display(o.balanta),
			PriorBalanta: displayOptional(p, o.prior),
			Template:     p.display(templatePath),
			Unmatched:    res.UnmatchedCount(),
		}, lines)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Saved run #%d\n", runID)
	}

	return p.record(runlog.Entry{
		Command: "generate",
		Form:    t.Form,
		Input:   p.display(o.balanta),
		Output:  p.display(csvPath),
		Rows:    len(lines),
	}, written...)
}

// loadTemplate picks the template file: the explicit path, else the
// configured form, else the first of F10L/F10S present in the templates dir.
func loadTemplate(p *project, path, form string) (*templates.Template, string, error) {
	if path != "" {
		t, err := templates.LoadFile(path, formFromPath(path))
		return t, path, err
	}
	if form == "" {
		form = p.cfg.Form.Type
	}
	form = strings.ToUpper(form)
	if form != "" && form != "AUTO" {
		t, err := templates.Load(p.templatesDir(), form)
		return t, templates.Path(p.templatesDir(), form), err
	}
	for _, f := range []string{xfa.FormLarge, xfa.FormSmall} {
		candidate := templates.Path(p.templatesDir(), f)
		if fileExists(candidate) {
			t, err := templates.LoadFile(candidate, f)
			return t, candidate, err
		}
	}
	return nil, "", fmt.Errorf("no template in %s (run bilant template extract)", p.templatesDir())
}

func printDiagnostics(out io.Writer, res *resolver.Result) {
	rows := make([]string, 0, len(res.Unmatched))
	for nrRd := range res.Unmatched {
		rows = append(rows, nrRd)
	}
	sort.Slice(rows, func(i, j int) bool { return id.Less(rows[i], rows[j]) })
	for _, nrRd := range rows {
		label := "rd. " + nrRd
		if nrRd == "" {
			label = "rows without rd."
		}
		fmt.Fprintf(out, "  %s: no accounts for %s\n", label, strings.Join(res.Unmatched[nrRd], ", "))
	}
	for _, fr := range res.ForwardRefs {
		fmt.Fprintf(out, "  rd. %s: reads rd. %s before it is computed (counted as 0)\n", fr.From, fr.To)
	}
}

func displayOptional(p *project, path string) string {
	if path == "" {
		return ""
	}
	return p.display(path)
}
