package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/bilant/internal/model"
	"github.com/cleared-dev/bilant/internal/runlog"
	"github.com/cleared-dev/bilant/internal/templates"
	"github.com/cleared-dev/bilant/internal/xfa"
)

func newTemplateCommand(repoDir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Balance sheet row templates",
	}
	cmd.AddCommand(newTemplateExtractCommand(repoDir))
	cmd.AddCommand(newTemplateImportCommand(repoDir))
	cmd.AddCommand(newTemplateCheckCommand(repoDir))
	return cmd
}

func newTemplateExtractCommand(repoDir *string) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "extract <pdf>",
		Short: "Extract the row template from an XFA form PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(*repoDir, outPath == "")
			if err != nil {
				return err
			}
			return runTemplateExtract(cmd.OutOrStdout(), p, args[0], outPath)
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "", "template CSV to write (default <templates>/<FORM>.csv)")
	return cmd
}

func runTemplateExtract(out io.Writer, p *project, pdfPath, outPath string) error {
	doc, err := xfa.OpenFile(pdfPath)
	if err != nil {
		return err
	}
	ex, err := doc.ExtractTemplate()
	if err != nil {
		return err
	}

	t := templates.New(ex.Form, ex.Rows)
	if outPath == "" {
		outPath, err = t.Save(p.templatesDir())
		if err != nil {
			return err
		}
	} else if err := t.SaveFile(outPath); err != nil {
		return err
	}

	fmt.Fprintf(out, "Form %s: %d rows (%d data, %d total, %d section) -> %s\n",
		ex.Form, len(ex.Rows), len(t.ByType(model.RowTypeData)), len(t.ByType(model.RowTypeTotal)),
		len(t.ByType(model.RowTypeSection)), p.display(outPath))
	printValidation(out, t.Validate())

	return p.record(runlog.Entry{
		Command: "template extract",
		Form:    ex.Form,
		Input:   p.display(pdfPath),
		Output:  p.display(outPath),
		Rows:    len(ex.Rows),
	}, outPath)
}

func newTemplateImportCommand(repoDir *string) *cobra.Command {
	var form, outPath string

	cmd := &cobra.Command{
		Use:   "import <xlsx>",
		Short: "Import a row template from a spreadsheet (description, nr_rd)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(*repoDir, outPath == "")
			if err != nil {
				return err
			}
			return runTemplateImport(cmd.OutOrStdout(), p, args[0], strings.ToUpper(form), outPath)
		},
	}
	cmd.Flags().StringVar(&form, "form", "", "form type of the template (F10L or F10S)")
	cmd.Flags().StringVar(&outPath, "out", "", "template CSV to write (default <templates>/<FORM>.csv)")
	_ = cmd.MarkFlagRequired("form")
	return cmd
}

func runTemplateImport(out io.Writer, p *project, xlsxPath, form, outPath string) error {
	if form != xfa.FormLarge && form != xfa.FormSmall {
		return fmt.Errorf("unknown form %q (want %s or %s)", form, xfa.FormLarge, xfa.FormSmall)
	}

	f, err := os.Open(xlsxPath)
	if err != nil {
		return fmt.Errorf("opening template workbook: %w", err)
	}
	defer f.Close()

	rows, err := templates.ImportXLSX(f)
	if err != nil {
		return err
	}

	t := templates.New(form, rows)
	if outPath == "" {
		outPath, err = t.Save(p.templatesDir())
		if err != nil {
			return err
		}
	} else if err := t.SaveFile(outPath); err != nil {
		return err
	}

	fmt.Fprintf(out, "Form %s: %d rows imported -> %s\n", form, len(rows), p.display(outPath))
	printValidation(out, t.Validate())

	return p.record(runlog.Entry{
		Command: "template import",
		Form:    form,
		Input:   p.display(xlsxPath),
		Output:  p.display(outPath),
		Rows:    len(rows),
	}, outPath)
}

func newTemplateCheckCommand(repoDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "check [file]",
		Short: "Validate template files (all templates when no file is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var files []string
			if len(args) > 0 {
				files = args
			} else {
				p, err := openProject(*repoDir, true)
				if err != nil {
					return err
				}
				files, err = filepath.Glob(filepath.Join(p.templatesDir(), "*.csv"))
				if err != nil {
					return err
				}
				if len(files) == 0 {
					return fmt.Errorf("no templates in %s", p.templatesDir())
				}
				sort.Strings(files)
			}
			return runTemplateCheck(cmd.OutOrStdout(), files)
		},
	}
}

func runTemplateCheck(out io.Writer, files []string) error {
	problems := 0
	for _, path := range files {
		t, err := templates.LoadFile(path, formFromPath(path))
		if err != nil {
			return err
		}
		errs := t.Validate()
		fmt.Fprintf(out, "%s: %d rows, %d problems\n", path, len(t.Rows()), len(errs))
		printValidation(out, errs)
		problems += len(errs)
	}
	if problems > 0 {
		return fmt.Errorf("%d template problems", problems)
	}
	return nil
}

func printValidation(out io.Writer, errs []templates.ValidationError) {
	for _, e := range errs {
		fmt.Fprintf(out, "  %s\n", e.Error())
	}
}

// formFromPath derives the form name from a template file name,
// "templates/F10L.csv" -> "F10L".
func formFromPath(path string) string {
	return strings.ToUpper(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
