package commands_test

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/bilant/internal/commands"
	"github.com/cleared-dev/bilant/internal/report"
	"github.com/cleared-dev/bilant/internal/runlog"
	"github.com/cleared-dev/bilant/internal/templates"
	"github.com/cleared-dev/bilant/internal/xfa/xfatest"
)

func runBilant(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := commands.NewRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// newProject initializes a project without git and adds a form PDF and a
// trial balance.
func newProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	out, err := runBilant(t, "init", dir, "--name", "Exemplu SRL", "--no-git")
	require.NoError(t, err, out)

	pdf := xfatest.BuildPDF(xfatest.TemplateXML, xfatest.DatasetsXML, true)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "forms", "s1002.pdf"), pdf, 0o644))

	balanta := "Cont;Debit;Credit\n201;1.000,00;0\n2801;0;250,50\n211;500;0\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "balante", "2024.csv"), []byte(balanta), 0o644))
	return dir
}

func TestInit_CreatesStructure(t *testing.T) {
	dir := newProject(t)

	for _, d := range []string{"templates", "output", "balante", "forms", "logs"} {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir(), "%s should be a directory", d)
	}

	data, err := os.ReadFile(filepath.Join(dir, "bilant.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "name: Exemplu SRL")
	assert.Contains(t, string(data), "auto_commit: false")

	gitignore, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Contains(t, string(gitignore), ".bilant/")

	_, err = os.Stat(filepath.Join(dir, ".git"))
	assert.True(t, os.IsNotExist(err), "--no-git should not create a repository")

	entries, err := runlog.Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "init", entries[0].Command)
}

func TestInit_GitRepo(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	out, err := runBilant(t, "init", dir, "--name", "Exemplu SRL")
	require.NoError(t, err, out)

	log := exec.Command("git", "log", "--format=%s|%an", "-1")
	log.Dir = dir
	got, err := log.Output()
	require.NoError(t, err)
	assert.Contains(t, string(got), "init: Initialize Exemplu SRL|Bilant")
}

func TestInit_RequiresName(t *testing.T) {
	_, err := runBilant(t, "init", t.TempDir())
	require.Error(t, err, "init without --name should fail")
}

func TestGenerate_RequiresProject(t *testing.T) {
	_, err := runBilant(t, "generate", "b.csv", "--repo", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a bilant project")
}

func TestPipeline(t *testing.T) {
	dir := newProject(t)
	pdf := filepath.Join(dir, "forms", "s1002.pdf")

	out, err := runBilant(t, "template", "extract", pdf, "--repo", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Form F10L: 4 rows (2 data, 1 total, 1 section)")
	_, err = os.Stat(filepath.Join(dir, "templates", "F10L.csv"))
	require.NoError(t, err)

	out, err = runBilant(t, "template", "check", "--repo", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "0 problems")

	out, err = runBilant(t, "generate", filepath.Join(dir, "balante", "2024.csv"), "--repo", dir, "--save", "--xlsx")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Form F10L: 4 rows from 3 accounts")
	assert.Contains(t, out, "rd. 01: no accounts for 203")
	assert.Contains(t, out, "Saved run #1")

	resultsPath := filepath.Join(dir, "output", "bilant-F10L.csv")
	lines, err := report.LoadCSV(resultsPath)
	require.NoError(t, err)
	require.Len(t, lines, 4)
	assert.Equal(t, "749.50", lines[1].Current.StringFixed(2))
	assert.Equal(t, "1249.50", lines[3].Current.StringFixed(2))
	_, err = os.Stat(filepath.Join(dir, "output", "bilant-F10L.xlsx"))
	require.NoError(t, err)

	out, err = runBilant(t, "history", "--repo", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "F10L")

	out, err = runBilant(t, "history", "--repo", dir, "--run", "1")
	require.NoError(t, err, out)
	assert.Contains(t, out, "1249.50")

	filled := filepath.Join(dir, "output", "bilant.pdf")
	out, err = runBilant(t, "fill", "--repo", dir, "--results", resultsPath, "--template-pdf", pdf, "--out", filled)
	require.NoError(t, err, out)
	assert.Contains(t, out, "filled 3 current and 0 prior values")

	out, err = runBilant(t, "read", filled)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Form F10L")
	assert.Contains(t, out, "750")
	assert.Contains(t, out, "1250")

	out, err = runBilant(t, "read", filled, "--packets")
	require.NoError(t, err, out)
	assert.Contains(t, out, "template")
	assert.Contains(t, out, "datasets")

	out, err = runBilant(t, "fill", "--repo", dir, "--run", "1", "--template-pdf", pdf, "--out", filled)
	require.NoError(t, err, out)

	out, err = runBilant(t, "history", "--repo", dir, "--delete", "1")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Deleted run #1")
	_, err = runBilant(t, "history", "--repo", dir, "--run", "1")
	require.Error(t, err)

	entries, err := runlog.Read(dir)
	require.NoError(t, err)
	var cmds []string
	for _, e := range entries {
		cmds = append(cmds, e.Command)
	}
	assert.Equal(t, []string{"init", "template extract", "generate", "fill", "fill", "history delete"}, cmds)
}

func TestTemplateImport(t *testing.T) {
	dir := newProject(t)

	wb := excelize.NewFile()
	defer wb.Close()
	rows := [][]any{
		{"Denumirea elementului", "Nr. rd."},
		{"Cheltuieli de constituire (ct.201)", "36"},
		{"Terenuri (ct.211)", "37"},
		{"TOTAL (rd. 35a+37)", "38"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, wb.SetSheetRow("Sheet1", cell, &row))
	}
	xlsxPath := filepath.Join(dir, "forms", "template.xlsx")
	require.NoError(t, wb.SaveAs(xlsxPath))

	out, err := runBilant(t, "template", "import", xlsxPath, "--form", "f10s", "--repo", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Form F10S: 3 rows imported")

	tmpl, err := templates.Load(filepath.Join(dir, "templates"), "F10S")
	require.NoError(t, err)
	total, ok := tmpl.Get("38")
	require.True(t, ok)
	assert.Equal(t, "36+37", total.FormulaRD)

	out, err = runBilant(t, "generate", filepath.Join(dir, "balante", "2024.csv"), "--repo", dir, "--form", "F10S")
	require.NoError(t, err, out)
	lines, err := report.LoadCSV(filepath.Join(dir, "output", "bilant-F10S.csv"))
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Equal(t, "1500.00", lines[2].Current.StringFixed(2))
}

func TestTemplateImport_UnknownForm(t *testing.T) {
	dir := newProject(t)
	_, err := runBilant(t, "template", "import", "x.xlsx", "--form", "F20", "--repo", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown form")
}

func TestFill_RequiresOneSource(t *testing.T) {
	dir := newProject(t)
	_, err := runBilant(t, "fill", "--repo", dir, "--out", filepath.Join(dir, "x.pdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one of --results or --run")
}

func TestRead_NoXFA(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.pdf")
	require.NoError(t, os.WriteFile(path, xfatest.BuildPDF("", "", false), 0o644))
	_, err := runBilant(t, "read", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AcroForm")
}
