// Package templates persists Bilant templates and checks them for mistakes
// that would silently change computed values.
package templates

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cleared-dev/bilant/internal/id"
	"github.com/cleared-dev/bilant/internal/model"
)

// Template is an ordered set of rows for one form type.
type Template struct {
	Form string
	rows []model.TemplateRow
	byID map[string]model.TemplateRow
}

// New creates a Template. Rows are kept in SortOrder.
func New(form string, rows []model.TemplateRow) *Template {
	ordered := append([]model.TemplateRow(nil), rows...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].SortOrder < ordered[j].SortOrder })

	byID := make(map[string]model.TemplateRow, len(ordered))
	for _, r := range ordered {
		if r.NrRd == "" {
			continue
		}
		key := id.Normalize(r.NrRd)
		if _, dup := byID[key]; !dup {
			byID[key] = r
		}
	}
	return &Template{Form: form, rows: ordered, byID: byID}
}

// Rows returns all rows in evaluation order.
func (t *Template) Rows() []model.TemplateRow {
	return t.rows
}

// Get returns the first row with the given id.
func (t *Template) Get(nrRd string) (model.TemplateRow, bool) {
	r, ok := t.byID[id.Normalize(nrRd)]
	return r, ok
}

// Exists reports whether a row id is defined.
func (t *Template) Exists(nrRd string) bool {
	_, ok := t.byID[id.Normalize(nrRd)]
	return ok
}

// ByType returns all rows of the given type.
func (t *Template) ByType(rowType model.RowType) []model.TemplateRow {
	var result []model.TemplateRow
	for _, r := range t.rows {
		if r.RowType == rowType {
			result = append(result, r)
		}
	}
	return result
}

// Path returns the template file of form under dir: <dir>/<FORM>.csv.
func Path(dir, form string) string {
	return filepath.Join(dir, strings.ToUpper(form)+".csv")
}

// Load reads the template of form from dir.
func Load(dir, form string) (*Template, error) {
	return LoadFile(Path(dir, form), form)
}

// LoadFile reads a template CSV from an explicit path.
func LoadFile(path, form string) (*Template, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening template: %w", err)
	}
	defer f.Close()

	rows, err := ReadRows(f)
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", path, err)
	}
	if form == "" {
		form = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return New(form, rows), nil
}

// Save writes the template to <dir>/<FORM>.csv and returns the path.
func (t *Template) Save(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating templates dir: %w", err)
	}
	path := Path(dir, t.Form)
	return path, t.SaveFile(path)
}

// SaveFile writes the template CSV to path.
func (t *Template) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating template file: %w", err)
	}
	defer f.Close()

	if err := WriteRows(f, t.rows); err != nil {
		return fmt.Errorf("writing template: %w", err)
	}
	return nil
}
