package history

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/bilant/internal/model"
	"github.com/cleared-dev/bilant/internal/report"
)

// ErrRunNotFound is returned for an unknown run id.
var ErrRunNotFound = errors.New("run not found")

// Run describes one saved generation.
type Run struct {
	ID           int64
	CreatedAt    time.Time
	Form         string
	Company      string
	Balanta      string
	PriorBalanta string
	Template     string
	RowCount     int
	Unmatched    int
}

// Store reads and writes runs.
type Store struct {
	conn *Connection
}

// NewStore creates a Store over an open connection.
func NewStore(conn *Connection) *Store {
	return &Store{conn: conn}
}

// SaveRun inserts run and its lines in one transaction and returns the new
// run id. RowCount is taken from lines; a zero CreatedAt is set to now.
func (s *Store) SaveRun(run Run, lines []report.Line) (int64, error) {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	var runID int64
	err := s.conn.Transaction(func(tx *sql.Tx) error {
		res, err := tx.Exec(`
			INSERT INTO runs (created_at, form, company, balanta, prior_balanta, template, row_count, unmatched)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			run.CreatedAt.UTC(), run.Form, run.Company, run.Balanta, run.PriorBalanta, run.Template, len(lines), run.Unmatched)
		if err != nil {
			return fmt.Errorf("inserting run: %w", err)
		}
		if runID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("reading run id: %w", err)
		}

		stmt, err := tx.Prepare(`
			INSERT INTO run_lines (run_id, line_no, sort_order, nr_rd, description, row_type, is_bold, indent_level, current, prior, trace)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("preparing line insert: %w", err)
		}
		defer stmt.Close()

		for i, l := range lines {
			prior := decimal.NullDecimal{Decimal: l.Prior, Valid: l.HasPrior}
			if _, err := stmt.Exec(runID, i, l.SortOrder, l.NrRd, l.Description, string(l.RowType),
				l.IsBold, l.IndentLevel, l.Current, prior, l.Trace); err != nil {
				return fmt.Errorf("inserting line %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return runID, nil
}

// ListRuns returns the most recent runs first. limit <= 0 returns all.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	query := `
		SELECT id, created_at, form, company, balanta, prior_balanta, template, row_count, unmatched
		FROM runs ORDER BY created_at DESC, id DESC`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.conn.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.Form, &r.Company, &r.Balanta, &r.PriorBalanta,
			&r.Template, &r.RowCount, &r.Unmatched); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun returns one run by id.
func (s *Store) GetRun(id int64) (*Run, error) {
	var r Run
	err := s.conn.db.QueryRow(`
		SELECT id, created_at, form, company, balanta, prior_balanta, template, row_count, unmatched
		FROM runs WHERE id = ?`, id).Scan(&r.ID, &r.CreatedAt, &r.Form, &r.Company, &r.Balanta,
		&r.PriorBalanta, &r.Template, &r.RowCount, &r.Unmatched)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %d: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting run %d: %w", id, err)
	}
	return &r, nil
}

// LoadResults returns the lines of a run in the order they were saved.
func (s *Store) LoadResults(runID int64) ([]report.Line, error) {
	if _, err := s.GetRun(runID); err != nil {
		return nil, err
	}
	rows, err := s.conn.db.Query(`
		SELECT sort_order, nr_rd, description, row_type, is_bold, indent_level, current, prior, trace
		FROM run_lines WHERE run_id = ? ORDER BY line_no`, runID)
	if err != nil {
		return nil, fmt.Errorf("loading run %d: %w", runID, err)
	}
	defer rows.Close()

	var lines []report.Line
	for rows.Next() {
		var l report.Line
		var rowType string
		var prior decimal.NullDecimal
		if err := rows.Scan(&l.SortOrder, &l.NrRd, &l.Description, &rowType, &l.IsBold, &l.IndentLevel,
			&l.Current, &prior, &l.Trace); err != nil {
			return nil, fmt.Errorf("scanning line: %w", err)
		}
		l.RowType = model.RowType(rowType)
		l.Prior, l.HasPrior = prior.Decimal, prior.Valid
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// DeleteRun removes a run and its lines.
func (s *Store) DeleteRun(runID int64) error {
	res, err := s.conn.db.Exec(`DELETE FROM runs WHERE id = ?`, runID)
	if err != nil {
		return fmt.Errorf("deleting run %d: %w", runID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("run %d: %w", runID, ErrRunNotFound)
	}
	return nil
}
