package history

// Schema creates the history tables. Amounts are stored as decimal text.
const Schema = `
CREATE TABLE IF NOT EXISTS runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at TIMESTAMP NOT NULL,
    form TEXT NOT NULL,              -- F10L or F10S
    company TEXT NOT NULL DEFAULT '',
    balanta TEXT NOT NULL,           -- current period trial balance file
    prior_balanta TEXT NOT NULL DEFAULT '',
    template TEXT NOT NULL,          -- template CSV used
    row_count INTEGER NOT NULL,
    unmatched INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_runs_form ON runs(form, created_at);

CREATE TABLE IF NOT EXISTS run_lines (
    run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    line_no INTEGER NOT NULL,
    sort_order INTEGER NOT NULL,
    nr_rd TEXT NOT NULL,
    description TEXT NOT NULL,
    row_type TEXT NOT NULL,
    is_bold INTEGER NOT NULL,
    indent_level INTEGER NOT NULL,
    current TEXT NOT NULL,
    prior TEXT,                      -- NULL when no prior period was computed
    trace TEXT NOT NULL,
    PRIMARY KEY (run_id, line_no)
);
`
