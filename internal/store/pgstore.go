package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gridstore/internal/core"
)

// PGStore persists sheet grids in PostgreSQL. Each grid row is one table
// row with its cells as a JSON array, keyed by (sheet, physical row number).
// Every applied mutation batch is recorded in a mutation log for audit.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore creates a Postgres-backed store on the given pool.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

// Migrate creates the store's tables if they do not exist.
func (p *PGStore) Migrate(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS sheets (
    name       TEXT PRIMARY KEY,
    layout     JSONB NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS sheet_rows (
    sheet_name TEXT NOT NULL REFERENCES sheets(name) ON DELETE CASCADE,
    row_num    INTEGER NOT NULL CHECK (row_num >= 1),
    cells      JSONB NOT NULL,
    PRIMARY KEY (sheet_name, row_num)
);

CREATE TABLE IF NOT EXISTS mutation_log (
    id         UUID PRIMARY KEY,
    sheet_name TEXT NOT NULL,
    appended   INTEGER NOT NULL,
    updated    INTEGER NOT NULL,
    deleted    INTEGER NOT NULL,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_mutation_log_sheet
    ON mutation_log (sheet_name, applied_at DESC);
`
	if _, err := p.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("migrate sheet store: %w", err)
	}
	return nil
}

// FetchRows returns the sheet's grid in physical row order.
func (p *PGStore) FetchRows(ctx context.Context, sheet string) ([][]core.Cell, error) {
	var exists bool
	err := p.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM sheets WHERE name = $1)`, sheet,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check sheet %s: %w", sheet, err)
	}
	if !exists {
		return nil, ErrSheetNotFound
	}

	rows, err := p.pool.Query(ctx,
		`SELECT cells FROM sheet_rows WHERE sheet_name = $1 ORDER BY row_num`, sheet,
	)
	if err != nil {
		return nil, fmt.Errorf("fetch rows for %s: %w", sheet, err)
	}
	defer rows.Close()

	var grid [][]core.Cell
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan row for %s: %w", sheet, err)
		}
		var cells []core.Cell
		if err := json.Unmarshal(raw, &cells); err != nil {
			return nil, fmt.Errorf("decode row for %s: %w", sheet, err)
		}
		grid = append(grid, cells)
	}
	return grid, rows.Err()
}

// Apply replays one mutation batch in a single transaction and records it
// in the mutation log. Row numbers are interpreted in the coordinates the
// sheet had when fetched; deletes arrive descending from the reconciler.
func (p *PGStore) Apply(ctx context.Context, sheet string, mut core.Mutation) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin apply for %s: %w", sheet, err)
	}
	defer tx.Rollback(ctx)

	if err := p.applyTx(ctx, tx, sheet, mut); err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO mutation_log (id, sheet_name, appended, updated, deleted)
		 VALUES ($1, $2, $3, $4, $5)`,
		uuid.New(), sheet, len(mut.Appends), len(mut.Updates), len(mut.Deletes),
	)
	if err != nil {
		return fmt.Errorf("log mutation for %s: %w", sheet, err)
	}

	return tx.Commit(ctx)
}

func (p *PGStore) applyTx(ctx context.Context, tx pgx.Tx, sheet string, mut core.Mutation) error {
	// Updates first: in-place patches cannot shift row numbers.
	for rowNum, cells := range mut.Updates {
		raw, err := json.Marshal(cells)
		if err != nil {
			return fmt.Errorf("encode update row %d: %w", rowNum, err)
		}
		tag, err := tx.Exec(ctx,
			`UPDATE sheet_rows SET cells = $3 WHERE sheet_name = $1 AND row_num = $2`,
			sheet, rowNum, raw,
		)
		if err != nil {
			return fmt.Errorf("update row %d of %s: %w", rowNum, sheet, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("update row %d of %s: row does not exist", rowNum, sheet)
		}
	}

	// Deletes high-to-low; renumber the tail after each removal so the
	// stored row numbers stay dense.
	for _, rowNum := range mut.Deletes {
		tag, err := tx.Exec(ctx,
			`DELETE FROM sheet_rows WHERE sheet_name = $1 AND row_num = $2`,
			sheet, rowNum,
		)
		if err != nil {
			return fmt.Errorf("delete row %d of %s: %w", rowNum, sheet, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("delete row %d of %s: row does not exist", rowNum, sheet)
		}
		_, err = tx.Exec(ctx,
			`UPDATE sheet_rows SET row_num = row_num - 1
			 WHERE sheet_name = $1 AND row_num > $2`,
			sheet, rowNum,
		)
		if err != nil {
			return fmt.Errorf("renumber rows of %s: %w", sheet, err)
		}
	}

	// Appends land after the current last row.
	for _, cells := range mut.Appends {
		raw, err := json.Marshal(cells)
		if err != nil {
			return fmt.Errorf("encode append row: %w", err)
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO sheet_rows (sheet_name, row_num, cells)
			 SELECT $1, COALESCE(MAX(row_num), 0) + 1, $2
			 FROM sheet_rows WHERE sheet_name = $1`,
			sheet, raw,
		)
		if err != nil {
			return fmt.Errorf("append row to %s: %w", sheet, err)
		}
	}

	return nil
}

// Create provisions a new sheet: the layout is stored for inspection and
// the header row becomes physical row one.
func (p *PGStore) Create(ctx context.Context, layout core.SheetLayout) error {
	rawLayout, err := json.Marshal(layout)
	if err != nil {
		return fmt.Errorf("encode layout for %s: %w", layout.Name, err)
	}

	header := make([]core.Cell, len(layout.Columns))
	for i, col := range layout.Columns {
		header[i] = col.Header
	}
	rawHeader, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("encode header for %s: %w", layout.Name, err)
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create for %s: %w", layout.Name, err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`INSERT INTO sheets (name, layout) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`,
		layout.Name, rawLayout,
	)
	if err != nil {
		return fmt.Errorf("create sheet %s: %w", layout.Name, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSheetExists
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO sheet_rows (sheet_name, row_num, cells) VALUES ($1, 1, $2)`,
		layout.Name, rawHeader,
	)
	if err != nil {
		return fmt.Errorf("write header for %s: %w", layout.Name, err)
	}

	return tx.Commit(ctx)
}

// MutationLogEntry is one audit record of an applied batch.
type MutationLogEntry struct {
	ID        string `json:"id"`
	SheetName string `json:"sheetName"`
	Appended  int    `json:"appended"`
	Updated   int    `json:"updated"`
	Deleted   int    `json:"deleted"`
	AppliedAt string `json:"appliedAt"`
}

// MutationLog returns the most recent applied batches for a sheet, newest
// first, up to limit entries.
func (p *PGStore) MutationLog(ctx context.Context, sheet string, limit int) ([]MutationLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := p.pool.Query(ctx,
		`SELECT id, sheet_name, appended, updated, deleted, applied_at::text
		 FROM mutation_log WHERE sheet_name = $1
		 ORDER BY applied_at DESC LIMIT $2`,
		sheet, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query mutation log for %s: %w", sheet, err)
	}
	defer rows.Close()

	var entries []MutationLogEntry
	for rows.Next() {
		var e MutationLogEntry
		if err := rows.Scan(&e.ID, &e.SheetName, &e.Appended, &e.Updated, &e.Deleted, &e.AppliedAt); err != nil {
			return nil, fmt.Errorf("scan mutation log entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
