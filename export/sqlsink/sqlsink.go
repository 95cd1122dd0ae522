package sqlsink

import (
	"context"
	"fmt"

	"github.com/abhimishr/gcam-core/export"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS policy_costs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	scenario TEXT NOT NULL,
	region TEXT NOT NULL,
	category TEXT NOT NULL,
	variable TEXT NOT NULL,
	label TEXT NOT NULL,
	units TEXT NOT NULL,
	period INTEGER NOT NULL,
	value TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_policy_costs_scenario ON policy_costs(scenario);
`

// Value is one stored cell of a cost row.
type Value struct {
	Scenario string `db:"scenario"`
	Region   string `db:"region"`
	Category string `db:"category"`
	Variable string `db:"variable"`
	Label    string `db:"label"`
	Units    string `db:"units"`
	Period   int    `db:"period"`
	Value    string `db:"value"`
}

func (v Value) Decimal() (decimal.Decimal, error) {
	return decimal.NewFromString(v.Value)
}

// Sink keeps cost rows in SQLite, one record per region, variable and period.
type Sink struct {
	conn *sqlx.DB
}

func Open(path string) (*Sink, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if _, err = conn.Exec(schema); err != nil {
		_ = conn.Close()

		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Sink{conn: conn}, nil
}

func (s *Sink) Close() error {
	return s.conn.Close()
}

// WriteRows replaces everything stored for the scenario.
func (s *Sink) WriteRows(ctx context.Context, scenario string, rows []export.Row) error {
	tx, err := s.conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM policy_costs WHERE scenario = ?", scenario); err != nil {
		return err
	}

	for _, row := range rows {
		for period, v := range row.Values {
			_, err = tx.NamedExecContext(ctx, `INSERT INTO policy_costs
				(scenario, region, category, variable, label, units, period, value)
				VALUES (:scenario, :region, :category, :variable, :label, :units, :period, :value)`,
				Value{
					Scenario: scenario,
					Region:   row.Region,
					Category: row.Category,
					Variable: row.Variable,
					Label:    row.Label,
					Units:    row.Units,
					Period:   period,
					Value:    v.String(),
				})
			if err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

func (s *Sink) Values(ctx context.Context, scenario string) (values []Value, err error) {
	err = s.conn.SelectContext(ctx, &values, `SELECT scenario, region, category, variable, label, units, period, value
		FROM policy_costs WHERE scenario = ? ORDER BY id`, scenario)

	return
}
