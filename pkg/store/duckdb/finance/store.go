package finance

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/de-tools/ngo-atlas/pkg/models/store"
	"github.com/de-tools/ngo-atlas/pkg/store/duckdb"
)

// Store persists financial records and ranking runs in DuckDB. Write methods
// participate in a caller transaction when one is bound to the context.
type Store interface {
	SaveRecords(ctx context.Context, records []store.FinancialRecord) error
	GetRecords(ctx context.Context) ([]store.FinancialRecord, error)
	SaveRun(ctx context.Context, meta store.RankRunMeta, rows []store.RankedRow) error
	GetLatestRun(ctx context.Context) (*store.RankRunMeta, []store.RankedRow, error)
}

type financeStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &financeStore{db: db}, nil
}

type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (f *financeStore) executor(ctx context.Context) executor {
	if tx := duckdb.GetTransaction(ctx); tx != nil {
		return tx
	}
	return f.db
}

func (f *financeStore) SaveRecords(ctx context.Context, records []store.FinancialRecord) error {
	if len(records) == 0 {
		return nil
	}

	exec := f.executor(ctx)
	query := `
		INSERT OR REPLACE INTO financial_records (
			org_id, year, turnover, surplus_deficit, income_breakdown
		) VALUES (?, ?, ?, ?, ?)`

	for _, r := range records {
		var breakdown any
		if r.IncomeBreakdown != nil {
			encoded, err := json.Marshal(r.IncomeBreakdown)
			if err != nil {
				return fmt.Errorf("failed to encode income breakdown for %s/%d: %w", r.OrgID, r.Year, err)
			}
			breakdown = string(encoded)
		}

		_, err := exec.ExecContext(ctx, query, r.OrgID, r.Year, r.Turnover, r.SurplusDeficit, breakdown)
		if err != nil {
			return fmt.Errorf("failed to insert financial record %s/%d: %w", r.OrgID, r.Year, err)
		}
	}
	return nil
}

func (f *financeStore) GetRecords(ctx context.Context) ([]store.FinancialRecord, error) {
	query := `
		SELECT org_id, year, turnover, surplus_deficit, income_breakdown::VARCHAR
		FROM financial_records
		ORDER BY org_id, year`

	rows, err := f.executor(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query financial records: %w", err)
	}
	defer rows.Close()

	var records []store.FinancialRecord
	for rows.Next() {
		var r store.FinancialRecord
		var breakdown sql.NullString
		if err := rows.Scan(&r.OrgID, &r.Year, &r.Turnover, &r.SurplusDeficit, &breakdown); err != nil {
			return nil, fmt.Errorf("failed to scan financial record: %w", err)
		}
		if breakdown.Valid {
			if err := json.Unmarshal([]byte(breakdown.String), &r.IncomeBreakdown); err != nil {
				return nil, fmt.Errorf("failed to decode income breakdown for %s/%d: %w", r.OrgID, r.Year, err)
			}
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (f *financeStore) SaveRun(ctx context.Context, meta store.RankRunMeta, results []store.RankedRow) error {
	exec := f.executor(ctx)

	_, err := exec.ExecContext(ctx,
		`INSERT INTO rank_runs (id, generated_at, rejected_records) VALUES (?, ?, ?)`,
		meta.ID, meta.GeneratedAt, meta.RejectedRecords)
	if err != nil {
		return fmt.Errorf("failed to insert rank run %s: %w", meta.ID, err)
	}

	query := `
		INSERT INTO ranked_results (
			run_id, org_id, band, band_ordinal, rank_position, composite,
			growth, balance, stability,
			growth_score, balance_score, stability_score,
			growth_benchmark, balance_benchmark, stability_benchmark
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	for _, row := range results {
		_, err := exec.ExecContext(ctx, query,
			meta.ID, row.OrgID, row.Band, row.BandOrdinal, row.Rank, row.Composite,
			row.Growth, row.Balance, row.Stability,
			row.GrowthScore, row.BalanceScore, row.StabilityScore,
			row.GrowthBenchmark, row.BalanceBenchmark, row.StabilityBenchmark)
		if err != nil {
			return fmt.Errorf("failed to insert ranked result %s/%s: %w", meta.ID, row.OrgID, err)
		}
	}
	return nil
}

func (f *financeStore) GetLatestRun(ctx context.Context) (*store.RankRunMeta, []store.RankedRow, error) {
	exec := f.executor(ctx)

	var meta store.RankRunMeta
	err := exec.QueryRowContext(ctx,
		`SELECT id, generated_at, rejected_records FROM rank_runs ORDER BY generated_at DESC, id DESC LIMIT 1`,
	).Scan(&meta.ID, &meta.GeneratedAt, &meta.RejectedRecords)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query latest rank run: %w", err)
	}

	query := `
		SELECT run_id, org_id, band, band_ordinal, rank_position, composite,
			growth, balance, stability,
			growth_score, balance_score, stability_score,
			growth_benchmark, balance_benchmark, stability_benchmark
		FROM ranked_results
		WHERE run_id = ?
		ORDER BY band_ordinal, rank_position`

	rows, err := exec.QueryContext(ctx, query, meta.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query ranked results for run %s: %w", meta.ID, err)
	}
	defer rows.Close()

	var results []store.RankedRow
	for rows.Next() {
		var row store.RankedRow
		err := rows.Scan(&row.RunID, &row.OrgID, &row.Band, &row.BandOrdinal, &row.Rank, &row.Composite,
			&row.Growth, &row.Balance, &row.Stability,
			&row.GrowthScore, &row.BalanceScore, &row.StabilityScore,
			&row.GrowthBenchmark, &row.BalanceBenchmark, &row.StabilityBenchmark)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan ranked result: %w", err)
		}
		results = append(results, row)
	}
	return &meta, results, rows.Err()
}
