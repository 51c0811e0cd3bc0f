package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const FinancialRecordsSchema = `
	CREATE TABLE IF NOT EXISTS financial_records (
		org_id VARCHAR NOT NULL,
		year INTEGER NOT NULL,
		turnover DOUBLE NOT NULL,
		surplus_deficit DOUBLE NOT NULL,
		income_breakdown JSON,
		PRIMARY KEY (org_id, year)
	);
`

const RankRunsSchema = `
	CREATE TABLE IF NOT EXISTS rank_runs (
		id VARCHAR PRIMARY KEY,
		generated_at TIMESTAMP NOT NULL,
		rejected_records INTEGER NOT NULL
	);
`

// NULL metric columns carry the undefined marker through persistence;
// they are never collapsed to zero.
const RankedResultsSchema = `
	CREATE TABLE IF NOT EXISTS ranked_results (
		run_id VARCHAR NOT NULL,
		org_id VARCHAR NOT NULL,
		band VARCHAR NOT NULL,
		band_ordinal INTEGER NOT NULL,
		rank_position INTEGER NOT NULL,
		composite DOUBLE NOT NULL,
		growth DOUBLE,
		balance DOUBLE,
		stability DOUBLE,
		growth_score DOUBLE,
		balance_score DOUBLE,
		stability_score DOUBLE,
		growth_benchmark DOUBLE,
		balance_benchmark DOUBLE,
		stability_benchmark DOUBLE,
		PRIMARY KEY (run_id, org_id)
	);
`

var bootQueries = []string{
	FinancialRecordsSchema,
	RankRunsSchema,
	RankedResultsSchema,
}

type Settings struct {
	DbPath string
}

func NewDB(settings Settings) (*sql.DB, error) {
	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=4", settings.DbPath), func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(c)
	return db, nil
}

type txKey struct{}

// WithTransaction makes tx available to stores further down the call chain.
func WithTransaction(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

func GetTransaction(ctx context.Context) *sql.Tx {
	tx, _ := ctx.Value(txKey{}).(*sql.Tx)
	return tx
}
