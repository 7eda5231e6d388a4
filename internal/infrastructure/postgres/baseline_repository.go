package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/varshiniml7/predictive-maintenance/internal/domain/model"
	"github.com/varshiniml7/predictive-maintenance/internal/domain/port"
	pgutil "github.com/varshiniml7/predictive-maintenance/pkg/postgres"
)

// BaselineRepository stores learned feature statistics in PostgreSQL. It
// implements port.BaselineSource so the service can load its baseline from
// the database instead of a JSON file.
type BaselineRepository struct {
	pool *pgxpool.Pool
}

// NewBaselineRepository creates a new PostgreSQL-backed baseline repository.
func NewBaselineRepository(pool *pgxpool.Pool) *BaselineRepository {
	return &BaselineRepository{pool: pool}
}

// Name identifies the source without exposing connection credentials.
func (r *BaselineRepository) Name() string {
	return "postgres:feature_baselines"
}

// Fetch reads every stored feature row into a statistics document.
func (r *BaselineRepository) Fetch(ctx context.Context) (port.StatisticsDocument, error) {
	return r.FetchWith(ctx, r.pool)
}

// FetchWith is Fetch on an explicit pool or transaction.
func (r *BaselineRepository) FetchWith(ctx context.Context, q pgutil.Querier) (port.StatisticsDocument, error) {
	query := `
		SELECT feature, mean, std, min_value, max_value
		FROM feature_baselines
		ORDER BY position, feature
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query feature baselines: %w", err)
	}
	defer rows.Close()

	doc := make(port.StatisticsDocument)
	for rows.Next() {
		var (
			feature             string
			mean, std, min, max float64
		)
		if err := rows.Scan(&feature, &mean, &std, &min, &max); err != nil {
			return nil, fmt.Errorf("failed to scan feature baseline: %w", err)
		}
		doc[feature] = port.StatisticsEntry{Mean: &mean, Std: &std, Min: &min, Max: &max}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate feature baselines: %w", err)
	}

	return doc, nil
}

const upsertBaseline = `
	INSERT INTO feature_baselines (feature, mean, std, min_value, max_value, position, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (feature) DO UPDATE SET
		mean = EXCLUDED.mean,
		std = EXCLUDED.std,
		min_value = EXCLUDED.min_value,
		max_value = EXCLUDED.max_value,
		position = EXCLUDED.position,
		updated_at = EXCLUDED.updated_at
`

// Save upserts the statistics of every feature in a single transaction. The
// position column keeps the order of features.
func (r *BaselineRepository) Save(ctx context.Context, features []string, stats map[string]model.FeatureStatistics) error {
	for _, f := range features {
		if _, ok := stats[f]; !ok {
			return fmt.Errorf("%w: %s", model.ErrFeatureMissing, f)
		}
	}

	return pgutil.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		return saveRows(ctx, tx, features, stats, time.Now().UTC())
	})
}

func saveRows(ctx context.Context, q pgutil.Querier, features []string, stats map[string]model.FeatureStatistics, now time.Time) error {
	for i, f := range features {
		s := stats[f]
		if _, err := q.Exec(ctx, upsertBaseline, f, s.Mean, s.Std, s.Min, s.Max, i, now); err != nil {
			return fmt.Errorf("failed to save baseline for %s: %w", f, err)
		}
	}
	return nil
}
