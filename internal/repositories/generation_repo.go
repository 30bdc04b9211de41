package repositories

import (
	"context"
	"time"

	"github.com/ads-marketplace/adcopy/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type GenerationRepo struct {
	pool *pgxpool.Pool
}

func NewGenerationRepo(pool *pgxpool.Pool) *GenerationRepo {
	return &GenerationRepo{pool: pool}
}

func (r *GenerationRepo) Create(ctx context.Context, run *models.GenerationRun) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO generation_runs (id, subject, provider, model, platforms, succeeded, failed, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`, run.ID, run.Subject, run.Provider, run.Model, run.Platforms,
		run.Succeeded, run.Failed, run.DurationMS,
	).Scan(&run.CreatedAt)
}

type GenerationFilter struct {
	Subject string
	Limit   int
	Offset  int
}

func (r *GenerationRepo) List(ctx context.Context, f GenerationFilter) ([]models.GenerationRun, error) {
	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, subject, provider, model, platforms, succeeded, failed, duration_ms, created_at
		FROM generation_runs WHERE subject = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, f.Subject, limit, f.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []models.GenerationRun
	for rows.Next() {
		var run models.GenerationRun
		if err := rows.Scan(&run.ID, &run.Subject, &run.Provider, &run.Model, &run.Platforms,
			&run.Succeeded, &run.Failed, &run.DurationMS, &run.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// DeleteOlderThan removes runs created before now minus age and returns how
// many rows went away.
func (r *GenerationRepo) DeleteOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM generation_runs WHERE created_at < now() - ($1 || ' seconds')::interval
	`, int64(age.Seconds()))
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
