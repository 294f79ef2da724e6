package assistant

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jharkhand-yatra/tourassist/internal/app/models"
)

// Repository persists one record per chat turn for offline analysis of
// provider quality. Only the winning provider, its score and the prompt
// hash are stored; raw prompts never leave the request.
type Repository interface {
	SaveInteraction(ctx context.Context, interaction models.AssistantInteraction) (uuid.UUID, error)
}

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) SaveInteraction(ctx context.Context, interaction models.AssistantInteraction) (uuid.UUID, error) {
	id := uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO assistant_interactions
			(id, prompt_hash, language, provider, confidence, score, latency_ms, fallback, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())`,
		id,
		interaction.PromptHash,
		interaction.Language,
		interaction.Provider,
		interaction.Confidence,
		interaction.Score,
		interaction.LatencyMs,
		interaction.Fallback,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("save assistant interaction: %w", err)
	}
	return id, nil
}
