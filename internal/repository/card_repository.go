package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/brightsteps/records-api/internal/models"
)

// CardRepository manages persistence for custom cards.
type CardRepository struct {
	db *sqlx.DB
}

// NewCardRepository constructs a new card repository.
func NewCardRepository(db *sqlx.DB) *CardRepository {
	return &CardRepository{db: db}
}

// List returns all custom cards newest first.
func (r *CardRepository) List(ctx context.Context) ([]models.CustomCard, error) {
	const query = `SELECT id, name, image_data, created_at FROM custom_cards ORDER BY created_at DESC`
	var cards []models.CustomCard
	if err := r.db.SelectContext(ctx, &cards, query); err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	return cards, nil
}

// Create persists a custom card.
func (r *CardRepository) Create(ctx context.Context, card *models.CustomCard) error {
	if card.ID == "" {
		card.ID = uuid.NewString()
	}
	if card.CreatedAt.IsZero() {
		card.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO custom_cards (id, name, image_data, created_at) VALUES (:id, :name, :image_data, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, card); err != nil {
		return fmt.Errorf("create card: %w", err)
	}
	return nil
}

// Delete removes a custom card. A missing row surfaces as sql.ErrNoRows.
func (r *CardRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM custom_cards WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete card: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete card result: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
