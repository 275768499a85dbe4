package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/PJhaveri02/Booking-Service/internal/model"
)

type PerformerRepo struct{ DB *sqlx.DB }

func NewPerformerRepo(db *sqlx.DB) *PerformerRepo { return &PerformerRepo{DB: db} }

func (r *PerformerRepo) List(ctx context.Context) ([]model.Performer, error) {
	out := []model.Performer{}
	err := r.DB.SelectContext(ctx, &out, "SELECT id, name, image_name, genre, blurb FROM performers ORDER BY id")
	return out, err
}

// GetByID returns one performer or ErrNotFound.
func (r *PerformerRepo) GetByID(ctx context.Context, id uint64) (*model.Performer, error) {
	var p model.Performer
	err := r.DB.GetContext(ctx, &p, "SELECT id, name, image_name, genre, blurb FROM performers WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
