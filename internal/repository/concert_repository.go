package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/PJhaveri02/Booking-Service/internal/model"
)

// ConcertRepo reads concerts, their schedule and their performers.
type ConcertRepo struct{ DB *sqlx.DB }

func NewConcertRepo(db *sqlx.DB) *ConcertRepo { return &ConcertRepo{DB: db} }

// IsScheduled reports whether concertID performs on date.
func (r *ConcertRepo) IsScheduled(ctx context.Context, concertID uint64, date time.Time) (bool, error) {
	var n int
	err := r.DB.GetContext(ctx, &n,
		"SELECT COUNT(*) FROM concert_dates WHERE concert_id = ? AND date = ?",
		concertID, model.NormalizeDate(date))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// List returns every concert with dates and performers.
func (r *ConcertRepo) List(ctx context.Context) ([]model.Concert, error) {
	concerts := []model.Concert{}
	if err := r.DB.SelectContext(ctx, &concerts,
		"SELECT id, title, image_name, blurb FROM concerts ORDER BY id"); err != nil {
		return nil, err
	}
	if err := r.attach(ctx, concerts); err != nil {
		return nil, err
	}
	return concerts, nil
}

// GetByID returns one concert or ErrNotFound.
func (r *ConcertRepo) GetByID(ctx context.Context, id uint64) (*model.Concert, error) {
	var c model.Concert
	err := r.DB.GetContext(ctx, &c, "SELECT id, title, image_name, blurb FROM concerts WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	list := []model.Concert{c}
	if err := r.attach(ctx, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

// Summaries returns the id, title and image of every concert.
func (r *ConcertRepo) Summaries(ctx context.Context) ([]model.ConcertSummary, error) {
	out := []model.ConcertSummary{}
	err := r.DB.SelectContext(ctx, &out, "SELECT id, title, image_name FROM concerts ORDER BY id")
	return out, err
}

// ListDates returns every scheduled (concert, date) pair.
func (r *ConcertRepo) ListDates(ctx context.Context) ([]model.ConcertDate, error) {
	out := []model.ConcertDate{}
	err := r.DB.SelectContext(ctx, &out, "SELECT concert_id, date FROM concert_dates ORDER BY date, concert_id")
	return out, err
}

type concertPerformerRow struct {
	ConcertID uint64 `db:"concert_id"`
	model.Performer
}

// attach fills Dates and Performers of concerts with two IN queries.
func (r *ConcertRepo) attach(ctx context.Context, concerts []model.Concert) error {
	if len(concerts) == 0 {
		return nil
	}
	ids := make([]uint64, len(concerts))
	index := make(map[uint64]int, len(concerts))
	for i, c := range concerts {
		ids[i] = c.ID
		index[c.ID] = i
		concerts[i].Dates = []time.Time{}
		concerts[i].Performers = []model.Performer{}
	}

	q, args, err := sqlx.In("SELECT concert_id, date FROM concert_dates WHERE concert_id IN (?) ORDER BY date", ids)
	if err != nil {
		return err
	}
	var dates []model.ConcertDate
	if err := r.DB.SelectContext(ctx, &dates, r.DB.Rebind(q), args...); err != nil {
		return err
	}
	for _, d := range dates {
		i := index[d.ConcertID]
		concerts[i].Dates = append(concerts[i].Dates, d.Date)
	}

	q, args, err = sqlx.In(`SELECT cp.concert_id, p.id, p.name, p.image_name, p.genre, p.blurb
		FROM concert_performers cp JOIN performers p ON p.id = cp.performer_id
		WHERE cp.concert_id IN (?) ORDER BY p.id`, ids)
	if err != nil {
		return err
	}
	var rows []concertPerformerRow
	if err := r.DB.SelectContext(ctx, &rows, r.DB.Rebind(q), args...); err != nil {
		return err
	}
	for _, row := range rows {
		i := index[row.ConcertID]
		concerts[i].Performers = append(concerts[i].Performers, row.Performer)
	}
	return nil
}
