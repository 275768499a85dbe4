package handler

import (
	"context"
	"time"

	"github.com/PJhaveri02/Booking-Service/internal/model"
	"github.com/PJhaveri02/Booking-Service/internal/service"
)

// Reserver books seats. *service.ReservationService implements it.
type Reserver interface {
	Reserve(ctx context.Context, in service.ReserveInput) (*model.Booking, error)
}

// Subscriber registers occupancy subscriptions.
// *service.SubscriptionService implements it.
type Subscriber interface {
	Subscribe(ctx context.Context, in service.SubscribeInput) (*service.PendingNotification, error)
}

type UserStore interface {
	GetByUsername(ctx context.Context, username string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

type TokenStore interface {
	StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error
	ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error)
	RevokeByHash(ctx context.Context, tokenHash string) error
	RevokeAllForUser(ctx context.Context, userID uint64) error
}

type ConcertReader interface {
	List(ctx context.Context) ([]model.Concert, error)
	GetByID(ctx context.Context, id uint64) (*model.Concert, error)
	Summaries(ctx context.Context) ([]model.ConcertSummary, error)
}

type PerformerReader interface {
	List(ctx context.Context) ([]model.Performer, error)
	GetByID(ctx context.Context, id uint64) (*model.Performer, error)
}
