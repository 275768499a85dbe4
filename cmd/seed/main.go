// Command seed lays out the seats of every scheduled performance and
// creates the users listed in SEED_USERS ("name:password,...").
package main

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/PJhaveri02/Booking-Service/internal/config"
	"github.com/PJhaveri02/Booking-Service/internal/database"
	"github.com/PJhaveri02/Booking-Service/internal/logger"
	"github.com/PJhaveri02/Booking-Service/internal/model"
	"github.com/PJhaveri02/Booking-Service/internal/repository"
)

func main() {
	cfg, err := config.Load()
	logger.Set(logger.NewLogger(cfg.Env))
	defer func() { _ = logger.Sync() }()
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := database.Open(ctx, cfg.DSN(), database.Pool{
		MaxOpen:     cfg.DBMaxOpenConns,
		MaxIdle:     cfg.DBMaxIdleConns,
		MaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		logger.Fatal("connect database", zap.Error(err))
	}
	defer db.Close()

	version, err := database.Migrate(db.DB)
	if err != nil {
		logger.Fatal("migrate database", zap.Error(err))
	}
	logger.Info("schema ready", zap.Uint("version", version))

	dates, err := repository.NewConcertRepo(db).ListDates(ctx)
	if err != nil {
		logger.Fatal("list performance dates", zap.Error(err))
	}
	seats := repository.NewSeatRepo(db)
	seen := map[int64]bool{}
	for _, d := range dates {
		day := model.NormalizeDate(d.Date)
		if seen[day.Unix()] {
			continue
		}
		seen[day.Unix()] = true
		n, err := seats.EnsureLayout(ctx, day)
		if err != nil {
			logger.Fatal("lay out seats", zap.Time("date", day), zap.Error(err))
		}
		logger.Info("seats laid out", zap.String("date", model.FormatDate(day)), zap.Int64("inserted", n))
	}

	users := repository.NewUserRepo(db)
	for _, entry := range strings.Split(os.Getenv("SEED_USERS"), ",") {
		name, pass, ok := strings.Cut(strings.TrimSpace(entry), ":")
		if !ok || name == "" || pass == "" {
			continue
		}
		id, err := users.Create(ctx, name, pass, cfg.BcryptCost)
		switch {
		case errors.Is(err, repository.ErrConflict):
			logger.Info("user exists", zap.String("username", name))
		case err != nil:
			logger.Fatal("create user", zap.String("username", name), zap.Error(err))
		default:
			logger.Info("user created", zap.String("username", name), zap.Uint64("id", id))
		}
	}
}
