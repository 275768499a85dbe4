package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/PJhaveri02/Booking-Service/internal/logger"
	"github.com/PJhaveri02/Booking-Service/internal/metrics"
	"github.com/PJhaveri02/Booking-Service/internal/middleware"
	"github.com/PJhaveri02/Booking-Service/internal/model"
	"github.com/PJhaveri02/Booking-Service/internal/service"
)

// SubscriptionHandler holds the request open until the subscription it
// registers is settled.
type SubscriptionHandler struct {
	Subs    Subscriber
	Metrics *metrics.Metrics
}

func NewSubscriptionHandler(subs Subscriber, m *metrics.Metrics) *SubscriptionHandler {
	if m == nil {
		m = metrics.Nop()
	}
	return &SubscriptionHandler{Subs: subs, Metrics: m}
}

type subscribeReq struct {
	ConcertID        uint64 `json:"concertId" validate:"required"`
	Date             string `json:"date" validate:"required"`
	PercentageBooked *int   `json:"percentageBooked" validate:"required"`
}

type notificationResp struct {
	RemainingSeats int `json:"remainingSeats"`
}

// Subscribe answers 200 with the remaining seats once the performance
// reaches the requested percentage booked, or 408 when the subscription
// expires first. A client that disconnects cancels its subscription.
func (h *SubscriptionHandler) Subscribe(c echo.Context) error {
	var req subscribeReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	date, err := model.ParseDate(req.Date)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	p, err := h.Subs.Subscribe(ctx, service.SubscribeInput{
		ConcertID: req.ConcertID,
		Date:      date,
		Threshold: *req.PercentageBooked,
		UserID:    middleware.UserID(c),
	})
	if err != nil {
		return fail(err)
	}

	var deadline <-chan time.Time
	if !p.ExpiresAt.IsZero() {
		t := time.NewTimer(time.Until(p.ExpiresAt))
		defer t.Stop()
		deadline = t.C
	}

	select {
	case n := <-p.Done():
		return h.reply(c, n)
	case <-deadline:
		if p.Expire() {
			h.Metrics.NotificationsTotal.WithLabelValues("expired").Inc()
		}
		return h.reply(c, <-p.Done())
	case <-ctx.Done():
		if p.Cancel() {
			h.Metrics.NotificationsTotal.WithLabelValues("cancelled").Inc()
			logger.Debug("subscription cancelled by client", zap.String("subscription_id", p.ID))
			return nil
		}
		return h.reply(c, <-p.Done())
	}
}

func (h *SubscriptionHandler) reply(c echo.Context, n service.Notification) error {
	if n.Expired {
		return echo.NewHTTPError(http.StatusRequestTimeout, "subscription expired")
	}
	return c.JSON(http.StatusOK, notificationResp{RemainingSeats: n.RemainingSeats})
}
