package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/PJhaveri02/Booking-Service/internal/middleware"
	"github.com/PJhaveri02/Booking-Service/internal/model"
	"github.com/PJhaveri02/Booking-Service/internal/repository"
	"github.com/PJhaveri02/Booking-Service/internal/service"
)

const bookingTimeout = 10 * time.Second

// BookingHandler creates bookings and shows callers their own.
type BookingHandler struct {
	Reservations Reserver
	Bookings     repository.BookingReader
}

func NewBookingHandler(r Reserver, b repository.BookingReader) *BookingHandler {
	return &BookingHandler{Reservations: r, Bookings: b}
}

type bookingReq struct {
	ConcertID  uint64   `json:"concertId" validate:"required"`
	Date       string   `json:"date" validate:"required"`
	SeatLabels []string `json:"seatLabels" validate:"required,min=1"`
}

type seatResp struct {
	Label string  `json:"label"`
	Price float64 `json:"price"`
}

type bookingResp struct {
	BookingID uint64     `json:"bookingId"`
	ConcertID uint64     `json:"concertId"`
	Date      string     `json:"date"`
	Seats     []seatResp `json:"seats"`
}

func toBookingResp(b *model.Booking) bookingResp {
	seats := make([]seatResp, 0, len(b.Seats))
	for _, s := range b.Seats {
		seats = append(seats, seatResp{Label: s.Label, Price: s.Price()})
	}
	return bookingResp{
		BookingID: b.ID,
		ConcertID: b.ConcertID,
		Date:      model.FormatDate(b.Date),
		Seats:     seats,
	}
}

// Create books every requested seat or none. A seat that is taken yields
// 409 and nothing is booked.
func (h *BookingHandler) Create(c echo.Context) error {
	var req bookingReq
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

	ctx, cancel := context.WithTimeout(c.Request().Context(), bookingTimeout)
	defer cancel()

	b, err := h.Reservations.Reserve(ctx, service.ReserveInput{
		ConcertID:  req.ConcertID,
		Date:       date,
		SeatLabels: req.SeatLabels,
		UserID:     middleware.UserID(c),
	})
	if err != nil {
		return fail(err)
	}
	c.Response().Header().Set(echo.HeaderLocation, "/v1/bookings/"+strconv.FormatUint(b.ID, 10))
	return c.JSON(http.StatusCreated, toBookingResp(b))
}

// List returns the caller's bookings.
func (h *BookingHandler) List(c echo.Context) error {
	bookings, err := h.Bookings.ListByUser(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return fail(err)
	}
	out := make([]bookingResp, 0, len(bookings))
	for i := range bookings {
		out = append(out, toBookingResp(&bookings[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Get returns one booking. Bookings of other users are 403.
func (h *BookingHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	b, err := h.Bookings.GetByID(c.Request().Context(), id)
	if err != nil {
		return fail(err)
	}
	if b.UserID != middleware.UserID(c) {
		return fail(service.ErrForbidden)
	}
	return c.JSON(http.StatusOK, toBookingResp(b))
}

func parseID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}
