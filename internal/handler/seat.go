package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/PJhaveri02/Booking-Service/internal/model"
	"github.com/PJhaveri02/Booking-Service/internal/repository"
)

type SeatHandler struct {
	Seats repository.SeatLister
}

func NewSeatHandler(seats repository.SeatLister) *SeatHandler { return &SeatHandler{Seats: seats} }

type seatStatusResp struct {
	Label    string  `json:"label"`
	Price    float64 `json:"price"`
	IsBooked bool    `json:"isBooked"`
}

// List returns the seats of the performance date in the path, filtered by
// ?status=Booked|Unbooked|Any (default Any).
func (h *SeatHandler) List(c echo.Context) error {
	date, err := model.ParseDate(c.Param("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	status, ok := model.ParseSeatStatus(c.QueryParam("status"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "status must be Booked, Unbooked or Any")
	}
	seats, err := h.Seats.ListByDate(c.Request().Context(), date, status)
	if err != nil {
		return fail(err)
	}
	out := make([]seatStatusResp, 0, len(seats))
	for _, s := range seats {
		out = append(out, seatStatusResp{Label: s.Label, Price: s.Price(), IsBooked: s.IsBooked})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}
