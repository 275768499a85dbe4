package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PJhaveri02/Booking-Service/internal/repository"
	"github.com/PJhaveri02/Booking-Service/internal/service"
)

func TestSeatHandler_List(t *testing.T) {
	store := repository.NewMemoryStore()
	store.AddPerformance(1, showDate)
	svc := service.NewReservationService(store, store, service.NewDispatcher(service.NewRegistry(), store, inline{}, nil), nil)
	_, err := svc.Reserve(context.Background(), service.ReserveInput{ConcertID: 1, Date: showDate, SeatLabels: []string{"A1", "H15"}, UserID: 1})
	require.NoError(t, err)

	e := newTestEcho()
	e.GET("/v1/seats/:date", NewSeatHandler(store).List)

	count := func(target string) int {
		rec := doJSON(e, http.MethodGet, target, "")
		require.Equal(t, http.StatusOK, rec.Code)
		var out struct {
			Items []seatStatusResp `json:"items"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		return len(out.Items)
	}
	assert.Equal(t, 120, count("/v1/seats/2026-11-20T20:00:00"))
	assert.Equal(t, 2, count("/v1/seats/2026-11-20T20:00:00?status=Booked"))
	assert.Equal(t, 118, count("/v1/seats/2026-11-20T20:00:00?status=unbooked"))
	assert.Equal(t, 0, count("/v1/seats/2026-11-22T20:00:00?status=Any"))

	assert.Equal(t, http.StatusBadRequest, doJSON(e, http.MethodGet, "/v1/seats/2026-11-20T20:00:00?status=Sold", "").Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(e, http.MethodGet, "/v1/seats/tomorrow", "").Code)
}
