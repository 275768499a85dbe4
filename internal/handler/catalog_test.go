package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PJhaveri02/Booking-Service/internal/model"
	"github.com/PJhaveri02/Booking-Service/internal/repository"
)

type fakeCatalog struct {
	concerts   []model.Concert
	performers []model.Performer
	err        error
}

func (f *fakeCatalog) List(context.Context) ([]model.Concert, error) { return f.concerts, f.err }

func (f *fakeCatalog) GetByID(_ context.Context, id uint64) (*model.Concert, error) {
	for _, c := range f.concerts {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeCatalog) Summaries(context.Context) ([]model.ConcertSummary, error) {
	out := []model.ConcertSummary{}
	for _, c := range f.concerts {
		out = append(out, model.ConcertSummary{ID: c.ID, Title: c.Title, ImageName: c.ImageName})
	}
	return out, f.err
}

type fakePerformers struct{ fakeCatalog }

func (f *fakePerformers) List(context.Context) ([]model.Performer, error) { return f.performers, f.err }

func (f *fakePerformers) GetByID(_ context.Context, id uint64) (*model.Performer, error) {
	for _, p := range f.performers {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func catalogEcho(f *fakeCatalog) *echo.Echo {
	e := newTestEcho()
	h := NewCatalogHandler(f, &fakePerformers{*f})
	e.GET("/v1/concerts", h.ListConcerts)
	e.GET("/v1/concerts/summaries", h.ConcertSummaries)
	e.GET("/v1/concerts/:id", h.GetConcert)
	e.GET("/v1/performers", h.ListPerformers)
	e.GET("/v1/performers/:id", h.GetPerformer)
	return e
}

func TestCatalogHandler(t *testing.T) {
	performer := model.Performer{ID: 2, Name: "The Static", ImageName: "static.jpg", Genre: model.GenreRock, Blurb: "loud"}
	f := &fakeCatalog{
		concerts: []model.Concert{{
			ID: 1, Title: "Night Shift", ImageName: "night.jpg", Blurb: "late",
			Dates:      []time.Time{showDate},
			Performers: []model.Performer{performer},
		}},
		performers: []model.Performer{performer},
	}
	e := catalogEcho(f)

	rec := doJSON(e, http.MethodGet, "/v1/concerts/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"title":"Night Shift","imageName":"night.jpg","blurb":"late",
		"dates":["2026-11-20T20:00:00"],
		"performers":[{"id":2,"name":"The Static","imageName":"static.jpg","genre":"Rock","blurb":"loud"}]}`, rec.Body.String())

	rec = doJSON(e, http.MethodGet, "/v1/concerts/summaries", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[{"id":1,"title":"Night Shift","imageName":"night.jpg"}]}`, rec.Body.String())

	rec = doJSON(e, http.MethodGet, "/v1/concerts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Night Shift"`)

	rec = doJSON(e, http.MethodGet, "/v1/performers/2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"The Static"`)

	assert.Equal(t, http.StatusNotFound, doJSON(e, http.MethodGet, "/v1/concerts/9", "").Code)
	assert.Equal(t, http.StatusNotFound, doJSON(e, http.MethodGet, "/v1/performers/9", "").Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(e, http.MethodGet, "/v1/performers/x", "").Code)
}

func TestCatalogHandler_StoreError(t *testing.T) {
	e := catalogEcho(&fakeCatalog{err: errors.New("connection refused")})
	rec := doJSON(e, http.MethodGet, "/v1/concerts", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}
