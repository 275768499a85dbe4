package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/PJhaveri02/Booking-Service/internal/model"
)

// CatalogHandler serves the public concert and performer listings.
type CatalogHandler struct {
	Concerts   ConcertReader
	Performers PerformerReader
}

func NewCatalogHandler(concerts ConcertReader, performers PerformerReader) *CatalogHandler {
	return &CatalogHandler{Concerts: concerts, Performers: performers}
}

type concertResp struct {
	ID         uint64            `json:"id"`
	Title      string            `json:"title"`
	ImageName  string            `json:"imageName"`
	Blurb      string            `json:"blurb"`
	Dates      []string          `json:"dates"`
	Performers []model.Performer `json:"performers"`
}

func toConcertResp(cn model.Concert) concertResp {
	dates := make([]string, 0, len(cn.Dates))
	for _, d := range cn.Dates {
		dates = append(dates, model.FormatDate(d))
	}
	performers := cn.Performers
	if performers == nil {
		performers = []model.Performer{}
	}
	return concertResp{
		ID:         cn.ID,
		Title:      cn.Title,
		ImageName:  cn.ImageName,
		Blurb:      cn.Blurb,
		Dates:      dates,
		Performers: performers,
	}
}

func (h *CatalogHandler) ListConcerts(c echo.Context) error {
	concerts, err := h.Concerts.List(c.Request().Context())
	if err != nil {
		return fail(err)
	}
	out := make([]concertResp, 0, len(concerts))
	for _, cn := range concerts {
		out = append(out, toConcertResp(cn))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

func (h *CatalogHandler) ConcertSummaries(c echo.Context) error {
	summaries, err := h.Concerts.Summaries(c.Request().Context())
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": summaries})
}

func (h *CatalogHandler) GetConcert(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	cn, err := h.Concerts.GetByID(c.Request().Context(), id)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, toConcertResp(*cn))
}

func (h *CatalogHandler) ListPerformers(c echo.Context) error {
	performers, err := h.Performers.List(c.Request().Context())
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": performers})
}

func (h *CatalogHandler) GetPerformer(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	p, err := h.Performers.GetByID(c.Request().Context(), id)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, p)
}
