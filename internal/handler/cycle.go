package handler // handler package contains the billing-cycle endpoints

import (
	"errors"   // errors supports sentinel matching via errors.Is
	"net/http" // http provides status code constants
	"strings"  // strings offers trimming utilities

	"github.com/labstack/echo/v4" // echo is the web framework used for handlers

	"github.com/transactsync/transactsync/internal/model"      // model holds the persisted entity structs
	"github.com/transactsync/transactsync/internal/repository" // repository holds the data access layer
)

// cycleRequest is the JSON body accepted by POST and PUT /cycles.  The
// timestamps arrive as strings so that ISO values with or without a zone
// offset are both accepted.
type cycleRequest struct {
	CycleStart       string  `json:"cycle_start"`       // first instant covered, required
	CycleEnd         string  `json:"cycle_end"`         // last instant covered, required
	CycleDescription *string `json:"cycle_description"` // optional label
	Comments         *string `json:"comments"`          // optional notes
}

// toModel parses and validates the request.  The cycle_start <= cycle_end
// invariant is enforced here, before persistence is attempted.
func (r *cycleRequest) toModel() (*model.Cycle, error) {
	if strings.TrimSpace(r.CycleStart) == "" {
		return nil, errors.New("cycle_start is required")
	}
	if strings.TrimSpace(r.CycleEnd) == "" {
		return nil, errors.New("cycle_end is required")
	}
	start, err := parseTimestamp(r.CycleStart)
	if err != nil {
		return nil, errors.New("cycle_start must be an ISO timestamp")
	}
	end, err := parseTimestamp(r.CycleEnd)
	if err != nil {
		return nil, errors.New("cycle_end must be an ISO timestamp")
	}
	if start.After(end) {
		return nil, errors.New("cycle_start must not be after cycle_end")
	}
	return &model.Cycle{
		CycleStart:       start,
		CycleEnd:         end,
		CycleDescription: r.CycleDescription,
		Comments:         r.Comments,
	}, nil
}

// CreateCycle handles POST /cycles.
func (h *Handler) CreateCycle(c echo.Context) error {
	var body cycleRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	cycle, err := body.toModel()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.CycleRepo.Create(c.Request().Context(), cycle); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create cycle"})
	}
	return c.JSON(http.StatusCreated, cycle)
}

// ListCycles handles GET /cycles and returns every cycle.
func (h *Handler) ListCycles(c echo.Context) error {
	items, err := h.CycleRepo.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if items == nil {
		items = []*model.Cycle{} // encode an empty list, not null
	}
	return c.JSON(http.StatusOK, items)
}

// FindCycleForDate handles GET /cycles/for-date?transaction_date=...
// It returns the id of the cycle whose interval contains the timestamp,
// inclusive on both bounds, or {"cycle_id": null} with a 200 status when no
// interval matches.  Overlapping cycles resolve to the lowest cycle_id so
// repeated lookups always agree.
func (h *Handler) FindCycleForDate(c echo.Context) error {
	raw := strings.TrimSpace(c.QueryParam("transaction_date"))
	if raw == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "transaction_date is required"})
	}
	t, err := parseTimestamp(raw)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "transaction_date must be an ISO timestamp"})
	}
	id, err := h.CycleRepo.FindIDForDate(c.Request().Context(), t)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"cycle_id": id})
}

// GetCycle handles GET /cycles/:id.
func (h *Handler) GetCycle(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	cycle, err := h.CycleRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrCycleNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "cycle not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, cycle)
}

// UpdateCycle handles PUT /cycles/:id with full-record replacement.
func (h *Handler) UpdateCycle(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body cycleRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	cycle, err := body.toModel()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.CycleRepo.Update(c.Request().Context(), id, cycle); err != nil {
		if errors.Is(err, repository.ErrCycleNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "cycle not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, cycle)
}

// DeleteCycle handles DELETE /cycles/:id.  Like accounts, a cycle that is
// still referenced by transactions is rejected with a conflict instead of
// cascading or nulling out the references.
func (h *Handler) DeleteCycle(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.CycleRepo.Delete(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, repository.ErrCycleNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "cycle not found"})
		case errors.Is(err, repository.ErrReferenced):
			return c.JSON(http.StatusConflict, echo.Map{"error": "cycle has transactions and cannot be deleted"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "success", "message": "Cycle deleted"})
}
