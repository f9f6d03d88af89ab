package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/australparking/estacionamiento-api/internal/repository"
	"github.com/australparking/estacionamiento-api/internal/service"
)

// ParkingHandler bundles the bay, session and tariff endpoints.
type ParkingHandler struct {
	Bays     *service.BayService
	Sessions *service.SessionService
	Tariffs  *repository.TariffRepo
}

func NewParkingHandler(b *service.BayService, s *service.SessionService, t *repository.TariffRepo) *ParkingHandler {
	return &ParkingHandler{Bays: b, Sessions: s, Tariffs: t}
}

// getUserID reads the authenticated user's id set by the JWT middleware.
// Numeric JWT claims decode as float64.
func getUserID(c echo.Context) (uint64, error) {
	switch v := c.Get("user_id").(type) {
	case float64:
		return uint64(v), nil
	case uint64:
		return v, nil
	case string:
		return strconv.ParseUint(v, 10, 64)
	}
	return 0, errors.New("no user in context")
}

func pathID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

// ----- bays -----

func (h *ParkingHandler) ListBays(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	bays, err := h.Bays.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, bays)
}

func (h *ParkingHandler) GetBay(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	bay, err := h.Bays.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBayNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "bay not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, bay)
}

func (h *ParkingHandler) CreateBay(c echo.Context) error {
	var dto service.BayDTO
	if err := c.Bind(&dto); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(dto.Description) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "description required"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Bays.Add(ctx, &dto)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create bay failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// UpdateBay replaces every mutable field of the bay; omitted fields reset
// to their zero value.
func (h *ParkingHandler) UpdateBay(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var dto service.BayDTO
	if err := c.Bind(&dto); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	dto.ID = id

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Bays.Update(ctx, &dto); err != nil {
		if errors.Is(err, repository.ErrBayNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "bay not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update bay failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ParkingHandler) DeleteBay(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	// Deleting an absent bay is a no-op on purpose.
	if err := h.Bays.Delete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete bay failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- sessions -----

type openReq struct {
	Plate string `json:"plate"`
	BayID uint64 `json:"bay_id"`
}

type closeReq struct {
	Plate string `json:"plate"`
}

// OpenSession checks a vehicle in. The bay must have no active session;
// a second check-in on the same bay conflicts.
func (h *ParkingHandler) OpenSession(c echo.Context) error {
	var req openReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Plate = strings.ToUpper(strings.TrimSpace(req.Plate))
	if req.Plate == "" || req.BayID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "plate/bay_id required"})
	}
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Sessions.Open(ctx, req.Plate, uid, req.BayID)
	if err != nil {
		if errors.Is(err, repository.ErrBayOccupied) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "bay already occupied"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "open session failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// CloseSession checks a vehicle out by plate, computes the fee and returns
// the closed session.
func (h *ParkingHandler) CloseSession(c echo.Context) error {
	var req closeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Plate = strings.ToUpper(strings.TrimSpace(req.Plate))
	if req.Plate == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "plate required"})
	}
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sess, err := h.Sessions.Close(ctx, req.Plate, uid)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNoActiveSession):
			return c.JSON(http.StatusConflict, echo.Map{"error": "no active session for plate"})
		case errors.Is(err, repository.ErrTariffNotConfigured):
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "tariffs not configured"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "close session failed"})
		}
	}
	return c.JSON(http.StatusOK, sess)
}

func (h *ParkingHandler) ListSessions(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sessions, err := h.Sessions.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, sessions)
}

// ListRecentSessions returns the latest closed sessions with bay details,
// newest entries first. ?limit= caps the page, default 10.
func (h *ParkingHandler) ListRecentSessions(c echo.Context) error {
	limit := 10
	if s := c.QueryParam("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid limit"})
		}
		limit = n
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sessions, err := h.Sessions.ListRecent(ctx, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, sessions)
}

func (h *ParkingHandler) GetSession(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sess, err := h.Sessions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, sess)
}

// CreateSession inserts a session row verbatim, entry time and all. Meant
// for back-office corrections, not for the regular check-in flow.
func (h *ParkingHandler) CreateSession(c echo.Context) error {
	var dto service.SessionDTO
	if err := c.Bind(&dto); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	dto.Plate = strings.ToUpper(strings.TrimSpace(dto.Plate))
	if dto.Plate == "" || dto.BayID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "plate/bay_id required"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Sessions.Add(ctx, &dto)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create session failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// UpdateSession replaces every mutable field of the session.
func (h *ParkingHandler) UpdateSession(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var dto service.SessionDTO
	if err := c.Bind(&dto); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	dto.ID = id

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Sessions.Update(ctx, &dto); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update session failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ParkingHandler) DeleteSession(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Sessions.Delete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete session failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- tariffs -----

func (h *ParkingHandler) ListTariffs(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tariffs, err := h.Tariffs.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, tariffs)
}
