package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/amelendez141/linkup-golf/internal/booking"
	"github.com/amelendez141/linkup-golf/internal/model"
	"github.com/amelendez141/linkup-golf/internal/queue"
	"github.com/amelendez141/linkup-golf/internal/repository"
	"github.com/amelendez141/linkup-golf/internal/service"
)

// SlotHandler exposes join and leave on top of the reservation engine
// and fans out the resulting activity events.
type SlotHandler struct {
	Engine    *booking.Engine
	TeeTimes  *repository.TeeTimeRepo
	Courses   *repository.CourseRepo
	Users     *repository.UserRepo
	Publisher *service.EventPublisher
	Log       zerolog.Logger
}

func NewSlotHandler(eng *booking.Engine, tt *repository.TeeTimeRepo, cr *repository.CourseRepo, ur *repository.UserRepo, pub *service.EventPublisher, log zerolog.Logger) *SlotHandler {
	return &SlotHandler{Engine: eng, TeeTimes: tt, Courses: cr, Users: ur, Publisher: pub, Log: log}
}

type joinReq struct {
	PreferredSlot *uint32 `json:"preferred_slot"`
}

// Join claims a vacant slot in the tee time for the caller.
func (h *SlotHandler) Join(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req joinReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	slot, err := h.Engine.Join(ctx, id, uid, req.PreferredSlot)
	if err != nil {
		return bookingError(c, err)
	}

	h.notify(c, queue.EventSlotJoined, id, uid)

	// Filling the last slot flips the status inside the join
	// transaction; report it as its own event.
	if tt, err := h.TeeTimes.GetByID(ctx, id); err == nil && tt.Status == model.TeeTimeFull {
		h.notify(c, queue.EventTeeTimeFull, id, uid)
	}

	return c.JSON(http.StatusCreated, slotPart{
		ID:         slot.ID,
		SlotNumber: slot.SlotNumber,
		UserID:     slot.UserID,
		JoinedAt:   slot.JoinedAt,
	})
}

// Leave vacates the caller's slot.
func (h *SlotHandler) Leave(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Engine.Leave(ctx, id, uid); err != nil {
		return bookingError(c, err)
	}

	h.notify(c, queue.EventSlotLeft, id, uid)
	return c.NoContent(http.StatusNoContent)
}

// notify publishes a slot activity event to the remaining occupants.
// Failures are logged and swallowed; the reservation already
// committed.
func (h *SlotHandler) notify(c echo.Context, eventType string, teeTimeID, actorID uint64) {
	if h.Publisher == nil {
		return
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	occupants, err := h.TeeTimes.OccupantIDs(ctx, teeTimeID)
	if err != nil {
		h.Log.Warn().Err(err).Uint64("tee_time_id", teeTimeID).Msg("occupant lookup for event failed")
		return
	}
	th := TeeTimeHandler{TeeTimes: h.TeeTimes, Courses: h.Courses, Users: h.Users, Publisher: h.Publisher, Log: h.Log}
	th.publishActivity(c, eventType, teeTimeID, actorID, withoutUser(occupants, actorID))
}

// bookingError maps engine sentinels onto HTTP statuses.
func bookingError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, booking.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "tee time not found"})
	case errors.Is(err, booking.ErrUnavailable):
		return c.JSON(http.StatusConflict, echo.Map{"error": "tee time is not open"})
	case errors.Is(err, booking.ErrFull):
		return c.JSON(http.StatusConflict, echo.Map{"error": "tee time has no open slots"})
	case errors.Is(err, booking.ErrAlreadyJoined):
		return c.JSON(http.StatusConflict, echo.Map{"error": "already joined this tee time"})
	case errors.Is(err, booking.ErrSlotTaken):
		return c.JSON(http.StatusConflict, echo.Map{"error": "slot was taken, try again"})
	case errors.Is(err, booking.ErrNotInTeeTime):
		return c.JSON(http.StatusConflict, echo.Map{"error": "you are not in this tee time"})
	case errors.Is(err, booking.ErrHostCannotLeave):
		return c.JSON(http.StatusConflict, echo.Map{"error": "host cannot leave, cancel instead"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reservation failed"})
}
