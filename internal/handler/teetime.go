package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/amelendez141/linkup-golf/internal/model"
	"github.com/amelendez141/linkup-golf/internal/queue"
	"github.com/amelendez141/linkup-golf/internal/repository"
	"github.com/amelendez141/linkup-golf/internal/service"
)

// TeeTimeHandler serves tee time CRUD for hosts and browsing members.
type TeeTimeHandler struct {
	TeeTimes  *repository.TeeTimeRepo
	Courses   *repository.CourseRepo
	Users     *repository.UserRepo
	Publisher *service.EventPublisher
	Log       zerolog.Logger
}

func NewTeeTimeHandler(tt *repository.TeeTimeRepo, cr *repository.CourseRepo, ur *repository.UserRepo, pub *service.EventPublisher, log zerolog.Logger) *TeeTimeHandler {
	return &TeeTimeHandler{TeeTimes: tt, Courses: cr, Users: ur, Publisher: pub, Log: log}
}

type createTeeTimeReq struct {
	CourseID      uint64   `json:"course_id"`
	TeeOffAt      string   `json:"tee_off_at"` // RFC 3339
	TotalSlots    uint32   `json:"total_slots"`
	IndustryPrefs []string `json:"industry_prefs"`
	SkillPrefs    []string `json:"skill_prefs"`
	Notes         *string  `json:"notes"`
}

type slotPart struct {
	ID         uint64     `json:"id"`
	SlotNumber uint32     `json:"slot_number"`
	UserID     *uint64    `json:"user_id"`
	JoinedAt   *time.Time `json:"joined_at"`
}

type teeTimeResp struct {
	ID            uint64     `json:"id"`
	HostID        uint64     `json:"host_id"`
	CourseID      uint64     `json:"course_id"`
	TeeOffAt      time.Time  `json:"tee_off_at"`
	TotalSlots    uint32     `json:"total_slots"`
	IndustryPrefs []string   `json:"industry_prefs"`
	SkillPrefs    []string   `json:"skill_prefs"`
	Notes         *string    `json:"notes"`
	Status        string     `json:"status"`
	Version       uint32     `json:"version"`
	Slots         []slotPart `json:"slots,omitempty"`
}

func toTeeTimeResp(tt model.TeeTime, slots []model.TeeTimeSlot) teeTimeResp {
	resp := teeTimeResp{
		ID:            tt.ID,
		HostID:        tt.HostID,
		CourseID:      tt.CourseID,
		TeeOffAt:      tt.TeeOffAt,
		TotalSlots:    tt.TotalSlots,
		IndustryPrefs: industryStrings(tt.IndustryPrefs),
		SkillPrefs:    skillStrings(tt.SkillPrefs),
		Notes:         tt.Notes,
		Status:        string(tt.Status),
		Version:       tt.Version,
	}
	for _, s := range slots {
		resp.Slots = append(resp.Slots, slotPart{
			ID:         s.ID,
			SlotNumber: s.SlotNumber,
			UserID:     s.UserID,
			JoinedAt:   s.JoinedAt,
		})
	}
	return resp
}

func industryStrings(in []model.Industry) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		out = append(out, string(v))
	}
	return out
}

func skillStrings(in []model.SkillLevel) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		out = append(out, string(v))
	}
	return out
}

func parseIndustryPrefs(in []string) ([]model.Industry, bool) {
	out := make([]model.Industry, 0, len(in))
	for _, s := range in {
		v := model.Industry(strings.ToUpper(strings.TrimSpace(s)))
		if !v.Valid() {
			return nil, false
		}
		out = append(out, v)
	}
	return out, true
}

func parseSkillPrefs(in []string) ([]model.SkillLevel, bool) {
	out := make([]model.SkillLevel, 0, len(in))
	for _, s := range in {
		v := model.SkillLevel(strings.ToUpper(strings.TrimSpace(s)))
		if !v.Valid() {
			return nil, false
		}
		out = append(out, v)
	}
	return out, true
}

// Create posts a new tee time.  The creator becomes the host and is
// seated in slot 1 immediately.
func (h *TeeTimeHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req createTeeTimeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	teeOff, err := time.Parse(time.RFC3339, req.TeeOffAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tee_off_at must be RFC 3339"})
	}
	if !teeOff.After(time.Now()) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tee_off_at must be in the future"})
	}
	if req.TotalSlots < model.MinTotalSlots || req.TotalSlots > model.MaxTotalSlots {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "total_slots must be between 2 and 4"})
	}
	inds, ok := parseIndustryPrefs(req.IndustryPrefs)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown industry preference"})
	}
	skills, ok := parseSkillPrefs(req.SkillPrefs)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown skill preference"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Courses.GetByID(ctx, req.CourseID); err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown course"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	tt := model.TeeTime{
		HostID:        uid,
		CourseID:      req.CourseID,
		TeeOffAt:      teeOff.UTC(),
		TotalSlots:    req.TotalSlots,
		IndustryPrefs: inds,
		SkillPrefs:    skills,
		Notes:         req.Notes,
	}
	if err := h.TeeTimes.CreateWithSlots(ctx, &tt); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}

	_, slots, err := h.TeeTimes.GetWithSlots(ctx, tt.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusCreated, toTeeTimeResp(tt, slots))
}

// Show returns a tee time and its slots.
func (h *TeeTimeHandler) Show(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	tt, slots, err := h.TeeTimes.GetWithSlots(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTeeTimeNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tee time not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toTeeTimeResp(tt, slots))
}

// ListByCourse returns upcoming tee times at one course.
func (h *TeeTimeHandler) ListByCourse(c echo.Context) error {
	courseID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.TeeTimes.ListUpcomingByCourse(ctx, courseID, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]teeTimeResp, 0, len(items))
	for _, tt := range items {
		out = append(out, toTeeTimeResp(tt, nil))
	}
	return c.JSON(http.StatusOK, echo.Map{"tee_times": out})
}

// Mine returns tee times the member hosts or has joined.
func (h *TeeTimeHandler) Mine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.TeeTimes.ListByUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]teeTimeResp, 0, len(items))
	for _, tt := range items {
		out = append(out, toTeeTimeResp(tt, nil))
	}
	return c.JSON(http.StatusOK, echo.Map{"tee_times": out})
}

type updateTeeTimeReq struct {
	TeeOffAt      string   `json:"tee_off_at"`
	IndustryPrefs []string `json:"industry_prefs"`
	SkillPrefs    []string `json:"skill_prefs"`
	Notes         *string  `json:"notes"`
	Version       uint32   `json:"version"`
}

// Update rewrites the editable fields under optimistic concurrency.
// The client sends back the version it read; a stale version gets 409
// and should refetch.
func (h *TeeTimeHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	var req updateTeeTimeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	teeOff, err := time.Parse(time.RFC3339, req.TeeOffAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tee_off_at must be RFC 3339"})
	}
	if !teeOff.After(time.Now()) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tee_off_at must be in the future"})
	}
	inds, ok := parseIndustryPrefs(req.IndustryPrefs)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown industry preference"})
	}
	skills, ok := parseSkillPrefs(req.SkillPrefs)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown skill preference"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	upd := repository.TeeTimeUpdate{
		TeeOffAt:      teeOff.UTC(),
		IndustryPrefs: inds,
		SkillPrefs:    skills,
		Notes:         req.Notes,
		Version:       req.Version,
	}
	if err := h.TeeTimes.UpdateDetails(ctx, id, uid, upd); err != nil {
		switch {
		case errors.Is(err, repository.ErrTeeTimeNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tee time not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "only the host may edit"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "tee time is no longer editable"})
		case errors.Is(err, repository.ErrVersionConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "stale version, refetch and retry"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	tt, slots, err := h.TeeTimes.GetWithSlots(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toTeeTimeResp(tt, slots))
}

// Cancel marks the tee time cancelled and notifies current occupants.
func (h *TeeTimeHandler) Cancel(c echo.Context) error {
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

	// Snapshot occupants before the cancel clears relevance.
	occupants, err := h.TeeTimes.OccupantIDs(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if err := h.TeeTimes.Cancel(ctx, id, uid); err != nil {
		switch {
		case errors.Is(err, repository.ErrTeeTimeNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tee time not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "only the host may cancel"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "tee time already finished"})
		case errors.Is(err, repository.ErrVersionConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "tee time changed, refetch and retry"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}

	h.publishActivity(c, queue.EventTeeTimeCancelled, id, uid, withoutUser(occupants, uid))
	return c.NoContent(http.StatusNoContent)
}

// publishActivity builds and publishes a slot activity event.  Publish
// failures are logged and swallowed so broker downtime never fails the
// request that already committed.
func (h *TeeTimeHandler) publishActivity(c echo.Context, eventType string, teeTimeID, actorID uint64, recipients []uint64) {
	if h.Publisher == nil || len(recipients) == 0 {
		return
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	ev := queue.SlotActivityEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		TeeTimeID:  teeTimeID,
		ActorID:    actorID,
		Recipients: recipients,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	if u, err := h.Users.GetByID(ctx, actorID); err == nil {
		ev.ActorName = u.FullName
	}
	if tt, err := h.TeeTimes.GetByID(ctx, teeTimeID); err == nil {
		ev.TeeOffAt = tt.TeeOffAt.Format(time.RFC3339)
		if cs, err := h.Courses.GetByID(ctx, tt.CourseID); err == nil {
			ev.CourseName = cs.Name
		}
	}
	if err := h.Publisher.PublishSlotActivity(ctx, ev); err != nil {
		h.Log.Warn().Err(err).Str("type", eventType).Uint64("tee_time_id", teeTimeID).
			Msg("slot activity publish failed")
	}
}

func withoutUser(ids []uint64, drop uint64) []uint64 {
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if id != drop {
			out = append(out, id)
		}
	}
	return out
}
