package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/amelendez141/linkup-golf/internal/model"
	"github.com/amelendez141/linkup-golf/internal/repository"
)

const maxMessageLen = 2000

// MessageHandler serves direct messages between members.
type MessageHandler struct {
	Messages *repository.MessageRepo
	Users    *repository.UserRepo
}

func NewMessageHandler(m *repository.MessageRepo, u *repository.UserRepo) *MessageHandler {
	return &MessageHandler{Messages: m, Users: u}
}

type sendMessageReq struct {
	RecipientID uint64 `json:"recipient_id"`
	Body        string `json:"body"`
}

type messageResp struct {
	ID          uint64     `json:"id"`
	SenderID    uint64     `json:"sender_id"`
	RecipientID uint64     `json:"recipient_id"`
	Body        string     `json:"body"`
	ReadAt      *time.Time `json:"read_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

func toMessageResp(m model.Message) messageResp {
	return messageResp{
		ID:          m.ID,
		SenderID:    m.SenderID,
		RecipientID: m.RecipientID,
		Body:        m.Body,
		ReadAt:      m.ReadAt,
		CreatedAt:   m.CreatedAt,
	}
}

// Send delivers a message to another member.
func (h *MessageHandler) Send(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req sendMessageReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Body = strings.TrimSpace(req.Body)
	if req.Body == "" || len(req.Body) > maxMessageLen {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "body must be 1-2000 characters"})
	}
	if req.RecipientID == uid {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot message yourself"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Users.GetByID(ctx, req.RecipientID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "recipient not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	m := model.Message{SenderID: uid, RecipientID: req.RecipientID, Body: req.Body}
	if err := h.Messages.Create(ctx, &m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "send failed"})
	}
	m.CreatedAt = time.Now().UTC()
	return c.JSON(http.StatusCreated, toMessageResp(m))
}

// Conversation returns the thread between the caller and one other
// member, newest first.
func (h *MessageHandler) Conversation(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	otherID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Messages.Conversation(ctx, uid, otherID, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]messageResp, 0, len(items))
	for _, m := range items {
		out = append(out, toMessageResp(m))
	}
	return c.JSON(http.StatusOK, echo.Map{"messages": out})
}

// Inbox returns the caller's most recent received messages.
func (h *MessageHandler) Inbox(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Messages.Inbox(ctx, uid, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]messageResp, 0, len(items))
	for _, m := range items {
		out = append(out, toMessageResp(m))
	}
	return c.JSON(http.StatusOK, echo.Map{"messages": out})
}

type partnerResp struct {
	PartnerID     uint64    `json:"partner_id"`
	PartnerName   string    `json:"partner_name"`
	LastMessageAt time.Time `json:"last_message_at"`
	UnreadCount   int       `json:"unread_count"`
}

// Partners returns the members the caller has exchanged messages
// with, most recently active first, with per-thread unread counts.
func (h *MessageHandler) Partners(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	ctx, cancel := reqCtx(c)
	defer cancel()

	partners, err := h.Messages.Partners(ctx, uid, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	ids := make([]uint64, 0, len(partners))
	for _, p := range partners {
		ids = append(ids, p.PartnerID)
	}
	names, err := h.Users.GetByIDs(ctx, ids)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]partnerResp, 0, len(partners))
	for _, p := range partners {
		out = append(out, partnerResp{
			PartnerID:     p.PartnerID,
			PartnerName:   names[p.PartnerID].FullName,
			LastMessageAt: p.LastMessageAt,
			UnreadCount:   p.UnreadCount,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"partners": out})
}

// MarkRead stamps a received message as read.
func (h *MessageHandler) MarkRead(c echo.Context) error {
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

	if err := h.Messages.MarkRead(ctx, id, uid); err != nil {
		if errors.Is(err, repository.ErrMessageNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "message not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
