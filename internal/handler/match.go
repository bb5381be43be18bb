package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/amelendez141/linkup-golf/internal/matching"
	"github.com/amelendez141/linkup-golf/internal/repository"
)

// MatchHandler serves ranked tee time recommendations.
type MatchHandler struct {
	Users        *repository.UserRepo
	TeeTimes     *repository.TeeTimeRepo
	DefaultLimit int
	Log          zerolog.Logger
}

func NewMatchHandler(ur *repository.UserRepo, tt *repository.TeeTimeRepo, defaultLimit int, log zerolog.Logger) *MatchHandler {
	if defaultLimit <= 0 {
		defaultLimit = 10
	}
	return &MatchHandler{Users: ur, TeeTimes: tt, DefaultLimit: defaultLimit, Log: log}
}

type recommendationResp struct {
	TeeTime       teeTimeResp    `json:"tee_time"`
	HostName      string         `json:"host_name"`
	DistanceMiles float64        `json:"distance_miles"`
	Score         matching.Score `json:"score"`
}

// Recommendations scores every open, future tee time within the
// member's search radius and returns the top matches.  Members without
// a home location get an empty list; they cannot be distance scored.
func (h *MatchHandler) Recommendations(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	limit := h.DefaultLimit
	if s := c.QueryParam("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 50 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "limit must be between 1 and 50"})
		}
		limit = n
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	member, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	cands, err := h.TeeTimes.FindCandidates(ctx, member)
	if err != nil {
		h.Log.Error().Err(err).Uint64("user_id", uid).Msg("candidate query failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	ranked := matching.Rank(member, cands, time.Now().UTC())
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := make([]recommendationResp, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, recommendationResp{
			TeeTime:       toTeeTimeResp(r.Candidate.TeeTime, nil),
			HostName:      r.Candidate.Host.FullName,
			DistanceMiles: r.Candidate.DistanceMiles,
			Score:         r.Score,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"recommendations": out})
}
