package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/amelendez141/linkup-golf/internal/model"
	"github.com/amelendez141/linkup-golf/internal/repository"
)

// ProfileHandler serves the member's own profile.
type ProfileHandler struct {
	Users *repository.UserRepo
}

func NewProfileHandler(u *repository.UserRepo) *ProfileHandler {
	return &ProfileHandler{Users: u}
}

type profileResp struct {
	ID           uint64   `json:"id"`
	Email        string   `json:"email"`
	FullName     string   `json:"full_name"`
	Headline     *string  `json:"headline"`
	Bio          *string  `json:"bio"`
	Industry     *string  `json:"industry"`
	SkillLevel   *string  `json:"skill_level"`
	Handicap     *float64 `json:"handicap"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	SearchRadius float64  `json:"search_radius_miles"`
}

func toProfileResp(u model.User) profileResp {
	r := profileResp{
		ID:           u.ID,
		Email:        u.Email,
		FullName:     u.FullName,
		Headline:     u.Headline,
		Bio:          u.Bio,
		Handicap:     u.Handicap,
		Latitude:     u.Latitude,
		Longitude:    u.Longitude,
		SearchRadius: u.SearchRadiusOrDefault(),
	}
	if u.Industry != nil {
		v := string(*u.Industry)
		r.Industry = &v
	}
	if u.SkillLevel != nil {
		v := string(*u.SkillLevel)
		r.SkillLevel = &v
	}
	return r
}

// Me returns the authenticated member's profile.
func (h *ProfileHandler) Me(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toProfileResp(u))
}

type profileUpdateReq struct {
	FullName     string   `json:"full_name"`
	Headline     *string  `json:"headline"`
	Bio          *string  `json:"bio"`
	Industry     *string  `json:"industry"`
	SkillLevel   *string  `json:"skill_level"`
	Handicap     *float64 `json:"handicap"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	SearchRadius *float64 `json:"search_radius_miles"`
}

// Update rewrites the authenticated member's profile.  Industry and
// skill level must come from the fixed vocabularies; location must be
// set or cleared as a pair since a lone coordinate is meaningless for
// distance scoring.
func (h *ProfileHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req profileUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.FullName = strings.TrimSpace(req.FullName)
	if req.FullName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "full_name required"})
	}

	upd := repository.ProfileUpdate{
		FullName: req.FullName,
		Headline: req.Headline,
		Bio:      req.Bio,
		Handicap: req.Handicap,
	}
	if req.Industry != nil {
		ind := model.Industry(strings.ToUpper(strings.TrimSpace(*req.Industry)))
		if !ind.Valid() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown industry"})
		}
		upd.Industry = &ind
	}
	if req.SkillLevel != nil {
		sk := model.SkillLevel(strings.ToUpper(strings.TrimSpace(*req.SkillLevel)))
		if !sk.Valid() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown skill_level"})
		}
		upd.SkillLevel = &sk
	}
	if req.Handicap != nil && (*req.Handicap < 0 || *req.Handicap > 54) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "handicap must be between 0 and 54"})
	}
	if (req.Latitude == nil) != (req.Longitude == nil) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "latitude and longitude must be set together"})
	}
	if req.Latitude != nil {
		if *req.Latitude < -90 || *req.Latitude > 90 || *req.Longitude < -180 || *req.Longitude > 180 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid coordinates"})
		}
		upd.Latitude = req.Latitude
		upd.Longitude = req.Longitude
	}
	upd.SearchRadius = model.DefaultSearchRadiusMiles
	if req.SearchRadius != nil {
		if *req.SearchRadius <= 0 || *req.SearchRadius > 500 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "search_radius_miles must be in (0, 500]"})
		}
		upd.SearchRadius = *req.SearchRadius
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Users.UpdateProfile(ctx, uid, upd); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toProfileResp(u))
}

// Show returns another member's public profile (no email).
func (h *ProfileHandler) Show(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	resp := toProfileResp(u)
	resp.Email = ""
	return c.JSON(http.StatusOK, resp)
}
