package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/amelendez141/linkup-golf/internal/model"
	"github.com/amelendez141/linkup-golf/internal/repository"
)

// CourseHandler serves the read-only course catalogue.
type CourseHandler struct {
	Courses *repository.CourseRepo
}

func NewCourseHandler(r *repository.CourseRepo) *CourseHandler {
	return &CourseHandler{Courses: r}
}

type courseResp struct {
	ID            uint64   `json:"id"`
	Name          string   `json:"name"`
	Address       *string  `json:"address"`
	City          string   `json:"city"`
	State         string   `json:"state"`
	Latitude      float64  `json:"latitude"`
	Longitude     float64  `json:"longitude"`
	Holes         uint8    `json:"holes"`
	Par           *uint8   `json:"par"`
	DistanceMiles *float64 `json:"distance_miles,omitempty"`
}

func toCourseResp(cs model.Course) courseResp {
	return courseResp{
		ID:        cs.ID,
		Name:      cs.Name,
		Address:   cs.Address,
		City:      cs.City,
		State:     cs.State,
		Latitude:  cs.Latitude,
		Longitude: cs.Longitude,
		Holes:     cs.Holes,
		Par:       cs.Par,
	}
}

// List returns the active course catalogue.
func (h *CourseHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	ctx, cancel := reqCtx(c)
	defer cancel()

	courses, err := h.Courses.List(ctx, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]courseResp, 0, len(courses))
	for _, cs := range courses {
		out = append(out, toCourseResp(cs))
	}
	return c.JSON(http.StatusOK, echo.Map{"courses": out})
}

// Show returns one course.
func (h *CourseHandler) Show(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	cs, err := h.Courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toCourseResp(cs))
}

// Nearby returns active courses within radius miles of a point,
// nearest first.  lat and lng are required query parameters; radius
// defaults to the standard member search radius.
func (h *CourseHandler) Nearby(c echo.Context) error {
	lat, errLat := strconv.ParseFloat(c.QueryParam("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.QueryParam("lng"), 64)
	if errLat != nil || errLng != nil || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "valid lat and lng required"})
	}
	radius := model.DefaultSearchRadiusMiles
	if rStr := c.QueryParam("radius"); rStr != "" {
		r, err := strconv.ParseFloat(rStr, 64)
		if err != nil || r <= 0 || r > 500 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "radius must be in (0, 500]"})
		}
		radius = r
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	near, err := h.Courses.FindNear(ctx, lat, lng, radius)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]courseResp, 0, len(near))
	for _, cd := range near {
		resp := toCourseResp(cd.Course)
		d := cd.DistanceMiles
		resp.DistanceMiles = &d
		out = append(out, resp)
	}
	return c.JSON(http.StatusOK, echo.Map{"courses": out})
}
