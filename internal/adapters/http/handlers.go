package http

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/geodash/internal/core/domain"
	"github.com/samirrijal/geodash/internal/mapview"
)

// RootHandler answers the backend greeting.
func RootHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Hello from the Backend API!"})
	}
}

// TestHandler is a connectivity probe for the dashboard.
func TestHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"data": "Test successful"})
	}
}

// ListProjectsHandler returns the whole catalogue as a JSON array.
func ListProjectsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		projects, err := deps.Projects.List(c.UserContext())
		if err != nil {
			LoggerFromCtx(c.UserContext()).Error("list projects", "error", err)
			return errInternal(c, "failed to list projects")
		}
		return c.JSON(projects)
	}
}

// PagedProjectsHandler returns the catalogue with offset/limit pagination.
func PagedProjectsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		projects, err := deps.Projects.List(c.UserContext())
		if err != nil {
			LoggerFromCtx(c.UserContext()).Error("list projects", "error", err)
			return errInternal(c, "failed to list projects")
		}

		offset, limit := pageParams(c)
		page, pg := paginate(projects, offset, limit)
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: page, Pagination: pg})
	}
}

// GetProjectHandler returns a single project by id.
func GetProjectHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil || id <= 0 {
			return errBadRequest(c, "project id must be a positive integer")
		}

		p, err := deps.Projects.GetByID(c.UserContext(), id)
		if errors.Is(err, domain.ErrProjectNotFound) {
			return errNotFound(c, "project not found")
		}
		if err != nil {
			LoggerFromCtx(c.UserContext()).Error("get project", "id", id, "error", err)
			return errInternal(c, "failed to load project")
		}
		return c.JSON(p)
	}
}

// NearbyProjectsHandler returns projects within a radius of a point.
func NearbyProjectsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		latStr, lonStr := c.Query("lat"), c.Query("lon")
		if latStr == "" || lonStr == "" {
			return errBadRequest(c, "lat and lon are required")
		}
		lat, err1 := strconv.ParseFloat(latStr, 64)
		lon, err2 := strconv.ParseFloat(lonStr, 64)
		center := domain.GeoPoint{Lat: lat, Lon: lon}
		if err1 != nil || err2 != nil || !center.Valid() {
			return errBadRequest(c, "lat and lon must be valid coordinates")
		}
		radius := c.QueryFloat("radius", 1000)
		if radius <= 0 || radius > 50000 {
			return errBadRequest(c, "radius must be between 1 and 50000 meters")
		}
		limit := c.QueryInt("limit", 20)

		near, err := deps.Projects.Nearby(c.UserContext(), center, radius, limit)
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(near)
	}
}

// ProjectsGeoJSONHandler returns the catalogue as a FeatureCollection with
// the same properties the map source carries.
func ProjectsGeoJSONHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		projects, err := deps.Projects.List(c.UserContext())
		if err != nil {
			LoggerFromCtx(c.UserContext()).Error("list projects", "error", err)
			return errInternal(c, "failed to list projects")
		}
		fc := mapview.BuildFeatureCollection(projects, LoggerFromCtx(c.UserContext()))
		return c.JSON(fc, "application/geo+json")
	}
}

// ImportProjectsHandler upserts a JSON array of projects.
func ImportProjectsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var projects []domain.Project
		if err := c.BodyParser(&projects); err != nil {
			return errBadRequest(c, "body must be a JSON array of projects")
		}
		if len(projects) == 0 {
			return errBadRequest(c, "no projects supplied")
		}

		err := deps.Projects.Import(c.UserContext(), projects)
		var verr *domain.ValidationError
		switch {
		case errors.As(err, &verr):
			return errBadRequest(c, err.Error())
		case errors.Is(err, context.DeadlineExceeded):
			return newError(c, fiber.StatusGatewayTimeout, "timeout", "import timed out")
		case err != nil:
			LoggerFromCtx(c.UserContext()).Error("import projects", "error", err)
			return errInternal(c, "failed to import projects")
		}

		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"imported": len(projects)})
	}
}
