package httpapi

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/uavchum/uavchum/internal/assess"
	"github.com/uavchum/uavchum/internal/flight"
	"github.com/uavchum/uavchum/internal/geo"
	"github.com/uavchum/uavchum/internal/registry"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *flight.Service, reg *registry.Registry) {
	v1 := app.Group("/api/v1")

	v1.Get("/assessment", func(c *fiber.Ctx) error {
		req, err := parseAssessmentQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		briefing, err := service.Evaluate(c.Context(), geo.Point{Lat: req.Lat, Lon: req.Lon}, req.Class)
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, err.Error())
		}
		return c.JSON(briefing)
	})

	// The alert feed re-prioritized against the latest live-feed state,
	// without a new weather fetch.
	v1.Get("/alerts", func(c *fiber.Ctx) error {
		briefing, ok := service.Refresh()
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "no assessment has been run yet")
		}
		return c.JSON(fiber.Map{
			"alerts":      briefing.Alerts,
			"verdict":     briefing.Assessment.Verdict,
			"generatedAt": briefing.GeneratedAt,
		})
	})

	// The full normalized hazard picture: every layer with its features.
	v1.Get("/hazards", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"layers":  reg.Layers(),
			"toggles": reg.ToggleState(),
		})
	})

	v1.Get("/layers", func(c *fiber.Ctx) error {
		layers := reg.Layers()
		toggles := reg.ToggleState()

		out := make([]fiber.Map, 0, len(layers))
		for key, layer := range layers {
			out = append(out, fiber.Map{
				"key":      key,
				"label":    layer.Label,
				"color":    layer.Color,
				"features": len(layer.Features),
				"visible":  toggles[key],
			})
		}
		return c.JSON(fiber.Map{"layers": out})
	})

	v1.Get("/layers/:key", func(c *fiber.Ctx) error {
		key := c.Params("key")
		layer, ok := reg.Layer(key)
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "unknown layer "+key)
		}
		return c.JSON(layer)
	})

	v1.Put("/layers/:key/visible", func(c *fiber.Ctx) error {
		key := c.Params("key")
		if _, ok := reg.Layer(key); !ok {
			return fiber.NewError(fiber.StatusNotFound, "unknown layer "+key)
		}

		visible, err := strconv.ParseBool(c.Query("value"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "value must be true or false")
		}
		reg.SetVisible(key, visible)
		return c.JSON(fiber.Map{"key": key, "visible": reg.Visible(key)})
	})

	v1.Post("/layers/reset", func(c *fiber.Ctx) error {
		reg.ResetToggles()
		return c.JSON(fiber.Map{"toggles": reg.ToggleState()})
	})

	v1.Get("/profiles", func(c *fiber.Ctx) error {
		names := assess.ProfileNames()
		out := make([]assess.Thresholds, 0, len(names))
		for _, n := range names {
			if t, ok := assess.ProfileFor(n); ok {
				out = append(out, t)
			}
		}
		return c.JSON(fiber.Map{"default": assess.DefaultProfile, "profiles": out})
	})
}

// assessmentQuery holds query parameters for the assessment endpoint.
type assessmentQuery struct {
	Lat   float64 `validate:"gte=-90,lte=90"`
	Lon   float64 `validate:"gte=-180,lte=180"`
	Class string
}

func parseAssessmentQuery(c *fiber.Ctx) (assessmentQuery, error) {
	var q assessmentQuery

	latStr := c.Query("lat")
	lonStr := c.Query("lon")
	if latStr == "" || lonStr == "" {
		return q, errors.New("lat and lon query parameters are required")
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return q, errors.New("lat must be a number")
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return q, errors.New("lon must be a number")
	}

	q.Lat = lat
	q.Lon = lon
	q.Class = c.Query("class")

	if err := validate.Struct(q); err != nil {
		return q, err
	}
	if q.Class != "" {
		if _, ok := assess.ProfileFor(q.Class); !ok {
			return q, errors.New("unknown drone class " + q.Class)
		}
	}
	return q, nil
}
