package httpapi

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/hourly-weather/internal/dashboard"
	"github.com/i474232898/hourly-weather/internal/weather"
)

// requestTimeout bounds a single provider round trip made on behalf of a request.
const requestTimeout = 15 * time.Second

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service, board *dashboard.Board) {
	validate := newValidator(service.Presets())

	v1 := app.Group("/api/v1")

	v1.Get("/locations", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"locations": service.Presets().List(),
		})
	})

	v1.Get("/forecast", func(c *fiber.Ctx) error {
		q := locationQuery{Location: c.Query("location")}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "location must be one of the preset keys")
		}

		ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
		defer cancel()

		view, err := service.Forecast(ctx, q.Location)
		if err != nil {
			return fetchError(err)
		}
		return c.JSON(view)
	})

	v1.Get("/dashboard", func(c *fiber.Ctx) error {
		return c.JSON(board.State())
	})

	v1.Post("/dashboard/location", func(c *fiber.Ctx) error {
		var body locationQuery
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "location must be one of the preset keys")
		}

		ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
		defer cancel()

		state, err := board.Select(ctx, body.Location)
		return boardResponse(c, state, err)
	})

	v1.Post("/dashboard/refresh", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
		defer cancel()

		state, err := board.Refresh(ctx)
		return boardResponse(c, state, err)
	})
}

// locationQuery identifies a preset location.
type locationQuery struct {
	Location string `json:"location" validate:"required,preset"`
}

func newValidator(presets weather.Presets) *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("preset", func(fl validator.FieldLevel) bool {
		_, ok := presets.Lookup(fl.Field().String())
		return ok
	})
	return v
}

// fetchError maps service errors onto HTTP errors.
func fetchError(err error) error {
	switch {
	case errors.Is(err, weather.ErrUnknownLocation):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, weather.ErrEmptySeries):
		return fiber.NewError(fiber.StatusUnprocessableEntity, weather.NoDataMessage)
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.NewError(fiber.StatusGatewayTimeout, weather.Describe(err))
	case weather.IsTransport(err):
		return fiber.NewError(fiber.StatusBadGateway, weather.Describe(err))
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather data")
	}
}

// boardResponse always returns the board state. A failed fetch is already
// reflected in the state's status, so it is reported with the state rather
// than through the error handler.
func boardResponse(c *fiber.Ctx, state dashboard.State, err error) error {
	switch {
	case err == nil:
		return c.JSON(state)
	case errors.Is(err, dashboard.ErrNoSelection):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, dashboard.ErrSuperseded):
		return c.Status(fiber.StatusConflict).JSON(state)
	case errors.Is(err, weather.ErrUnknownLocation):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return c.Status(fiber.StatusGatewayTimeout).JSON(state)
	case weather.IsTransport(err):
		return c.Status(fiber.StatusBadGateway).JSON(state)
	case errors.Is(err, weather.ErrEmptySeries):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(state)
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(state)
	}
}
