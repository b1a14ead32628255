package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/bellplus/core"
	"github.com/trezcool/bellplus/core/schedule"
)

type scheduleApi struct {
	svc *schedule.Service
}

func registerScheduleAPI(g *echo.Group, svc *schedule.Service) {
	api := scheduleApi{svc: svc}

	sg := g.Group("/schedules")
	sg.GET("", api.query)
	sg.GET("/today", api.today)
	sg.GET("/:name", api.retrieve)
}

// Handlers

func (api *scheduleApi) query(ctx echo.Context) error {
	scheds, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying schedules")
	}
	return ctx.JSON(http.StatusOK, scheds)
}

func (api *scheduleApi) today(ctx echo.Context) error {
	letter, err := api.assemblyLetter(ctx)
	if err != nil {
		return err
	}
	sched, err := api.svc.ForDate(ctx.Request().Context(), schedule.NowFunc())
	if err != nil {
		return errors.Wrap(err, "getting today's schedule")
	}
	sched.Periods = schedule.DisplayPeriods(sched, letter)
	return ctx.JSON(http.StatusOK, sched)
}

func (api *scheduleApi) retrieve(ctx echo.Context) error {
	letter, err := api.assemblyLetter(ctx)
	if err != nil {
		return err
	}
	sched, err := api.svc.Get(ctx.Request().Context(), ctx.Param("name"))
	if err != nil {
		return errors.Wrap(err, "getting schedule")
	}
	sched.Periods = schedule.DisplayPeriods(sched, letter)
	return ctx.JSON(http.StatusOK, sched)
}

// assemblyLetter reads ?assembly=, defaulting to the configured letter.
func (api *scheduleApi) assemblyLetter(ctx echo.Context) (string, error) {
	letter := core.CleanLetter(ctx.QueryParam("assembly"))
	if letter == "" {
		return api.svc.DefaultAssemblyLetter(), nil
	}
	if !schedule.IsAssemblyLetter(letter) {
		return "", core.NewValidationError(nil, core.FieldError{
			Field: "assembly",
			Error: "must be one of the assembly letters A to H",
		})
	}
	return letter, nil
}
