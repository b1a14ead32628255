package echoapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/bellplus/core/schedule"
	"github.com/trezcool/bellplus/core/timer"
)

type (
	timerApi struct {
		deps        *Deps
		clockFormat string
	}

	timerResponse struct {
		schedule.Result
		Countdown string `json:"countdown"`
		Title     string `json:"title"`
		Clock     string `json:"clock"`
		Icon      string `json:"icon,omitempty"`
	}

	iconEvent struct {
		Color string `json:"color"`
		Href  string `json:"href"`
	}
)

func registerTimerAPI(g *echo.Group, deps *Deps, clockFormat string) {
	api := timerApi{deps: deps, clockFormat: clockFormat}

	tg := g.Group("/timer")
	tg.GET("", api.retrieve)
	tg.GET("/icon.svg", api.icon)
	tg.GET("/stream", api.stream)
}

func (api *timerApi) newResponse(res schedule.Result, clockFormat string) timerResponse {
	return timerResponse{
		Result:    res,
		Countdown: schedule.FormatCountdown(res.RemainingMillis),
		Title:     schedule.Title(res),
		Clock:     schedule.FormatClock(res.At, clockFormat),
		Icon:      schedule.Urgency(res),
	}
}

// newStreamResponse leaves the icon out, it is sent as its own event when it changes.
func newStreamResponse(upd timer.Update, clockFormat string) timerResponse {
	return timerResponse{
		Result:    upd.Result,
		Countdown: upd.Countdown,
		Title:     upd.Title,
		Clock:     schedule.FormatClock(upd.Result.At, clockFormat),
	}
}

// Handlers

func (api *timerApi) retrieve(ctx echo.Context) error {
	q, err := bindTimerQuery(ctx, api.clockFormat)
	if err != nil {
		return err
	}
	res, err := api.deps.ScheduleSvc.Resolve(ctx.Request().Context(), q.ResolveRequest)
	if err != nil {
		return errors.Wrap(err, "resolving schedule")
	}
	return ctx.JSON(http.StatusOK, api.newResponse(res, q.Clock))
}

func (api *timerApi) icon(ctx echo.Context) error {
	q, err := bindTimerQuery(ctx, api.clockFormat)
	if err != nil {
		return err
	}
	res, err := api.deps.ScheduleSvc.Resolve(ctx.Request().Context(), q.ResolveRequest)
	if err != nil {
		return errors.Wrap(err, "resolving schedule")
	}
	ctx.Response().Header().Set("Cache-Control", "no-store")
	return ctx.Blob(http.StatusOK, "image/svg+xml", []byte(schedule.IconSVG(schedule.Urgency(res))))
}

// stream sends a timer update every second as server-sent events, until the client goes away.
// An icon event precedes the tick whenever the icon colour changes.
// With ?at=, the stream previews the schedule from that instant on.
func (api *timerApi) stream(ctx echo.Context) error {
	q, err := bindTimerQuery(ctx, api.clockFormat)
	if err != nil {
		return err
	}
	var offset time.Duration
	if !q.At.IsZero() {
		offset = q.At.Sub(api.deps.Clock.Now())
	}
	resolve := func(c context.Context, at time.Time) (schedule.Result, error) {
		req := q.ResolveRequest
		req.At = at.Add(offset)
		return api.deps.ScheduleSvc.Resolve(c, req)
	}

	// fail with a regular HTTP error before the stream starts
	reqCtx := ctx.Request().Context()
	if _, err = resolve(reqCtx, api.deps.Clock.Now()); err != nil {
		return errors.Wrap(err, "resolving schedule")
	}

	if api.deps.Metrics != nil {
		defer api.deps.Metrics.StreamOpened()()
	}

	w := ctx.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set(echo.HeaderConnection, "keep-alive")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	streamCtx, cancel := context.WithCancel(reqCtx)
	defer cancel()
	t := timer.New(resolve, api.deps.Clock, api.deps.Logger)
	errc := make(chan error, 1)
	go func() { errc <- t.Run(streamCtx) }()

	for upd := range t.Updates() {
		if upd.IconChanged {
			icon := iconEvent{Color: upd.Icon, Href: schedule.IconDataURL(upd.Icon)}
			if err = writeEvent(w, "icon", icon); err != nil {
				cancel()
				continue // drain until Run returns
			}
		}
		if err = writeEvent(w, "tick", newStreamResponse(upd, q.Clock)); err != nil {
			cancel()
			continue
		}
		w.Flush()
	}
	if err = <-errc; err != nil {
		// headers are sent, an error response is not possible anymore
		api.deps.Logger.Error("timer stream stopped", err, contextClient(ctx))
	}
	return nil
}

func writeEvent(w io.Writer, event string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "encoding %s event", event)
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	return err
}
