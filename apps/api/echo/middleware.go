package echoapi

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/trezcool/bellplus/core"
	"github.com/trezcool/bellplus/services/metrics"
)

var clientCtxKey = "client"

// requestIDMiddleware tags each request with an id (the caller's X-Request-ID if set),
// and stores the requesting core.Client in the context for the logs.
func requestIDMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		req := ctx.Request()
		id := req.Header.Get(echo.HeaderXRequestID)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.New().String()
		}
		ctx.Response().Header().Set(echo.HeaderXRequestID, id)
		ctx.Set(clientCtxKey, core.Client{
			ID:        id,
			Address:   ctx.RealIP(),
			UserAgent: req.UserAgent(),
		})
		return next(ctx)
	}
}

func contextClient(ctx echo.Context) core.Client {
	client, _ := ctx.Get(clientCtxKey).(core.Client)
	return client
}

// metricsMiddleware counts requests by route and response status.
func metricsMiddleware(rec *metrics.Recorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			err := next(ctx)
			if err != nil {
				ctx.Error(err) // commit the response now, to know its status
			}
			route := ctx.Path()
			if route == "" {
				route = "unmatched"
			}
			rec.ObserveRequest(route, ctx.Response().Status)
			return nil
		}
	}
}
