package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"pickup/internal/generated/servers"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"github.com/swaggo/swag"
)

const docsInstance = "pickup"

var (
	registerDocs    sync.Once
	registerDocsErr error
)

// HealthCheck reports whether the service can serve requests.
type HealthCheck func(ctx context.Context) error

// RouterConfig carries everything NewRouter wires into echo.
type RouterConfig struct {
	Server        *Server
	Authenticator *Authenticator
	Health        HealthCheck
	Logger        *slog.Logger
}

// NewRouter builds the echo instance serving the API:
//   - /health and /swagger/* are public
//   - every other route requires a bearer token and is validated against api/openapi.yml
func NewRouter(cfg RouterConfig) (*echo.Echo, error) {
	if cfg.Server == nil || cfg.Authenticator == nil {
		return nil, errors.New("router needs a server and an authenticator")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "http")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(logger)

	validator, err := requestValidator()
	if err != nil {
		return nil, err
	}
	if err = registerSwaggerDocs(); err != nil {
		return nil, err
	}

	e.Use(middleware.Recover())
	e.Use(requestLogger(logger))
	e.Use(cfg.Authenticator.Middleware(isPublic))
	e.Use(validator)

	e.GET("/health", healthHandler(cfg.Health))
	e.GET("/swagger/*", echoSwagger.EchoWrapHandler(echoSwagger.InstanceName(docsInstance)))

	servers.RegisterHandlers(e, cfg.Server)

	return e, nil
}

func isPublic(c echo.Context) bool {
	path := c.Path()
	return path == "/health" || strings.HasPrefix(path, "/swagger/")
}

func requestValidator() (echo.MiddlewareFunc, error) {
	swagger, err := servers.GetSwagger()
	if err != nil {
		return nil, err
	}
	return NewRequestValidator(swagger)
}

func healthHandler(check HealthCheck) echo.HandlerFunc {
	return func(c echo.Context) error {
		if check != nil {
			if err := check(c.Request().Context()); err != nil {
				return c.String(http.StatusServiceUnavailable, "Unhealthy")
			}
		}
		return c.String(http.StatusOK, "Healthy")
	}
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}

			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}

			logger.LogAttrs(c.Request().Context(), level, "request", attrs...)
			return nil
		},
	})
}

// errorHandler renders errors that escaped the handlers, such as malformed path
// parameters, failed validation, missing credentials and unknown routes, as servers.Error.
func errorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		kind := servers.INTERNAL
		message := "Internal server error"

		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			kind = kindForStatus(status)
			if msg, ok := he.Message.(string); ok && status < http.StatusInternalServerError {
				message = msg
			} else if status < http.StatusInternalServerError {
				message = http.StatusText(status)
			}
		} else {
			status, kind = classify(err)
			if status < http.StatusInternalServerError {
				message = err.Error()
			}
		}

		if status >= http.StatusInternalServerError {
			logger.ErrorContext(c.Request().Context(), "unhandled error",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"error", err,
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, servers.Error{Code: status, Kind: kind, Message: message})
		}
		if err != nil {
			logger.ErrorContext(c.Request().Context(), "failed to write error response", "error", err)
		}
	}
}

type openAPIDoc string

func (d openAPIDoc) ReadDoc() string {
	return string(d)
}

// registerSwaggerDocs publishes the OpenAPI document to swag, from which echo-swagger
// serves /swagger/doc.json.
func registerSwaggerDocs() error {
	registerDocs.Do(func() {
		swagger, err := servers.GetSwagger()
		if err != nil {
			registerDocsErr = err
			return
		}

		doc, err := json.Marshal(swagger)
		if err != nil {
			registerDocsErr = fmt.Errorf("marshal openapi document: %w", err)
			return
		}
		swag.Register(docsInstance, openAPIDoc(doc))
	})
	return registerDocsErr
}
