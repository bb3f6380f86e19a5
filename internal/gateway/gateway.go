// Package gateway is the public front door of the service. It rejects malformed
// requests and throttles callers before anything reaches the server.
package gateway

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"shareit/config"
	"shareit/infras/otel"
	bookingModel "shareit/internal/domains/booking/model"
	"shareit/shared/constant"
	"shareit/shared/failure"
	"shareit/shared/timezone"
	"shareit/shared/validator"
	"shareit/transport/http/response"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const maxBodyBytes = 1 << 20

type Gateway struct {
	config  *config.Config
	limiter *Limiter
	proxy   *httputil.ReverseProxy
	otel    otel.Otel
	now     func() time.Time
}

func New(cfg *config.Config, limiter *Limiter, otel otel.Otel) (*Gateway, error) {
	upstream, err := url.Parse(cfg.Gateway.ServerURL)
	if err != nil {
		return nil, fmt.Errorf("invalid gateway upstream %q: %w", cfg.Gateway.ServerURL, err)
	}

	if upstream.Host == "" {
		return nil, fmt.Errorf("gateway upstream %q has no host", cfg.Gateway.ServerURL)
	}

	proxy := httputil.NewSingleHostReverseProxy(upstream)
	proxy.ErrorHandler = func(writer http.ResponseWriter, request *http.Request, err error) {
		log.Error().Err(err).Str("path", request.URL.Path).Msg("failed to reach upstream server")

		response.WithErrorMessage(writer, http.StatusBadGateway, http.StatusText(http.StatusBadGateway))
	}

	return &Gateway{
		config:  cfg,
		limiter: limiter,
		proxy:   proxy,
		otel:    otel,
		now:     timezone.Now,
	}, nil
}

// Handler mirrors the server routes. Each route validates its input, then forwards the untouched request.
func (g *Gateway) Handler() http.Handler {
	router := chi.NewRouter()
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Recoverer)
	router.Use(g.trace)

	router.Get("/health", func(writer http.ResponseWriter, _ *http.Request) {
		response.WithMessage(writer, http.StatusOK, "OK")
	})

	router.Route("/users", func(r chi.Router) {
		r.Use(g.rateLimit)
		r.Get("/", g.forward)
		r.Post("/", g.body(validateBody[createUser]))
		r.Get("/{id}", g.forward)
		r.Patch("/{id}", g.body(validateBody[updateUser]))
		r.Delete("/{id}", g.forward)
	})

	router.Group(func(r chi.Router) {
		r.Use(g.sharerUser)
		r.Use(g.rateLimit)

		r.Route("/items", func(r chi.Router) {
			r.Get("/", g.paged)
			r.Post("/", g.body(validateBody[createItem]))
			r.Get("/search", g.paged)
			r.Get("/{id}", g.forward)
			r.Patch("/{id}", g.forward)
			r.Delete("/{id}", g.forward)
			r.Post("/{id}/comment", g.body(validateBody[createComment]))
		})

		r.Route("/bookings", func(r chi.Router) {
			r.Get("/", g.bookingState)
			r.Get("/owner", g.bookingState)
			r.Post("/", g.body(g.validateBooking))
			r.Get("/{id}", g.forward)
			r.Patch("/{id}", g.approval)
		})

		r.Route("/requests", func(r chi.Router) {
			r.Get("/", g.forward)
			r.Post("/", g.body(validateBody[createRequest]))
			r.Get("/all", g.paged)
			r.Get("/{id}", g.forward)
			r.Patch("/{id}", g.forward)
			r.Delete("/{id}", g.forward)
		})
	})

	return router
}

func (g *Gateway) trace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx, scope := g.otel.NewScope(request.Context(), constant.OtelGatewayScopeName, request.Method+" "+request.URL.Path)
		defer scope.End()

		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

func (g *Gateway) sharerUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		userID := strings.TrimSpace(request.Header.Get(constant.RequestHeaderSharerUserID))
		if userID == "" {
			response.WithError(writer, failure.BadRequestFromString("Header "+constant.RequestHeaderSharerUserID+" is required"))

			return
		}

		if _, err := uuid.Parse(userID); err != nil {
			response.WithError(writer, failure.BadRequestFromString("Header "+constant.RequestHeaderSharerUserID+" must be a UUID"))

			return
		}

		next.ServeHTTP(writer, request)
	})
}

// rateLimit keys on the caller id when present and on the client address otherwise.
func (g *Gateway) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		key := strings.TrimSpace(request.Header.Get(constant.RequestHeaderSharerUserID))
		if key == "" {
			key = clientIP(request)
		}

		if !g.limiter.Allow(key) {
			log.Warn().Str("key", key).Str("path", request.URL.Path).Msg("gateway rate limit exceeded")

			response.WithRequestLimitExceeded(writer)

			return
		}

		next.ServeHTTP(writer, request)
	})
}

func (g *Gateway) forward(writer http.ResponseWriter, request *http.Request) {
	g.proxy.ServeHTTP(writer, request)
}

func (g *Gateway) paged(writer http.ResponseWriter, request *http.Request) {
	if err := validatePaging(request); err != nil {
		response.WithError(writer, err)

		return
	}

	g.forward(writer, request)
}

func (g *Gateway) bookingState(writer http.ResponseWriter, request *http.Request) {
	state := request.URL.Query().Get(constant.RequestParamState)
	if _, ok := bookingModel.ParseState(state); !ok {
		response.WithError(writer, failure.BadRequestFromString("Unknown state: "+state))

		return
	}

	g.paged(writer, request)
}

func (g *Gateway) approval(writer http.ResponseWriter, request *http.Request) {
	if _, err := strconv.ParseBool(request.URL.Query().Get(constant.RequestParamApproved)); err != nil {
		response.WithError(writer, failure.BadRequestFromString("Parameter approved must be true or false"))

		return
	}

	g.forward(writer, request)
}

// body buffers the request body, runs check against it and restores it for the proxy.
func (g *Gateway) body(check func(body []byte) error) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		body, err := io.ReadAll(io.LimitReader(request.Body, maxBodyBytes))
		if err != nil {
			response.WithError(writer, failure.BadRequest(fmt.Errorf("failed to read request body: %w", err)))

			return
		}

		_ = request.Body.Close()

		if err = check(body); err != nil {
			log.Debug().Err(err).Str("path", request.URL.Path).Msg("gateway rejected request body")

			response.WithError(writer, err)

			return
		}

		request.Body = io.NopCloser(bytes.NewReader(body))
		request.ContentLength = int64(len(body))

		g.forward(writer, request)
	}
}

func (g *Gateway) validateBooking(body []byte) error {
	req := createBooking{}
	if err := validator.Validate(bytes.NewReader(body), &req); err != nil {
		return err //nolint:wrapcheck
	}

	now := g.now().Truncate(time.Second)

	fields := map[string]string{}
	if req.Start.Before(now) {
		fields["start"] = "start must be in the present or future"
	}

	if !req.End.After(now) {
		fields["end"] = "end must be in the future"
	}

	if len(fields) > 0 {
		return failure.Validation(constant.ResponseErrorValidation, fields) //nolint:wrapcheck
	}

	return nil
}

func validateBody[T any](body []byte) error {
	var req T

	return validator.Validate(bytes.NewReader(body), &req) //nolint:wrapcheck
}

func validatePaging(request *http.Request) error {
	query := request.URL.Query()

	if from := query.Get(constant.RequestParamFrom); from != "" {
		if value, err := strconv.Atoi(from); err != nil || value < 0 {
			return failure.BadRequestFromString("Parameter from must be zero or positive") //nolint:wrapcheck
		}
	}

	if size := query.Get(constant.RequestParamSize); size != "" {
		if value, err := strconv.Atoi(size); err != nil || value <= 0 {
			return failure.BadRequestFromString("Parameter size must be positive") //nolint:wrapcheck
		}
	}

	return nil
}

func clientIP(request *http.Request) string {
	if forwarded := request.Header.Get(constant.RequestHeaderForwardedFor); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}

	if realIP := request.Header.Get(constant.RequestHeaderRealIP); realIP != "" {
		return realIP
	}

	return request.RemoteAddr
}
