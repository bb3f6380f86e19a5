package constant

import (
	"time"
)

// Context key types to avoid collisions
type contextKey string

const (
	ContextKeyUserID contextKey = "user_id"
)

const (
	RequestParamFrom     = "from"
	RequestParamSize     = "size"
	RequestParamState    = "state"
	RequestParamText     = "text"
	RequestParamApproved = "approved"
)

const (
	RequestParamID = "id"
)

const (
	DefaultValueFrom = 0
	DefaultValueSize = 10
)

const (
	FieldCreatedAt  = "created_at"
	FieldCreatedBy  = "created_by"
	FieldModifiedAt = "modified_at"
	FieldModifiedBy = "modified_by"
)

const (
	PqErrorCodeUniqueViolation = "23505"
)

const (
	DateFormat = time.RFC3339
)

const (
	OtelServiceScopeName    = "service"
	OtelRepositoryScopeName = "repository"
	OtelHandlerScopeName    = "handler"
	OtelEventScopeName      = "event"
	OtelGatewayScopeName    = "gateway"

	OtelQueryAttributeKey = "query"
)

const (
	RequestHeaderSharerUserID       = "X-Sharer-User-Id"
	RequestHeaderUserAgent          = "User-Agent"
	RequestHeaderContentType        = "Content-Type"
	RequestHeaderRateLimit          = "X-RateLimit-Limit"
	RequestHeaderRateLimitRemaining = "X-RateLimit-Remaining"
	RequestHeaderRateLimitWindow    = "X-RateLimit-Window"
	RequestHeaderForwardedFor       = "X-Forwarded-For"
	RequestHeaderRealIP             = "X-Real-IP"
)

const (
	ContentTypeJSON = "application/json"
)

const (
	ResponseErrorPrepareShutdown      = "SERVER PREPARING TO SHUT DOWN"
	ResponseErrorUnhealthy            = "SERVER UNHEALTHY"
	ResponseErrorRequestLimitExceeded = "REQUEST LIMIT EXCEEDED"
	ResponseErrorValidation           = "Validation Error"
	ResponseErrorUnexpected           = "unexpected error occurred"
	ResponseErrorKey                  = "error"
)

const (
	ServerEnvDevelopment = "development"
	ServerEnvProduction  = "production"
)

const (
	CacheKeyUserGet    = "user:get"
	CacheKeyUserGets   = "user:gets"
	CacheKeyRequestGet = "request:get"
	CacheKeyItemSearch = "item:search"
)

const (
	Asterix = "*"
	Empty   = ""
)
