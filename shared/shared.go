package shared

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"shareit/shared/cache"
	"shareit/shared/constant"
	"shareit/shared/dto"
	"shareit/shared/failure"
	"shareit/shared/timezone"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// UserIDFromContext returns the caller set from the X-Sharer-User-Id header.
func UserIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(constant.ContextKeyUserID).(string)
	if !ok || userID == "" {
		return "", failure.BadRequestFromString("Header " + constant.RequestHeaderSharerUserID + " is required") // nolint:wrapcheck
	}

	return userID, nil
}

func ConvertStringToBool(value string) *bool {
	if value == "" {
		return nil
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		log.Error().Err(err).Msg("failed to convert string to bool")

		return nil
	}

	return &boolValue
}

// TransformFields converts the fields of a struct into a map of updated fields.
func TransformFields(data interface{}, username string) map[string]any {
	val := reflect.ValueOf(data)
	typ := reflect.TypeOf(data)

	updatedFields := make(map[string]any)

	for index := range val.NumField() {
		field := val.Field(index)
		if field.IsZero() {
			continue
		}

		fieldName := typ.Field(index).Tag.Get("db")
		if fieldName == "" {
			continue
		}

		updatedFields[fieldName] = field.Interface()
	}

	updatedFields[constant.FieldModifiedAt] = timezone.Now().UTC()
	updatedFields[constant.FieldModifiedBy] = username

	return updatedFields
}

func FilterByID(id, fieldID, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    fieldID,
				Value:    id,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
		},
	}
}

// FilterAll joins filters and groups with AND.
func FilterAll(filters ...any) dto.FilterGroup {
	return dto.FilterGroup{
		Filters:  filters,
		Operator: dto.FilterGroupOperatorAnd,
	}
}

// BuildCacheKey joins the prefix and parts with ':'.
func BuildCacheKey(prefix string, parts ...string) string {
	return strings.Join(append([]string{prefix}, parts...), ":")
}

// BuildCacheKeyWithQuery derives a stable key from the query window and filter values.
func BuildCacheKeyWithQuery(prefix string, params dto.QueryParams, filter dto.FilterGroup) string {
	where, args := filter.GetWhereClause()

	encodedArgs, err := json.Marshal(args)
	if err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to encode cache key args")
	}

	return BuildCacheKey(prefix,
		strconv.Itoa(params.Offset),
		strconv.Itoa(params.Limit),
		fmt.Sprintf("%s %s", params.SortBy, params.SortDir),
		where,
		string(encodedArgs),
	)
}

// InvalidateCaches removes every key under prefix. Failures are logged, not returned.
func InvalidateCaches(ctx context.Context, redisCache cache.RedisCache, prefix string) {
	if err := redisCache.Clear(ctx, prefix+constant.Asterix); err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to invalidate caches")
	}
}
