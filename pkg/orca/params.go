package orca

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their query parameter name, or their JSON key for response bodies.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("query"), ",", 2)[0]
		if name == "" {
			name = strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		}
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("timeperiod", func(fl validator.FieldLevel) bool {
		return TimePeriod(fl.Field().String()).Valid()
	})
	return v
}

// TokensParams filters and pages GetTokens. Zero values are omitted.
type TokensParams struct {
	Next          string `query:"next"`
	Previous      string `query:"previous"`
	Size          int    `query:"size" validate:"omitempty,min=1,max=3000"`
	SortBy        string `query:"sort_by"`
	SortDirection string `query:"sort_direction" validate:"omitempty,oneof=asc desc"`
	Tokens        string `query:"tokens"`
}

func (p TokensParams) values() url.Values {
	q := url.Values{}
	setString(q, "next", p.Next)
	setString(q, "previous", p.Previous)
	setInt(q, "size", p.Size)
	setString(q, "sort_by", p.SortBy)
	setString(q, "sort_direction", p.SortDirection)
	setString(q, "tokens", p.Tokens)
	return q
}

// PoolsParams filters and pages GetPools. Nil pointers and empty values are omitted.
type PoolsParams struct {
	SortBy                    string       `query:"sortBy"`
	SortDirection             string       `query:"sortDirection" validate:"omitempty,oneof=asc desc"`
	Next                      string       `query:"next"`
	Previous                  string       `query:"previous"`
	HasRewards                *bool        `query:"hasRewards"`
	HasWarning                *bool        `query:"hasWarning"`
	HasAdaptiveFee            *bool        `query:"hasAdaptiveFee"`
	IsWavebreak               *bool        `query:"isWavebreak"`
	MinTVL                    *float64     `query:"minTvl" validate:"omitempty,gte=0"`
	MinVolume                 *float64     `query:"minVolume" validate:"omitempty,gte=0"`
	MinLockedLiquidityPercent *float64     `query:"minLockedLiquidityPercent" validate:"omitempty,gte=0"`
	Size                      int          `query:"size" validate:"omitempty,min=1,max=3000"`
	Token                     []uint64     `query:"token"`
	TokensBothOf              []string     `query:"tokensBothOf" validate:"omitempty,max=2,dive,required"`
	Addresses                 []string     `query:"addresses" validate:"omitempty,dive,required"`
	Stats                     []TimePeriod `query:"stats" validate:"omitempty,dive,timeperiod"`
	IncludeBlocked            *bool        `query:"includeBlocked"`
}

func (p PoolsParams) values() url.Values {
	q := url.Values{}
	setString(q, "sortBy", p.SortBy)
	setString(q, "sortDirection", p.SortDirection)
	setString(q, "next", p.Next)
	setString(q, "previous", p.Previous)
	setBool(q, "hasRewards", p.HasRewards)
	setBool(q, "hasWarning", p.HasWarning)
	setBool(q, "hasAdaptiveFee", p.HasAdaptiveFee)
	setBool(q, "isWavebreak", p.IsWavebreak)
	setFloat(q, "minTvl", p.MinTVL)
	setFloat(q, "minVolume", p.MinVolume)
	setFloat(q, "minLockedLiquidityPercent", p.MinLockedLiquidityPercent)
	setInt(q, "size", p.Size)
	for _, t := range p.Token {
		q.Add("token", strconv.FormatUint(t, 10))
	}
	addAll(q, "tokensBothOf", p.TokensBothOf)
	addAll(q, "addresses", p.Addresses)
	addPeriods(q, p.Stats)
	setBool(q, "includeBlocked", p.IncludeBlocked)
	return q
}

// SearchPoolsParams drives SearchPools. Query is required.
type SearchPoolsParams struct {
	Query              string       `query:"q" validate:"required"`
	Next               string       `query:"next"`
	Size               int          `query:"size" validate:"omitempty,min=1,max=3000"`
	SortBy             string       `query:"sortBy"`
	SortDirection      string       `query:"sortDirection" validate:"omitempty,oneof=asc desc"`
	MinTVL             *float64     `query:"minTvl" validate:"omitempty,gte=0"`
	MinVolume          *float64     `query:"minVolume" validate:"omitempty,gte=0"`
	Stats              []TimePeriod `query:"stats" validate:"omitempty,dive,timeperiod"`
	UserTokens         []string     `query:"userTokens" validate:"omitempty,dive,required"`
	HasRewards         *bool        `query:"hasRewards"`
	VerifiedOnly       *bool        `query:"verifiedOnly"`
	HasLockedLiquidity *bool        `query:"hasLockedLiquidity"`
}

func (p SearchPoolsParams) values() url.Values {
	q := url.Values{}
	q.Set("q", strings.TrimSpace(p.Query))
	setString(q, "next", p.Next)
	setInt(q, "size", p.Size)
	setString(q, "sortBy", p.SortBy)
	setString(q, "sortDirection", p.SortDirection)
	setFloat(q, "minTvl", p.MinTVL)
	setFloat(q, "minVolume", p.MinVolume)
	addPeriods(q, p.Stats)
	addAll(q, "userTokens", p.UserTokens)
	setBool(q, "hasRewards", p.HasRewards)
	setBool(q, "verifiedOnly", p.VerifiedOnly)
	setBool(q, "hasLockedLiquidity", p.HasLockedLiquidity)
	return q
}

// Bool returns a pointer to v, for optional filters.
func Bool(v bool) *bool { return &v }

// Float64 returns a pointer to v, for optional filters.
func Float64(v float64) *float64 { return &v }

// ValidationError is a single rejected parameter.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors holds every rejected parameter of a request.
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v *ValidationErrors) Error() string {
	if len(v.Errors) == 0 {
		return "validation failed"
	}
	messages := make([]string, len(v.Errors))
	for i, e := range v.Errors {
		messages[i] = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// validateParams runs struct validation and wraps failures in ErrInvalidArgument.
func validateParams(params any) error {
	err := validate.Struct(params)
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidArgument, fieldErrors(err))
}

// fieldErrors converts validator output into ValidationErrors. Other errors pass through.
func fieldErrors(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	out := &ValidationErrors{}
	for _, e := range fieldErrs {
		out.Errors = append(out.Errors, ValidationError{
			Field:   e.Field(),
			Message: formatValidationMessage(e),
		})
	}
	return out
}

func formatValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", e.Param())
	case "max":
		if e.Kind() == reflect.Slice {
			return fmt.Sprintf("must have at most %s entries", e.Param())
		}
		return fmt.Sprintf("must be at most %s", e.Param())
	case "gte":
		return fmt.Sprintf("must be >= %s", e.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", e.Param())
	case "timeperiod":
		return fmt.Sprintf("unknown period %q", e.Value())
	default:
		return fmt.Sprintf("failed %s validation", e.Tag())
	}
}

func setString(q url.Values, key, v string) {
	if v = strings.TrimSpace(v); v != "" {
		q.Set(key, v)
	}
}

func setInt(q url.Values, key string, v int) {
	if v != 0 {
		q.Set(key, strconv.Itoa(v))
	}
}

func setBool(q url.Values, key string, v *bool) {
	if v != nil {
		q.Set(key, strconv.FormatBool(*v))
	}
}

func setFloat(q url.Values, key string, v *float64) {
	if v != nil {
		q.Set(key, strconv.FormatFloat(*v, 'f', -1, 64))
	}
}

func addAll(q url.Values, key string, vals []string) {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			q.Add(key, v)
		}
	}
}

func addPeriods(q url.Values, periods []TimePeriod) {
	for _, p := range periods {
		q.Add("stats", string(p))
	}
}
