package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/okian/jelajah/internal/domain/types"
)

const maxBodyBytes = 64 << 10

var (
	validateOnce sync.Once          //nolint:gochecknoglobals // lazily built validator
	validate     *validator.Validate //nolint:gochecknoglobals // validator caches struct metadata
)

func requestValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = validate.RegisterValidation("category", func(fl validator.FieldLevel) bool {
			return types.IsCategory(fl.Field().String())
		})
	})
	return validate
}

// recommendQuery holds the query parameters shared by recommend routes.
type recommendQuery struct {
	Interest string `json:"interest" validate:"required,max=64"`
	Address  string `json:"address" validate:"required,max=255"`
	UserID   string `json:"userId" validate:"omitempty,max=128"`
}

// filtersQuery holds the optional overrides of the filtered route.
type filtersQuery struct {
	Category  string `json:"category" validate:"omitempty,max=64"`
	Region    string `json:"region" validate:"omitempty,max=128"`
	Subregion string `json:"subregion" validate:"omitempty,max=128"`
}

// profileRequest mirrors the OpenAPI schema for PUT /api/users/{userId}/profile.
type profileRequest struct {
	Interest string `json:"interest" validate:"required,category"`
	Address  string `json:"address" validate:"required,max=255"`
}

// visitRequest mirrors the OpenAPI schema for POST /api/users/{userId}/visits.
type visitRequest struct {
	VisitID       string `json:"visitId" validate:"omitempty,max=128"`
	DestinationID string `json:"destinationId" validate:"required,max=512"`
	VisitedAt     string `json:"visitedAt" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// validateRequest runs struct validation and flattens the failures into one
// ErrBadRequest.
func validateRequest(v any) error {
	err := requestValidator().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", ErrBadRequest, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "category":
		return fmt.Sprintf("%s must be one of %s", fe.Field(), strings.Join(types.CategoryNames(), ", "))
	case "datetime":
		return fe.Field() + " must be RFC3339"
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}

// decodeBody decodes a bounded JSON body, rejecting unknown fields.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", ErrBadRequest)
		}
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return nil
}
