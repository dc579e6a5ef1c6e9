package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/crucial707/expense-tracker/internal/middleware"
	"github.com/crucial707/expense-tracker/internal/models"
)

var (
	errBadJSON  = errors.New("invalid JSON")
	errBadParam = errors.New("invalid parameter")
)

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// decode reads a JSON body into dst and validates it.
func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return fmt.Errorf("%w: %v", errBadJSON, err)
	}
	return validate.Struct(dst)
}

func paramError(name string) error {
	return fmt.Errorf("%w: %s", errBadParam, name)
}

func idParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, paramError("id")
	}
	return id, nil
}

func dateParam(r *http.Request, name string) (models.Date, error) {
	d, err := models.ParseDate(r.URL.Query().Get(name))
	if err != nil {
		return models.Date{}, paramError(name + " must be YYYY-MM-DD")
	}
	return d, nil
}

func intParam(r *http.Request, name string, fallback int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, paramError(name)
	}
	return n, nil
}

// caller is the user Authenticate put in the context. Routes using it are
// always mounted behind that middleware.
func caller(r *http.Request) *models.User {
	u, _ := middleware.UserFromContext(r.Context())
	return u
}
