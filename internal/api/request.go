package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/jbweber/homelab/northwind/internal/envelope"
)

const maxBodyBytes = 1 << 20

// newValidator reports fields by their JSON names
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	// Money fields validate as numbers, e.g. gte=0
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// decode reads a JSON body into dst and validates it. It returns the raw
// body for callers that need a second look, or a 400 envelope.
func (a *API) decode(r *http.Request, dst any) ([]byte, *envelope.Response) {
	if r.Body == nil {
		return nil, envelope.New().Fail(http.StatusBadRequest, "Request body is required")
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return nil, envelope.New().Fail(http.StatusBadRequest, "Failed to read request body")
	}
	if len(body) > maxBodyBytes {
		return nil, envelope.New().Fail(http.StatusBadRequest, "Request body too large")
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, envelope.New().Fail(http.StatusBadRequest, "Request body is required")
	}

	if err := json.Unmarshal(body, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return nil, envelope.New().Fail(http.StatusBadRequest, fmt.Sprintf("Invalid value for %s", typeErr.Field))
		}
		return nil, envelope.New().Fail(http.StatusBadRequest, "Invalid JSON")
	}

	if err := a.validate.Struct(dst); err != nil {
		return nil, envelope.New().Fail(http.StatusBadRequest, validationMessages(err)...)
	}
	return body, nil
}

// validationMessages returns one message per failed field
func validationMessages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{"Validation error"}
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Field(), tagMessage(fe)))
	}
	return msgs
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required field"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	}
	return "validation failed"
}

// pathID parses the {id} URL parameter. Non-integers and ids <= 0 are 400s.
func pathID(r *http.Request) (int64, *envelope.Response) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, envelope.New().Fail(http.StatusBadRequest, fmt.Sprintf("Invalid id %q: must be a positive integer", raw))
	}
	return id, nil
}
