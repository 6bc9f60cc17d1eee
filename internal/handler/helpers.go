package handler

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/ridwanfathin/purchase-manager-service/internal/model"
)

var registerFieldNames sync.Once

// useFormFieldNames makes validation errors report the form/query key
// (customer_cf) instead of the Go field name (CustomerCF)
func useFormFieldNames() {
	registerFieldNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
	})
}

// getPathID retrieves a positive integer path parameter
func getPathID(c *gin.Context, paramName string) (int64, error) {
	value := c.Param(paramName)
	if value == "" {
		return 0, fmt.Errorf("%s is required", paramName)
	}

	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s: must be a positive integer", paramName)
	}

	return id, nil
}

// bindingErrorDetails converts a binding error to per-field details.
// Errors that are not validator errors yield a single detail without a field.
func bindingErrorDetails(err error) []model.ErrorDetail {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []model.ErrorDetail{newErrorDetail("", err.Error())}
	}

	details := make([]model.ErrorDetail, 0, len(validationErrors))
	for _, fe := range validationErrors {
		details = append(details, newErrorDetail(fe.Field(), validationMessage(fe)))
	}
	return details
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	default:
		return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
	}
}

// isBodyTooLarge reports whether err came from an http.MaxBytesReader limit
func isBodyTooLarge(err error) bool {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return true
	}
	// some multipart read paths flatten the error to text
	return strings.Contains(err.Error(), "http: request body too large")
}
