package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/wadjakorntonsri/interne/pkg/core/domain"
)

// messages is keyed by "<json field>.<validator tag>".
var messages = map[string]string{
	"url.required":      "URL is required",
	"url.httpscheme":    "URL must start with http:// or https://",
	"url.max":           "URL must be under 2048 characters",
	"title.required":    "Title is required",
	"title.max":         "Title must be under 500 characters",
	"description.max":   "Description must be under 5000 characters",
	"duration.min":      "Duration must be at least 1",
	"duration.max":      "Duration must be at most 1000",
	"interval.required": "Interval is required",
	"interval.oneof":    "Interval must be one of hours, days, weeks, months, years",
	"tags.max":          "Tags must be at most 20, each under 50 characters",
	"name.required":     "Name is required",
	"name.max":          "Name must be under 100 characters",
}

type collectionInput struct {
	Name string `json:"name" validate:"required,max=100"`
}

type userInput struct {
	Name string `json:"name" validate:"required,max=100"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("httpscheme", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
	})
	return v
}

// check runs struct validation and converts failures into a
// *domain.ValidationError keyed by JSON field name.
func check(v *validator.Validate, input any) error {
	err := v.Struct(input)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := domain.NewValidationError()
	for _, fe := range fieldErrs {
		field := fe.Field()
		if i := strings.IndexByte(field, '['); i >= 0 {
			field = field[:i]
		}
		msg, ok := messages[field+"."+fe.Tag()]
		if !ok {
			msg = fmt.Sprintf("%s is invalid", field)
		}
		out.Add(field, msg)
	}
	return out.OrNil()
}
