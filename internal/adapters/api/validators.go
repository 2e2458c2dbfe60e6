package api

import (
	"log/slog"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"weatherproxy.app/pkg/validation"
)

const cityTag = "city"

var registerOnce sync.Once

// RegisterValidators installs the city rule on gin's validator and reports
// query fields by their form names
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		v.RegisterTagNameFunc(formFieldName)
		if err := v.RegisterValidation(cityTag, validateCity); err != nil {
			slog.Warn("Failed to register city validator", "error", err)
		}
	})
}

func validateCity(fl validator.FieldLevel) bool {
	return validation.IsValidLocation(fl.Field().String())
}

func formFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("form"), ",", 2)[0]
	if name == "" || name == "-" {
		return field.Name
	}
	return name
}
