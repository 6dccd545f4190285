package middleware

import (
	"reflect"
	"strings"

	"github.com/egresados/seguimiento-api/internal/pkg/validation"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidation makes gin's validator report JSON field names so that
// binding errors name the fields clients actually send, and installs the
// custom rules used by request DTOs
func RegisterValidation() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	v.RegisterTagNameFunc(jsonFieldName)
	return validation.Register(v)
}

func jsonFieldName(field reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name, _, _ := strings.Cut(field.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return field.Name
}
