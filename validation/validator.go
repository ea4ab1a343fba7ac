package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Engine wraps the validator used for route inputs and outputs. Field errors
// are reported under the name the client sent (form, then json tag).
type Engine struct {
	validate *validator.Validate
}

// NewEngine returns an Engine around v, or around a fresh validator when v is nil.
func NewEngine(v *validator.Validate) *Engine {
	if v == nil {
		zap.L().Debug("Initializing default validator")
		v = validator.New(validator.WithRequiredStructEnabled())
	}
	v.RegisterTagNameFunc(fieldName)
	return &Engine{validate: v}
}

func (e *Engine) Validator() *validator.Validate {
	return e.validate
}

func (e *Engine) Struct(s interface{}) error {
	return e.validate.Struct(s)
}

func fieldName(field reflect.StructField) string {
	for _, tag := range []string{"form", "json"} {
		name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			continue
		}
		if name != "" {
			return name
		}
	}
	return field.Name
}
