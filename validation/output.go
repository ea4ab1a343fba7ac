package validation

import (
	"reflect"

	"github.com/grzegorzmaniak/posfee/errors"
	"go.uber.org/zap"
)

// OutputData validates a handler's output and collects the fields tagged
// `header:"X-Name"` as response headers.
func OutputData[Output any](engine *Engine, output *Output) (map[string]string, *Output, *errors.AppError) {
	headers := make(map[string]string)

	if output == nil {
		return headers, nil, errors.NewInternalServerError("Output data is nil, cannot validate", nil, "nil_output_validation")
	}

	if engine == nil {
		engine = NewEngine(nil)
	}

	if err := engine.Struct(*output); err != nil {
		return headers, nil, errors.NewInternalServerError("Output data validation failed", err, errors.FormatValidationErrors(err))
	}

	val := reflect.ValueOf(*output)
	if val.Kind() != reflect.Struct {
		return headers, output, nil
	}

	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		headerTag, ok := field.Tag.Lookup("header")
		if !ok {
			continue
		}
		if field.Type.Kind() != reflect.String {
			zap.L().Warn("Header field is not of type string, skipping", zap.String("field", field.Name))
			continue
		}
		if value := val.Field(i).String(); value != "" {
			headers[headerTag] = value
		}
	}

	return headers, output, nil
}
