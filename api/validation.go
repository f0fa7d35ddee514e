package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerTagNames sync.Once

// useJSONFieldNames makes validation errors report json names
// ("id_cliente") instead of Go field names.
func useJSONFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// bindingErrorMessage renders the first field error as "field: message".
func bindingErrorMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fe.Field() + ": " + fieldMessage(fe)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return typeErr.Field + ": tipo de dato inválido"
	}
	return "cuerpo de la solicitud inválido"
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es obligatorio"
	case "datetime":
		return "debe tener el formato AAAA-MM-DD"
	default:
		return fmt.Sprintf("no cumple la regla %q", fe.Tag())
	}
}
