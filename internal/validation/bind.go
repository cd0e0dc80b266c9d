package validation

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
)

// BindAndValidate binds the JSON body into out and validates it. On
// failure it writes the 400 response itself and returns a non-nil error so
// the handler can short-circuit.
func BindAndValidate(c *gin.Context, out interface{}, v *validatorv10.Validate) error {
	if err := c.ShouldBindJSON(out); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid_request_body",
			"msg":   err.Error(),
		})
		return err
	}

	if err := v.Struct(out); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "validation_failed",
			"fields": fieldReasons(out, err),
		})
		return err
	}
	return nil
}

// fieldReasons maps failed fields to their violated rule, keyed by the
// wire (json) field name rather than the Go identifier.
func fieldReasons(out interface{}, err error) map[string]string {
	reasons := map[string]string{}
	ve, ok := err.(validatorv10.ValidationErrors)
	if !ok {
		reasons["request"] = err.Error()
		return reasons
	}

	st := reflect.TypeOf(out)
	for st.Kind() == reflect.Pointer {
		st = st.Elem()
	}
	for _, fe := range ve {
		name := fe.Field()
		if f, found := st.FieldByName(fe.StructField()); found {
			if tag := strings.Split(f.Tag.Get("json"), ",")[0]; tag != "" && tag != "-" {
				name = tag
			}
		}
		reasons[name] = fe.Tag()
	}
	return reasons
}
