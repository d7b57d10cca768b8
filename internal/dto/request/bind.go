package request

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-demo/forum/internal/pkg/utils"
	"github.com/go-playground/validator/v10"
)

// NonFieldErrors is the key for errors not tied to one field
const NonFieldErrors = "__all__"

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		// Report fields by their form name so errors line up with the template inputs.
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
	}
}

// Bind binds the request into form and returns field errors, or nil when the form is valid.
func Bind(c *gin.Context, form interface{}) utils.FieldErrors {
	err := c.ShouldBind(form)
	if err == nil {
		return nil
	}

	errs := utils.FieldErrors{}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs.Add(NonFieldErrors, "Invalid form submission.")
		return errs
	}

	for _, fe := range verrs {
		errs.Add(fe.Field(), fieldMessage(fe))
	}
	return errs
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "max":
		n := 0
		if s, ok := fe.Value().(string); ok {
			n = utf8.RuneCountInString(s)
		}
		return fmt.Sprintf("Ensure this value has at most %s characters (it has %d).", fe.Param(), n)
	default:
		return "Enter a valid value."
	}
}
