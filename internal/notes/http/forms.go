package http

import (
	"errors"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// LogoutAll and LogoutThisDevice are the two logout button values.
const (
	LogoutAll        = "Logout from All Devices"
	LogoutThisDevice = "Logout from This Device"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("form"); name != "" {
			return name
		}
		return f.Name
	})
	return v
}

type loginForm struct {
	Email string `form:"email" validate:"required,email,max=254"`
}

type linkQuery struct {
	Email   string `form:"email" validate:"required,email,max=254"`
	OOBCode string `form:"oobCode" validate:"required,max=512"`
}

type logoutForm struct {
	Logout string `form:"logout" validate:"required,oneof='Logout from All Devices' 'Logout from This Device'"`
}

// Note is a pointer so an empty note is accepted but a missing field is not.
type createNoteForm struct {
	Note *string `form:"note" validate:"required"`
}

type updateNoteForm struct {
	UID  string  `form:"uid" validate:"required,numeric"`
	Note *string `form:"note" validate:"required"`
}

// field returns a pointer to the first value of key, or nil when absent.
func field(v url.Values, key string) *string {
	vals, ok := v[key]
	if !ok || len(vals) == 0 {
		return nil
	}
	return &vals[0]
}

// validationReason turns the first validation failure into a short
// message for the error page.
func validationReason(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request"
	}

	fe := verrs[0]
	var msg string
	switch fe.Tag() {
	case "required":
		msg = "field required"
	case "email":
		msg = "value is not a valid email address"
	case "oneof":
		msg = "input should be " + quoteAlternatives(fe.Param())
	case "numeric":
		msg = "input should be a valid integer"
	case "max":
		msg = "value is too long"
	default:
		msg = "invalid value"
	}
	return fe.Field() + ": " + msg
}

func quoteAlternatives(param string) string {
	parts := strings.Split(param, "' '")
	for i, p := range parts {
		parts[i] = "'" + strings.Trim(p, "'") + "'"
	}
	return strings.Join(parts, " or ")
}
