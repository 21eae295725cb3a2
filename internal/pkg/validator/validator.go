package validator

import (
	"regexp"

	playground "github.com/go-playground/validator/v10"
)

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe = regexp.MustCompile(`^\+?[\d\s-]{10,}$`)

	validate *playground.Validate
)

const MinPasswordLength = 8

func init() {
	validate = playground.New()
	_ = validate.RegisterValidation("phone", func(fl playground.FieldLevel) bool {
		return phoneRe.MatchString(fl.Field().String())
	})
}

func IsEmail(v string) bool { return emailRe.MatchString(v) }

func IsPhone(v string) bool { return phoneRe.MatchString(v) }

func IsPassword(v string) bool { return len(v) >= MinPasswordLength }

// Struct runs tag-based validation and returns field -> failed tag,
// or nil when the value is valid.
func Struct(v any) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	fields := make(map[string]string)
	for _, fe := range err.(playground.ValidationErrors) {
		fields[fe.Field()] = fe.Tag()
	}
	return fields
}
