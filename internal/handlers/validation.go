package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

// newValidator returns a validator that reports fields by their JSON name
// and knows the "strongpassword" and "bcryptsize" rules.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	mustRegister(v, "strongpassword", strongPassword)
	mustRegister(v, "bcryptsize", bcryptSize)
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %q validation: %v", tag, err))
	}
}

// bcryptSize rejects values longer than bcrypt can hash.
func bcryptSize(fl validator.FieldLevel) bool {
	return len(fl.Field().String()) <= maxPasswordBytes
}

// strongPassword requires an upper-case letter, a lower-case letter and a
// digit or symbol.
func strongPassword(fl validator.FieldLevel) bool {
	var upper, lower, other bool
	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r), unicode.IsPunct(r), unicode.IsSymbol(r), unicode.IsSpace(r):
			other = true
		}
	}
	return upper && lower && other
}

// parseAndValidate decodes the JSON body into dst and validates it. On
// failure it writes the 400 response and returns false.
func parseAndValidate(c *fiber.Ctx, validate *validator.Validate, dst any) (bool, error) {
	if err := c.BodyParser(dst); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if err := validate.Struct(dst); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return false, err
		}
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = validationMessage(e)
		}
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}
	return true, nil
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "strongpassword":
		return "Password is too weak, it must contain at least one uppercase letter, one lowercase letter and one number or special character"
	case "bcryptsize":
		return fmt.Sprintf("Field '%s' must not exceed %d bytes", e.Field(), maxPasswordBytes)
	case "min", "max":
		return fmt.Sprintf("Field '%s' failed on the '%s=%s' tag", e.Field(), e.Tag(), e.Param())
	default:
		return fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
}
