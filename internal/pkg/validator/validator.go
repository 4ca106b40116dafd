package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"shugly/internal/domain"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const DateLayout = "2006-01-02"

var (
	validate *validator.Validate
	once     sync.Once
	ginOnce  sync.Once
)

// GetValidator returns the shared validator with the booking tags registered.
func GetValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
		_ = registerCustom(validate)
	})
	return validate
}

// RegisterGinValidations makes the custom tags usable in gin `binding:"..."` struct tags.
func RegisterGinValidations() error {
	var err error
	ginOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("gin validator engine is not go-playground/validator")
			return
		}
		err = registerCustom(v)
	})
	return err
}

func registerCustom(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	if err := v.RegisterValidation("time_slot", func(fl validator.FieldLevel) bool {
		return domain.IsTimeSlot(fl.Field().String())
	}); err != nil {
		return err
	}
	if err := v.RegisterValidation("booking_duration", func(fl validator.FieldLevel) bool {
		return domain.IsDuration(int(fl.Field().Int()))
	}); err != nil {
		return err
	}
	return v.RegisterValidation("date_ymd", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(DateLayout, fl.Field().String())
		return err == nil
	})
}

// Validate struct fields
func Validate(v interface{}) map[string]string {
	return ParseErrors(GetValidator().Struct(v))
}

// ParseErrors flattens validator errors into field -> message. Non-validation errors
// are reported under "body".
func ParseErrors(err error) map[string]string {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"body": "invalid request body"}
	}

	out := make(map[string]string, len(verrs))
	for _, e := range verrs {
		out[e.Field()] = prettyError(e)
	}
	return out
}

func prettyError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return fmt.Sprintf("must be at least %s", e.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", e.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", e.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", e.Param())
	case "time_slot":
		return "must be an hourly slot between 08:00 and 20:00"
	case "booking_duration":
		return "must be one of 1, 2, 3, 4, 5, 6, 8 hours"
	case "date_ymd":
		return "must be a date in YYYY-MM-DD format"
	}
	return e.Tag()
}
