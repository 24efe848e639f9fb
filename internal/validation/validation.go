// Package validation wraps go-playground/validator with English messages
// keyed by JSON field names and reports only the first violation.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/noah-isme/sams-api/internal/models"
	appErrors "github.com/noah-isme/sams-api/pkg/errors"
)

const (
	phoneTag   = "phone"
	clockTag   = "clock"
	statusTag  = "attendance_status"
	roleTag    = "user_role"
	weekdayTag = "weekday"
)

var (
	phoneRegex = regexp.MustCompile(`^\d{10}$`)
	clockRegex = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

// Validator checks request structs and renders the first violation.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// New builds a validator with custom tags and English translations.
func New() *Validator {
	locale := en.New()
	uni := ut.New(locale, locale)
	translator, _ := uni.GetTranslator("en")

	validate := validator.New()
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	_ = validate.RegisterValidation(phoneTag, func(fl validator.FieldLevel) bool {
		return phoneRegex.MatchString(fl.Field().String())
	})
	_ = validate.RegisterValidation(clockTag, func(fl validator.FieldLevel) bool {
		return clockRegex.MatchString(fl.Field().String())
	})
	_ = validate.RegisterValidation(statusTag, func(fl validator.FieldLevel) bool {
		return models.AttendanceStatus(fl.Field().String()).Valid()
	})
	_ = validate.RegisterValidation(roleTag, func(fl validator.FieldLevel) bool {
		return models.UserRole(fl.Field().String()).Valid()
	})
	_ = validate.RegisterValidation(weekdayTag, func(fl validator.FieldLevel) bool {
		day := fl.Field().String()
		for _, d := range models.Weekdays {
			if d == day {
				return true
			}
		}
		return false
	})

	registerTranslation(validate, translator, "required", "{0} is required", true)
	registerTranslation(validate, translator, phoneTag, "{0} must be a 10 digit phone number", false)
	registerTranslation(validate, translator, clockTag, "{0} must be a time in HH:MM format", false)
	registerTranslation(validate, translator, statusTag, "{0} must be one of [Present Absent]", false)
	registerTranslation(validate, translator, roleTag, "{0} must be one of [ADMIN HOD FACULTY CLASS_COORDINATOR STUDENT]", false)
	registerTranslation(validate, translator, weekdayTag, "{0} must be a day of the week", false)
	registerTranslation(validate, translator, "mongodb", "{0} must be a 24 character hex id", false)
	registerTranslation(validate, translator, "datetime", "{0} must be a date in YYYY-MM-DD format", true)

	return &Validator{validate: validate, translator: translator}
}

func registerTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override bool) {
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, override) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// Struct validates s and returns a 400 error carrying the first violation.
func (v *Validator) Struct(s interface{}) error {
	if err := v.validate.Struct(s); err != nil {
		return appErrors.Validation(err, v.FirstError(err))
	}
	return nil
}

// Var validates a single value against tag, naming it field in the message.
func (v *Validator) Var(field string, value interface{}, tag string) error {
	if err := v.validate.Var(value, tag); err != nil {
		msg := v.FirstError(err)
		return appErrors.Validation(err, field+" "+strings.TrimSpace(msg))
	}
	return nil
}

// FirstError renders the first field violation of err. The field is named by
// its JSON path relative to the request root, e.g. "students[0].status".
func (v *Validator) FirstError(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return "invalid request payload"
		}
		return err.Error()
	}

	fe := errs[0]
	msg := fe.Translate(v.translator)
	path := fieldPath(fe)
	if path != "" && path != fe.Field() {
		msg = strings.Replace(msg, fe.Field(), path, 1)
	}
	return msg
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return fe.Field()
}
