// Package validation decodes JSON request bodies into request DTOs and
// checks them with go-playground/validator. Failures come back as
// *common.ValidationError carrying one English message.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/dmitrijs2005/petkeeper/internal/common"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
)

const dateTag = "petdate"

// Validator wraps a configured validator.Validate and its English translator.
// It is safe for concurrent use.
type Validator struct {
	validate *validator.Validate
	trans    ut.Translator
}

// New builds a Validator with English messages and the petdate rule.
func New() (*Validator, error) {
	locale := en.New()
	trans, _ := ut.New(locale, locale).GetTranslator("en")

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)

	if err := entranslations.RegisterDefaultTranslations(v, trans); err != nil {
		return nil, fmt.Errorf("register translations: %w", err)
	}
	if err := v.RegisterValidation(dateTag, validDate); err != nil {
		return nil, fmt.Errorf("register %s: %w", dateTag, err)
	}
	err := v.RegisterTranslation(dateTag, trans,
		func(ut ut.Translator) error {
			return ut.Add(dateTag, "{0} must be a date in YYYY/MM/DD, DD-MM-YYYY or YYYY-MM-DD format", true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, _ := ut.T(dateTag, fe.Field())
			return msg
		})
	if err != nil {
		return nil, fmt.Errorf("register %s translation: %w", dateTag, err)
	}

	return &Validator{validate: v, trans: trans}, nil
}

// Decode reads one JSON object from r into dst and validates it. Unknown
// fields, malformed JSON and failed rules all yield a *common.ValidationError.
func (v *Validator) Decode(r io.Reader, dst any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return common.NewValidationError(decodeMessage(err))
	}
	return v.Struct(dst)
}

// Struct validates s and translates the first failing rule.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return common.NewValidationError(verrs[0].Translate(v.trans))
	}
	return common.NewValidationError(err.Error())
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

func decodeMessage(err error) string {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError

	switch {
	case errors.Is(err, io.EOF):
		return "request body is empty"
	case errors.As(err, &typeErr):
		return fmt.Sprintf("%s must be a %s", typeErr.Field, typeErr.Type)
	case errors.As(err, &syntaxErr):
		return "request body is not valid JSON"
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		return strings.TrimPrefix(err.Error(), "json: ") + " is not allowed"
	default:
		return "request body is not valid JSON"
	}
}

func validDate(fl validator.FieldLevel) bool {
	_, err := ParseDate(fl.Field().String())
	return err == nil
}
