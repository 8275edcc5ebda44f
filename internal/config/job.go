package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
	"golang.org/x/text/language"
)

// JobConfig is the immutable configuration of one batch run.
type JobConfig struct {
	APIKey     string `json:"-" validate:"required"`
	SourceLang string `json:"source_lang" validate:"required,langcode|eq=auto"`
	TargetLang string `json:"target_lang" validate:"required,langcode"`
}

// Validate reports a configuration that must not start a batch.
func (c JobConfig) Validate() error {
	return validateStruct(c)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("langcode", func(fl validator.FieldLevel) bool {
		return isLanguageCode(fl.Field().String())
	})
	_ = v.RegisterValidation("cronexpr", func(fl validator.FieldLevel) bool {
		_, err := cron.ParseStandard(fl.Field().String())
		return err == nil
	})
	return v
}

// isLanguageCode accepts BCP 47 tags such as "en", "vi" or "zh-TW".
func isLanguageCode(code string) bool {
	code = strings.TrimSpace(code)
	if code == "" || strings.EqualFold(code, "auto") {
		return false
	}
	_, err := language.Parse(code)
	return err == nil
}

func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Namespace()))
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s=%q fails %q", fe.Namespace(), fmt.Sprint(fe.Value()), fe.Tag()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}
