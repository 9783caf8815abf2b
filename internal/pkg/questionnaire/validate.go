package questionnaire

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError lists all questionnaire problems
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid questionnaire: " + strings.Join(e.Problems, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	res := validator.New()
	res.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return res
}

// Validate checks data, returns *ValidationError
func (d *Data) Validate() error {
	var problems []string
	if err := validate.Struct(d); err != nil {
		var ves validator.ValidationErrors
		if !errors.As(err, &ves) {
			return fmt.Errorf("can't validate: %w", err)
		}
		for _, fe := range ves {
			problems = append(problems, describe(fe))
		}
	}
	problems = append(problems, d.checkConditions()...)
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "min":
		return fmt.Sprintf("%s is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s has invalid value '%v'", fe.Field(), fe.Value())
	case "unique":
		return fmt.Sprintf("%s has duplicates", fe.Field())
	}
	return fmt.Sprintf("%s failed on '%s'", fe.Field(), fe.Tag())
}

func (d *Data) checkConditions() []string {
	var res []string
	selected := map[string]bool{}
	for _, c := range d.HealthConditions {
		selected[c] = true
	}
	if selected[ConditionNone] && len(d.HealthConditions) > 1 {
		res = append(res, "condition 'none' can't be combined with other conditions")
	}
	for _, c := range d.HealthConditions {
		if c == "" {
			continue
		}
		if RequiresSeverity(c) && d.ConditionSeverities[c] == "" {
			res = append(res, fmt.Sprintf("no severity for condition '%s'", c))
		}
		if f := SpecificationField(c); f != "" && strings.TrimSpace(d.ConditionSpecifications[f]) == "" {
			res = append(res, fmt.Sprintf("no specification '%s' for condition '%s'", f, c))
		}
	}
	for c := range d.ConditionSeverities {
		if !selected[c] {
			res = append(res, fmt.Sprintf("severity for not selected condition '%s'", c))
		}
	}
	if d.DonationLanguage != LangEnglish && d.NativeLanguage != nil {
		res = append(res, "native_language is allowed for english donations only")
	}
	if d.DonationLanguage != LangArabic && d.ArabicDialect != nil {
		res = append(res, "arabic_dialect is allowed for arabic donations only")
	}
	return res
}
