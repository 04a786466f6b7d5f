package app

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"studyhub/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report fields by their JSON name so messages line up with request bodies
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("hasupper", func(fl validator.FieldLevel) bool {
		for _, r := range fl.Field().String() {
			if unicode.IsUpper(r) {
				return true
			}
		}
		return false
	})
	return v
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
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return &domain.ValidationError{Fields: fields}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "url":
		return "must be a valid URL"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must have at least %s items", fe.Param())
	case "hasupper":
		return "must contain at least one capital letter"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "gte", "lte":
		return "is out of range"
	}
	return "is invalid"
}

// validateQuiz checks the quiz form and that the correct answer is exactly one option.
func validateQuiz(in domain.QuizInput) error {
	if err := validateStruct(in); err != nil {
		return err
	}
	matches := 0
	for _, opt := range in.Options {
		if opt == in.CorrectAnswer {
			matches++
		}
	}
	switch matches {
	case 1:
		return nil
	case 0:
		return &domain.ValidationError{Fields: map[string]string{"correctAnswer": "must match one of the options"}}
	default:
		return &domain.ValidationError{Fields: map[string]string{"correctAnswer": "matches more than one option"}}
	}
}
