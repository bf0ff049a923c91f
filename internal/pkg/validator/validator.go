package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	MaxInterests      = 10
	MaxInterestLength = 32
)

var validate *validator.Validate

var (
	genders      = []string{"male", "female"}
	orientations = []string{"hetero", "homo", "bi"}
	sortModes    = []string{"recommended", "age", "fame_rating", "name", "distance", "common_interests"}
)

func init() {
	validate = validator.New()

	// Use JSON tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomValidations()
}

func oneOfOrEmpty(allowed []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		v := fl.Field().String()
		if v == "" {
			return true
		}
		for _, a := range allowed {
			if v == a {
				return true
			}
		}
		return false
	}
}

func registerCustomValidations() {
	validate.RegisterValidation("gender", oneOfOrEmpty(genders))
	validate.RegisterValidation("orientation", oneOfOrEmpty(orientations))
	validate.RegisterValidation("sort_mode", oneOfOrEmpty(sortModes))

	// interests: at most MaxInterests tags, each non-blank and short
	validate.RegisterValidation("interests", func(fl validator.FieldLevel) bool {
		field := fl.Field()
		if field.Kind() != reflect.Slice {
			return false
		}
		if field.Len() > MaxInterests {
			return false
		}
		for i := 0; i < field.Len(); i++ {
			tag := strings.TrimSpace(field.Index(i).String())
			if tag == "" || len([]rune(tag)) > MaxInterestLength {
				return false
			}
		}
		return true
	})
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"_": err.Error()}
	}

	errors := make(map[string]string)
	for _, err := range verrs {
		field := err.Field()
		switch err.Tag() {
		case "required":
			errors[field] = "This field is required"
		case "email":
			errors[field] = "Invalid email format"
		case "min":
			errors[field] = "Value is too short (min: " + err.Param() + ")"
		case "max":
			errors[field] = "Value is too long (max: " + err.Param() + ")"
		case "gte":
			errors[field] = "Value must be at least " + err.Param()
		case "lte":
			errors[field] = "Value must be at most " + err.Param()
		case "alphanum":
			errors[field] = "Only letters and digits are allowed"
		case "latitude":
			errors[field] = "Invalid latitude"
		case "longitude":
			errors[field] = "Invalid longitude"
		case "gender":
			errors[field] = "Invalid gender. Must be: " + strings.Join(genders, ", ")
		case "orientation":
			errors[field] = "Invalid sexual orientation. Must be: " + strings.Join(orientations, ", ")
		case "sort_mode":
			errors[field] = "Invalid sort. Must be: " + strings.Join(sortModes, ", ")
		case "interests":
			errors[field] = "Interests must be non-empty tags, at most 10"
		default:
			errors[field] = "Invalid value"
		}
	}

	return errors
}

// ValidateVar validates a single variable
func ValidateVar(field interface{}, tag string) error {
	return validate.Var(field, tag)
}
