package utils

import (
	"reflect"
	"strings"

	"github.com/badoux/checkmail"
	"github.com/go-playground/validator/v10"

	"okrtracker/models"
)

var validate = newValidator()

// FieldError is one failed rule on one request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is returned by ValidateStruct when at least one rule fails.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, fe := range v {
		msgs = append(msgs, fe.Message)
	}
	return strings.Join(msgs, ", ")
}

func newValidator() *validator.Validate {
	v := validator.New()

	// Report fields by their JSON names so messages match the request body.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	_ = v.RegisterValidation("mailformat", func(fl validator.FieldLevel) bool {
		return checkmail.ValidateFormat(fl.Field().String()) == nil
	})
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return models.IsValidRole(fl.Field().String())
	})
	_ = v.RegisterValidation("l1team", func(fl validator.FieldLevel) bool {
		return models.IsL1Team(fl.Field().String())
	})
	_ = v.RegisterValidation("l2team", func(fl validator.FieldLevel) bool {
		return models.IsL2Team(fl.Field().String())
	})
	_ = v.RegisterValidation("quarter", func(fl validator.FieldLevel) bool {
		return models.IsQuarter(fl.Field().String())
	})
	_ = v.RegisterValidation("objectivestatus", func(fl validator.FieldLevel) bool {
		return models.IsObjectiveStatus(fl.Field().String())
	})
	_ = v.RegisterValidation("krstatus", func(fl validator.FieldLevel) bool {
		return models.IsKeyResultStatus(fl.Field().String())
	})

	return v
}

func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	out := make(ValidationErrors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	param := fe.Param()

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		if fe.Kind() == reflect.String {
			return field + " must be at least " + param + " characters"
		}
		return field + " must be at least " + param
	case "max":
		if fe.Kind() == reflect.String {
			return field + " must be at most " + param + " characters"
		}
		return field + " must be at most " + param
	case "gt":
		return field + " must be greater than " + param
	case "gtefield":
		return field + " must not be before " + param
	case "email", "mailformat":
		return field + " must be a valid email"
	case "role":
		return field + " must be one of: " + models.RoleAdmin + ", " + models.RoleUser
	case "l1team":
		return field + " must be one of: " + strings.Join(models.L1Teams, ", ")
	case "l2team":
		return field + " must be one of: " + strings.Join(models.L2Teams, ", ")
	case "quarter":
		return field + " must be one of: " + strings.Join(models.Quarters, ", ")
	case "objectivestatus":
		return field + " must be one of: " + strings.Join(models.ObjectiveStatuses, ", ")
	case "krstatus":
		return field + " must be one of: " + strings.Join(models.KeyResultStatuses, ", ")
	default:
		return field + " is invalid"
	}
}
