package services

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

// fieldNames maps entity struct fields to the names used in validation messages.
var fieldNames = map[string]string{
	"Name":           "name",
	"Email":          "email",
	"Role":           "role",
	"Price":          "price",
	"Quantity":       "quantity",
	"ExpirationDate": "expiration_date",
	"CategoryID":     "category_id",
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// validateStruct runs the struct tags of an entity and returns the first violation.
func validateStruct(entity any) error {
	err := validate.Struct(entity)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !asValidationErrors(err, &fieldErrs) || len(fieldErrs) == 0 {
		return invalid("", err.Error())
	}
	fe := fieldErrs[0]
	name, ok := fieldNames[fe.StructField()]
	if !ok {
		name = strings.ToLower(fe.StructField())
	}
	return invalid(name, reasonFor(name, fe))
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	errs, ok := err.(validator.ValidationErrors)
	if ok {
		*target = errs
	}
	return ok
}

func reasonFor(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "notblank", "required", "gt":
		return fmt.Sprintf("%s is required", field)
	case "gte":
		return fmt.Sprintf("%s must not be negative", field)
	case "contains":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
