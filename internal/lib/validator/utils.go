package validator

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	govalidator "github.com/go-playground/validator/v10"

	"reviewdb/proj/internal/utils"
)

var (
	usernameRegex = regexp.MustCompile(`^[\w.@+-]+$`)
	slugRegex     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

// ReservedUsernames are values that can never be registered or exchanged for
// a token because they collide with API routes. The check is shared by every
// entry point that accepts a username.
var ReservedUsernames = []string{"me"}

func IsReservedUsername(username string) bool {
	for _, reserved := range ReservedUsernames {
		if strings.EqualFold(username, reserved) {
			return true
		}
	}
	return false
}

// YearNotInFuture reports whether the year does not exceed the current
// calendar year. Re-evaluated at every write, so a payload valid today stays
// subject to the same rule tomorrow.
func YearNotInFuture(year int32) bool {
	return int(year) <= time.Now().Year()
}

func getFieldName(obj any, origFieldName string) (fieldName string) {
	t := reflect.TypeOf(obj)
	field, found := t.FieldByName(origFieldName)
	if !found {
		panic(fmt.Sprintf("Field %s not found in type %s", origFieldName, t.Name()))
	}
	if tag := field.Tag.Get("json"); tag != "" && tag != "-" {
		jsonName := strings.Split(tag, ",")[0]
		if jsonName != "" {
			fieldName = jsonName
		}
	} else {
		fieldName = utils.CamelToSnake(origFieldName)
	}
	return
}

func ProcessValidationErrors(obj any, errs govalidator.ValidationErrors) map[string]string {
	processedErrors := make(map[string]string)
	for _, e := range errs {
		processedErrors[getFieldName(obj, e.StructField())] = GetErrorMsgForField(obj, e)
	}
	return processedErrors
}

func ValidateStruct(validator *govalidator.Validate, obj any) (validationErrs map[string]string) {
	if err := validator.Struct(obj); err != nil {
		validationErrs = ProcessValidationErrors(obj, err.(govalidator.ValidationErrors))
	}
	return
}

func GetErrorMsgForField(obj any, err govalidator.FieldError) (errorMsg string) {
	t := reflect.TypeOf(obj)
	field, found := t.FieldByName(err.StructField())
	if !found {
		panic(fmt.Sprintf("Field %s not found in type %s", err.StructField(), t.Name()))
	}
	errorMsg = field.Tag.Get("errorMsg")
	if errorMsg == "" {
		switch err.Tag() {
		case "required":
			errorMsg = "This field is required"
		case "max":
			errorMsg = fmt.Sprintf("The maximum value is %s", err.Param())
		case "min":
			errorMsg = fmt.Sprintf("The minimum value is %s", err.Param())
		case "gte":
			errorMsg = fmt.Sprintf("Value should be greater than or equal to %s", err.Param())
		case "lte":
			errorMsg = fmt.Sprintf("Value should be less than or equal to %s", err.Param())
		case "gt":
			errorMsg = fmt.Sprintf("Value should be greater than %s", err.Param())
		case "lt":
			errorMsg = fmt.Sprintf("Value should be less than %s", err.Param())
		case "oneof":
			errorMsg = fmt.Sprintf("Value should be one of %s", err.Param())
		case "email":
			errorMsg = "Value must be a valid email address"
		case "username":
			errorMsg = "Value must contain only letters, digits and .@+- characters"
		case "slug":
			errorMsg = "Value must contain only letters, digits, hyphens and underscores"
		case "notreserved":
			errorMsg = "This username is reserved"
		case "notfutureyear":
			errorMsg = "Year must not be in the future"
		case "role":
			errorMsg = "Value must be one of: user, moderator, admin"
		case "sortbytitlefield":
			errorMsg = "Value must be a sortable title field (e.g. name, -year, -rating)"
		default:
			errorMsg = "This field is invalid"
		}
	}
	return
}

// CUSTOM VALIDATORS

func ValidateUsername(fl govalidator.FieldLevel) bool {
	return usernameRegex.MatchString(fl.Field().String())
}

func ValidateSlug(fl govalidator.FieldLevel) bool {
	return slugRegex.MatchString(fl.Field().String())
}

func ValidateNotReserved(fl govalidator.FieldLevel) bool {
	return !IsReservedUsername(fl.Field().String())
}

func ValidateNotFutureYear(fl govalidator.FieldLevel) bool {
	return YearNotInFuture(int32(fl.Field().Int()))
}

func ValidateRole(fl govalidator.FieldLevel) bool {
	switch fl.Field().String() {
	case "user", "moderator", "admin":
		return true
	}
	return false
}

func ValidateSortByTitleField(fl govalidator.FieldLevel) bool {
	sort := strings.TrimPrefix(fl.Field().String(), "-")
	for _, field := range []string{"name", "year", "rating"} {
		if strings.EqualFold(sort, field) {
			return true
		}
	}
	return false
}

// MustRegisterAll registers every custom validator on the given validate
// instance. Panics on duplicate registration, which is always a programming
// error.
func MustRegisterAll(v *govalidator.Validate) {
	for tag, fn := range map[string]govalidator.Func{
		"username":         ValidateUsername,
		"slug":             ValidateSlug,
		"notreserved":      ValidateNotReserved,
		"notfutureyear":    ValidateNotFutureYear,
		"role":             ValidateRole,
		"sortbytitlefield": ValidateSortByTitleField,
	} {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
}
