package dtos

import (
	"errors"
	"regexp"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rolejet/RoleJet/internal/common"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
	phonePattern = regexp.MustCompile(`^\d{10}$`)
)

func engine() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		err := validate.RegisterValidation("phone10", func(fl validator.FieldLevel) bool {
			return phonePattern.MatchString(fl.Field().String())
		})
		if err != nil {
			panic("register phone10 validation: " + err.Error())
		}
	})
	return validate
}

// Validate checks req against its validate tags. Presence rules map to
// ErrMissingFields with missingMessage; format rules map to ErrFormat.
func Validate(req any, missingMessage string) error {
	err := engine().Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return common.NewError(common.CodeInternal, "Internal server error", err)
	}
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required", "gt":
			return common.NewError(common.CodeValidation, missingMessage, common.ErrMissingFields)
		}
	}
	switch fe := verrs[0]; fe.Tag() {
	case "phone10":
		return common.NewError(common.CodeValidation, "Phone number must be exactly 10 digits", common.ErrFormat)
	case "email":
		return common.NewError(common.CodeValidation, "Invalid email address", common.ErrFormat)
	default:
		return common.NewError(common.CodeValidation, "Invalid value for "+fe.Field(), common.ErrFormat)
	}
}
