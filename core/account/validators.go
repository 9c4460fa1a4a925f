package account

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/omi-1602/Venz-edu/core"
)

var (
	signupRoleTag  = "signup_role"
	signupRoleText = "role must be one of: student, mentor"

	anyRoleTag  = "any_role"
	anyRoleText = "role must be one of: student, mentor, admin"
)

// InitValidators registers the account validation tags and their translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(signupRoleTag, rolesValidation(SignupRoles))
	core.RegisterCustomTranslation(validate, translator, signupRoleTag, signupRoleText)

	_ = validate.RegisterValidation(anyRoleTag, rolesValidation(AllRoles))
	core.RegisterCustomTranslation(validate, translator, anyRoleTag, anyRoleText)
}

func rolesValidation(allowed []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		role := fl.Field().String()
		for _, r := range allowed {
			if role == r {
				return true
			}
		}
		return false
	}
}
