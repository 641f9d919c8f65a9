package identity

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/classhub/core"
)

var (
	roleTag            = "role"
	errInvalidRoleText = "invalid role"
)

// InitValidators registers the identity validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(roleTag, roleValidation)
	core.RegisterCustomTranslation(validate, translator, roleTag, errInvalidRoleText)
}

// Custom Validators

// roleValidation checks that the role is one of AllRoles
func roleValidation(fl validator.FieldLevel) bool {
	return Role(fl.Field().String()).Valid()
}
