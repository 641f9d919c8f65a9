package academic

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/classhub/core"
)

var (
	itemKindTag  = "itemkind"
	itemKindText = "must be one of exam, homework, event"

	resourceKindTag  = "resourcekind"
	resourceKindText = "must be one of pdf, video, link, note, exercise"
)

// InitValidators registers the academic validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(itemKindTag, func(fl validator.FieldLevel) bool {
		return ItemKind(fl.Field().String()).Valid()
	})
	core.RegisterCustomTranslation(validate, translator, itemKindTag, itemKindText)

	_ = validate.RegisterValidation(resourceKindTag, func(fl validator.FieldLevel) bool {
		return ResourceKind(fl.Field().String()).Valid()
	})
	core.RegisterCustomTranslation(validate, translator, resourceKindTag, resourceKindText)
}
