// Package validator registers the custom binding rules used by request models.
package validator

import (
	"taskboard/internal/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// validateObjectID accepts a 24-character hex ObjectID.
func validateObjectID(fl validator.FieldLevel) bool {
	return primitive.IsValidObjectID(fl.Field().String())
}

// validateObjectIDOrEmpty also accepts the empty string, which update
// payloads use to clear a reference.
func validateObjectIDOrEmpty(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return s == "" || primitive.IsValidObjectID(s)
}

// validateRole accepts exactly member, lead or admin. The value reaches the
// authorization guards unchanged, so no case folding happens here.
func validateRole(fl validator.FieldLevel) bool {
	return models.Role(fl.Field().String()).Valid()
}

// Register adds the custom rules to v.
func Register(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"objectid":          validateObjectID,
		"objectid_or_empty": validateObjectIDOrEmpty,
		"role":              validateRole,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

// RegisterCustomValidators registers all custom validators with gin's validator
func RegisterCustomValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = Register(v)
	}
}
