package serverutils

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"investchat-be/pkg/brdoc"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("cpf", func(fl validator.FieldLevel) bool {
		return brdoc.IsValidCPF(fl.Field().String())
	})
	_ = validate.RegisterValidation("cep", func(fl validator.FieldLevel) bool {
		return brdoc.IsValidCEP(fl.Field().String())
	})
}

// ValidateRequest runs struct validation with the cpf and cep rules
// registered. Failures map to 400s via the error handler middleware.
func ValidateRequest(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}
