package handlers

import (
	"reflect"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/shopspring/decimal"

	"github.com/Keoroanthony/go-comic-rental/internal/rentals"
)

// RegisterValidators teaches gin's validator about decimal amounts and adds
// the decimalgte0, decimalscale2 and notblank rules. It is safe to call more
// than once.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	if err := v.RegisterValidation("decimalgte0", decimalGTE0); err != nil {
		return err
	}
	if err := v.RegisterValidation("decimalscale2", decimalScale2); err != nil {
		return err
	}
	return v.RegisterValidation("notblank", validators.NotBlank)
}

func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.String()
	}
	return nil
}

func decimalGTE0(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return !d.IsNegative()
}

// decimalScale2 rejects amounts a decimal(10,2) column would round.
func decimalScale2(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return d.Equal(d.Round(rentals.PriceScale))
}
