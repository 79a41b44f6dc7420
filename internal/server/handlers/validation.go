package handlers

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/cement/internal/domain/models"
)

// RegisterValidators adds the request tags the handlers rely on to v:
// "shop", "stocktype" and "datestr". It also lets numeric tags such as
// gte=0 apply to decimal amounts and reports fields by their JSON name.
func RegisterValidators(v *validator.Validate) error {
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})

	rules := map[string]validator.Func{
		"shop": func(fl validator.FieldLevel) bool {
			return models.IsRosterShop(fl.Field().String())
		},
		"stocktype": func(fl validator.FieldLevel) bool {
			_, err := models.ParseStockType(fl.Field().String())
			return err == nil
		},
		"datestr": func(fl validator.FieldLevel) bool {
			_, err := models.ParseDate(fl.Field().String())
			return err == nil
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s validator: %w", tag, err)
		}
	}
	return nil
}
