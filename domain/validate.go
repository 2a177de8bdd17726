package domain

import (
	"errors"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
)

// Fixed category vocabulary.
const (
	CategoryFood        = "Alimentos"
	CategoryCleaning    = "Limpeza"
	CategoryElectronics = "Eletrônicos"
	CategoryClothing    = "Vestuário"
)

// Categories lists the known categories in display order.
var Categories = []string{CategoryFood, CategoryCleaning, CategoryElectronics, CategoryClothing}

// Discount percentage bounds, inclusive.
const (
	MinDiscountPercent = 1
	MaxDiscountPercent = 95
)

const minNameLength = 3

var reasons = map[string]string{
	"productid":   "must match format ABC-123",
	"productname": "must have at least 3 characters, only letters, digits and spaces",
	"category":    "unknown category",
	"gt":          "must be positive",
	"gte":         "must be non-negative",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	mustRegister(v, "productid", func(fl validator.FieldLevel) bool {
		return ValidateIDFormat(fl.Field().String())
	})
	mustRegister(v, "productname", func(fl validator.FieldLevel) bool {
		return ValidateName(fl.Field().String())
	})
	mustRegister(v, "category", func(fl validator.FieldLevel) bool {
		return ValidateCategory(fl.Field().String())
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// decimalValue lets numeric tags such as gt=0 apply to decimal fields.
func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return nil
}

// ValidateIDFormat reports whether s has the form LLL-NNN: three uppercase
// ASCII letters, a hyphen and three ASCII digits.
func ValidateIDFormat(s string) bool {
	if len(s) != 7 {
		return false
	}
	for i := 0; i < 3; i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	if s[3] != '-' {
		return false
	}
	for i := 4; i < 7; i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// ValidateName reports whether s has at least three characters, all of
// them letters, digits or spaces.
func ValidateName(s string) bool {
	if utf8.RuneCountInString(s) < minNameLength {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// NormalizeCategory maps s to its canonical spelling. Matching ignores case
// and surrounding spaces, so "limpeza" and "LIMPEZA" both yield "Limpeza".
func NormalizeCategory(s string) (string, bool) {
	folded := cases.Fold().String(strings.TrimSpace(s))
	for _, c := range Categories {
		if cases.Fold().String(c) == folded {
			return c, true
		}
	}
	return "", false
}

// ValidateCategory reports whether s names a known category.
func ValidateCategory(s string) bool {
	_, ok := NormalizeCategory(s)
	return ok
}

// ValidateDiscountPercent checks pct is within the allowed range.
func ValidateDiscountPercent(pct int) error {
	if pct < MinDiscountPercent || pct > MaxDiscountPercent {
		return NewValidationError("percent", "must be between 1 and 95", pct)
	}
	return nil
}

// ValidateProduct checks the invariants every stored product must satisfy.
// The first violated field is reported.
func ValidateProduct(p Product) error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	reason, ok := reasons[fe.Tag()]
	if !ok {
		reason = "failed " + fe.Tag()
	}
	return NewValidationError(fe.Field(), reason, fe.Value())
}

// ValidateNewProduct additionally requires stock at creation time.
func ValidateNewProduct(p Product) error {
	if err := ValidateProduct(p); err != nil {
		return err
	}
	if p.Quantity <= 0 {
		return NewValidationError("quantity", "must be positive", p.Quantity)
	}
	return nil
}
