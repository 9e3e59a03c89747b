package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/medicore/pkg/validate"
)

type checkoutForm struct {
	OfferID  uint   `json:"offer_id" validate:"required,numeric"`
	Quantity int    `json:"quantity" validate:"required,integer,gte=1"`
	FullName string `json:"full_name" validate:"required,max=255"`
	Gender   string `json:"gender" validate:"nullable,in=male,female,other"`
	Email    string `json:"email" validate:"required,email"`
}

func TestStructPasses(t *testing.T) {
	errs := validate.Struct(checkoutForm{
		OfferID:  3,
		Quantity: 2,
		FullName: "Jane Doe",
		Gender:   "female",
		Email:    "jane@example.com",
	})
	assert.False(t, validate.HasErrors(errs), "got: %v", errs)
}

func TestRequiredFields(t *testing.T) {
	errs := validate.Struct(checkoutForm{})
	assert.Contains(t, errs, "offer_id")
	assert.Contains(t, errs, "quantity")
	assert.Contains(t, errs, "full_name")
	assert.Contains(t, errs, "email")
	// nullable + empty → skipped entirely
	assert.NotContains(t, errs, "gender")
}

func TestInRuleWithMultiValueParam(t *testing.T) {
	errs := validate.Struct(checkoutForm{
		OfferID:  1,
		Quantity: 1,
		FullName: "x",
		Gender:   "robot",
		Email:    "x@y.io",
	})
	assert.Contains(t, errs, "gender")
}

func TestEmailRule(t *testing.T) {
	errs := validate.Struct(checkoutForm{
		OfferID:  1,
		Quantity: 1,
		FullName: "x",
		Email:    "not-an-email",
	})
	assert.Contains(t, errs, "email")
}

func TestNumericComparisons(t *testing.T) {
	type form struct {
		Discount float64 `json:"discount" validate:"nullable,numeric,between=0,100"`
		Price    float64 `json:"price" validate:"required,numeric,gt=0"`
	}

	errs := validate.Struct(form{Discount: 150, Price: 10})
	assert.Contains(t, errs, "discount")

	errs = validate.Struct(form{Discount: 10, Price: 0})
	assert.Contains(t, errs, "price")

	errs = validate.Struct(form{Discount: 10, Price: 5})
	assert.False(t, validate.HasErrors(errs))
}

func TestAlphaDash(t *testing.T) {
	type form struct {
		Slug string `json:"slug" validate:"required,alpha_dash"`
	}
	assert.False(t, validate.HasErrors(validate.Struct(form{Slug: "cardiology-unit_2"})))
	assert.Contains(t, validate.Struct(form{Slug: "bad slug!"}), "slug")
}

func TestFirstFailingRuleWins(t *testing.T) {
	type form struct {
		Name string `json:"name" validate:"required,min=3,max=5"`
	}
	errs := validate.Struct(form{Name: "ab"})
	assert.Equal(t, "The name must be at least 3 characters.", errs["name"])
}
