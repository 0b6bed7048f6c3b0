package corvid

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupInput struct {
	Name     string `json:"name" validate:"required,min:2,max:20"`
	Email    string `json:"email" validate:"required,email"`
	Age      int    `json:"age" validate:"gte:0,lte:150"`
	Username string `json:"username" validate:"required,alphanum,len:6"`
	Role     string `json:"role" validate:"oneof:admin user guest"`
}

func TestValidateReportsEveryFailingTag(t *testing.T) {
	errs := Validate(signupInput{
		Name:     "J",
		Email:    "not-an-email",
		Age:      -1,
		Username: "ab!123",
		Role:     "superadmin",
	})

	require.True(t, errs.HasErrors())
	byField := errs.ToMap()
	assert.Contains(t, byField, "name")
	assert.Contains(t, byField, "email")
	assert.Contains(t, byField, "age")
	assert.Contains(t, byField, "username")
	assert.Contains(t, byField, "role")
}

func TestValidatePassesOnValidInput(t *testing.T) {
	errs := Validate(signupInput{
		Name:     "Jo",
		Email:    "jo@example.com",
		Age:      30,
		Username: "abc123",
		Role:     "user",
	})
	assert.False(t, errs.HasErrors())
}

func TestValidateRecursesIntoNestedStructsAndPrefixesFieldNames(t *testing.T) {
	type Address struct {
		City string `json:"city" validate:"required"`
	}
	type Order struct {
		Address Address `json:"address"`
	}

	errs := Validate(Order{})
	require.True(t, errs.HasErrors())
	assert.Equal(t, "address.city", errs[0].Field)
}

func TestValidateUsesJSONTagForFieldName(t *testing.T) {
	type Input struct {
		FullName string `json:"full_name" validate:"required"`
	}
	errs := Validate(Input{})
	require.Len(t, errs, 1)
	assert.Equal(t, "full_name", errs[0].Field)
}

func TestValidateUnknownTagIsIgnored(t *testing.T) {
	type Input struct {
		Value string `validate:"frobnicate"`
	}
	assert.False(t, Validate(Input{Value: "anything"}).HasErrors())
}

func TestValidateLenRejectsWrongLength(t *testing.T) {
	type Input struct {
		Code string `validate:"len:4"`
	}
	assert.True(t, Validate(Input{Code: "abc"}).HasErrors())
	assert.False(t, Validate(Input{Code: "abcd"}).HasErrors())
}

func TestValidateGtLtFamily(t *testing.T) {
	type Input struct {
		V int `validate:"gt:0,lt:10"`
	}
	assert.True(t, Validate(Input{V: 0}).HasErrors())
	assert.True(t, Validate(Input{V: 10}).HasErrors())
	assert.False(t, Validate(Input{V: 5}).HasErrors())
}

func TestValidateUUIDDelegatesToGoogleUUID(t *testing.T) {
	type Input struct {
		ID string `validate:"uuid"`
	}
	assert.True(t, Validate(Input{ID: "not-a-uuid"}).HasErrors())
	assert.False(t, Validate(Input{ID: "123e4567-e89b-12d3-a456-426614174000"}).HasErrors())
}

func TestValidateVarValidatesStandaloneValues(t *testing.T) {
	errs := ValidateVar("nope", "required,email")
	require.True(t, errs.HasErrors())
	assert.Equal(t, "value", errs[0].Field)

	assert.False(t, ValidateVar("user@example.com", "required,email").HasErrors())
}

func TestValidationErrorsErrorJoinsMessages(t *testing.T) {
	errs := ValidationErrors{{Message: "a"}, {Message: "b"}}
	assert.Equal(t, "a; b", errs.Error())
	assert.Equal(t, "", ValidationErrors{}.Error())
}

func TestContextBindDecodesAndValidates(t *testing.T) {
	body := strings.NewReader(`{"name":"J","email":"bad","age":-5,"username":"a","role":"x"}`)
	req := httptest.NewRequest(http.MethodPost, "/signup", body)
	rec := httptest.NewRecorder()
	c := NewContext(rec, req, "req-1")

	var input signupInput
	err := c.Bind(&input)
	require.Error(t, err)

	errs, ok := AsValidationErrors(err)
	require.True(t, ok)
	assert.True(t, errs.HasErrors())
	assert.True(t, IsValidation(err))
}

func TestContextBindRejectsMalformedJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()
	c := NewContext(rec, req, "req-1")

	var input signupInput
	err := c.Bind(&input)
	require.Error(t, err)
	assert.False(t, IsValidation(err))
	_, ok := AsValidationErrors(err)
	assert.False(t, ok)
}

func TestContextValidationFailedWritesUnprocessableEntity(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/signup", nil)
	c := NewContext(rec, req, "req-1")

	errs := ValidationErrors{{Field: "name", Message: "name is required"}}
	require.NoError(t, c.ValidationFailed(errs))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "name is required")
}
