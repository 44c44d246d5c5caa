package validator

import (
	"fmt"
	"testing"
	"time"

	govalidator "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidate(t *testing.T) *govalidator.Validate {
	t.Helper()
	v := govalidator.New(govalidator.WithRequiredStructEnabled())
	MustRegisterAll(v)
	return v
}

func TestIsReservedUsername(t *testing.T) {
	for _, username := range []string{"me", "Me", "ME", "mE"} {
		assert.True(t, IsReservedUsername(username), username)
	}
	for _, username := range []string{"mee", "admin", "bob"} {
		assert.False(t, IsReservedUsername(username), username)
	}
}

func TestYearNotInFuture(t *testing.T) {
	currentYear := int32(time.Now().Year())
	assert.False(t, YearNotInFuture(2999))
	assert.False(t, YearNotInFuture(currentYear+1))
	assert.True(t, YearNotInFuture(currentYear))
	assert.True(t, YearNotInFuture(1895))
}

func TestUsernameAndSlugTags(t *testing.T) {
	v := newValidate(t)
	type payload struct {
		Username string `json:"username" validate:"omitempty,username,notreserved"`
		Slug     string `json:"slug" validate:"omitempty,slug"`
	}
	cases := []struct {
		payload   payload
		wantField string
	}{
		{payload{Username: "bob.smith@x+y-z"}, ""},
		{payload{Username: "bob smith"}, "username"},
		{payload{Username: "ME"}, "username"},
		{payload{Slug: "sci-fi_2"}, ""},
		{payload{Slug: "sci fi"}, "slug"},
		{payload{Slug: "жанр"}, "slug"},
	}
	for i, tc := range cases {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			errs := ValidateStruct(v, tc.payload)
			if tc.wantField == "" {
				assert.Empty(t, errs)
				return
			}
			require.Len(t, errs, 1)
			assert.Contains(t, errs, tc.wantField)
		})
	}
}

func TestValidationErrorsUseJSONFieldNames(t *testing.T) {
	v := newValidate(t)
	type payload struct {
		Email string `json:"email" validate:"required,email"`
		Year  int32  `json:"year" validate:"required,gt=0,notfutureyear"`
	}
	errs := ValidateStruct(v, payload{Email: "not-an-email", Year: 2999})
	require.Len(t, errs, 2)
	assert.Contains(t, errs, "email")
	assert.Equal(t, "Year must not be in the future", errs["year"])
}

func TestSortByTitleFieldTag(t *testing.T) {
	v := newValidate(t)
	type payload struct {
		Sort string `json:"sort" validate:"omitempty,sortbytitlefield"`
	}
	assert.Empty(t, ValidateStruct(v, payload{Sort: "-rating"}))
	assert.Empty(t, ValidateStruct(v, payload{Sort: "name"}))
	assert.Empty(t, ValidateStruct(v, payload{Sort: "year"}))
	assert.NotEmpty(t, ValidateStruct(v, payload{Sort: "confirmation_code"}))
}
