package validation

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type signupForm struct {
	Username string `json:"username" validate:"required,username"`
	Password string `json:"password" validate:"required,pwd"`
	Year     int    `json:"year_of_study" validate:"studyyear"`
	Category string `form:"category" validate:"omitempty,category"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	Configure(v)
	return v
}

func TestToDetailsUsesTagNamesAndAliases(t *testing.T) {
	err := newValidator().Struct(signupForm{Username: "a b", Password: "short", Year: 7, Category: "party"})

	details := ToDetails(err)
	assert.Equal(t, "must be 3 to 150 characters without spaces", details["username"])
	assert.Equal(t, "min length 8", details["password"])
	assert.Equal(t, "must be between 1 and 4", details["year_of_study"])
	assert.Equal(t, "must be one of: seminar, workshop, cultural, sports", details["category"])
}

func TestToDetailsValid(t *testing.T) {
	err := newValidator().Struct(signupForm{Username: "alice", Password: "longenough", Year: 2})
	assert.NoError(t, err)
	assert.Nil(t, ToDetails(nil))
}

func TestToDetailsJSONErrors(t *testing.T) {
	var dst struct{ N int }
	err := json.Unmarshal([]byte(`{"N":`), &dst)
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(err))

	assert.Equal(t, map[string]string{"payload": "invalid payload"}, ToDetails(errors.New("boom")))
}
