package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/lockerbox-backend/pkg/errors"
)

type lockerInput struct {
	Ref      string  `json:"ref" validate:"required,max=8"`
	Lat      float64 `json:"latitude" validate:"omitempty,latitude"`
	Products []uint  `json:"products" validate:"omitempty,dive,min=1"`
}

func post(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/api/v1/locker", strings.NewReader(body))
}

func details(t *testing.T, err error) map[string]string {
	t.Helper()
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	out, _ := typed.Details().(map[string]string)
	return out
}

func TestDecodeJSONBodyAccepts(t *testing.T) {
	var in lockerInput
	require.NoError(t, DecodeJSONBody(post(`{"ref":"A1","latitude":45.76,"products":[3]}`), &in))
	assert.Equal(t, "A1", in.Ref)
	assert.Equal(t, []uint{3}, in.Products)
}

func TestDecodeJSONBodyValidationDetails(t *testing.T) {
	var in lockerInput
	err := DecodeJSONBody(post(`{"ref":"TOO-LONG-REF","latitude":120,"products":[0]}`), &in)
	d := details(t, err)
	assert.Equal(t, "must be at most 8", d["ref"])
	assert.Equal(t, "must be a valid latitude", d["latitude"])
	assert.Equal(t, "must be at least 1", d["products[0]"])
}

func TestDecodeJSONBodyRejectsMalformedInput(t *testing.T) {
	cases := map[string]string{
		"empty":         ``,
		"unknown field": `{"ref":"A1","colour":"red"}`,
		"two objects":   `{"ref":"A1"}{"ref":"A2"}`,
		"wrong type":    `{"ref":7}`,
		"too large":     `{"ref":"` + strings.Repeat("x", MaxBodyBytes) + `"}`,
	}
	for name, body := range cases {
		var in lockerInput
		err := DecodeJSONBody(post(body), &in)
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), name)
	}
}
