package bind_test

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/giftwheels/config"
	"github.com/shashiranjanraj/giftwheels/pkg/bind"
)

type orderInput struct {
	Name     string `json:"customer_name" validate:"required"`
	Quantity int    `json:"quantity"`
}

func TestJSON_Valid(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"customer_name":"Ana","quantity":2}`))
	var in orderInput

	errs, err := bind.JSON(httptest.NewRecorder(), req, &in)
	require.NoError(t, err)
	assert.Nil(t, errs)
	assert.Equal(t, orderInput{Name: "Ana", Quantity: 2}, in)
}

func TestJSON_ValidationFailure(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"customer_name":"  ","quantity":2}`))
	var in orderInput

	errs, err := bind.JSON(httptest.NewRecorder(), req, &in)
	require.NoError(t, err)
	assert.Contains(t, errs, "customer_name")
}

func TestJSON_FractionalNumberIsFieldError(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"customer_name":"Ana","quantity":1.5}`))
	var in orderInput

	errs, err := bind.JSON(httptest.NewRecorder(), req, &in)
	require.NoError(t, err)
	assert.Contains(t, errs, "quantity")
}

func TestJSON_Malformed(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"customer_name":`))
	var in orderInput

	errs, err := bind.JSON(httptest.NewRecorder(), req, &in)
	assert.Nil(t, errs)
	assert.Error(t, err)
}

func TestJSON_TooLarge(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MAX_BODY_BYTES", "16")
	require.NoError(t, config.LoadFrom(filepath.Join(dir, "app.json"), filepath.Join(dir, ".env")))
	t.Cleanup(func() {
		os.Unsetenv("MAX_BODY_BYTES")
		_ = config.LoadFrom(filepath.Join(dir, "app.json"), filepath.Join(dir, ".env"))
	})

	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"customer_name":"`+strings.Repeat("x", 64)+`"}`))
	var in orderInput

	_, err := bind.JSON(httptest.NewRecorder(), req, &in)
	require.Error(t, err)
}
