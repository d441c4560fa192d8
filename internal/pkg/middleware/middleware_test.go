package middleware

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/ginee-gateway/app/models"
	"github.com/ManuelReschke/ginee-gateway/internal/pkg/env"
	"github.com/ManuelReschke/ginee-gateway/internal/pkg/ginee"
	"github.com/ManuelReschke/ginee-gateway/internal/pkg/voucher"
	"github.com/ManuelReschke/ginee-gateway/internal/pkg/vouchercontext"
)

type fakeValidator struct {
	result voucher.Result
	err    error
	calls  int
}

func (f *fakeValidator) Validate(_ context.Context, code string, customerID uint, total float64) (voucher.Result, error) {
	f.calls++
	return f.result, f.err
}

func newVoucherApp(v voucher.Validator) *fiber.App {
	app := fiber.New()
	app.Post("/checkout", VoucherMiddleware(v), func(c *fiber.Ctx) error {
		vc, ok := vouchercontext.Get(c)
		return c.JSON(fiber.Map{"applied": ok, "voucher": vc})
	})
	return app
}

func decodeBody(t *testing.T, body io.Reader) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

func TestVoucherMiddlewareAttachesContext(t *testing.T) {
	v := &fakeValidator{result: voucher.Result{
		Valid: true, Discount: 12.5, Message: voucher.MessageApplied,
		Voucher: &models.Voucher{ID: 9, Code: "SAVE"},
	}}
	app := newVoucherApp(v)

	req := httptest.NewRequest("POST", "/checkout", strings.NewReader(`{"voucher_code":"save","customer_id":3,"order_total":40}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, true, body["applied"])
	vc := body["voucher"].(map[string]any)
	assert.Equal(t, float64(9), vc["voucher_id"])
	assert.Equal(t, "SAVE", vc["code"])
	assert.Equal(t, 12.5, vc["discount"])
	assert.Equal(t, float64(3), vc["customer_id"])
}

func TestVoucherMiddlewareRejects(t *testing.T) {
	v := &fakeValidator{result: voucher.Result{Valid: false, Message: "This voucher has expired."}}
	app := newVoucherApp(v)

	form := url.Values{"voucher_code": {"OLD"}, "customer_id": {"1"}, "order_total": {"10"}}
	req := httptest.NewRequest("POST", "/checkout", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "This voucher has expired.", decodeBody(t, resp.Body)["message"])
}

func TestVoucherMiddlewareWithoutCode(t *testing.T) {
	v := &fakeValidator{}
	app := newVoucherApp(v)

	resp, err := app.Test(httptest.NewRequest("POST", "/checkout", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, false, decodeBody(t, resp.Body)["applied"])
	assert.Zero(t, v.calls)
}

func TestVoucherMiddlewareErrors(t *testing.T) {
	app := newVoucherApp(&fakeValidator{err: errors.New("db down")})

	req := httptest.NewRequest("POST", "/checkout", strings.NewReader(`{"voucher_code":"X"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	req = httptest.NewRequest("POST", "/checkout", strings.NewReader(`{"voucher_code":`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAdminBasicAuth(t *testing.T) {
	t.Cleanup(func() { env.Env = nil })

	newApp := func() *fiber.App {
		app := fiber.New()
		app.Get("/admin", AdminBasicAuth(), func(c *fiber.Ctx) error { return c.SendString("ok") })
		return app
	}
	basic := func(user, pass string) string {
		return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
	}

	env.Env = map[string]string{"ADMIN_PASSWORD": ""}
	resp, err := newApp().Test(httptest.NewRequest("GET", "/admin", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	env.Env = map[string]string{"ADMIN_USER": "ops", "ADMIN_PASSWORD": "pw"}
	app := newApp()

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"no credentials", "", fiber.StatusUnauthorized},
		{"wrong password", basic("ops", "nope"), fiber.StatusUnauthorized},
		{"valid", basic("ops", "pw"), fiber.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/admin", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestGineeSignature(t *testing.T) {
	body := `{"id":"evt-1"}`
	newApp := func(secret string) *fiber.App {
		app := fiber.New()
		app.Post("/hook", GineeSignature(secret, "orders"), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
		return app
	}

	resp, err := newApp("").Test(httptest.NewRequest("POST", "/hook", strings.NewReader(body)))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	app := newApp("k")
	req := httptest.NewRequest("POST", "/hook", strings.NewReader(body))
	req.Header.Set(ginee.SignatureHeader, ginee.SignPayload([]byte(body), "k"))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest("POST", "/hook", strings.NewReader(body))
	req.Header.Set(ginee.SignatureHeader, "sha256=00")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "invalid_signature", decodeBody(t, resp.Body)["error"])
}
