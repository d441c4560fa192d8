package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookEventsTotalLabels(t *testing.T) {
	c := WebhookEventsTotal.WithLabelValues("metrics_test_topic", "accepted")
	c.Inc()
	c.Inc()

	var m dto.Metric
	require.NoError(t, c.Write(&m))
	assert.Equal(t, float64(2), m.GetCounter().GetValue())
}

func TestHandlerExposesCounters(t *testing.T) {
	VoucherChecksTotal.WithLabelValues("valid").Inc()

	app := fiber.New()
	app.Get("/metrics", Handler())

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "voucher_checks_total"))
}
