package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"archiv/internal/logging"
)

func TestRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())

	app.Get("/test", func(c *fiber.Ctx) error {
		rid := c.Locals(RequestIDLocalKey)
		assert.Equal(t, rid, logging.RequestID(c.UserContext()))
		return c.SendString(rid.(string))
	})

	t.Run("should generate new request id if not present", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		ridHeader := resp.Header.Get(RequestIDHeader)
		assert.NotEmpty(t, ridHeader)

		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.Equal(t, ridHeader, buf.String())
	})

	t.Run("should preserve existing request id", func(t *testing.T) {
		existingID := "test-id-123"
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, existingID)

		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, existingID, resp.Header.Get(RequestIDHeader))

		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.Equal(t, existingID, buf.String())
	})
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New()
	loc := time.UTC

	app.Use(RequestID())
	app.Use(Logger(logging.New(&buf, loc)))

	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusAccepted)
	})

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set(fiber.HeaderOrigin, "http://localhost:5173")
	resp, _ := app.Test(req)

	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	var logData map[string]any
	err := json.Unmarshal(buf.Bytes(), &logData)
	assert.NoError(t, err)

	assert.NotEmpty(t, logData["request_id"])
	assert.Equal(t, "GET", logData["method"])
	assert.Equal(t, "/test", logData["path"])
	assert.Equal(t, float64(fiber.StatusAccepted), logData["status"])
	assert.Equal(t, "http://localhost:5173", logData["origin"])
	assert.Equal(t, "info", logData["level"])
	assert.NotNil(t, logData["latency"])
	assert.NotEmpty(t, logData["ts"])
}

func TestLogger_ErrorStatus(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New()
	app.Use(Logger(logging.New(&buf, time.UTC)))

	app.Get("/missing", func(c *fiber.Ctx) error {
		return fiber.ErrNotFound
	})

	resp, _ := app.Test(httptest.NewRequest("GET", "/missing", nil))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var logData map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logData))
	assert.Equal(t, float64(fiber.StatusNotFound), logData["status"])
	assert.Equal(t, "warn", logData["level"])
}

func newCORSApp(t *testing.T, origins, patterns []string) *fiber.App {
	t.Helper()
	h, err := CORS(origins, patterns)
	require.NoError(t, err)

	app := fiber.New()
	app.Use(h)
	app.Get("/api/pdf/list", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true})
	})
	return app
}

func TestCORS(t *testing.T) {
	app := newCORSApp(t,
		[]string{"http://localhost:5173"},
		[]string{`^https://archiv-.*\.vercel\.app$`},
	)

	t.Run("allowed origin", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/pdf/list", nil)
		req.Header.Set(fiber.HeaderOrigin, "http://localhost:5173")
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "http://localhost:5173", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
		assert.Equal(t, "true", resp.Header.Get(fiber.HeaderAccessControlAllowCredentials))
	})

	t.Run("origin matched by pattern", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/pdf/list", nil)
		req.Header.Set(fiber.HeaderOrigin, "https://archiv-pr-42.vercel.app")
		resp, _ := app.Test(req)

		assert.Equal(t, "https://archiv-pr-42.vercel.app", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
	})

	t.Run("foreign origin gets no allow header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/pdf/list", nil)
		req.Header.Set(fiber.HeaderOrigin, "https://evil.example")
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Empty(t, resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
	})

	t.Run("preflight answers empty 200", func(t *testing.T) {
		req := httptest.NewRequest("OPTIONS", "/pdfs/ch1.pdf", nil)
		req.Header.Set(fiber.HeaderOrigin, "http://localhost:5173")
		req.Header.Set(fiber.HeaderAccessControlRequestMethod, "GET")
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "http://localhost:5173", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
		body, _ := io.ReadAll(resp.Body)
		assert.Empty(t, body)
	})

	t.Run("bare OPTIONS on unknown route", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest("OPTIONS", "/nowhere", nil))

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		body, _ := io.ReadAll(resp.Body)
		assert.Empty(t, body)
	})
}

func TestCORS_Wildcard(t *testing.T) {
	app := newCORSApp(t, []string{"*"}, nil)

	req := httptest.NewRequest("GET", "/api/pdf/list", nil)
	req.Header.Set(fiber.HeaderOrigin, "https://anywhere.example")
	resp, _ := app.Test(req)

	assert.Equal(t, "*", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
	assert.Empty(t, resp.Header.Get(fiber.HeaderAccessControlAllowCredentials))
}

func TestCORS_InvalidPattern(t *testing.T) {
	_, err := CORS([]string{"http://localhost:3000"}, []string{"("})
	assert.Error(t, err)
}
