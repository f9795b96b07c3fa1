package middleware_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"schooldir/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func newApp() *fiber.App {
	app := fiber.New()
	app.Post("/upload", middleware.RequireMultipart(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func TestRequireMultipart_Rejects(t *testing.T) {
	app := newApp()

	for _, contentType := range []string{"", "application/json", "application/x-www-form-urlencoded"} {
		req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(`{"name":"x"}`))
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		resp, err := app.Test(req, -1)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode, contentType)
		resp.Body.Close()
	}
}

func TestRequireMultipart_Allows(t *testing.T) {
	app := newApp()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	assert.NoError(t, w.WriteField("name", "Green Valley School"))
	assert.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()
}
