package cloudinary_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"schooldir/internal/models"
	"schooldir/pkg/cloudinary"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func newClient(t *testing.T, url string) *cloudinary.Client {
	t.Helper()
	c, err := cloudinary.NewClient(cloudinary.Config{
		CloudName:    "demo",
		UploadPreset: "unsigned_schools",
		Folder:       "schoolImages",
		APIURL:       url + "/v1_1",
	})
	require.NoError(t, err)
	return c
}

func testImage() *models.ImageUpload {
	return &models.ImageUpload{Filename: "front.png", Data: pngBytes, ContentType: "image/png"}
}

func TestNewClient_RequiresSettings(t *testing.T) {
	_, err := cloudinary.NewClient(cloudinary.Config{CloudName: "demo"})
	assert.Error(t, err)
}

func TestUpload_Success(t *testing.T) {
	var gotPath string
	form := map[string]string{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		for _, k := range []string{"file", "upload_preset", "folder", "public_id"} {
			form[k] = r.FormValue(k)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"secure_url": "https://res.cloudinary.com/demo/image/upload/schoolImages/abc.png",
			"public_id":  "schoolImages/abc",
		})
	}))
	defer srv.Close()

	res, err := newClient(t, srv.URL).Upload(context.Background(), testImage())
	require.NoError(t, err)

	assert.Equal(t, "/v1_1/demo/image/upload", gotPath)
	assert.Equal(t, "unsigned_schools", form["upload_preset"])
	assert.Equal(t, "schoolImages", form["folder"])
	assert.NotEmpty(t, form["public_id"])
	assert.True(t, strings.HasPrefix(form["file"], "data:image/png;base64,"))
	payload := strings.TrimPrefix(form["file"], "data:image/png;base64,")
	decoded, err := base64.StdEncoding.DecodeString(payload)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, decoded)

	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/schoolImages/abc.png", res.SecureURL)
	assert.Equal(t, "schoolImages/abc", res.PublicID)
}

func TestUpload_NoSecureURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"public_id":"schoolImages/abc"}`))
	}))
	defer srv.Close()

	_, err := newClient(t, srv.URL).Upload(context.Background(), testImage())
	require.Error(t, err)
	assert.True(t, errors.Is(err, cloudinary.ErrNoLocation))
}

func TestUpload_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Upload preset not found"}}`))
	}))
	defer srv.Close()

	_, err := newClient(t, srv.URL).Upload(context.Background(), testImage())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Contains(t, err.Error(), "Upload preset not found")
}

func TestUpload_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newClient(t, url).Upload(context.Background(), testImage())
	assert.Error(t, err)
}

func TestUpload_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newClient(t, "http://127.0.0.1:1").Upload(ctx, testImage())
	assert.ErrorIs(t, err, context.Canceled)
}
