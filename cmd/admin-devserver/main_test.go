package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	admin "github.com/goliatone/go-cms-admin"
	"github.com/goliatone/go-cms-admin/internal/resources"
	"github.com/goliatone/go-cms-admin/pkg/testsupport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, opts serverOptions) *httptest.Server {
	t.Helper()
	cfg := admin.DefaultConfig()
	cfg.Logging.Level = "error"
	module, err := admin.New(cfg)
	require.NoError(t, err)

	handler, err := newHandler(context.Background(), testsupport.NewBunDB(t), module, opts)
	require.NoError(t, err)
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestHandlerServesSeededResources(t *testing.T) {
	srv := newTestServer(t, serverOptions{seed: true})

	resp, err := http.Get(srv.URL + "/api/leaders")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string][]map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body["leaders"])

	for _, name := range resources.Names() {
		resp, err := http.Get(srv.URL + "/api/" + name)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, name)
	}
}

func TestHandlerWithoutSeedStartsEmpty(t *testing.T) {
	srv := newTestServer(t, serverOptions{})

	resp, err := http.Get(srv.URL + "/api/sliders")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Empty(t, body)
}

func TestHandlerServesUploadsBack(t *testing.T) {
	srv := newTestServer(t, serverOptions{uploadsDir: t.TempDir()})

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	require.NoError(t, form.WriteField("heading", "Hero"))
	part, err := form.CreateFormFile("image", "hero.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("jpeg-bytes"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	resp, err := http.Post(srv.URL+"/api/sliders", form.FormDataContentType(), &buf)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	image, _ := created.Data["image"].(string)
	require.True(t, strings.HasPrefix(image, "/uploads/sliders/"), image)

	file, err := http.Get(srv.URL + image)
	require.NoError(t, err)
	defer file.Body.Close()
	data, err := io.ReadAll(file.Body)
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))
}

func TestHandlerRequiresSignInWhenConfigured(t *testing.T) {
	srv := newTestServer(t, serverOptions{email: "dev@example.com", password: "pw", token: "dev-token"})

	resp, err := http.Get(srv.URL + "/api/news")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
