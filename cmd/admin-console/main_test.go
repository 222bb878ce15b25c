package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	adminhttp "github.com/goliatone/go-cms-admin/internal/http"
	"github.com/goliatone/go-cms-admin/internal/records"
	"github.com/goliatone/go-cms-admin/internal/resources"
	"github.com/goliatone/go-cms-admin/pkg/testsupport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type backend struct {
	url   string
	store *records.Store
}

func newBackend(t *testing.T, opts ...adminhttp.Option) backend {
	t.Helper()
	ctx := context.Background()
	store, err := records.NewStore(testsupport.NewBunDB(t))
	require.NoError(t, err)
	require.NoError(t, store.Migrate(ctx))

	api := adminhttp.NewAPI(store, opts...)
	require.NoError(t, api.MountPages(ctx, store, resources.Pages(resources.Options{})))
	mux := http.NewServeMux()
	require.NoError(t, api.Register(mux))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	t.Setenv("ADMIN_LOG_LEVEL", "error")
	return backend{url: srv.URL, store: store}
}

// firstID returns the id of the first stored record of resource. Every
// resource shares one id sequence, so ids are not predictable per resource.
func firstID(t *testing.T, b backend, resource string) int64 {
	t.Helper()
	rows, err := b.store.List(context.Background(), resource)
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	id, ok := rows[0]["id"].(int64)
	require.True(t, ok, "%s id has type %T", resource, rows[0]["id"])
	return id
}

func execute(t *testing.T, b backend, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCommand(newApp(strings.NewReader(stdin), &out, &errOut))
	cmd.SetArgs(append([]string{"--api", b.url}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestListPrintsSeededPage(t *testing.T) {
	b := newBackend(t)

	out, _, err := execute(t, b, "", "list", resources.News)
	require.NoError(t, err)

	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "Quarterly results published")
	assert.Contains(t, out, "No Description")
	assert.Contains(t, out, "Page 1 of 1")
}

func TestListAppliesQueryAndPage(t *testing.T) {
	b := newBackend(t)
	ctx := context.Background()
	for _, fields := range testsupport.NumberedRecords("Bulletin", 25) {
		_, err := b.store.Create(ctx, resources.News, fields)
		require.NoError(t, err)
	}

	out, _, err := execute(t, b, "", "list", resources.News, "--query", "bulletin", "--page", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Page 3 of 3")
	assert.Contains(t, out, "Bulletin 25")
	assert.NotContains(t, out, "Quarterly results published")
}

func TestListRejectsUnknownResource(t *testing.T) {
	b := newBackend(t)

	_, _, err := execute(t, b, "", "list", "invoices")
	require.ErrorIs(t, err, resources.ErrUnknownResource)
}

func TestDeleteWithConfirmation(t *testing.T) {
	b := newBackend(t)
	ctx := context.Background()

	id := strconv.FormatInt(firstID(t, b, resources.News), 10)

	_, _, err := execute(t, b, "n\n", "delete", resources.News, id)
	require.NoError(t, err)
	count, err := b.store.Count(ctx, resources.News)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	out, errOut, err := execute(t, b, "y\n", "delete", resources.News, id)
	require.NoError(t, err)
	assert.Contains(t, out, "Delete news record "+id+"?")
	assert.Contains(t, errOut, "deleted")
	count, err = b.store.Count(ctx, resources.News)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestDeleteMissingRecordFails(t *testing.T) {
	b := newBackend(t)

	_, _, err := execute(t, b, "", "delete", resources.News, "9999", "--yes")
	require.Error(t, err)
}

func TestExportWritesFile(t *testing.T) {
	b := newBackend(t)
	dir := t.TempDir()

	out, _, err := execute(t, b, "", "--export-dir", dir, "export", resources.Sliders, "--format", "xlsx")
	require.NoError(t, err)

	location := strings.TrimSpace(out)
	assert.Equal(t, filepath.Join(dir, "sliders_records.xlsx"), location)
	info, err := os.Stat(location)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestExportOutOverridesExportDir(t *testing.T) {
	b := newBackend(t)
	dir := t.TempDir()

	out, _, err := execute(t, b, "", "--export-dir", t.TempDir(), "export", resources.News, "--format", "pdf", "--out", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "news_records.pdf"), strings.TrimSpace(out))
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	b := newBackend(t)

	_, _, err := execute(t, b, "", "export", resources.News, "--format", "csv")
	require.Error(t, err)
}

func TestCreateReportsFieldErrors(t *testing.T) {
	b := newBackend(t)

	_, errOut, err := execute(t, b, "", "create", resources.Contacts, "--field", "office=Lisbon")
	require.Error(t, err)
	assert.Contains(t, errOut, "The email field is required.")

	_, _, err = execute(t, b, "", "create", resources.Contacts, "--field", "office=Lisbon", "--field", "email=lisbon@example.com")
	require.NoError(t, err)
	rows, err := b.store.List(context.Background(), resources.Contacts)
	require.NoError(t, err)
	assert.Equal(t, "lisbon@example.com", rows[len(rows)-1]["email"])
}

func TestUpdateUploadsFile(t *testing.T) {
	b := newBackend(t)
	path := filepath.Join(t.TempDir(), "Hero.PNG")
	require.NoError(t, os.WriteFile(path, []byte("png"), 0o644))

	ctx := context.Background()
	id := firstID(t, b, resources.Sliders)

	_, _, err := execute(t, b, "", "update", resources.Sliders, strconv.FormatInt(id, 10), "--field", "heading=Updated", "--file", "image="+path)
	require.NoError(t, err)

	row, err := b.store.Get(ctx, resources.Sliders, id)
	require.NoError(t, err)
	assert.Equal(t, "Updated", row["heading"])
	assert.True(t, strings.HasSuffix(row["image"].(string), ".png"))
}

func TestBuildPayloadRejectsMalformedPairs(t *testing.T) {
	_, err := buildPayload([]string{"title"}, nil)
	require.Error(t, err)

	_, err = buildPayload(nil, []string{"image=/does/not/exist"})
	require.Error(t, err)

	payload, err := buildPayload([]string{"title=a=b"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "a=b", payload.Fields["title"])
}

func TestSignInPrintsToken(t *testing.T) {
	b := newBackend(t, adminhttp.WithSignIn(adminhttp.SignIn{
		Email:    "editor@example.com",
		Password: "secret",
		Token:    "tok-123",
	}))

	out, _, err := execute(t, b, "", "signin", "--email", "editor@example.com", "--password", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", strings.TrimSpace(out))

	_, _, err = execute(t, b, "", "list", resources.News)
	require.Error(t, err)

	out, _, err = execute(t, b, "", "--token", "tok-123", "list", resources.News)
	require.NoError(t, err)
	assert.Contains(t, out, "Page 1 of 1")
}
