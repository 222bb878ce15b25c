package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"
	"sync"

	"github.com/goliatone/go-cms-admin/internal/fetch"
	"github.com/goliatone/go-cms-admin/internal/logging"
	"github.com/goliatone/go-cms-admin/pkg/interfaces"
	"github.com/google/uuid"
)

const maxUploadMemory = 8 << 20

// RecordStore is the persistence the fixture API serves. *records.Store
// satisfies it.
type RecordStore interface {
	List(ctx context.Context, resource string) ([]map[string]any, error)
	Get(ctx context.Context, resource string, id int64) (map[string]any, error)
	Create(ctx context.Context, resource string, fields map[string]any) (map[string]any, error)
	Update(ctx context.Context, resource string, id int64, fields map[string]any) (map[string]any, error)
	Delete(ctx context.Context, resource string, id int64) error
}

// UploadSink stores uploaded files. export.DirSink satisfies it.
type UploadSink interface {
	Deliver(ctx context.Context, name string, data []byte) (string, error)
}

// Resource describes how one resource is served.
type Resource struct {
	Name     string
	Envelope fetch.Envelope
	Key      string
	Required []string
}

// SignIn configures the sign-in endpoint. When set, every resource route
// requires the issued bearer token.
type SignIn struct {
	Email    string
	Password string
	Token    string
}

// API registers the fixture endpoints.
type API struct {
	basePath     string
	store        RecordStore
	uploads      UploadSink
	uploadPrefix string
	signIn       *SignIn
	logger       interfaces.Logger

	mu        sync.RWMutex
	resources map[string]Resource
}

// Option mutates the API configuration.
type Option func(*API)

// NewAPI constructs an API over store.
func NewAPI(store RecordStore, opts ...Option) *API {
	api := &API{
		basePath:     "/api",
		store:        store,
		uploadPrefix: "/uploads",
		logger:       logging.NoOp(),
		resources:    map[string]Resource{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// WithBasePath overrides the base API path (defaults to "/api").
func WithBasePath(p string) Option {
	return func(api *API) {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			api.basePath = trimmed
		}
	}
}

// WithResource serves resource.
func WithResource(resource Resource) Option {
	return func(api *API) {
		api.AddResource(resource)
	}
}

// WithUploads stores uploaded files in sink and records them under prefix.
func WithUploads(sink UploadSink, prefix string) Option {
	return func(api *API) {
		api.uploads = sink
		if trimmed := strings.TrimSpace(prefix); trimmed != "" {
			api.uploadPrefix = trimmed
		}
	}
}

// WithSignIn enables the sign-in endpoint and bearer authentication.
func WithSignIn(cfg SignIn) Option {
	return func(api *API) {
		if strings.TrimSpace(cfg.Token) == "" {
			cfg.Token = uuid.NewString()
		}
		api.signIn = &cfg
	}
}

// WithLogger sets the API logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(api *API) {
		api.logger = logging.Ensure(logger)
	}
}

// AddResource registers or replaces a served resource.
func (api *API) AddResource(resource Resource) {
	name := strings.TrimSpace(resource.Name)
	if name == "" {
		return
	}
	resource.Name = name
	if resource.Envelope == "" {
		resource.Envelope = fetch.EnvelopeData
	}
	api.mu.Lock()
	api.resources[name] = resource
	api.mu.Unlock()
}

func (api *API) resource(name string) (Resource, error) {
	api.mu.RLock()
	defer api.mu.RUnlock()
	resource, ok := api.resources[strings.TrimSpace(name)]
	if !ok {
		return Resource{}, errUnknownResource
	}
	return resource, nil
}

// Register attaches the endpoints to mux.
func (api *API) Register(mux *http.ServeMux) error {
	if mux == nil {
		return fmt.Errorf("http: mux is required")
	}
	if api == nil || api.store == nil {
		return fmt.Errorf("http: record store is required")
	}

	base := joinPath(api.basePath, "")
	collection := joinPath(base, "{resource}")
	record := collection + "/{id}"

	mux.HandleFunc("POST "+joinPath(base, "auth/signin"), api.handleSignIn)
	mux.HandleFunc("GET "+collection, api.authenticated(api.handleList))
	mux.HandleFunc("POST "+collection, api.authenticated(api.handleCreate))
	mux.HandleFunc("GET "+record, api.authenticated(api.handleGet))
	mux.HandleFunc("PUT "+record, api.authenticated(api.handleUpdate))
	mux.HandleFunc("DELETE "+record, api.authenticated(api.handleDelete))
	return nil
}

func (api *API) authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if api.signIn != nil && bearerToken(r) != api.signIn.Token {
			writeError(w, errUnauthenticated)
			return
		}
		next(w, r)
	}
}

func (api *API) handleSignIn(w http.ResponseWriter, r *http.Request) {
	if api.signIn == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not_found", Message: "Sign-in is disabled"})
		return
	}
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &creds); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid json payload"})
		return
	}
	if !strings.EqualFold(strings.TrimSpace(creds.Email), api.signIn.Email) || creds.Password != api.signIn.Password {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid_credentials", Message: "Invalid credentials"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": api.signIn.Token})
}

func (api *API) handleList(w http.ResponseWriter, r *http.Request) {
	resource, err := api.resource(r.PathValue("resource"))
	if err != nil {
		writeError(w, err)
		return
	}
	items, err := api.store.List(r.Context(), resource.Name)
	if err != nil {
		api.logger.Error("http.list.failed", "resource", resource.Name, "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope(resource, items))
}

func envelope(resource Resource, items []map[string]any) any {
	if items == nil {
		items = []map[string]any{}
	}
	switch resource.Envelope {
	case fetch.EnvelopeBare:
		return items
	case fetch.EnvelopeKeyed:
		key := strings.TrimSpace(resource.Key)
		if key == "" {
			key = resource.Name
		}
		return map[string]any{key: items}
	default:
		return map[string]any{"data": items}
	}
}

func (api *API) handleGet(w http.ResponseWriter, r *http.Request) {
	resource, err := api.resource(r.PathValue("resource"))
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}
	item, err := api.store.Get(r.Context(), resource.Name, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": item})
}

func (api *API) handleCreate(w http.ResponseWriter, r *http.Request) {
	resource, err := api.resource(r.PathValue("resource"))
	if err != nil {
		writeError(w, err)
		return
	}
	fields, err := api.readFields(r, resource)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := validateRequired(resource, fields, true); err != nil {
		writeError(w, err)
		return
	}
	item, err := api.store.Create(r.Context(), resource.Name, fields)
	if err != nil {
		writeError(w, err)
		return
	}
	api.logger.Info("http.record.created", "resource", resource.Name, "record_id", item["id"])
	writeJSON(w, http.StatusCreated, map[string]any{"data": item})
}

func (api *API) handleUpdate(w http.ResponseWriter, r *http.Request) {
	resource, err := api.resource(r.PathValue("resource"))
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}
	fields, err := api.readFields(r, resource)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := validateRequired(resource, fields, false); err != nil {
		writeError(w, err)
		return
	}
	item, err := api.store.Update(r.Context(), resource.Name, id, fields)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": item})
}

func (api *API) handleDelete(w http.ResponseWriter, r *http.Request) {
	resource, err := api.resource(r.PathValue("resource"))
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}
	if err := api.store.Delete(r.Context(), resource.Name, id); err != nil {
		writeError(w, err)
		return
	}
	api.logger.Info("http.record.deleted", "resource", resource.Name, "record_id", id)
	writeJSON(w, http.StatusOK, map[string]any{"message": "Record deleted"})
}

// readFields decodes a JSON object or a multipart form. Uploaded files are
// replaced by their stored path.
func (api *API) readFields(r *http.Request, resource Resource) (map[string]any, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		fields := map[string]any{}
		if err := decodeJSON(r, &fields); err != nil && !errors.Is(err, io.EOF) {
			return nil, &validationError{fields: map[string][]string{"body": {"The request body must be a JSON object."}}}
		}
		return fields, nil
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		return nil, &validationError{fields: map[string][]string{"body": {"The request body could not be parsed."}}}
	}
	fields := map[string]any{}
	for key, values := range r.MultipartForm.Value {
		if len(values) > 0 {
			fields[key] = values[0]
		}
	}
	for key, headers := range r.MultipartForm.File {
		if len(headers) == 0 {
			continue
		}
		stored, err := api.storeUpload(r.Context(), resource, headers[0].Filename, func() ([]byte, error) {
			file, err := headers[0].Open()
			if err != nil {
				return nil, err
			}
			defer file.Close()
			return io.ReadAll(file)
		})
		if err != nil {
			return nil, err
		}
		fields[key] = stored
	}
	return fields, nil
}

func (api *API) storeUpload(ctx context.Context, resource Resource, filename string, read func() ([]byte, error)) (string, error) {
	name := uuid.NewString() + strings.ToLower(path.Ext(filename))
	public := path.Join(api.uploadPrefix, resource.Name, name)
	if api.uploads == nil {
		return public, nil
	}
	data, err := read()
	if err != nil {
		return "", fmt.Errorf("http: read upload: %w", err)
	}
	if _, err := api.uploads.Deliver(ctx, resource.Name+"_"+name, data); err != nil {
		return "", fmt.Errorf("http: store upload: %w", err)
	}
	return public, nil
}

// validateRequired rejects blank required fields. Updates only check the
// fields they carry.
func validateRequired(resource Resource, fields map[string]any, creating bool) error {
	problems := map[string][]string{}
	for _, key := range resource.Required {
		value, present := fields[key]
		if !present && !creating {
			continue
		}
		if value == nil || strings.TrimSpace(fmt.Sprint(value)) == "" {
			label := strings.ReplaceAll(key, "_", " ")
			problems[key] = []string{fmt.Sprintf("The %s field is required.", label)}
		}
	}
	if len(problems) > 0 {
		return &validationError{fields: problems}
	}
	return nil
}
