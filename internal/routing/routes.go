// Package routing builds backend endpoint URLs and console edit links from a
// go-urlkit route manager.
package routing

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	urlkit "github.com/goliatone/go-urlkit"
)

const (
	GroupAPI     = "api"
	GroupConsole = "console"

	RouteCollection = "collection"
	RouteRecord     = "record"
	RouteSignIn     = "signin"
	RouteEdit       = "edit"
	RouteCreate     = "create"

	ParamResource = "resource"
	ParamID       = "id"
)

var ErrResourceRequired = errors.New("routing: resource is required")

// Config describes both route groups. Prefix is prepended to every API path.
type Config struct {
	APIBaseURL     string
	APIPrefix      string
	SignInPath     string
	ConsoleBaseURL string
	EditPath       string
	CreatePath     string
}

// Routes resolves named routes into absolute URLs.
type Routes struct {
	manager *urlkit.RouteManager

	mu         sync.RWMutex
	groupCache map[string]*urlkit.Group
}

// New builds the api and console groups.
func New(cfg Config) (*Routes, error) {
	apiBase := strings.TrimRight(strings.TrimSpace(cfg.APIBaseURL), "/")
	if apiBase == "" {
		return nil, fmt.Errorf("routing: api base url is required")
	}
	prefix := "/" + strings.Trim(strings.TrimSpace(cfg.APIPrefix), "/")
	if prefix == "/" {
		prefix = ""
	}
	signIn := cleanPath(cfg.SignInPath, "/auth/signin")

	groups := []urlkit.GroupConfig{
		{
			Name:    GroupAPI,
			BaseURL: apiBase,
			Paths: map[string]string{
				RouteCollection: prefix + "/:resource",
				RouteRecord:     prefix + "/:resource/:id",
				RouteSignIn:     prefix + signIn,
			},
		},
	}

	consoleBase := strings.TrimRight(strings.TrimSpace(cfg.ConsoleBaseURL), "/")
	if consoleBase == "" {
		consoleBase = apiBase
	}
	groups = append(groups, urlkit.GroupConfig{
		Name:    GroupConsole,
		BaseURL: consoleBase,
		Paths: map[string]string{
			RouteEdit:   cleanPath(cfg.EditPath, "/admin/:resource/:id/edit"),
			RouteCreate: cleanPath(cfg.CreatePath, "/admin/:resource/new"),
		},
	})

	return &Routes{
		manager:    urlkit.NewRouteManager(&urlkit.Config{Groups: groups}),
		groupCache: make(map[string]*urlkit.Group),
	}, nil
}

// Collection returns the list/create endpoint for resource.
func (r *Routes) Collection(resource string) (string, error) {
	return r.resourceURL(GroupAPI, RouteCollection, resource, nil)
}

// Record returns the update/delete endpoint for one record.
func (r *Routes) Record(resource string, id int64) (string, error) {
	return r.resourceURL(GroupAPI, RouteRecord, resource, &id)
}

// SignIn returns the authentication endpoint.
func (r *Routes) SignIn() (string, error) {
	return r.Build(GroupAPI, RouteSignIn, nil)
}

// Edit returns the console URL of the edit form for one record.
func (r *Routes) Edit(resource string, id int64) (string, error) {
	return r.resourceURL(GroupConsole, RouteEdit, resource, &id)
}

// Create returns the console URL of the create form for resource.
func (r *Routes) Create(resource string) (string, error) {
	return r.resourceURL(GroupConsole, RouteCreate, resource, nil)
}

func (r *Routes) resourceURL(group, route, resource string, id *int64) (string, error) {
	resource = strings.TrimSpace(resource)
	if resource == "" {
		return "", ErrResourceRequired
	}
	params := map[string]any{ParamResource: resource}
	if id != nil {
		params[ParamID] = strconv.FormatInt(*id, 10)
	}
	return r.Build(group, route, params)
}

// Build resolves route inside group with the supplied path params.
func (r *Routes) Build(groupName, route string, params map[string]any) (string, error) {
	if r == nil {
		return "", fmt.Errorf("routing: routes not configured")
	}
	group, err := r.group(groupName)
	if err != nil {
		return "", err
	}
	builder, err := safeBuilder(group, route)
	if err != nil {
		return "", err
	}
	for key, val := range params {
		builder.WithParam(key, val)
	}
	return builder.Build()
}

func (r *Routes) group(name string) (*urlkit.Group, error) {
	r.mu.RLock()
	group, ok := r.groupCache[name]
	r.mu.RUnlock()
	if ok {
		return group, nil
	}

	group, err := lookupGroup(r.manager, name)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.groupCache[name] = group
	r.mu.Unlock()
	return group, nil
}

func safeBuilder(group *urlkit.Group, route string) (builder *urlkit.Builder, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			builder = nil
			err = fmt.Errorf("routing: route %q not found: %v", route, rec)
		}
	}()
	builder = group.Builder(route)
	return builder, nil
}

func lookupGroup(manager *urlkit.RouteManager, name string) (group *urlkit.Group, err error) {
	if manager == nil {
		return nil, fmt.Errorf("routing: route manager not configured")
	}
	defer func() {
		if rec := recover(); rec != nil {
			group = nil
			err = fmt.Errorf("routing: route group %q not found", name)
		}
	}()
	group = manager.Group(name)
	return group, nil
}

func cleanPath(path, fallback string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return fallback
	}
	return "/" + strings.TrimLeft(path, "/")
}
