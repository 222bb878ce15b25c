// Package http serves the fixture REST backend the console talks to during
// development and integration tests.
//
// Routes mount under a configurable base path (default /api):
//   - Collections: GET/POST {base}/{resource}
//   - Records: GET/PUT/DELETE {base}/{resource}/{id}
//   - Sign-in: POST {base}/auth/signin
//
// Each resource chooses its collection envelope: a bare array, {"data": [...]}
// or {"<key>": [...]}.
package http
