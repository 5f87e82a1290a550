package middleware

import (
	"errors"
	"net"
	"net/http"

	tyx "github.com/kbajalc/tyx-core"
	"github.com/kbajalc/tyx-core/permission"
)

// HeaderRenewedToken is set on the response when the gate renewed the
// caller's token. Clients should replace their stored token with it.
const HeaderRenewedToken = "X-Auth-Token"

// PathAuthorization is the path wildcard name read as a token source, as in
// "GET /files/{authorization}/download".
const PathAuthorization = "authorization"

// Guard authenticates every request with gate.HTTPAuth against perm and
// stores the resulting tyx.Context in the request context.
// Failures are answered with 400, 401 or 403.
func Guard(gate *tyx.Gate, perm permission.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if gate == nil {
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			c, err := gate.HTTPAuth(r.Context(), HTTPRequest(r), perm)
			if err != nil {
				status := errorStatus(err)
				http.Error(w, http.StatusText(status), status)
				return
			}

			if c.Auth.Renewed {
				w.Header().Set(HeaderRenewedToken, c.Auth.Token)
			}
			w.Header().Set(HeaderRequestID, c.RequestID)
			next.ServeHTTP(w, r.WithContext(tyx.WithContext(r.Context(), c)))
		})
	}
}

// GuardMethod is Guard with the permission taken from reg. An unregistered
// method fails closed with 500 on every request.
func GuardMethod(gate *tyx.Gate, reg *permission.Registry, method string) func(http.Handler) http.Handler {
	perm, ok := reg.Lookup(method)
	if !ok {
		return func(http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, permission.ErrMethodNotDefined.Error(), http.StatusInternalServerError)
			})
		}
	}
	return Guard(gate, perm)
}

// RequireRoles guards a handler whose permission is declared inline.
func RequireRoles(gate *tyx.Gate, method string, roles ...string) func(http.Handler) http.Handler {
	return Guard(gate, permission.New(method, roles...))
}

// HTTPRequest converts r into the gate's transport-neutral request. Only the
// first value of repeated headers and query parameters is kept.
func HTTPRequest(r *http.Request) tyx.HTTPRequest {
	req := tyx.HTTPRequest{
		RequestID:             requestIDOr(r.Header.Get(HeaderRequestID)),
		Headers:               make(map[string]string, len(r.Header)),
		QueryStringParameters: map[string]string{},
		PathParameters:        map[string]string{},
		SourceIP:              sourceIP(r.RemoteAddr),
	}
	for k, v := range r.Header {
		if len(v) > 0 {
			req.Headers[k] = v[0]
		}
	}
	for k, v := range r.URL.Query() {
		if len(v) > 0 {
			req.QueryStringParameters[k] = v[0]
		}
	}
	if v := r.PathValue(PathAuthorization); v != "" {
		req.PathParameters[PathAuthorization] = v
	}
	return req
}

func sourceIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}

func errorStatus(err error) int {
	var e *tyx.Error
	if errors.As(err, &e) {
		return e.Status()
	}
	return http.StatusInternalServerError
}
