package tyx

import (
	"time"

	"github.com/kbajalc/tyx-core/permission"
)

// Reserved token subjects.
const (
	SubjectEvent        = "event"
	SubjectRemote       = "remote"
	SubjectInternal     = "internal"
	SubjectUserInternal = "user:internal"
	SubjectUserExternal = "user:external"
	SubjectUserPublic   = "user:public"
	SubjectUserDebug    = "user:debug"

	userSubjectPrefix = "user:"
)

// HTTPRequest is the transport-neutral view of an inbound HTTP call.
// Header names are matched exactly; adapters put the Authorization header
// under "Authorization".
type HTTPRequest struct {
	RequestID             string
	Headers               map[string]string
	QueryStringParameters map[string]string
	PathParameters        map[string]string
	SourceIP              string
}

// RemoteRequest is an internal or remote RPC call carrying a bearer token.
type RemoteRequest struct {
	RequestID string
	Token     string
}

// EventRequest is an asynchronous event delivered by the platform itself.
type EventRequest struct {
	RequestID string
}

// IssueRequest describes a token to mint. Zero values mean absent:
// TokenID defaults to a random UUID, Audience to the application id and
// Serial to the current time.
// Serial is carried in whole seconds; any fraction is truncated.
type IssueRequest struct {
	TokenID   string
	Audience  string
	Subject   string
	UserID    string
	Role      string
	Scope     string
	Serial    time.Time
	Email     string
	Name      string
	IPAddress string
}

// SerialFromUnix converts an epoch-seconds serial into the IssueRequest form.
func SerialFromUnix(sec int64) time.Time {
	if sec <= 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0)
}

// AuthInfo is the identity resolved for one call. It is never persisted.
type AuthInfo struct {
	TokenID   string
	Issuer    string
	Audience  string
	Subject   string
	Remote    bool
	UserID    string
	Role      string
	Scope     string
	Email     string
	Name      string
	IPAddress string
	Serial    time.Time
	Issued    time.Time
	Expires   time.Time
	Token     string
	Renewed   bool
}

// Context is what the gate hands to the method dispatcher.
// It is a value; renewal produces a new Context instead of mutating one.
type Context struct {
	RequestID  string
	Permission permission.Permission
	Auth       AuthInfo
}
