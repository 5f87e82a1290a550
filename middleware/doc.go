// Package middleware adapts transports to the tyx gate.
//
// [Guard] turns an *http.Request into a tyx.HTTPRequest, runs HTTPAuth and
// passes the authenticated tyx.Context to the next handler. Renewed tokens
// are returned in the X-Auth-Token response header.
//
// [UnaryServerInterceptor] authenticates gRPC calls with RemoteAuth using the
// permission registered for the full method name. [UnaryClientInterceptor]
// signs outgoing calls with a remote token for the target peer.
//
// Decisions are never made here; every accept or reject comes from the gate.
package middleware
