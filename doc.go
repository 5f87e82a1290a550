// Package tyx is the authentication gate that sits in front of every
// dispatchable API method.
//
// A [Gate] is built from a [Config] with [New] and [Builder.Build]. Each call
// arrives through one of three entry points together with the
// [permission.Permission] declared for the target method:
//
//   - [Gate.HTTPAuth] for HTTP requests, with public and loopback-only debug
//     identities and token renewal;
//   - [Gate.RemoteAuth] for internal and remote RPC calls;
//   - [Gate.EventAuth] for events raised by the platform itself.
//
// Tokens are minted by [Gate.IssueToken]. Which secret signs or verifies a
// token, and for how long it lives, follows from its subject, issuer and
// audience (see [Resolver]).
//
// Failures are *[Error] values matching [ErrBadRequest], [ErrUnauthorized]
// or [ErrForbidden].
//
// Nothing is cached between calls: a rotated secret applies to the next call.
package tyx
