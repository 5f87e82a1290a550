// Package permission holds the declarative role policy attached to every
// dispatchable method: [RoleSet], [Permission] and the startup-time [Registry].
//
// Evaluation is a direct lookup: a role is admitted iff it is present in the
// RoleSet with value true. The reserved roles Public, Internal, Remote and Debug
// select entry protocols in the gate; Application is a bypass role for
// service-to-service tokens.
//
// # What this package must NOT do
//
//   - Access Redis, databases, or the network.
//   - Import tyx or jwt.
//   - Mutate a Permission after it has been registered.
package permission
