// Package jwt signs, decodes and verifies the compact bearer tokens used by the
// tyx gate.
//
// A [Codec] is stateless: secrets are passed per call, because the secret for a
// token depends on its subject, issuer and audience and is chosen by the caller.
// [Codec.Decode] is the only unverified entry point and exists solely to read
// those three claims before a secret is selected.
//
// # What this package must NOT do
//
//   - Choose secrets or apply role policy.
//   - Cache decoded tokens.
package jwt
