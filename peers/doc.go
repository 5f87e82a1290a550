// Package peers resolves the shared secrets used for remote tokens exchanged
// with other applications.
//
// [Static] serves a fixed map, typically loaded from the environment.
// [RedisStore] keeps one key per peer so secrets can be rotated without a
// restart; the gate reads the store on every remote verification.
package peers
