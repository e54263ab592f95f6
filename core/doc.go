// Package core contains the canonical domain types, contracts, errors, and
// configuration for the permission set removal workflow. Lower-level adapters
// (auth, transport, salesforce, command) depend on this package; core must not
// depend on any of them.
package core
