// Package clock hides time.Now behind the Clocker interface.
//
// TOTP steps and code-log timestamps are derived from a Clocker, so tests and
// the CLI --at flag can pin the current instant with NewFixed.
package clock
