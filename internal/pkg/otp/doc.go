// Package otp implements time-based one-time passwords (RFC 6238) over raw
// secret bytes.
//
// The Engine is built from an immutable Config and a clock, so the digit
// count, period and algorithm cannot change while the process runs. Code
// generation is backed by github.com/pquerna/otp; the engine adds the step
// arithmetic, the symmetric skew window and otpauth:// provisioning keys.
package otp
