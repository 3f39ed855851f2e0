// Package store keeps the provisioned seed in memory behind a lock and hands
// persistence off to a pluggable backend.
package store
