// Package config exposes typed access to the service configuration.
//
// Values come from a YAML file (see config/config.yaml) and may be
// overridden with SEEDOTP_ prefixed environment variables.
package config
