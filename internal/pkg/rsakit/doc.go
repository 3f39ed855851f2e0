// Package rsakit holds the RSA primitives used for seed provisioning:
// OAEP encryption and PSS signatures, both over SHA-256, plus PEM handling.
//
// Keys are never generated here. They are supplied as PEM text, which may
// arrive mangled by transport (escaped newlines, carriage returns) and is
// normalized before parsing.
package rsakit
