// Package qrcode renders otpauth provisioning URIs as PNG QR codes.
package qrcode
