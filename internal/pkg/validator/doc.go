// Package validator validates usecase inputs.
//
// V10Validator wraps go-playground/validator with English messages, snake_case
// field names and the commithash rule. Failures come back as
// V10ValidationError, a field to message map.
package validator
