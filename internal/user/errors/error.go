// Package errors provides custom error types for identity operations.
package errors

import "errors"

var ErrUserAlreadyExists = errors.New("user already exists")
var ErrInvalidUserData = errors.New("invalid user data")
var ErrInvalidCredentials = errors.New("invalid email or password")
var ErrEmailNotVerified = errors.New("email not verified")
var ErrIdPInteractionFailed = errors.New("identity provider interaction failed")
