package auth

import "errors"

// ErrDuplicate is returned when the email is already registered.
var ErrDuplicate = errors.New("user already exists")

// ErrInvalidCredentials is returned for unknown email and wrong
// password alike; callers must not be able to tell which one failed.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrUserNotFound - user not found in DB.
var ErrUserNotFound = errors.New("user not found")

// ErrInvalidRefreshToken is returned when a refresh token is unknown,
// expired or malformed.
var ErrInvalidRefreshToken = errors.New("invalid refresh token")

// ErrGenAccessToken is returned when we cannot create a JWT.
var ErrGenAccessToken = errors.New("failed to generate access token")

// ErrUnsupportedJWTAlg is returned at boot for unknown signing algorithms.
var ErrUnsupportedJWTAlg = errors.New("unsupported JWT algorithm")
