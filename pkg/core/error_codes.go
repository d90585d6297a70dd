package core

import "errors"

// Bitget response codes with a fixed meaning.
const (
	// CodeSuccess is the envelope code of every successful response.
	CodeSuccess = "00000"
	// CodeRateLimit is returned when the endpoint's request quota is exhausted.
	CodeRateLimit = "429"
	// CodeInvalidSign is returned when the signature does not match the request.
	CodeInvalidSign = "40009"
	// CodeInvalidPassphrase is returned for a wrong ACCESS-PASSPHRASE.
	CodeInvalidPassphrase = "40012"
	// CodeInvalidKey is returned for an unknown ACCESS-KEY.
	CodeInvalidKey = "40006"
	// CodeTimestampExpired is returned when ACCESS-TIMESTAMP is outside the accepted window.
	CodeTimestampExpired = "40008"
	// CodeParamInvalid is returned when a parameter is not accepted.
	CodeParamInvalid = "40034"
)

// IsErrorCode checks if the error carries the specified exchange response code.
func IsErrorCode(err error, code string) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// IsAuthError returns true if the exchange rejected the credentials or signature.
func IsAuthError(err error) bool {
	return IsErrorCode(err, CodeInvalidSign) ||
		IsErrorCode(err, CodeInvalidPassphrase) ||
		IsErrorCode(err, CodeInvalidKey) ||
		IsErrorCode(err, CodeTimestampExpired)
}
