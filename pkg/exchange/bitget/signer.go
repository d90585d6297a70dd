package bitget

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"bitgetx/pkg/core"
)

// Header names of an authenticated request.
const (
	HeaderAccessKey        = "ACCESS-KEY"
	HeaderAccessSign       = "ACCESS-SIGN"
	HeaderAccessPassphrase = "ACCESS-PASSPHRASE"
	HeaderAccessTimestamp  = "ACCESS-TIMESTAMP"
	HeaderLocale           = "locale"
	HeaderContentType      = "Content-Type"
)

var signableMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodDelete: true,
	http.MethodPatch:  true,
}

// Signer produces Bitget v2 signatures:
//
//	base64(HMAC-SHA256(secret, timestamp + METHOD + path + payload))
//
// where payload is "?query" for GET and the exact body bytes for POST.
type Signer struct {
	apiKey     string
	passphrase string
	secret     []byte
}

// NewSigner creates a Signer from credentials. All three values are required.
func NewSigner(creds core.Credentials) (*Signer, error) {
	if creds.APIKey == "" || creds.SecretKey == "" || creds.Passphrase == "" {
		return nil, fmt.Errorf("%w: api key, secret key and passphrase are required", core.ErrInvalidSignInput)
	}
	return &Signer{
		apiKey:     creds.APIKey,
		passphrase: creds.Passphrase,
		secret:     []byte(creds.SecretKey),
	}, nil
}

// Sign returns the signature of one request. The pre-sign string is a plain
// concatenation, so inputs that could be re-split differently are rejected with
// core.ErrInvalidSignInput: timestamp must be decimal digits, method a known verb,
// path must start with "/" and hold no "?", "{" or "[", and payload must be empty or
// start with "?", "{" or "[".
func (s *Signer) Sign(timestamp, method, path, payload string) (string, error) {
	method = strings.ToUpper(method)
	if err := checkSignInput(timestamp, method, path, payload); err != nil {
		return "", err
	}
	return computeSignature(s.secret, timestamp+method+path+payload), nil
}

func checkSignInput(timestamp, method, path, payload string) error {
	if timestamp == "" || strings.TrimLeft(timestamp, "0123456789") != "" {
		return fmt.Errorf("%w: timestamp %q is not a decimal number", core.ErrInvalidSignInput, timestamp)
	}
	if !signableMethods[method] {
		return fmt.Errorf("%w: unknown method %q", core.ErrInvalidSignInput, method)
	}
	if !strings.HasPrefix(path, "/") || strings.ContainsAny(path, "?{[") {
		return fmt.Errorf("%w: path %q", core.ErrInvalidSignInput, path)
	}
	if payload != "" && !strings.ContainsRune("?{[", rune(payload[0])) {
		return fmt.Errorf("%w: payload must be a query string or a JSON document", core.ErrInvalidSignInput)
	}
	return nil
}

func computeSignature(secret []byte, message string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(message))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Headers returns the full header set of a signed request.
func (s *Signer) Headers(timestamp, signature, locale string) map[string]string {
	return map[string]string{
		HeaderAccessKey:        s.apiKey,
		HeaderAccessSign:       signature,
		HeaderAccessPassphrase: s.passphrase,
		HeaderAccessTimestamp:  timestamp,
		HeaderLocale:           locale,
		HeaderContentType:      "application/json",
	}
}

// Timestamp renders t as Unix milliseconds.
func Timestamp(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}
