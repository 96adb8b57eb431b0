package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"net/url"
	"strings"
)

// signedPrefix marks a cookie value as signed.
const signedPrefix = "s:"

// Sign appends an HMAC-SHA256 signature of value to it, separated by a dot.
// The signature is unpadded standard base64.
func Sign(value string, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(value))
	return value + "." + base64.RawStdEncoding.EncodeToString(mac.Sum(nil))
}

// Unsign returns the value carried by a string produced by Sign, or false if
// the signature does not match.
func Unsign(signed string, secret []byte) (string, bool) {
	i := strings.LastIndexByte(signed, '.')
	if i < 0 {
		return "", false
	}

	value := signed[:i]
	expected := Sign(value, secret)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(signed)) != 1 {
		return "", false
	}
	return value, true
}

// EncodeCookie produces the escaped cookie value for a session token.
func EncodeCookie(token string, secret []byte) string {
	return url.QueryEscape(signedPrefix + Sign(token, secret))
}

// DecodeCookie reverses EncodeCookie.
func DecodeCookie(raw string, secret []byte) (string, bool) {
	value, err := url.QueryUnescape(raw)
	if err != nil || !strings.HasPrefix(value, signedPrefix) {
		return "", false
	}
	return Unsign(strings.TrimPrefix(value, signedPrefix), secret)
}
