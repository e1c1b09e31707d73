// Package signer computes Youdao request signatures.
package signer

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// truncateThreshold is the longest text signed verbatim.
const truncateThreshold = 20

// SignTypeV3 is the signType value for the SHA-256 scheme.
const SignTypeV3 = "v3"

// Credentials is the vendor key pair. It is never logged.
type Credentials struct {
	AppKey    string
	AppSecret string
}

// String redacts the secret so Credentials is safe in format verbs.
func (c Credentials) String() string {
	return "Credentials{AppKey:" + strconv.FormatBool(c.AppKey != "") + " AppSecret:" + strconv.FormatBool(c.AppSecret != "") + "}"
}

// Signer produces the sign parameter for one outbound request.
type Signer interface {
	// Sign returns the hex digest for text q with the given salt and curtime.
	Sign(q, salt, curtime string) string
	// SignType is the signType parameter value, empty when the scheme sends none.
	SignType() string
	// UsesCurtime reports whether curtime is part of the signature and request.
	UsesCurtime() bool
}

// SigningInput returns q verbatim when it has at most 20 characters, otherwise
// the first 10 characters, the decimal character count and the last 10
// characters. Characters are Unicode code points.
//
// Distinct long texts sharing both ends and length yield the same input; the
// upstream API defines it that way.
func SigningInput(q string) string {
	runes := []rune(q)
	n := len(runes)
	if n <= truncateThreshold {
		return q
	}
	return string(runes[:10]) + strconv.Itoa(n) + string(runes[n-10:])
}

// V3Signer implements the current SHA-256 scheme.
type V3Signer struct {
	creds Credentials
}

// NewV3 creates a SHA-256 signer.
func NewV3(creds Credentials) *V3Signer {
	return &V3Signer{creds: creds}
}

// Sign hashes appKey + input(q) + salt + curtime + appSecret.
func (s *V3Signer) Sign(q, salt, curtime string) string {
	sum := sha256.Sum256([]byte(s.creds.AppKey + SigningInput(q) + salt + curtime + s.creds.AppSecret))
	return hex.EncodeToString(sum[:])
}

func (s *V3Signer) SignType() string { return SignTypeV3 }

func (s *V3Signer) UsesCurtime() bool { return true }

// LegacySigner implements the MD5 scheme: appKey + q + salt + appSecret,
// with the full text and no curtime.
type LegacySigner struct {
	creds Credentials
}

// NewLegacy creates an MD5 signer.
func NewLegacy(creds Credentials) *LegacySigner {
	return &LegacySigner{creds: creds}
}

func (s *LegacySigner) Sign(q, salt, _ string) string {
	sum := md5.Sum([]byte(s.creds.AppKey + q + salt + s.creds.AppSecret))
	return hex.EncodeToString(sum[:])
}

func (s *LegacySigner) SignType() string { return "" }

func (s *LegacySigner) UsesCurtime() bool { return false }
