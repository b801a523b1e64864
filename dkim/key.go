package dkim

import (
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// Key inspection errors.
var (
	ErrKeyEncoding    = errors.New("dkim: invalid public key encoding")
	ErrKeyUnsupported = errors.New("dkim: unsupported key type")
	ErrKeyMalformed   = errors.New("dkim: malformed public key")
)

// KeyInfo describes the shape of a published public key.
type KeyInfo struct {
	// Type is the k= value, lower-cased, "rsa" when k= is absent.
	Type string `json:"type"`

	// Bits is the key size: the modulus length for RSA, 256 for Ed25519.
	Bits int `json:"bits,omitempty"`

	// Revoked is true when p= is empty.
	Revoked bool `json:"revoked"`

	// Err is set when the key could not be decoded.
	Err error `json:"-"`

	// Error is the text of Err, for serialization.
	Error string `json:"error,omitempty"`
}

// InspectKey decodes the p= value for the given k= key type.
func InspectKey(keyType, p string) KeyInfo {
	info := KeyInfo{Type: strings.ToLower(strings.TrimSpace(keyType))}
	if info.Type == "" {
		info.Type = "rsa"
	}

	cleaned := strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			return -1
		}
		return r
	}, p)
	if cleaned == "" {
		info.Revoked = true
		return info
	}

	data, err := base64.StdEncoding.DecodeString(cleaned)
	if err != nil {
		info.setErr(fmt.Errorf("%w: %v", ErrKeyEncoding, err))
		return info
	}

	switch info.Type {
	case "rsa":
		pk, err := parseRSA(data)
		if err != nil {
			info.setErr(err)
			return info
		}
		info.Bits = pk.N.BitLen()

	case "ed25519":
		if len(data) != ed25519.PublicKeySize {
			info.setErr(fmt.Errorf("%w: Ed25519 key is %d bytes", ErrKeyMalformed, len(data)))
			return info
		}
		info.Bits = ed25519.PublicKeySize * 8

	default:
		info.setErr(fmt.Errorf("%w: %s", ErrKeyUnsupported, info.Type))
	}

	return info
}

func (k *KeyInfo) setErr(err error) {
	k.Err = err
	k.Error = err.Error()
}

// parseRSA accepts the SubjectPublicKeyInfo form RFC 6376 requires, and the
// bare PKCS#1 form some publishers use.
func parseRSA(data []byte) (*rsa.PublicKey, error) {
	pk, err := x509.ParsePKIXPublicKey(data)
	if err != nil {
		if pk1, err1 := x509.ParsePKCS1PublicKey(data); err1 == nil {
			return pk1, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrKeyMalformed, err)
	}
	rsaPK, ok := pk.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: expected RSA public key, got %T", ErrKeyMalformed, pk)
	}
	return rsaPK, nil
}
