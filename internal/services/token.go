package services

import (
	"crypto/rand"
	"errors"
	"io"
)

const (
	// TokenLength is the number of characters in an issued bearer token.
	// 60 characters over a 62 symbol alphabet carry about 357 bits.
	TokenLength = 60

	tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	// Bytes at or above this value are rejected so every symbol is equally likely.
	tokenByteLimit = 256 - 256%len(tokenAlphabet)
)

// TokenIssuer produces opaque bearer tokens.
type TokenIssuer interface {
	Issue() (string, error)
}

// RandomTokenIssuer draws tokens from a cryptographically secure source.
type RandomTokenIssuer struct {
	source io.Reader
	length int
}

// NewTokenIssuer returns an issuer backed by crypto/rand.
func NewTokenIssuer() *RandomTokenIssuer {
	return &RandomTokenIssuer{source: rand.Reader, length: TokenLength}
}

func (i *RandomTokenIssuer) Issue() (string, error) {
	if i.length < 1 {
		return "", errors.New("token length must be positive")
	}

	out := make([]byte, 0, i.length)
	buf := make([]byte, i.length+i.length/4)
	for len(out) < i.length {
		if _, err := io.ReadFull(i.source, buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if int(b) >= tokenByteLimit {
				continue
			}
			out = append(out, tokenAlphabet[int(b)%len(tokenAlphabet)])
			if len(out) == i.length {
				break
			}
		}
	}
	return string(out), nil
}
