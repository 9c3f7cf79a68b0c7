// Package auth guards the HTTP API with bearer tokens checked against bcrypt
// hashes.
package auth

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidToken is returned for missing or unknown tokens.
var ErrInvalidToken = errors.New("auth: invalid token")

// Service verifies API tokens. Successful verifications are remembered by
// digest so bcrypt runs once per token.
type Service struct {
	hashes   [][]byte
	mu       sync.RWMutex
	verified map[[sha256.Size]byte]struct{}
}

// NewService validates the configured hashes.
func NewService(hashes []string) (*Service, error) {
	s := &Service{verified: make(map[[sha256.Size]byte]struct{})}
	for i, h := range hashes {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if _, err := bcrypt.Cost([]byte(h)); err != nil {
			return nil, fmt.Errorf("auth: token hash %d: %w", i, err)
		}
		s.hashes = append(s.hashes, []byte(h))
	}
	return s, nil
}

// Enabled reports whether any token is configured. A service without tokens
// lets every request through.
func (s *Service) Enabled() bool {
	return s != nil && len(s.hashes) > 0
}

// Authenticate checks a presented token.
func (s *Service) Authenticate(token string) error {
	if !s.Enabled() {
		return nil
	}
	if token == "" {
		return ErrInvalidToken
	}
	digest := sha256.Sum256([]byte(token))
	s.mu.RLock()
	_, ok := s.verified[digest]
	s.mu.RUnlock()
	if ok {
		return nil
	}
	for _, hash := range s.hashes {
		if bcrypt.CompareHashAndPassword(hash, []byte(token)) == nil {
			s.mu.Lock()
			s.verified[digest] = struct{}{}
			s.mu.Unlock()
			return nil
		}
	}
	return ErrInvalidToken
}

// HashToken produces a hash suitable for API_TOKEN_HASHES.
func HashToken(token string) (string, error) {
	if strings.TrimSpace(token) == "" {
		return "", errors.New("auth: empty token")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
