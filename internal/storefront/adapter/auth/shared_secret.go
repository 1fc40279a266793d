package auth

import (
	"crypto/subtle"
	"sync"

	"github.com/google/uuid"

	xerrors "hamburgueria/internal/xpkg/errors"
)

// SharedSecret lets staff in with one configured password. Tokens live in
// memory and are lost on restart.
type SharedSecret struct {
	password []byte

	mu     sync.RWMutex
	tokens map[string]struct{}
}

func NewSharedSecret(password string) *SharedSecret {
	return &SharedSecret{
		password: []byte(password),
		tokens:   make(map[string]struct{}),
	}
}

func (s *SharedSecret) Login(password string) (string, error) {
	if len(s.password) == 0 || subtle.ConstantTimeCompare([]byte(password), s.password) != 1 {
		return "", xerrors.ErrUnauthorized
	}

	token := uuid.NewString()
	s.mu.Lock()
	s.tokens[token] = struct{}{}
	s.mu.Unlock()
	return token, nil
}

func (s *SharedSecret) IsAuthenticated(token string) bool {
	if token == "" {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.tokens[token]
	return ok
}

func (s *SharedSecret) Logout(token string) {
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
}
