package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/strrl/blogpessoal/internal/api"
	"github.com/strrl/blogpessoal/pkg/models"
)

// ErrInvalidCredentials is returned by Login when the backend rejects the credentials
var ErrInvalidCredentials = api.ErrInvalidCredentials

// Authenticator exchanges credentials for an identity carrying a token
type Authenticator interface {
	Login(ctx context.Context, credentials models.UsuarioLogin) (models.UsuarioLogin, error)
}

// Session is the authenticated identity. An empty token means nobody is logged in.
type Session struct {
	Token   string
	UserID  int64
	Nome    string
	Usuario string
	Foto    string
}

// Authenticated reports whether the session holds a token
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// Author returns the reference used to stamp posts written by this user
func (s Session) Author() *models.Usuario {
	return &models.Usuario{ID: s.UserID}
}

// Store holds the session for the life of the program. Login and Logout are the only writers.
type Store struct {
	auth Authenticator

	mu      sync.RWMutex
	session Session
}

// NewStore creates a store with no session
func NewStore(auth Authenticator) *Store {
	return &Store{auth: auth}
}

// Token returns the current token, "" when logged out
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Token
}

// Session returns a copy of the current session
func (s *Store) Session() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// Login authenticates and replaces the current session
func (s *Store) Login(ctx context.Context, credentials models.UsuarioLogin) (Session, error) {
	identity, err := s.auth.Login(ctx, credentials)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return Session{}, err
		}
		return Session{}, fmt.Errorf("failed to log in: %w", err)
	}
	if identity.Token == "" {
		return Session{}, fmt.Errorf("backend returned no token: %w", ErrInvalidCredentials)
	}

	session := Session{
		Token:   identity.Token,
		UserID:  identity.ID,
		Nome:    identity.Nome,
		Usuario: identity.Usuario,
		Foto:    identity.Foto,
	}
	s.mu.Lock()
	s.session = session
	s.mu.Unlock()

	log.Info().Str("usuario", session.Usuario).Int64("user_id", session.UserID).Msg("logged in")
	return session, nil
}

// Logout clears the session. Safe to call when already logged out.
func (s *Store) Logout() {
	s.mu.Lock()
	previous := s.session.Usuario
	s.session = Session{}
	s.mu.Unlock()

	if previous != "" {
		log.Info().Str("usuario", previous).Msg("logged out")
	}
}
