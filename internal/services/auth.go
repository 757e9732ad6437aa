package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/tbourn/spreadit-gateway/internal/domain"
	"github.com/tbourn/spreadit-gateway/internal/session"
	"github.com/tbourn/spreadit-gateway/internal/upstream"
)

// MinPasswordRunes is the shortest password SignUp accepts.
const MinPasswordRunes = 6

// AuthService passes sign-up and login through to the user service and
// keeps the session registry in step with them.
type AuthService struct {
	Client   *upstream.Client
	Sessions *session.Registry
	Log      zerolog.Logger
}

// LoginSession is what a successful login yields.
type LoginSession struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	User        domain.User   `json:"user"`
	State       session.State `json:"session"`
}

// SignUp validates and registers a new account.
func (s *AuthService) SignUp(ctx context.Context, in upstream.SignUpRequest) (domain.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	switch {
	case in.Name == "":
		return domain.User{}, invalid("name", "is required")
	case in.Username == "":
		return domain.User{}, invalid("username", "is required")
	case !validEmail(in.Email):
		return domain.User{}, invalid("email", "is not a valid address")
	case utf8.RuneCountInString(in.Password) < MinPasswordRunes:
		return domain.User{}, invalid("password", "must be at least 6 characters")
	case in.Year < 0:
		return domain.User{}, invalid("year", "must not be negative")
	}
	return s.Client.Users().SignUp(ctx, in)
}

// Login exchanges credentials for a token, loads the user record and opens
// a session whose post count is read from the post service.
func (s *AuthService) Login(ctx context.Context, email, password string) (LoginSession, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return LoginSession{}, invalid("email", "is required")
	}
	if password == "" {
		return LoginSession{}, invalid("password", "is required")
	}

	res, err := s.Client.Users().Login(ctx, email, password)
	if err != nil {
		return LoginSession{}, err
	}
	ctx = upstream.WithToken(ctx, res.AccessToken)

	user, err := s.Client.Users().ByBusinessID(ctx, res.UserID)
	if err != nil {
		return LoginSession{}, err
	}
	user.IsAdmin = user.IsAdmin || res.IsAdmin

	s.Sessions.Open(user, res.AccessToken)
	st := s.RefreshPostCount(ctx, user.RecordID)

	tt := res.TokenType
	if tt == "" {
		tt = "bearer"
	}
	return LoginSession{AccessToken: res.AccessToken, TokenType: tt, User: user, State: st}, nil
}

// RefreshPostCount reads the user's authored posts and dispatches the count.
// Failures leave the count as it was.
func (s *AuthService) RefreshPostCount(ctx context.Context, user domain.RecordID) session.State {
	posts, err := s.Client.Posts().ByUser(ctx, user)
	if errors.Is(err, upstream.ErrNotFound) {
		posts, err = nil, nil
	}
	if err != nil {
		s.Log.Warn().Err(err).Int64("user_id", int64(user)).Msg("post count refresh failed")
		st, _ := s.Session(user)
		return st
	}
	st, _ := s.Sessions.Dispatch(user, session.SetPostCount{N: len(posts)})
	return st
}

// Session returns the user's session state.
func (s *AuthService) Session(user domain.RecordID) (session.State, error) {
	st, ok := s.Sessions.Get(user)
	if !ok {
		return session.State{}, ErrNoSession
	}
	return st.State(), nil
}

// Logout closes the user's session. Registry hooks purge what the session
// had cached.
func (s *AuthService) Logout(user domain.RecordID) error {
	if _, ok := s.Sessions.Get(user); !ok {
		return ErrNoSession
	}
	s.Sessions.Close(user)
	return nil
}

func validEmail(s string) bool {
	a, err := mail.ParseAddress(s)
	return err == nil && a.Address == s
}
