package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/HendryAvila/tether/internal/profile"
	"github.com/google/uuid"
)

// UserStore is the slice of the profile store the provider needs.
type UserStore interface {
	UpsertUser(ctx context.Context, u profile.User) (*profile.User, error)
	GetUser(ctx context.Context, id string) (*profile.User, error)
	GetUserByEmail(ctx context.Context, email string) (*profile.User, error)
}

// Session is a signed-in user and their token.
type Session struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	User      *profile.User `json:"user"`
}

var (
	// ErrEmailTaken is returned when registering an email that already
	// belongs to an account the caller has not proven to own.
	ErrEmailTaken = errors.New("email already registered")
	// ErrAlreadyRegistered is returned when a named account's token is used
	// to claim a different email.
	ErrAlreadyRegistered = errors.New("account already has an email")
	ErrInvalidEmail      = errors.New("invalid email")
)

// Provider implements anonymous and email sign-in over the user store.
type Provider struct {
	users  UserStore
	tokens *TokenManager
}

// NewProvider creates a Provider.
func NewProvider(users UserStore, tokens *TokenManager) *Provider {
	return &Provider{users: users, tokens: tokens}
}

// SignInAnonymously creates a fresh anonymous user.
func (p *Provider) SignInAnonymously(ctx context.Context) (*Session, error) {
	u, err := p.users.UpsertUser(ctx, profile.User{ID: uuid.NewString(), Anonymous: true})
	if err != nil {
		return nil, fmt.Errorf("creating anonymous user: %w", err)
	}
	return p.session(u)
}

// SignIn registers a new named user for email. An email that already
// belongs to an account returns ErrEmailTaken: returning users prove
// ownership by passing their token to Upgrade instead.
func (p *Provider) SignIn(ctx context.Context, displayName, email string) (*Session, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	existing, err := p.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	saved, err := p.users.UpsertUser(ctx, profile.User{
		ID:          uuid.NewString(),
		DisplayName: strings.TrimSpace(displayName),
		Email:       email,
	})
	if err != nil {
		return nil, fmt.Errorf("saving user: %w", err)
	}
	return p.session(saved)
}

// Upgrade attaches a name and email to the anonymous account behind token,
// keeping its id so stored results carry over. For a named account the
// token must already own email; the session is then reissued and an
// empty displayName keeps the stored one.
func (p *Provider) Upgrade(ctx context.Context, token, displayName, email string) (*Session, error) {
	current, err := p.Identify(ctx, token)
	if err != nil {
		return nil, err
	}
	email, err = normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	displayName = strings.TrimSpace(displayName)

	if !current.Anonymous {
		if current.Email != email {
			return nil, ErrAlreadyRegistered
		}
		if displayName == "" || displayName == current.DisplayName {
			return p.session(current)
		}
		saved, err := p.users.UpsertUser(ctx, profile.User{ID: current.ID, DisplayName: displayName, Email: email})
		if err != nil {
			return nil, fmt.Errorf("saving user: %w", err)
		}
		return p.session(saved)
	}

	owner, err := p.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if owner != nil {
		return nil, ErrEmailTaken
	}
	saved, err := p.users.UpsertUser(ctx, profile.User{
		ID:          current.ID,
		DisplayName: displayName,
		Email:       email,
	})
	if err != nil {
		return nil, fmt.Errorf("saving user: %w", err)
	}
	return p.session(saved)
}

// Identify verifies token and loads the user it names.
func (p *Provider) Identify(ctx context.Context, token string) (*profile.User, error) {
	claims, err := p.tokens.Parse(strings.TrimSpace(token))
	if err != nil {
		return nil, err
	}
	u, err := p.users.GetUser(ctx, claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("loading user: %w", err)
	}
	if u == nil {
		return nil, fmt.Errorf("%w: unknown user", ErrInvalidToken)
	}
	return u, nil
}

func (p *Provider) session(u *profile.User) (*Session, error) {
	token, exp, err := p.tokens.Issue(u.ID, u.Email, u.Anonymous)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: exp, User: u}, nil
}

func normalizeEmail(email string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil {
		return "", fmt.Errorf("%w %q", ErrInvalidEmail, email)
	}
	return strings.ToLower(addr.Address), nil
}
