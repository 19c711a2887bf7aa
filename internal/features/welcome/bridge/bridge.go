package bridge

import (
	"errors"
	"fmt"
	"time"

	initdata "github.com/telegram-mini-apps/init-data-golang"

	"postaibot-webapp/internal/features/welcome/models"
)

// Bridge is the Telegram WebApp capability the welcome screen reads from.
type Bridge interface {
	// Ready signals the host that the app is about to render.
	Ready() error
	// User returns the current user, or nil when the session has none.
	User() (*models.User, error)
}

var ErrEmptyInitData = errors.New("empty init data")

// InitData is a Bridge over the raw init-data string the Telegram client
// hands to the Mini App.
type InitData struct {
	raw   string
	token string
	expIn time.Duration
}

// NewInitData builds the bridge. With an empty token the payload is read
// unverified, like initDataUnsafe on the client; expIn==0 disables the
// auth_date check.
func NewInitData(raw, token string, expIn time.Duration) *InitData {
	return &InitData{raw: raw, token: token, expIn: expIn}
}

// FromRequest returns nil when there is no init data, meaning the page was
// opened outside Telegram.
func FromRequest(raw, token string, expIn time.Duration) Bridge {
	if raw == "" {
		return nil
	}
	return NewInitData(raw, token, expIn)
}

func (b *InitData) Ready() error {
	if b.raw == "" {
		return ErrEmptyInitData
	}
	if b.token == "" {
		return nil
	}
	if err := initdata.Validate(b.raw, b.token, b.expIn); err != nil {
		return fmt.Errorf("validate init data: %w", err)
	}
	return nil
}

func (b *InitData) User() (*models.User, error) {
	parsed, err := initdata.Parse(b.raw)
	if err != nil {
		return nil, fmt.Errorf("parse init data: %w", err)
	}
	return models.FromInitData(parsed.User), nil
}

// Verified reports whether Ready checks the signature.
func (b *InitData) Verified() bool {
	return b.token != ""
}
