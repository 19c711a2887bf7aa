package models

import (
	initdata "github.com/telegram-mini-apps/init-data-golang"
)

// User is the Telegram profile snapshot read from the WebApp bridge.
// Only the name fields drive the welcome screen.
type User struct {
	ID           int64  `json:"id,omitempty"`
	Username     string `json:"username,omitempty"`
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
	IsPremium    bool   `json:"is_premium,omitempty"`
}

// FromInitData maps the init-data user. A zero-value user (no user field
// in the payload) maps to nil.
func FromInitData(u initdata.User) *User {
	if u.ID == 0 && u.FirstName == "" && u.LastName == "" && u.Username == "" {
		return nil
	}
	return &User{
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		LanguageCode: u.LanguageCode,
		IsPremium:    u.IsPremium,
	}
}

// GreetingResponse is the JSON form of the welcome screen.
type GreetingResponse struct {
	Title       string `json:"title"`
	Authorized  bool   `json:"authorized"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Message     string `json:"message"`
	Description string `json:"description"`
	ButtonLabel string `json:"button_label"`
	Link        string `json:"link"`
}
