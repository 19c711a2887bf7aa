package surface

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"

	"postaibot-webapp/internal/common/i18n"
	"postaibot-webapp/internal/features/welcome/models"
)

const (
	Title = "PostAIBot"
	// BotDeepLink opens the parent bot on its topics screen.
	BotDeepLink = "https://t.me/NewsAnaliticAI_bot?start=topics"
)

//go:embed welcome.html
var welcomeHTML string

// View is everything the welcome screen shows.
type View struct {
	Title       string
	Authorized  bool
	FirstName   string
	LastName    string
	Message     string
	Description string
	ButtonLabel string
	Link        string
}

// Surface renders the welcome screen. It holds no per-user state and is
// safe for concurrent use.
type Surface struct {
	tr   *i18n.Translator
	tmpl *template.Template
}

func New(tr *i18n.Translator) (*Surface, error) {
	tmpl, err := template.New("welcome").Parse(welcomeHTML)
	if err != nil {
		return nil, fmt.Errorf("parse welcome template: %w", err)
	}
	return &Surface{tr: tr, tmpl: tmpl}, nil
}

// Build derives the view. Empty names count as missing.
func (s *Surface) Build(user *models.User) View {
	firstName := s.tr.T("guest")
	lastName := ""
	if user != nil {
		firstName = nonEmptyOr(user.FirstName, firstName)
		if user.LastName != "" {
			lastName = " " + user.LastName
		}
	}

	v := View{
		Title:       Title,
		Authorized:  user != nil,
		FirstName:   firstName,
		LastName:    lastName,
		Description: s.tr.T("description"),
		ButtonLabel: s.tr.T("show_top_posts"),
		Link:        BotDeepLink,
	}
	if v.Authorized {
		v.Message = s.tr.T("welcome", firstName, lastName)
	} else {
		v.Message = s.tr.T("not_authorized")
	}
	return v
}

func (s *Surface) Render(w io.Writer, user *models.User) error {
	return s.tmpl.Execute(w, s.Build(user))
}

// Response converts a view for the JSON endpoint.
func (v View) Response() models.GreetingResponse {
	return models.GreetingResponse{
		Title:       v.Title,
		Authorized:  v.Authorized,
		FirstName:   v.FirstName,
		LastName:    v.LastName,
		Message:     v.Message,
		Description: v.Description,
		ButtonLabel: v.ButtonLabel,
		Link:        v.Link,
	}
}

func nonEmptyOr(value, def string) string {
	if value != "" {
		return value
	}
	return def
}
