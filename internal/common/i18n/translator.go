package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"

	"gopkg.in/yaml.v3"
)

//go:embed locales
var LocalesFS embed.FS

const DefaultLocale = "ru"

// Translator holds one locale's catalog.
type Translator struct {
	locale       string
	translations map[string]string
}

// NewTranslator reads locales/<langCode>.yaml from fsys.
func NewTranslator(fsys fs.FS, langCode string) (*Translator, error) {
	filePath := path.Join("locales", fmt.Sprintf("%s.yaml", langCode))

	data, err := fs.ReadFile(fsys, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read translation file %s: %w", filePath, err)
	}

	t, err := newTranslatorFromBytes(data)
	if err != nil {
		return nil, err
	}
	t.locale = langCode
	return t, nil
}

// Default loads the embedded catalog for DefaultLocale.
func Default() (*Translator, error) {
	return NewTranslator(LocalesFS, DefaultLocale)
}

func newTranslatorFromBytes(data []byte) (*Translator, error) {
	var translations map[string]string
	if err := yaml.Unmarshal(data, &translations); err != nil {
		return nil, fmt.Errorf("failed to parse translation file: %w", err)
	}
	return &Translator{translations: translations}, nil
}

// T formats the message for key. Unknown keys come back unchanged.
func (t *Translator) T(key string, args ...interface{}) string {
	format, ok := t.translations[key]
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(format, args...)
	}
	return format
}

func (t *Translator) Locale() string {
	return t.locale
}
