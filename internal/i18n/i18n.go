package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"

	"github.com/dharashakti/backoffice/internal/common/cnst"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed translations/*.toml
var translations embed.FS

var (
	translatorOnce sync.Once
	translator     *I18n
	translatorErr  error
)

// I18n manages the message bundle of every supported language
type I18n struct {
	bundle      *i18n.Bundle
	defaultLang language.Tag
}

// New builds a translator from the embedded message files
func New(defaultLang string) (*I18n, error) {
	tag, err := language.Parse(defaultLang)
	if err != nil {
		return nil, fmt.Errorf("invalid default language %q: %w", defaultLang, err)
	}

	bundle := i18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	entries, err := fs.ReadDir(translations, "translations")
	if err != nil {
		return nil, fmt.Errorf("failed to read translations: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".toml") {
			continue
		}
		if _, err := bundle.LoadMessageFileFS(translations, path.Join("translations", e.Name())); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", e.Name(), err)
		}
	}

	return &I18n{bundle: bundle, defaultLang: tag}, nil
}

// Translate returns the message in lang, falling back to the default
// language and finally to the message ID itself
func (i *I18n) Translate(msgID string, lang string, data map[string]any) string {
	localizer := i18n.NewLocalizer(i.bundle, lang, i.defaultLang.String())

	lc := &i18n.LocalizeConfig{MessageID: msgID}
	if len(data) > 0 {
		lc.TemplateData = data
	}

	msg, err := localizer.Localize(lc)
	if err != nil {
		return msgID
	}
	return msg
}

// Init installs the process wide translator. Only the first call has effect;
// an empty lang means English.
func Init(lang string) error {
	translatorOnce.Do(func() {
		if lang == "" {
			lang = cnst.LangEN
		}
		SetDefaultLanguage(lang)
		translator, translatorErr = New(lang)
	})
	return translatorErr
}

// GetTranslator returns the process wide translator, initializing it with
// English when Init was never called
func GetTranslator() *I18n {
	_ = Init(defaultLang)
	return translator
}
