package notification

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"rental-app-go/internal/domain/lifecycle"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var localeFiles embed.FS

const DefaultLocale = "zh"

var templateParams = []string{
	lifecycle.ParamPropertyTitle,
	lifecycle.ParamTenantName,
	lifecycle.ParamInitiatorName,
	lifecycle.ParamDate,
	lifecycle.ParamTime,
	lifecycle.ParamReason,
	lifecycle.ParamAmount,
	lifecycle.ParamDueDate,
}

// Message is a rendered notification text.
type Message struct {
	Title   string
	Content string
}

// Catalog renders event keys into localized titles and contents.
type Catalog struct {
	bundle        *i18n.Bundle
	defaultLocale string
}

func NewCatalog(defaultLocale string) (*Catalog, error) {
	if defaultLocale == "" {
		defaultLocale = DefaultLocale
	}
	tag, err := language.Parse(defaultLocale)
	if err != nil {
		return nil, fmt.Errorf("parse default locale %q: %w", defaultLocale, err)
	}

	bundle := i18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	paths, err := fs.Glob(localeFiles, "locales/*.toml")
	if err != nil {
		return nil, err
	}
	for _, path := range paths {
		if _, err := bundle.LoadMessageFileFS(localeFiles, path); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}

	return &Catalog{bundle: bundle, defaultLocale: tag.String()}, nil
}

func (c *Catalog) Render(locale string, key lifecycle.EventKey, params map[string]string) (Message, error) {
	if locale == "" {
		locale = c.defaultLocale
	}
	localizer := i18n.NewLocalizer(c.bundle, locale, c.defaultLocale)
	data := templateData(params)

	title, err := c.localize(localizer, string(key)+"Title", data)
	if err != nil {
		return Message{}, err
	}
	content, err := c.localize(localizer, string(key)+"Content", data)
	if err != nil {
		return Message{}, err
	}
	return Message{Title: title, Content: content}, nil
}

func (c *Catalog) localize(localizer *i18n.Localizer, id string, data map[string]string) (string, error) {
	msg, err := localizer.Localize(&i18n.LocalizeConfig{MessageID: id, TemplateData: data})
	if err == nil {
		return msg, nil
	}
	var notFound *i18n.MessageNotFoundErr
	if !errors.As(err, &notFound) {
		return "", err
	}
	// A message served from the fallback language still reports not found.
	if msg != "" {
		return msg, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownTemplate, id)
}

// templateData fills every known parameter so a missing value renders empty.
func templateData(params map[string]string) map[string]string {
	data := make(map[string]string, len(templateParams)+len(params))
	for _, name := range templateParams {
		data[name] = ""
	}
	for name, value := range params {
		data[name] = value
	}
	return data
}
