package utils

import (
	"fmt"
	"io/fs"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v2"
)

var bundle *i18n.Bundle

// InitI18NBundle loads every yaml message file at the root of fsys into the
// shared bundle. English is the fallback language.
func InitI18NBundle(fsys fs.FS) error {
	files, err := fs.Glob(fsys, "*.yaml")
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no message files found")
	}

	b := i18n.NewBundle(language.English)
	b.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)
	for _, f := range files {
		if _, err := b.LoadMessageFileFS(fsys, f); err != nil {
			return err
		}
	}

	bundle = b
	return nil
}

// NewLocalizer returns a localizer for the preferred languages, falling back
// to English. The bundle must be initialized first.
func NewLocalizer(langs ...string) *i18n.Localizer {
	return i18n.NewLocalizer(bundle, langs...)
}

// I18NReady reports whether a bundle is loaded.
func I18NReady() bool {
	return bundle != nil
}
