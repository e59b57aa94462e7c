package translator

import (
	"fmt"
	"os"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

var Translator *i18n.Bundle

type Config struct {
	TranslationFolder  string
	SupportedLanguages []string
}

const (
	LanguageEn = "en"
	LanguageFr = "fr"
)

// InitTranslator loads all toml message files from the translation folder
// into the package bundle. Missing files degrade to untranslated message
// keys rather than failing startup.
func InitTranslator(cfg Config) {
	Translator = i18n.NewBundle(language.English)
	Translator.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	entries, err := os.ReadDir(cfg.TranslationFolder)
	if err != nil {
		zap.L().Error("failed to list translation folder", zap.String("folder", cfg.TranslationFolder), zap.Error(err))
		return
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := fmt.Sprintf("%s/%s", cfg.TranslationFolder, entry.Name())
		if _, err := Translator.LoadMessageFile(path); err != nil {
			zap.L().Warn("failed to load translation file", zap.String("file", entry.Name()), zap.Error(err))
		}
	}
}
