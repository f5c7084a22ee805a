package i18n

import (
	"embed"
	"fmt"
	"path"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

const DefaultLocale = "en"

type Translations map[string]string

var (
	locales  map[string]Translations
	loadErr  error
	loadOnce sync.Once
)

// Load parses the embedded locale files. It runs once; Translate calls it lazily.
func Load() error {
	loadOnce.Do(func() {
		locales, loadErr = parse()
	})
	return loadErr
}

func parse() (map[string]Translations, error) {
	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, err
	}

	parsed := make(map[string]Translations, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".yaml" {
			continue
		}
		locale := strings.TrimSuffix(entry.Name(), ".yaml")

		data, err := localeFS.ReadFile(path.Join("locales", entry.Name()))
		if err != nil {
			return nil, err
		}

		var file struct {
			Email Translations `yaml:"EMAIL"`
		}
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", entry.Name(), err)
		}
		parsed[locale] = file.Email
	}

	return parsed, nil
}

// Translate falls back to English and then to the key itself.
func Translate(locale, key string) string {
	if err := Load(); err != nil {
		return key
	}

	if trans, ok := locales[locale]; ok {
		if val, ok := trans[key]; ok {
			return val
		}
	}

	if locale != DefaultLocale {
		if trans, ok := locales[DefaultLocale]; ok {
			if val, ok := trans[key]; ok {
				return val
			}
		}
	}

	return key
}
