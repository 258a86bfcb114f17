package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/terraincognita07/mediplan/internal/models"
)

const (
	LangEN = "en"
	LangPT = "pt"
)

//go:embed locales/*.json
var embeddedLocales embed.FS

// Locales exposes the bundled catalogs rooted at the locales directory.
func Locales() fs.FS {
	sub, err := fs.Sub(embeddedLocales, "locales")
	if err != nil {
		panic(err)
	}
	return sub
}

type Manager struct {
	defaultLanguage string
	locales         map[string]map[string]string
	supported       []string
}

// NewManager loads every *.json catalog at the root of files. The English catalog
// is required because it backs missing keys in every other language.
func NewManager(defaultLanguage string, files fs.FS) (*Manager, error) {
	manager := &Manager{
		locales: map[string]map[string]string{},
	}

	entries, err := fs.ReadDir(files, ".")
	if err != nil {
		return nil, fmt.Errorf("read locales: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".json" {
			continue
		}

		language := strings.TrimSuffix(strings.ToLower(entry.Name()), path.Ext(entry.Name()))
		content, err := fs.ReadFile(files, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", language, err)
		}

		messages := map[string]string{}
		if err := json.Unmarshal(content, &messages); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", language, err)
		}
		if len(messages) == 0 {
			return nil, fmt.Errorf("locale %s is empty", language)
		}

		manager.locales[language] = messages
		manager.supported = append(manager.supported, language)
	}

	if len(manager.supported) == 0 {
		return nil, fmt.Errorf("no locales found")
	}
	if _, ok := manager.locales[LangEN]; !ok {
		return nil, fmt.Errorf("required locale %q missing", LangEN)
	}

	sort.Strings(manager.supported)
	manager.defaultLanguage = LangEN
	manager.defaultLanguage = manager.NormalizeLanguage(defaultLanguage)
	return manager, nil
}

func (manager *Manager) DefaultLanguage() string {
	return manager.defaultLanguage
}

func (manager *Manager) SupportedLanguages() []string {
	result := make([]string, len(manager.supported))
	copy(result, manager.supported)
	return result
}

func (manager *Manager) NormalizeLanguage(raw string) string {
	normalized := normalizeLanguageTag(raw)
	if manager.isSupported(normalized) {
		return normalized
	}
	return manager.defaultLanguage
}

func (manager *Manager) DetectFromAcceptLanguage(raw string) string {
	for _, part := range strings.Split(raw, ",") {
		token := strings.TrimSpace(strings.Split(part, ";")[0])
		normalized := normalizeLanguageTag(token)
		if manager.isSupported(normalized) {
			return normalized
		}
	}
	return manager.defaultLanguage
}

// Translate falls back to English and then to the key itself.
func (manager *Manager) Translate(language string, key string) string {
	if value := strings.TrimSpace(manager.locales[manager.NormalizeLanguage(language)][key]); value != "" {
		return value
	}
	if value := strings.TrimSpace(manager.locales[LangEN][key]); value != "" {
		return value
	}
	return key
}

func (manager *Manager) Translatef(language string, key string, args ...any) string {
	return fmt.Sprintf(manager.Translate(language, key), args...)
}

func (manager *Manager) ErrorMessage(language string, code string) string {
	return manager.Translate(language, "error."+code)
}

func (manager *Manager) FrequencyLabel(language string, frequencyKey string) string {
	return manager.Translate(language, "frequency."+frequencyKey)
}

// ResolveFrequency maps a frequency key or a label in any bundled language to the
// catalog entry it names.
func (manager *Manager) ResolveFrequency(raw string) (models.Frequency, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return models.Frequency{}, false
	}
	for _, frequency := range models.DefaultFrequencies() {
		if strings.EqualFold(value, frequency.Key) || strings.EqualFold(value, frequency.Label) {
			return frequency, true
		}
		for _, language := range manager.supported {
			if label := manager.locales[language]["frequency."+frequency.Key]; label != "" && strings.EqualFold(value, label) {
				return frequency, true
			}
		}
	}
	return models.Frequency{}, false
}

// LocalizeFrequencyLabel turns a stored English label into the label for language.
// Unknown labels are returned unchanged.
func (manager *Manager) LocalizeFrequencyLabel(language string, storedLabel string) string {
	for _, frequency := range models.DefaultFrequencies() {
		if frequency.Label == storedLabel {
			return manager.FrequencyLabel(language, frequency.Key)
		}
	}
	return storedLabel
}

func (manager *Manager) isSupported(language string) bool {
	if language == "" {
		return false
	}
	_, ok := manager.locales[language]
	return ok
}

func normalizeLanguageTag(raw string) string {
	language := strings.ToLower(strings.TrimSpace(raw))
	if language == "" {
		return ""
	}
	language = strings.ReplaceAll(language, "_", "-")
	if separator := strings.Index(language, "-"); separator >= 0 {
		language = language[:separator]
	}
	return language
}
