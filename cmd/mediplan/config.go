package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const minSecretKeyLength = 32

var insecureSecretKeys = map[string]bool{
	"change_me_in_production":                    true,
	"replace_with_at_least_32_random_characters": true,
}

type serverConfig struct {
	SecretKey        string
	DBPath           string
	Port             string
	DefaultLanguage  string
	Location         *time.Location
	CookieSecure     bool
	ResetTokenTTL    time.Duration
	ReminderInterval time.Duration
	TelegramBotToken string
	TelegramChatID   string
}

func loadServerConfig() (serverConfig, error) {
	secretKey, err := resolveSecretKey()
	if err != nil {
		return serverConfig{}, err
	}
	port, err := resolvePort()
	if err != nil {
		return serverConfig{}, err
	}
	reminderInterval, err := resolveDuration("REMINDER_INTERVAL", time.Hour)
	if err != nil {
		return serverConfig{}, err
	}
	resetTokenTTL, err := resolveDuration("RESET_TOKEN_TTL", 30*time.Minute)
	if err != nil {
		return serverConfig{}, err
	}

	return serverConfig{
		SecretKey:        secretKey,
		DBPath:           resolveDBPath(),
		Port:             port,
		DefaultLanguage:  getEnv("DEFAULT_LANGUAGE", "en"),
		Location:         mustLoadLocation(getEnv("TZ", "UTC")),
		CookieSecure:     getEnvBool("COOKIE_SECURE", false),
		ResetTokenTTL:    resetTokenTTL,
		ReminderInterval: reminderInterval,
		TelegramBotToken: strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")),
		TelegramChatID:   strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID")),
	}, nil
}

func resolveSecretKey() (string, error) {
	secretKey := strings.TrimSpace(os.Getenv("SECRET_KEY"))
	switch {
	case secretKey == "":
		return "", errors.New("SECRET_KEY is required")
	case insecureSecretKeys[secretKey]:
		return "", errors.New("SECRET_KEY still uses a placeholder value")
	case len(secretKey) < minSecretKeyLength:
		return "", fmt.Errorf("SECRET_KEY must be at least %d characters", minSecretKeyLength)
	}
	return secretKey, nil
}

func resolvePort() (string, error) {
	raw := getEnv("PORT", "8080")
	port, err := strconv.Atoi(raw)
	if err != nil || port < 1 || port > 65535 {
		return "", fmt.Errorf("invalid PORT %q", raw)
	}
	return strconv.Itoa(port), nil
}

func resolveDBPath() string {
	return getEnv("DB_PATH", filepath.Join("data", "mediplan.db"))
}

func resolveDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, raw)
	}
	return value, nil
}

func mustLoadLocation(name string) *time.Location {
	location, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("invalid TZ %q, falling back to UTC", name)
		return time.UTC
	}
	return location
}

func getEnv(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getEnvBool(key string, fallback bool) bool {
	value, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(fallback)))
	if err != nil {
		return fallback
	}
	return value
}
