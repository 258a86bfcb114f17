package api

import (
	"errors"
	"sync"
	"time"

	"github.com/terraincognita07/mediplan/internal/i18n"
	"github.com/terraincognita07/mediplan/internal/metrics"
	"github.com/terraincognita07/mediplan/internal/services"
)

const (
	defaultAuthTokenTTL  = 7 * 24 * time.Hour
	rememberAuthTokenTTL = 30 * 24 * time.Hour

	loginAttemptLimit     = 8
	loginAttemptWindow    = 15 * time.Minute
	recoveryAttemptLimit  = 5
	recoveryAttemptWindow = 15 * time.Minute
)

type Dependencies struct {
	Auth         *services.AuthService
	Medications  *services.MedicationService
	Settings     *services.SettingsService
	Feed         *services.MedicationFeed
	I18n         *i18n.Manager
	Metrics      *metrics.Metrics
	SecretKey    string
	Location     *time.Location
	CookieSecure bool
}

type Handler struct {
	auth            *services.AuthService
	medications     *services.MedicationService
	settings        *services.SettingsService
	feed            *services.MedicationFeed
	i18n            *i18n.Manager
	metrics         *metrics.Metrics
	secretKey       []byte
	location        *time.Location
	cookieSecure    bool
	loginLimiter    *attemptLimiter
	recoveryLimiter *attemptLimiter
	now             func() time.Time

	closeOnce sync.Once
	closing   chan struct{}
}

func NewHandler(deps Dependencies) (*Handler, error) {
	switch {
	case deps.Auth == nil || deps.Medications == nil || deps.Settings == nil:
		return nil, errors.New("services are required")
	case deps.Feed == nil:
		return nil, errors.New("medication feed is required")
	case deps.I18n == nil:
		return nil, errors.New("i18n manager is required")
	case deps.SecretKey == "":
		return nil, errors.New("secret key is required")
	}

	location := deps.Location
	if location == nil {
		location = time.UTC
	}
	metricSet := deps.Metrics
	if metricSet == nil {
		metricSet = metrics.New()
	}

	return &Handler{
		auth:            deps.Auth,
		medications:     deps.Medications,
		settings:        deps.Settings,
		feed:            deps.Feed,
		i18n:            deps.I18n,
		metrics:         metricSet,
		secretKey:       []byte(deps.SecretKey),
		location:        location,
		cookieSecure:    deps.CookieSecure,
		loginLimiter:    newAttemptLimiter(loginAttemptLimit, loginAttemptWindow),
		recoveryLimiter: newAttemptLimiter(recoveryAttemptLimit, recoveryAttemptWindow),
		now:             time.Now,
		closing:         make(chan struct{}),
	}, nil
}

// Close ends open event streams so the server can shut down.
func (handler *Handler) Close() {
	handler.closeOnce.Do(func() {
		close(handler.closing)
	})
}
