package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/mediplan/internal/db"
	"github.com/terraincognita07/mediplan/internal/i18n"
	"github.com/terraincognita07/mediplan/internal/services"
)

var apiTestNow = time.Date(2026, time.March, 10, 9, 30, 0, 0, time.UTC)

type apiTestEnv struct {
	app     *fiber.App
	handler *Handler
	repos   *db.Repositories
}

func newAPITestEnv(t *testing.T) *apiTestEnv {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "mediplan-api-test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close(database)
	})

	i18nManager, err := i18n.NewManager(i18n.LangEN, i18n.Locales())
	if err != nil {
		t.Fatalf("init i18n: %v", err)
	}

	repos := db.NewRepositories(database)
	feed := services.NewMedicationFeed()
	resetTokens := services.NewPasswordResetTokens([]byte("test-secret-key-with-enough-length"), 30*time.Minute)
	handler, err := NewHandler(Dependencies{
		Auth:        services.NewAuthService(repos.Users, resetTokens, time.UTC),
		Medications: services.NewMedicationService(repos.Medications, repos.Events, feed, time.UTC),
		Settings:    services.NewSettingsService(repos.Users),
		Feed:        feed,
		I18n:        i18nManager,
		SecretKey:   "test-secret-key-with-enough-length",
		Location:    time.UTC,
	})
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}
	handler.now = func() time.Time { return apiTestNow }
	t.Cleanup(handler.Close)

	app := fiber.New(fiber.Config{ErrorHandler: handler.ErrorHandler})
	app.Use(handler.LanguageMiddleware)
	app.Use(handler.MetricsMiddleware)
	RegisterRoutes(app, handler)
	app.Use(handler.NotFound)

	return &apiTestEnv{app: app, handler: handler, repos: repos}
}

func (env *apiTestEnv) request(t *testing.T, method string, path string, body any, token string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	request := httptest.NewRequest(method, path, reader)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := env.app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return response
}

func (env *apiTestEnv) register(t *testing.T, email string) (string, string) {
	t.Helper()

	response := env.request(t, http.MethodPost, "/api/auth/register", fiber.Map{
		"name":             "Test User",
		"email":            email,
		"password":         "StrongPass1",
		"confirm_password": "StrongPass1",
	}, "")
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d", email, response.StatusCode)
	}

	payload := struct {
		Token        string `json:"token"`
		RecoveryCode string `json:"recovery_code"`
	}{}
	decodeJSON(t, response, &payload)
	if payload.Token == "" || payload.RecoveryCode == "" {
		t.Fatalf("register %s: expected token and recovery code", email)
	}
	return payload.Token, payload.RecoveryCode
}

func (env *apiTestEnv) createMedication(t *testing.T, token string, name string, start string, end string) medicationResponse {
	t.Helper()

	response := env.request(t, http.MethodPost, "/api/medications", fiber.Map{
		"name":       name,
		"dosage":     "10mg",
		"frequency":  "once_daily",
		"start_date": start,
		"end_date":   end,
	}, token)
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("create %s: expected 201, got %d", name, response.StatusCode)
	}

	created := medicationResponse{}
	decodeJSON(t, response, &created)
	return created
}

func decodeJSON(t *testing.T, response *http.Response, target any) {
	t.Helper()
	defer response.Body.Close()

	if err := json.NewDecoder(response.Body).Decode(target); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
}

type apiErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func readAPIError(t *testing.T, response *http.Response) apiErrorBody {
	t.Helper()
	payload := apiErrorBody{}
	decodeJSON(t, response, &payload)
	return payload
}

func responseCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, cookie := range cookies {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func medicationNames(records []medicationResponse) []string {
	names := make([]string, 0, len(records))
	for _, record := range records {
		names = append(names, record.Name)
	}
	return names
}
