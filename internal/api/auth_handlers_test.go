package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
)

func TestRegisterSetsAuthCookieAndReturnsRecoveryCode(t *testing.T) {
	env := newAPITestEnv(t)

	response := env.request(t, http.MethodPost, "/api/auth/register", fiber.Map{
		"name":             "Ana",
		"email":            "Ana@Example.com",
		"birthdate":        "12/05/1990",
		"password":         "StrongPass1",
		"confirm_password": "StrongPass1",
	}, "")
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", response.StatusCode)
	}

	cookie := responseCookie(response.Cookies(), authCookieName)
	if cookie == nil || cookie.Value == "" || !cookie.HttpOnly {
		t.Fatalf("expected http-only auth cookie, got %#v", cookie)
	}

	payload := struct {
		User struct {
			Email        string `json:"email"`
			PasswordHash string `json:"password_hash"`
		} `json:"user"`
		RecoveryCode string `json:"recovery_code"`
	}{}
	decodeJSON(t, response, &payload)
	if payload.User.Email != "ana@example.com" {
		t.Fatalf("expected normalized email, got %q", payload.User.Email)
	}
	if payload.User.PasswordHash != "" {
		t.Fatal("expected password hash to stay out of responses")
	}
	if !strings.HasPrefix(payload.RecoveryCode, "MEDI-") {
		t.Fatalf("unexpected recovery code %q", payload.RecoveryCode)
	}
}

func TestRegisterRejectsDuplicateEmailAndWeakPassword(t *testing.T) {
	env := newAPITestEnv(t)
	env.register(t, "ana@example.com")

	response := env.request(t, http.MethodPost, "/api/auth/register", fiber.Map{
		"name":             "Ana",
		"email":            "ANA@example.com",
		"password":         "StrongPass1",
		"confirm_password": "StrongPass1",
	}, "")
	if response.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", response.StatusCode)
	}
	if got := readAPIError(t, response).Error; got != "email_taken" {
		t.Fatalf("expected email_taken, got %q", got)
	}

	response = env.request(t, http.MethodPost, "/api/auth/register", fiber.Map{
		"name":             "Bo",
		"email":            "bo@example.com",
		"password":         "weakpass",
		"confirm_password": "weakpass",
	}, "")
	if response.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", response.StatusCode)
	}
	if got := readAPIError(t, response).Error; got != "weak_password" {
		t.Fatalf("expected weak_password, got %q", got)
	}
}

func TestLoginRememberMeAndLogout(t *testing.T) {
	env := newAPITestEnv(t)
	env.register(t, "ana@example.com")

	response := env.request(t, http.MethodPost, "/api/auth/login", fiber.Map{
		"email":       "ana@example.com",
		"password":    "StrongPass1",
		"remember_me": true,
	}, "")
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", response.StatusCode)
	}
	cookie := responseCookie(response.Cookies(), authCookieName)
	if cookie == nil || cookie.Expires.IsZero() {
		t.Fatalf("expected persistent auth cookie for remember me, got %#v", cookie)
	}
	if want := apiTestNow.Add(rememberAuthTokenTTL); cookie.Expires.Unix() != want.Unix() {
		t.Fatalf("expected cookie expiry %v, got %v", want, cookie.Expires)
	}

	request := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	request.AddCookie(&http.Cookie{Name: authCookieName, Value: cookie.Value})
	meResponse, err := env.app.Test(request, -1)
	if err != nil {
		t.Fatalf("GET /api/me: %v", err)
	}
	if meResponse.StatusCode != http.StatusOK {
		t.Fatalf("expected cookie session to authenticate, got %d", meResponse.StatusCode)
	}

	logoutRequest := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	logoutRequest.AddCookie(&http.Cookie{Name: authCookieName, Value: cookie.Value})
	logoutResponse, err := env.app.Test(logoutRequest, -1)
	if err != nil {
		t.Fatalf("POST /api/auth/logout: %v", err)
	}
	cleared := responseCookie(logoutResponse.Cookies(), authCookieName)
	if cleared == nil || cleared.Value != "" {
		t.Fatalf("expected cleared auth cookie, got %#v", cleared)
	}
}

func TestLoginInvalidCredentialsAndRateLimit(t *testing.T) {
	env := newAPITestEnv(t)
	env.register(t, "ana@example.com")

	for attempt := 0; attempt < loginAttemptLimit; attempt++ {
		response := env.request(t, http.MethodPost, "/api/auth/login", fiber.Map{
			"email":    "ana@example.com",
			"password": "WrongPass1",
		}, "")
		if response.StatusCode != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected 401, got %d", attempt, response.StatusCode)
		}
		body := readAPIError(t, response)
		if body.Error != "invalid_credentials" || body.Message == "" {
			t.Fatalf("unexpected error body %#v", body)
		}
	}

	response := env.request(t, http.MethodPost, "/api/auth/login", fiber.Map{
		"email":    "ana@example.com",
		"password": "StrongPass1",
	}, "")
	if response.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after repeated failures, got %d", response.StatusCode)
	}
}

func TestProtectedRoutesRequireAuthentication(t *testing.T) {
	env := newAPITestEnv(t)

	paths := []string{"/api/me", "/api/medications", "/api/schedule/today", "/api/schedule/upcoming", "/api/history", "/api/events"}
	for _, path := range paths {
		response := env.request(t, http.MethodGet, path, nil, "")
		if response.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", path, response.StatusCode)
		}
		if got := readAPIError(t, response).Error; got != "unauthorized" {
			t.Fatalf("%s: expected unauthorized, got %q", path, got)
		}
	}

	response := env.request(t, http.MethodGet, "/api/me", nil, "not-a-jwt")
	if response.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for garbage token, got %d", response.StatusCode)
	}
}

func TestExpiredTokenIsRejected(t *testing.T) {
	env := newAPITestEnv(t)
	token, _ := env.register(t, "ana@example.com")

	env.handler.now = func() time.Time { return apiTestNow.Add(defaultAuthTokenTTL + time.Minute) }
	response := env.request(t, http.MethodGet, "/api/me", nil, token)
	if response.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected expired token to be rejected, got %d", response.StatusCode)
	}
}

func TestForgotAndResetPasswordFlow(t *testing.T) {
	env := newAPITestEnv(t)
	_, recoveryCode := env.register(t, "ana@example.com")

	response := env.request(t, http.MethodPost, "/api/auth/forgot-password", fiber.Map{"recovery_code": recoveryCode}, "")
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", response.StatusCode)
	}
	forgot := struct {
		ResetToken string `json:"reset_token"`
	}{}
	decodeJSON(t, response, &forgot)

	response = env.request(t, http.MethodPost, "/api/auth/reset-password", fiber.Map{
		"token":            forgot.ResetToken,
		"password":         "NewStrong2",
		"confirm_password": "NewStrong2",
	}, "")
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", response.StatusCode)
	}
	reset := struct {
		RecoveryCode string `json:"recovery_code"`
	}{}
	decodeJSON(t, response, &reset)
	if reset.RecoveryCode == "" || reset.RecoveryCode == recoveryCode {
		t.Fatalf("expected rotated recovery code, got %q", reset.RecoveryCode)
	}

	response = env.request(t, http.MethodPost, "/api/auth/login", fiber.Map{"email": "ana@example.com", "password": "NewStrong2"}, "")
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected login with new password, got %d", response.StatusCode)
	}

	response = env.request(t, http.MethodPost, "/api/auth/reset-password", fiber.Map{
		"token":            forgot.ResetToken,
		"password":         "Another3x",
		"confirm_password": "Another3x",
	}, "")
	if got := readAPIError(t, response).Error; got != "reset_token_used" {
		t.Fatalf("expected reset_token_used, got %q", got)
	}
}

func TestForgotPasswordRejectsUnknownCode(t *testing.T) {
	env := newAPITestEnv(t)
	env.register(t, "ana@example.com")

	response := env.request(t, http.MethodPost, "/api/auth/forgot-password", fiber.Map{"recovery_code": "MEDI-AAAA-BBBB-CCCC"}, "")
	if response.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", response.StatusCode)
	}
	if got := readAPIError(t, response).Error; got != "recovery_code_not_found" {
		t.Fatalf("expected recovery_code_not_found, got %q", got)
	}
}

func TestCookieSessionRequest(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		if CookieSessionRequest(c) {
			return c.SendString("cookie")
		}
		return c.SendString("other")
	})

	tests := []struct {
		name     string
		bearer   string
		cookie   string
		expected string
	}{
		{name: "anonymous", expected: "other"},
		{name: "cookie", cookie: "token", expected: "cookie"},
		{name: "bearer wins over cookie", bearer: "token", cookie: "token", expected: "other"},
	}

	for _, test := range tests {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		if test.bearer != "" {
			request.Header.Set("Authorization", "Bearer "+test.bearer)
		}
		if test.cookie != "" {
			request.AddCookie(&http.Cookie{Name: authCookieName, Value: test.cookie})
		}
		response, err := app.Test(request, -1)
		if err != nil {
			t.Fatalf("%s: %v", test.name, err)
		}
		body, _ := io.ReadAll(response.Body)
		if string(body) != test.expected {
			t.Fatalf("%s: expected %q, got %q", test.name, test.expected, body)
		}
	}
}
