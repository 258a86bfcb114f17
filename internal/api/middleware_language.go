package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// LanguageMiddleware picks the response language from ?lang, then the language
// cookie, then Accept-Language. An explicit ?lang is remembered in the cookie.
func (handler *Handler) LanguageMiddleware(c *fiber.Ctx) error {
	language := handler.i18n.DetectFromAcceptLanguage(c.Get(fiber.HeaderAcceptLanguage))
	if cookieLanguage := strings.TrimSpace(c.Cookies(languageCookieName)); cookieLanguage != "" {
		language = handler.i18n.NormalizeLanguage(cookieLanguage)
	}
	if queryLanguage := strings.TrimSpace(c.Query("lang")); queryLanguage != "" {
		language = handler.i18n.NormalizeLanguage(queryLanguage)
		handler.setLanguageCookie(c, language)
	}

	c.Locals(contextLanguageKey, language)
	c.Set(fiber.HeaderContentLanguage, language)
	return c.Next()
}

func (handler *Handler) setLanguageCookie(c *fiber.Ctx, language string) {
	c.Cookie(&fiber.Cookie{
		Name:     languageCookieName,
		Value:    language,
		Path:     "/",
		HTTPOnly: false,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
		Expires:  handler.now().AddDate(1, 0, 0),
	})
}
