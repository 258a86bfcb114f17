package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	app.Get("/metrics", adaptor.HTTPHandler(handler.metrics.Handler()))

	api := app.Group("/api")
	api.Get("/frequencies", handler.Frequencies)

	auth := api.Group("/auth")
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)
	auth.Post("/forgot-password", handler.ForgotPassword)
	auth.Post("/reset-password", handler.ResetPassword)
	auth.Post("/logout", handler.AuthRequired, handler.Logout)

	me := api.Group("/me", handler.AuthRequired)
	me.Get("", handler.Me)
	me.Patch("", handler.UpdateProfile)
	me.Delete("", handler.DeleteAccount)
	me.Post("/password", handler.ChangePassword)

	medications := api.Group("/medications", handler.AuthRequired)
	medications.Get("", handler.ListMedications)
	medications.Post("", handler.CreateMedication)
	medications.Get("/:id", handler.GetMedication)
	medications.Put("/:id", handler.UpdateMedication)
	medications.Delete("/:id", handler.DeleteMedication)
	medications.Post("/:id/taken", handler.MarkMedicationTaken)
	medications.Post("/:id/complete", handler.CompleteMedication)

	scheduleGroup := api.Group("/schedule", handler.AuthRequired)
	scheduleGroup.Get("/today", handler.ScheduleToday)
	scheduleGroup.Get("/upcoming", handler.ScheduleUpcoming)

	api.Get("/history", handler.AuthRequired, handler.History)
	api.Get("/history/export.csv", handler.AuthRequired, handler.ExportHistoryCSV)
	api.Get("/events", handler.AuthRequired, handler.Events)
}
