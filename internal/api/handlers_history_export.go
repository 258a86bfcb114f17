package api

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/mediplan/internal/services"
)

// ExportHistoryCSV downloads the intake history, optionally limited to the
// inclusive ?from and ?to days (DD/MM/YYYY).
func (handler *Handler) ExportHistoryCSV(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	historyRange, err := services.ParseHistoryRange(c.Query("from"), c.Query("to"), handler.location)
	if err != nil {
		return handler.serviceError(c, err)
	}
	events, err := handler.medications.HistoryInRange(user.ID, historyRange)
	if err != nil {
		return handler.serviceError(c, err)
	}

	var output bytes.Buffer
	writer := csv.NewWriter(&output)
	if err := writer.Write(services.HistoryCSVHeaders); err != nil {
		return handler.serviceError(c, err)
	}
	for _, event := range events {
		if err := writer.Write(services.HistoryCSVRow(event, handler.location)); err != nil {
			return handler.serviceError(c, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return handler.serviceError(c, err)
	}

	filename := fmt.Sprintf("mediplan-history-%s.csv", handler.now().In(handler.location).Format("2006-01-02"))
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", filename))
	return c.Send(output.Bytes())
}
