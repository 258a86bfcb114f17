package api

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/mediplan/internal/services"
	"github.com/valyala/fasthttp"
)

const (
	eventStreamKeepAlive = 25 * time.Second
	snapshotEventKind    = "medications.snapshot"
)

// Events streams the user's medication changes as server-sent events. The first
// event carries the current active list; change events follow. The stream ends
// when the client goes away, the subscription is cancelled or the handler is
// closed.
func (handler *Handler) Events(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	// Subscribe before loading the snapshot so changes made meanwhile still arrive.
	events, cancel := handler.feed.Subscribe(user.ID)
	medications, err := handler.medications.List(user.ID)
	if err != nil {
		cancel()
		return handler.serviceError(c, err)
	}
	snapshot := handler.medicationResponses(handler.currentLanguage(c), medications)
	handler.metrics.StreamOpened()

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer handler.metrics.StreamClosed()
		defer cancel()

		if _, err := io.WriteString(w, ": connected\n\n"); err != nil {
			return
		}
		if err := writeSnapshotEvent(w, snapshot); err != nil || w.Flush() != nil {
			return
		}

		keepAlive := time.NewTicker(eventStreamKeepAlive)
		defer keepAlive.Stop()

		for {
			select {
			case <-handler.closing:
				return
			case event, open := <-events:
				if !open {
					return
				}
				if err := writeFeedEvent(w, event); err != nil {
					return
				}
			case <-keepAlive.C:
				if _, err := io.WriteString(w, ": keep-alive\n\n"); err != nil {
					return
				}
			}
			if err := w.Flush(); err != nil {
				return
			}
		}
	}))
	return nil
}

func writeFeedEvent(w io.Writer, event services.FeedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Kind, payload)
	return err
}

func writeSnapshotEvent(w io.Writer, medications []medicationResponse) error {
	payload, err := json.Marshal(medications)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", snapshotEventKind, payload)
	return err
}
