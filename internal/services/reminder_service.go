package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/terraincognita07/mediplan/internal/models"
	"github.com/terraincognita07/mediplan/internal/schedule"
)

const (
	defaultReminderInterval = time.Hour
	telegramAPIBaseURL      = "https://api.telegram.org"
)

type ReminderUserRepository interface {
	List() ([]models.User, error)
}

type ReminderMedicationRepository interface {
	ListActiveByUser(userID uint) ([]models.Medication, error)
}

type ReminderSender interface {
	Send(ctx context.Context, message string) error
}

type ReminderRecorder interface {
	ReminderSent()
	ReminderFailed()
}

type ReminderConfig struct {
	BotToken string
	ChatID   string
	Interval time.Duration
}

func (config ReminderConfig) Enabled() bool {
	return strings.TrimSpace(config.BotToken) != "" && strings.TrimSpace(config.ChatID) != ""
}

// ReminderService sends one digest per user per day listing the medications
// active that day.
type ReminderService struct {
	users       ReminderUserRepository
	medications ReminderMedicationRepository
	sender      ReminderSender
	recorder    ReminderRecorder
	interval    time.Duration
	location    *time.Location
	now         func() time.Time

	mu sync.Mutex
	// sentDigests maps a user ID to the day its last digest went out.
	sentDigests map[uint]time.Time
}

func NewReminderService(users ReminderUserRepository, medications ReminderMedicationRepository, config ReminderConfig, location *time.Location) *ReminderService {
	if location == nil {
		location = time.UTC
	}
	interval := config.Interval
	if interval <= 0 {
		interval = defaultReminderInterval
	}

	service := &ReminderService{
		users:       users,
		medications: medications,
		interval:    interval,
		location:    location,
		now:         time.Now,
		sentDigests: make(map[uint]time.Time),
	}
	if config.Enabled() {
		service.sender = NewTelegramSender(config.BotToken, config.ChatID)
	}
	return service
}

func (service *ReminderService) WithSender(sender ReminderSender) *ReminderService {
	service.sender = sender
	return service
}

func (service *ReminderService) WithRecorder(recorder ReminderRecorder) *ReminderService {
	service.recorder = recorder
	return service
}

func (service *ReminderService) Enabled() bool {
	return service.sender != nil
}

// Run blocks until ctx is done. It returns immediately when no sender is configured.
func (service *ReminderService) Run(ctx context.Context) error {
	if !service.Enabled() {
		return nil
	}

	ticker := time.NewTicker(service.interval)
	defer ticker.Stop()

	service.RunOnce(ctx, service.now())
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			service.RunOnce(ctx, service.now())
		}
	}
}

// RunOnce sends the digests due for the calendar day of now. It returns the
// number of digests delivered.
func (service *ReminderService) RunOnce(ctx context.Context, now time.Time) int {
	if !service.Enabled() {
		return 0
	}

	users, err := service.users.List()
	if err != nil {
		log.Printf("reminders: fetch users failed: %v", err)
		return 0
	}

	local := now.In(service.location)
	today := schedule.Today(local)
	service.pruneDigests(today)
	delivered := 0

	for _, user := range users {
		if ctx.Err() != nil {
			return delivered
		}

		medications, err := service.medications.ListActiveByUser(user.ID)
		if err != nil {
			log.Printf("reminders: fetch medications failed for user %d: %v", user.ID, err)
			continue
		}
		active := schedule.ActiveToday(medications, local)
		if len(active) == 0 {
			continue
		}

		if !service.shouldSend(user.ID, today) {
			continue
		}

		if err := service.sender.Send(ctx, BuildDailyDigest(user, active, today)); err != nil {
			log.Printf("reminders: send digest failed for user %d: %v", user.ID, err)
			service.forget(user.ID)
			if service.recorder != nil {
				service.recorder.ReminderFailed()
			}
			continue
		}
		delivered++
		if service.recorder != nil {
			service.recorder.ReminderSent()
		}
	}
	return delivered
}

func BuildDailyDigest(user models.User, active []models.Medication, today time.Time) string {
	name := strings.TrimSpace(user.Name)
	if name == "" {
		name = user.Email
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "MediPlan reminder for %s, %s: %d medication(s) today.", name, schedule.FormatDate(today), len(active))
	for _, medication := range active {
		fmt.Fprintf(&builder, "\n- %s %s (%s)", medication.Name, medication.Dosage, medication.Frequency)
	}
	return builder.String()
}

func (service *ReminderService) shouldSend(userID uint, today time.Time) bool {
	service.mu.Lock()
	defer service.mu.Unlock()

	if sentOn, ok := service.sentDigests[userID]; ok && sentOn.Equal(today) {
		return false
	}
	service.sentDigests[userID] = today
	return true
}

func (service *ReminderService) forget(userID uint) {
	service.mu.Lock()
	defer service.mu.Unlock()
	delete(service.sentDigests, userID)
}

// pruneDigests drops entries for days other than today so the map holds at most
// one entry per user.
func (service *ReminderService) pruneDigests(today time.Time) {
	service.mu.Lock()
	defer service.mu.Unlock()
	for userID, sentOn := range service.sentDigests {
		if !sentOn.Equal(today) {
			delete(service.sentDigests, userID)
		}
	}
}

type TelegramSender struct {
	botToken string
	chatID   string
	baseURL  string
	client   *http.Client
}

func NewTelegramSender(botToken string, chatID string) *TelegramSender {
	return &TelegramSender{
		botToken: strings.TrimSpace(botToken),
		chatID:   strings.TrimSpace(chatID),
		baseURL:  telegramAPIBaseURL,
		client: &http.Client{
			Timeout: 8 * time.Second,
		},
	}
}

func (sender *TelegramSender) Send(ctx context.Context, message string) error {
	values := url.Values{}
	values.Set("chat_id", sender.chatID)
	values.Set("text", message)

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", strings.TrimRight(sender.baseURL, "/"), sender.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(values.Encode()))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := sender.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("telegram status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
