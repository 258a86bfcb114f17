package services

import "sync"

const (
	FeedEventCreated   = "medication.created"
	FeedEventUpdated   = "medication.updated"
	FeedEventDeleted   = "medication.deleted"
	FeedEventTaken     = "medication.taken"
	FeedEventCompleted = "medication.completed"
)

const feedSubscriberBuffer = 16

type FeedEvent struct {
	Kind         string `json:"kind"`
	MedicationID uint   `json:"medication_id"`
}

// MedicationFeed fans medication changes out to the owner's subscribers. Sends
// never block: a subscriber whose buffer is full misses the event.
type MedicationFeed struct {
	mu          sync.Mutex
	nextID      uint64
	subscribers map[uint]map[uint64]chan FeedEvent
}

func NewMedicationFeed() *MedicationFeed {
	return &MedicationFeed{subscribers: make(map[uint]map[uint64]chan FeedEvent)}
}

// Subscribe registers a listener for userID. The returned cancel func closes the
// channel and is safe to call more than once.
func (feed *MedicationFeed) Subscribe(userID uint) (<-chan FeedEvent, func()) {
	feed.mu.Lock()
	defer feed.mu.Unlock()

	feed.nextID++
	id := feed.nextID
	events := make(chan FeedEvent, feedSubscriberBuffer)
	if feed.subscribers[userID] == nil {
		feed.subscribers[userID] = make(map[uint64]chan FeedEvent)
	}
	feed.subscribers[userID][id] = events

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			feed.mu.Lock()
			defer feed.mu.Unlock()

			delete(feed.subscribers[userID], id)
			if len(feed.subscribers[userID]) == 0 {
				delete(feed.subscribers, userID)
			}
			close(events)
		})
	}
	return events, cancel
}

func (feed *MedicationFeed) Publish(userID uint, event FeedEvent) {
	feed.mu.Lock()
	defer feed.mu.Unlock()

	for _, events := range feed.subscribers[userID] {
		select {
		case events <- event:
		default:
		}
	}
}

func (feed *MedicationFeed) SubscriberCount(userID uint) int {
	feed.mu.Lock()
	defer feed.mu.Unlock()
	return len(feed.subscribers[userID])
}
