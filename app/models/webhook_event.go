package models

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// Ginee webhook topics. Any other topic string is accepted and stored as-is.
const (
	GineeTopicOrders         = "orders"
	GineeTopicMasterProducts = "master_products"
)

// Default entity tags used when the payload does not carry an "entity" field.
const (
	GineeEntityOrder         = "order"
	GineeEntityMasterProduct = "master_product"
)

// WebhookEvent is an append-only record of an accepted Ginee webhook. EventID
// is the idempotency key and is unique across all topics. Ids, entities and
// actions come from the sender and have no length limit, so uniqueness is
// enforced on EventKey, the SHA-256 of the exact EventID bytes.
type WebhookEvent struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	EventID    string    `gorm:"type:text;not null" json:"event_id"`
	EventKey   string    `gorm:"type:char(64);not null;uniqueIndex:ux_webhook_events_event_key" json:"-"`
	Topic      string    `gorm:"type:varchar(64);not null;index" json:"topic"`
	Entity     string    `gorm:"type:text;not null" json:"entity"`
	Action     *string   `gorm:"type:text;default:null" json:"action"`
	Payload    string    `gorm:"type:longtext;not null" json:"-"`
	ReceivedAt time.Time `gorm:"autoCreateTime;index" json:"received_at"`
}

func (WebhookEvent) TableName() string {
	return "webhook_events"
}

// EventKeyFor returns the unique-index key of eventID. The comparison is
// byte-exact: case, padding and whitespace all matter.
func EventKeyFor(eventID string) string {
	sum := sha256.Sum256([]byte(eventID))
	return hex.EncodeToString(sum[:])
}

func (e *WebhookEvent) BeforeCreate(tx *gorm.DB) error {
	e.EventKey = EventKeyFor(e.EventID)
	return nil
}

// PayloadMap decodes the stored payload back into its original structure.
func (e *WebhookEvent) PayloadMap() (map[string]any, error) {
	out := map[string]any{}
	if e == nil || e.Payload == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(e.Payload), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MarshalJSON exposes the payload as structured JSON rather than a quoted string.
func (e WebhookEvent) MarshalJSON() ([]byte, error) {
	type alias WebhookEvent
	payload := json.RawMessage(e.Payload)
	if !json.Valid(payload) {
		payload = json.RawMessage("null")
	}
	return json.Marshal(struct {
		alias
		Payload json.RawMessage `json:"payload"`
	}{alias: alias(e), Payload: payload})
}
