package ginee

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/ManuelReschke/ginee-gateway/app/models"
)

// Recognized payload fields.
const (
	fieldID     = "id"
	fieldEntity = "entity"
	fieldAction = "action"
)

// DecodePayload turns a raw request body into a payload map. Bodies that are
// empty or not a JSON object yield an empty map: malformed payloads are never
// rejected. Numbers are kept as json.Number so ids survive unchanged.
func DecodePayload(body []byte) map[string]any {
	payload := map[string]any{}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return payload
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var decoded map[string]any
	if err := dec.Decode(&decoded); err != nil || decoded == nil {
		return payload
	}
	return decoded
}

// DefaultEntity returns the entity tag used when the payload has none.
func DefaultEntity(topic string) string {
	switch normalizeTopic(topic) {
	case models.GineeTopicOrders:
		return models.GineeEntityOrder
	case models.GineeTopicMasterProducts:
		return models.GineeEntityMasterProduct
	default:
		return normalizeTopic(topic)
	}
}

// maxTopicLength matches the topic column width.
const maxTopicLength = 64

func normalizeTopic(topic string) string {
	topic = strings.ToLower(strings.TrimSpace(topic))
	if len(topic) > maxTopicLength {
		topic = strings.ToValidUTF8(topic[:maxTopicLength], "")
	}
	return topic
}

// stringField returns the string form of payload[key] exactly as sent.
// Absent, null and blank values report ok=false. Objects and arrays are
// rendered as compact JSON.
func stringField(payload map[string]any, key string) (string, bool) {
	raw, exists := payload[key]
	if !exists || raw == nil {
		return "", false
	}
	var s string
	switch v := raw.(type) {
	case string:
		s = v
	case json.Number:
		s = v.String()
	case float64:
		s = strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		s = strconv.FormatBool(v)
	case int:
		s = strconv.Itoa(v)
	case int64:
		s = strconv.FormatInt(v, 10)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return "", false
		}
		s = string(b)
	}
	return s, strings.TrimSpace(s) != ""
}

// encodePayload prefers the raw body when it is a valid JSON object so the
// stored payload is byte-for-byte what the sender delivered.
func encodePayload(raw []byte, payload map[string]any) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' && json.Valid(trimmed) {
		return string(trimmed), nil
	}
	if payload == nil {
		payload = map[string]any{}
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
