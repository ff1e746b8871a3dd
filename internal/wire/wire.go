// Package wire defines the payload shapes exchanged between two portal
// peers over the message bus, and the topic names they travel on.
// Wire format: JSON for text and image envelopes; ASCII art is plain text
// with a one-line provenance header. Image bytes ride inside the JSON
// envelope as standard base64 so the payload stays text-safe.
package wire

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed marks a payload that could not be decoded. Callers log the
// message and drop it; a bad payload never terminates the dispatch loop.
var ErrMalformed = errors.New("malformed payload")

// Presence payload values. Anything else on a presence topic is ignored.
const (
	PresenceOnline  = "online"
	PresenceOffline = "offline"
)

// UnknownSender is substituted when a payload omits its "from" field.
const UnknownSender = "Unknown"

// ── Topic derivation ─────────────────────────────────────────────────────────
// Topics are rooted at the *receiving* party's identity: a sender publishes
// to topics carrying the recipient's name, and a session subscribes to the
// topics carrying its own.

// MessagesTopic returns the text message topic for the named recipient.
func MessagesTopic(name string) string { return "messages/" + name }

// ASCIITopic returns the ASCII art topic for the named recipient.
func ASCIITopic(name string) string { return "ascii/" + name }

// ImagesTopic returns the image envelope topic for the named recipient.
func ImagesTopic(name string) string { return "images/" + name }

// PresenceTopic returns the presence topic for the named participant.
func PresenceTopic(name string) string { return "presence/" + name }

// TextMessage is the wire type for a chat message.
type TextMessage struct {
	From string `json:"from"`
	Text string `json:"text"`
	Time string `json:"time,omitempty"`
}

// ImageMessage is the wire type for an image envelope. Data is the base64
// encoding of the raw (already compressed, e.g. JPEG) image bytes.
type ImageMessage struct {
	From     string `json:"from"`
	Filename string `json:"filename"`
	Time     string `json:"timestamp,omitempty"`
	Data     string `json:"data"`
}

// EncodeText packs a text message payload.
func EncodeText(from, text, time string) ([]byte, error) {
	return json.Marshal(TextMessage{From: from, Text: text, Time: time})
}

// DecodeText parses a text message payload. A payload that is not a JSON
// object yields ErrMalformed. A missing sender decodes as UnknownSender.
func DecodeText(payload []byte) (TextMessage, error) {
	var msg TextMessage
	if err := strictUnmarshal(payload, &msg); err != nil {
		return TextMessage{}, fmt.Errorf("text message: %w: %v", ErrMalformed, err)
	}
	if msg.From == "" {
		msg.From = UnknownSender
	}
	return msg, nil
}

// EncodeImage packs an image envelope around raw image bytes.
func EncodeImage(from, filename, time string, raw []byte) ([]byte, error) {
	return json.Marshal(ImageMessage{
		From:     from,
		Filename: filename,
		Time:     time,
		Data:     base64.StdEncoding.EncodeToString(raw),
	})
}

// DecodeImage parses an image envelope and recovers the raw image bytes.
// Bad JSON and bad base64 both yield ErrMalformed; the base64 decode is
// exact, so decode(encode(b)) == b for every byte buffer b.
func DecodeImage(payload []byte) (ImageMessage, []byte, error) {
	var msg ImageMessage
	if err := strictUnmarshal(payload, &msg); err != nil {
		return ImageMessage{}, nil, fmt.Errorf("image envelope: %w: %v", ErrMalformed, err)
	}
	raw, err := base64.StdEncoding.DecodeString(msg.Data)
	if err != nil {
		return ImageMessage{}, nil, fmt.Errorf("image data: %w: %v", ErrMalformed, err)
	}
	if msg.From == "" {
		msg.From = UnknownSender
	}
	if msg.Filename == "" {
		msg.Filename = "image.jpg"
	}
	return msg, raw, nil
}

// FormatASCII builds the ASCII art payload: a provenance header line
// followed by the newline-terminated grid rows. The payload has no
// structured decode; receivers treat it as opaque display text.
func FormatASCII(sender, time string, rows []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[ascii image from %s @ %s]\n", sender, time)
	for _, row := range rows {
		b.WriteString(row)
		b.WriteByte('\n')
	}
	return b.String()
}

// strictUnmarshal rejects payloads whose top level is not a JSON object,
// which plain json.Unmarshal would accept for e.g. "null".
func strictUnmarshal(payload []byte, v any) error {
	trimmed := strings.TrimSpace(string(payload))
	if !strings.HasPrefix(trimmed, "{") {
		return errors.New("not a JSON object")
	}
	return json.Unmarshal(payload, v)
}
