package pubsub

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrNotConnected is returned by transports asked to publish while offline
var ErrNotConnected = errors.New("pubsub: not connected")

// MessageHandler receives inbound messages for a subscription
type MessageHandler func(topic string, payload []byte)

// Transport is the publish/subscribe client the broadcaster talks to.
// Publish must not block on network I/O.
type Transport interface {
	IsConnected() bool
	Publish(topic, payload string, retain bool, qos byte) error
	Subscribe(pattern string, handler MessageHandler) error
}

// Offline is a transport that never connects; the game keeps running
// without sharing scores.
type Offline struct{}

func (Offline) IsConnected() bool { return false }

func (Offline) Publish(string, string, bool, byte) error { return ErrNotConnected }

func (Offline) Subscribe(string, MessageHandler) error { return ErrNotConnected }

// Topics builds the topic names for one player under a prefix
type Topics struct {
	Prefix string
}

// Score is "<prefix>/<player>/score"
func (t Topics) Score(player string) string {
	return fmt.Sprintf("%s/%s/score", t.Prefix, player)
}

// Game is "<prefix>/<player>/game"
func (t Topics) Game(player string) string {
	return fmt.Sprintf("%s/%s/game", t.Prefix, player)
}

// AllScores matches every player's score topic
func (t Topics) AllScores() string {
	return t.Prefix + "/+/score"
}

// ParseScore splits a score topic into its player id. It reports false for
// topics that are not "<prefix>/<player>/score".
func (t Topics) ParseScore(topic string) (string, bool) {
	parts := strings.Split(topic, "/")
	if len(parts) != 3 || parts[0] != t.Prefix || parts[2] != "score" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// NewClientID returns a unique client id for the broker
func NewClientID(prefix string) string {
	return prefix + "-" + uuid.New().String()
}
