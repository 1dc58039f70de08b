package pubsub

import (
	"errors"
	"log"
	"strconv"
	"strings"
	"sync"
)

const (
	retained      = true
	qosAtMostOnce = byte(0)
)

// Broadcaster shares the local score and game snapshot with the other
// players and keeps a score table of everyone on the roster. Publishing is
// best effort: while the transport is offline updates are dropped.
type Broadcaster struct {
	transport Transport
	topics    Topics
	self      string
	logger    *log.Logger

	mu     sync.RWMutex
	scores map[string]int
}

// NewBroadcaster creates a broadcaster for player self. The score table
// holds exactly the given players; self is added if missing.
func NewBroadcaster(transport Transport, prefix, self string, players []string, logger *log.Logger) *Broadcaster {
	if logger == nil {
		logger = log.Default()
	}
	scores := make(map[string]int, len(players)+1)
	for _, p := range players {
		scores[p] = 0
	}
	scores[self] = 0

	return &Broadcaster{
		transport: transport,
		topics:    Topics{Prefix: prefix},
		self:      self,
		logger:    logger,
		scores:    scores,
	}
}

// Self returns the local player id
func (b *Broadcaster) Self() string {
	return b.self
}

// Score returns the last known score of player
func (b *Broadcaster) Score(player string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.scores[player]
}

// Scores returns a copy of the score table
func (b *Broadcaster) Scores() map[string]int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[string]int, len(b.scores))
	for k, v := range b.scores {
		out[k] = v
	}
	return out
}

// ReportScore records the local score and publishes it retained.
func (b *Broadcaster) ReportScore(score int) {
	b.mu.Lock()
	b.scores[b.self] = score
	b.mu.Unlock()

	b.publish(b.topics.Score(b.self), strconv.Itoa(score))
}

// ReportGameState publishes a game snapshot retained.
func (b *Broadcaster) ReportGameState(state string) {
	b.publish(b.topics.Game(b.self), state)
}

func (b *Broadcaster) publish(topic, payload string) {
	// drop instead of queueing while offline to bound memory
	if !b.transport.IsConnected() {
		return
	}
	if err := b.transport.Publish(topic, payload, retained, qosAtMostOnce); err != nil {
		b.logger.Printf("pubsub: publish %s: %v", topic, err)
	}
}

// Subscribe listens for the other players' scores. Being offline is not an
// error; transports that reconnect pick the subscription up later.
func (b *Broadcaster) Subscribe() error {
	err := b.transport.Subscribe(b.topics.AllScores(), b.HandleScore)
	if errors.Is(err, ErrNotConnected) {
		return nil
	}
	return err
}

// HandleScore updates the table from an inbound score message. Messages
// about the local player, unknown players or with a malformed payload are
// discarded and leave the table unchanged.
func (b *Broadcaster) HandleScore(topic string, payload []byte) {
	player, ok := b.topics.ParseScore(topic)
	if !ok || player == b.self {
		return
	}

	score, err := strconv.Atoi(strings.TrimSpace(string(payload)))
	if err != nil {
		b.logger.Printf("pubsub: failed to decode score on %s: %q", topic, payload)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, known := b.scores[player]; !known {
		return
	}
	b.scores[player] = score
}
