package game

import (
	"sync/atomic"

	"pico-snake/game/types"
)

// InputLatch holds at most one pending key press. Button handlers may write
// it from any goroutine; a newer press overwrites one that was not consumed
// yet. Only the tick loop reads and clears it.
type InputLatch struct {
	key atomic.Int32
}

// Press latches k, replacing any unconsumed press
func (l *InputLatch) Press(k types.Key) {
	l.key.Store(int32(k))
}

// Peek returns the pending key without consuming it
func (l *InputLatch) Peek() types.Key {
	return types.Key(l.key.Load())
}

// Take returns the pending key and clears the latch
func (l *InputLatch) Take() types.Key {
	return types.Key(l.key.Swap(int32(types.KeyNone)))
}

// Clear drops any pending key
func (l *InputLatch) Clear() {
	l.key.Store(int32(types.KeyNone))
}
