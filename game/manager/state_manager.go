package manager

// State is the level lifecycle state
type State int

const (
	ReadyToStart State = iota + 1
	Playing
	ShowScore
)

func (s State) String() string {
	switch s {
	case ReadyToStart:
		return "READY_TO_START"
	case Playing:
		return "PLAYING"
	case ShowScore:
		return "SHOW_SCORE"
	default:
		return "UNKNOWN"
	}
}

// StateManager tracks the ready/playing/score-display cycle and the
// cooldown that keeps the score on screen after a crash.
type StateManager struct {
	state     State
	countdown int
	cooldown  int
}

func NewStateManager(countdown int) *StateManager {
	return &StateManager{
		state:     ReadyToStart,
		countdown: countdown,
		cooldown:  countdown,
	}
}

func (sm *StateManager) State() State {
	return sm.state
}

func (sm *StateManager) Cooldown() int {
	return sm.cooldown
}

// Start moves a ready game into play
func (sm *StateManager) Start() {
	if sm.state == ReadyToStart {
		sm.state = Playing
	}
}

// EndRound switches to the score display and rearms the cooldown.
func (sm *StateManager) EndRound() {
	sm.cooldown = sm.countdown
	sm.state = ShowScore
}

// TickCooldown counts the score display down by one active tick and
// reports true once the cooldown has run out, at which point the caller
// must reinitialize the level.
func (sm *StateManager) TickCooldown() bool {
	if sm.state != ShowScore {
		return false
	}
	sm.cooldown--
	if sm.cooldown < 0 {
		sm.cooldown = sm.countdown
		sm.state = ReadyToStart
		return true
	}
	return false
}
