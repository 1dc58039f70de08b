package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"pico-snake/game/types"
)

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("invalid config")

const (
	DisplayRaylib   = "raylib"
	DisplayTerminal = "terminal"

	unknownTeam = "orange"
)

// Player is one roster entry
type Player struct {
	ID   string `json:"id"`
	Team string `json:"team"`
}

// Team colors: Score is used on the scoreboard, Splash for the title letters
type Team struct {
	Score  types.Color `json:"score"`
	Splash types.Color `json:"splash"`
}

// Duration decodes from a JSON string such as "10ms"
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

type Tuning struct {
	Slow         int      `json:"slow"`
	Fast         int      `json:"fast"`
	ScoreCeiling int      `json:"score_ceiling"`
	BaseRefresh  Duration `json:"base_refresh"`
	Countdown    int      `json:"countdown"`
}

type Display struct {
	Backend string `json:"backend"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Scale   int    `json:"scale"`
}

type Config struct {
	Devices map[string]string `json:"devices"`
	Players []Player          `json:"players"`
	Teams   map[string]Team   `json:"teams"`

	Broker      string `json:"broker"`
	TopicPrefix string `json:"topic_prefix"`
	ClientID    string `json:"client_id"`

	GridWidth  int     `json:"grid_width"`
	GridHeight int     `json:"grid_height"`
	TileSize   int     `json:"tile_size"`
	Tuning     Tuning  `json:"tuning"`
	Display    Display `json:"display"`

	Sound   bool   `json:"sound"`
	LogFile string `json:"log_file"`
	Debug   bool   `json:"debug"`
}

// Default returns the six-player, two-team setup on a 240x135 panel
func Default() *Config {
	return &Config{
		Devices: map[string]string{},
		Players: []Player{
			{ID: "A", Team: "blue"},
			{ID: "B", Team: "blue"},
			{ID: "C", Team: "blue"},
			{ID: "D", Team: "red"},
			{ID: "E", Team: "red"},
			{ID: "F", Team: "red"},
		},
		Teams: map[string]Team{
			"blue":      {Score: 0xf800, Splash: 0xf712},
			"red":       {Score: 0x07e0, Splash: 0x27e1},
			unknownTeam: {Score: 0x2417, Splash: 0x2417},
		},
		Broker:      "tcp://192.168.3.1:1883",
		TopicPrefix: "pico-snake-mqtt",
		GridWidth:   20,
		GridHeight:  10,
		TileSize:    12,
		Tuning: Tuning{
			Slow:         12,
			Fast:         2,
			ScoreCeiling: 50,
			BaseRefresh:  Duration(10 * time.Millisecond),
			Countdown:    20,
		},
		Display: Display{
			Backend: DisplayRaylib,
			Width:   240,
			Height:  135,
			Scale:   4,
		},
	}
}

// Load reads a JSON file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the game loop cannot run with
func (c *Config) Validate() error {
	switch {
	case len(c.Players) == 0:
		return fmt.Errorf("%w: empty roster", ErrInvalid)
	case c.GridWidth <= 0 || c.GridHeight <= 0:
		return fmt.Errorf("%w: grid %dx%d", ErrInvalid, c.GridWidth, c.GridHeight)
	case c.TileSize <= 0:
		return fmt.Errorf("%w: tile size %d", ErrInvalid, c.TileSize)
	case c.Tuning.Slow <= 0 || c.Tuning.Fast <= 0:
		return fmt.Errorf("%w: frame skip %d..%d", ErrInvalid, c.Tuning.Slow, c.Tuning.Fast)
	case c.Tuning.ScoreCeiling <= 0:
		return fmt.Errorf("%w: score ceiling %d", ErrInvalid, c.Tuning.ScoreCeiling)
	case c.Tuning.BaseRefresh <= 0:
		return fmt.Errorf("%w: base refresh %s", ErrInvalid, time.Duration(c.Tuning.BaseRefresh))
	case c.Tuning.Countdown < 0:
		return fmt.Errorf("%w: countdown %d", ErrInvalid, c.Tuning.Countdown)
	case c.Display.Backend != DisplayRaylib && c.Display.Backend != DisplayTerminal:
		return fmt.Errorf("%w: display %q", ErrInvalid, c.Display.Backend)
	}
	return nil
}

// ResolvePlayer maps a device id to its player name. Unknown devices are
// named after the last four characters of their id.
func (c *Config) ResolvePlayer(deviceID string) string {
	if name, ok := c.Devices[deviceID]; ok {
		return name
	}
	if len(deviceID) > 4 {
		return deviceID[len(deviceID)-4:]
	}
	return deviceID
}

// TeamOf returns the roster team of player, or "orange" if it is not listed
func (c *Config) TeamOf(player string) string {
	for _, p := range c.Players {
		if p.ID == player {
			return p.Team
		}
	}
	return unknownTeam
}

// TeamColors returns the colors of team, falling back to the unknown team
func (c *Config) TeamColors(team string) Team {
	if t, ok := c.Teams[team]; ok {
		return t
	}
	return c.Teams[unknownTeam]
}

// PlayerIDs lists the roster in order
func (c *Config) PlayerIDs() []string {
	ids := make([]string, len(c.Players))
	for i, p := range c.Players {
		ids[i] = p.ID
	}
	return ids
}

// Grid returns the playing field size
func (c *Config) Grid() types.Grid {
	return types.Grid{Width: c.GridWidth, Height: c.GridHeight}
}
