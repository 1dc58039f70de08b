package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"pico-snake/audio"
	"pico-snake/config"
	"pico-snake/game"
	"pico-snake/pubsub"
	"pico-snake/ui"

	"golang.org/x/exp/rand"
)

const (
	logDir      = "logs"
	logFileName = "pico-snake.log"
)

func init() {
	// raylib has to stay on the main OS thread
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "Path to a JSON config file")
	broker := flag.String("broker", "", "MQTT broker URL, \"off\" to play offline")
	player := flag.String("player", "", "Player id (overrides device lookup)")
	device := flag.String("device", "", "Device id used for the player lookup (default: hostname)")
	display := flag.String("display", "", "Display backend: raylib or terminal")
	scale := flag.Int("scale", 0, "Pixel scale of the emulated panel")
	sound := flag.Bool("sound", false, "Enable buzzer sounds")
	debug := flag.Bool("debug", false, "Write logs to logs/pico-snake.log")
	logFlag := flag.String("log", "", "Log file path")
	seed := flag.Uint64("seed", 0, "Food placement seed (0 = time based)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	applyFlags(cfg, *broker, *display, *scale, *sound, *debug, *logFlag)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	logPath := cfg.LogFile
	if logPath == "" && cfg.Debug {
		logPath = filepath.Join(logDir, logFileName)
	}
	logFile := setupLogging(logPath, cfg.Display.Backend != config.DisplayTerminal)
	if logFile != nil {
		defer logFile.Close()
	}
	logger := log.Default()

	name := *player
	if name == "" {
		id := *device
		if id == "" {
			id, _ = os.Hostname()
		}
		name = cfg.ResolvePlayer(id)
	}
	team := cfg.TeamOf(name)
	logger.Printf("player %s, team %s", name, team)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	screen, err := openDisplay(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize display: %v\n", err)
		os.Exit(1)
	}
	defer screen.Close()
	screen.OnQuit(cancel)

	letters := cfg.TeamColors(team).Splash
	status := []string{fmt.Sprintf("Player %s", name), fmt.Sprintf("Team %s", strings.ToUpper(team)), "Connecting..."}
	if err := ui.Splash(screen, letters, status...); err != nil {
		logger.Printf("splash: %v", err)
	}

	transport, closeTransport := connect(ctx, cfg, name, logger)
	defer closeTransport()
	if transport.IsConnected() {
		status[2] = "MQTT connected"
	} else {
		status[2] = "No MQTT conn :-("
	}

	broadcaster := pubsub.NewBroadcaster(transport, cfg.TopicPrefix, name, cfg.PlayerIDs(), logger)
	if err := broadcaster.Subscribe(); err != nil {
		logger.Printf("subscribe: %v", err)
	}

	if err := ui.Countdown(ctx, screen, 3, letters, status...); err != nil {
		return
	}

	gameCfg := game.Config{
		Grid:         cfg.Grid(),
		TileSize:     cfg.TileSize,
		Slow:         cfg.Tuning.Slow,
		Fast:         cfg.Tuning.Fast,
		ScoreCeiling: cfg.Tuning.ScoreCeiling,
		BaseRefresh:  time.Duration(cfg.Tuning.BaseRefresh),
		Countdown:    cfg.Tuning.Countdown,
		Logger:       logger,
	}
	if *seed != 0 {
		gameCfg.Rand = rand.NewSource(*seed)
	}
	if cfg.Sound {
		buzzer := audio.NewBuzzer()
		if err := buzzer.Init(); err != nil {
			logger.Printf("sound disabled: %v", err)
		} else {
			defer buzzer.Close()
			gameCfg.Sound = buzzer
		}
	}

	renderer := ui.NewRenderer(screen, cfg.TileSize, columns(cfg), broadcaster)
	g := game.NewGame(gameCfg, renderer, broadcaster)
	screen.OnKey(g.Press)

	if err := g.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Printf("game loop: %v", err)
	}
}

func applyFlags(cfg *config.Config, broker, display string, scale int, sound, debug bool, logPath string) {
	if broker != "" {
		cfg.Broker = broker
	}
	if display != "" {
		cfg.Display.Backend = display
	}
	if scale > 0 {
		cfg.Display.Scale = scale
	}
	if sound {
		cfg.Sound = true
	}
	if debug {
		cfg.Debug = true
	}
	if logPath != "" {
		cfg.LogFile = logPath
	}
}

// setupLogging sends log output to path if given, to stderr if toStderr,
// and discards it otherwise. The returned file must be closed by the caller.
func setupLogging(path string, toStderr bool) *os.File {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if path == "" {
		if toStderr {
			log.SetOutput(os.Stderr)
		} else {
			log.SetOutput(io.Discard)
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		log.SetOutput(io.Discard)
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.SetOutput(io.Discard)
		return nil
	}
	log.SetOutput(f)
	return f
}

func openDisplay(cfg *config.Config) (ui.Display, error) {
	d := cfg.Display
	if d.Backend == config.DisplayTerminal {
		return ui.NewTerminalSurface(nil, d.Width, d.Height, d.Scale)
	}
	return ui.NewRaylibSurface("PiCo Snake", d.Width, d.Height, d.Scale), nil
}

// connect returns the transport to use and its cleanup. A failed first
// connection is not fatal: the client keeps retrying while the game runs.
func connect(ctx context.Context, cfg *config.Config, player string, logger *log.Logger) (pubsub.Transport, func()) {
	if cfg.Broker == "" || cfg.Broker == "off" {
		return pubsub.Offline{}, func() {}
	}

	mqttCfg := pubsub.DefaultMQTTConfig(cfg.Broker)
	mqttCfg.ClientID = cfg.ClientID
	if mqttCfg.ClientID == "" {
		mqttCfg.ClientID = pubsub.NewClientID("pico-snake")
	}
	topics := pubsub.Topics{Prefix: cfg.TopicPrefix}
	mqttCfg.WillTopic = topics.Score(player)
	mqttCfg.WillPayload = "0"

	transport := pubsub.NewMQTTTransport(mqttCfg, logger)
	connectCtx, cancel := context.WithTimeout(ctx, mqttCfg.ConnectTimeout)
	defer cancel()
	if err := transport.Connect(connectCtx); err != nil {
		logger.Printf("MQTT connection failed: %v", err)
	}
	return transport, transport.Close
}

func columns(cfg *config.Config) []ui.PlayerColumn {
	cols := make([]ui.PlayerColumn, len(cfg.Players))
	for i, p := range cfg.Players {
		cols[i] = ui.PlayerColumn{
			ID:    p.ID,
			Team:  p.Team,
			Color: cfg.TeamColors(p.Team).Score,
		}
	}
	return cols
}

