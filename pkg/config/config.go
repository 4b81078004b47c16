package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/cbodonnell/leglesslizard/pkg/game"
	"github.com/cbodonnell/leglesslizard/pkg/log"
	"github.com/cbodonnell/leglesslizard/pkg/network"
	"github.com/joho/godotenv"
)

// EnvPrefix is prepended to every environment variable the server reads.
const EnvPrefix = "LIZARD_"

// ServerConfig is everything needed to run the server.
type ServerConfig struct {
	Port     int
	LogLevel log.LogLevel
	Game     game.Config
	// SendBufferSize is the number of outbound frames queued per connection before it is dropped
	SendBufferSize int
	WriteTimeout   time.Duration
	// Seed fixes the game's random source. Zero seeds from the clock.
	Seed int64
}

// LoadEnvFiles loads the given dotenv files into the environment, skipping any
// that do not exist. Variables already set are not overridden.
func LoadEnvFiles(files ...string) error {
	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %v", file, err)
		}
	}
	return nil
}

// Load builds a ServerConfig from defaults, then the environment, then args.
func Load(args []string) (*ServerConfig, error) {
	defaults := game.DefaultConfig()
	env := envReader{}

	fset := flag.NewFlagSet("server", flag.ContinueOnError)
	port := fset.Int("port", env.intVar("PORT", 8080), "HTTP port to listen on")
	logLevel := fset.String("log-level", env.stringVar("LOG_LEVEL", "info"), "Log level")
	tickPeriod := fset.Duration("tick-period", env.durationVar("TICK_PERIOD", defaults.TickPeriod), "Time between game ticks")
	mapSize := fset.Float64("map-size", env.floatVar("MAP_SIZE", defaults.MapSize), "Side length of the square map")
	consumableCount := fset.Int("consumables", env.intVar("CONSUMABLES", defaults.ConsumableCount), "Number of consumables kept on the map")
	cellSize := fset.Int("consumable-cell-size", env.intVar("CONSUMABLE_CELL_SIZE", defaults.ConsumableCellSize), "Broad-phase cell size for pickups")
	minPlayers := fset.Int("min-players", env.intVar("MIN_PLAYERS", defaults.MinPlayers), "Player count kept up with bots, 0 disables bots")
	minStepLength := fset.Float64("min-step-length", env.floatVar("MIN_STEP_LENGTH", defaults.MinStepLength), "Step length floor")
	pickupFloor := fset.Float64("min-step-length-after-pickup", env.floatVar("MIN_STEP_LENGTH_AFTER_PICKUP", defaults.MinStepLengthAfterPickup), "Step length floor after a pickup")
	decay := fset.Float64("step-length-decay", env.floatVar("STEP_LENGTH_DECAY", defaults.StepLengthDecay), "Per tick step length decay factor")
	fov := fset.Float64("step-fov", env.floatVar("STEP_FOV", defaults.StepFOV), "Maximum heading change per tick in radians")
	sendBuffer := fset.Int("send-buffer", env.intVar("SEND_BUFFER", network.DefaultSendBufferSize), "Outbound frames queued per connection")
	writeTimeout := fset.Duration("write-timeout", env.durationVar("WRITE_TIMEOUT", 5*time.Second), "Websocket write timeout")
	seed := fset.Int64("seed", env.int64Var("SEED", 0), "Random seed, 0 seeds from the clock")

	if err := env.err(); err != nil {
		return nil, err
	}
	if err := fset.Parse(args); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %v", err)
	}

	parsedLogLevel, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse log level: %v", err)
	}

	cfg := &ServerConfig{
		Port:     *port,
		LogLevel: parsedLogLevel,
		Game: game.Config{
			TickPeriod:               *tickPeriod,
			MapSize:                  *mapSize,
			ConsumableCount:          *consumableCount,
			ConsumableCellSize:       *cellSize,
			MinPlayers:               *minPlayers,
			MinStepLength:            *minStepLength,
			MinStepLengthAfterPickup: *pickupFloor,
			StepLengthDecay:          *decay,
			StepFOV:                  *fov,
		},
		SendBufferSize: *sendBuffer,
		WriteTimeout:   *writeTimeout,
		Seed:           *seed,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *ServerConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.SendBufferSize <= 0 {
		return fmt.Errorf("send buffer must be positive, got %d", c.SendBufferSize)
	}
	if c.WriteTimeout <= 0 {
		return fmt.Errorf("write timeout must be positive, got %v", c.WriteTimeout)
	}
	if err := c.Game.Validate(); err != nil {
		return fmt.Errorf("invalid game config: %v", err)
	}
	return nil
}

// envReader reads prefixed variables, remembering the first malformed one.
type envReader struct {
	firstErr error
}

func (r *envReader) lookup(name string) (string, bool) {
	value, ok := os.LookupEnv(EnvPrefix + name)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

func (r *envReader) fail(name string, err error) {
	if r.firstErr == nil {
		r.firstErr = fmt.Errorf("invalid %s%s: %v", EnvPrefix, name, err)
	}
}

func (r *envReader) err() error {
	return r.firstErr
}

func (r *envReader) stringVar(name string, fallback string) string {
	if value, ok := r.lookup(name); ok {
		return value
	}
	return fallback
}

func (r *envReader) intVar(name string, fallback int) int {
	value, ok := r.lookup(name)
	if !ok {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		r.fail(name, err)
		return fallback
	}
	return parsed
}

func (r *envReader) int64Var(name string, fallback int64) int64 {
	value, ok := r.lookup(name)
	if !ok {
		return fallback
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		r.fail(name, err)
		return fallback
	}
	return parsed
}

func (r *envReader) floatVar(name string, fallback float64) float64 {
	value, ok := r.lookup(name)
	if !ok {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		r.fail(name, err)
		return fallback
	}
	return parsed
}

func (r *envReader) durationVar(name string, fallback time.Duration) time.Duration {
	value, ok := r.lookup(name)
	if !ok {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		r.fail(name, err)
		return fallback
	}
	return parsed
}
