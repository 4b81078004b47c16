package game

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/cbodonnell/leglesslizard/pkg/collisions"
	"github.com/cbodonnell/leglesslizard/pkg/game/buffs"
	"github.com/cbodonnell/leglesslizard/pkg/game/constants"
	"github.com/cbodonnell/leglesslizard/pkg/game/types"
	"github.com/cbodonnell/leglesslizard/pkg/kinematic"
	"github.com/cbodonnell/leglesslizard/pkg/log"
	"github.com/cbodonnell/leglesslizard/pkg/messages"
	"github.com/cbodonnell/leglesslizard/pkg/queue"
	"github.com/cbodonnell/leglesslizard/pkg/workers"
	"github.com/google/uuid"
)

// Transport is the connection layer as seen by the game.
type Transport interface {
	// IsConnected reports whether a live connection is bound to the player.
	IsConnected(playerID string) bool
	// Publish hands a state update to every connection bound to a player. It must not block.
	Publish(update *messages.StateUpdate)
	// Disconnect closes the connection bound to the player, if any.
	Disconnect(playerID string)
}

type GameManager struct {
	// lock guards gameState and rng
	lock                 sync.Mutex
	config               Config
	gameState            *types.GameState
	transport            Transport
	clientMessageQueue   queue.Queue
	serverEventQueue     queue.Queue
	broadcastMessageChan chan<- workers.BroadcastMessage
	buffEngine           *buffs.Engine
	physics              *PhysicsEngine
	spawner              *Spawner
	rng                  *rand.Rand
	clock                func() time.Time
}

// NewGameManagerOptions contains options for creating a new GameManager.
type NewGameManagerOptions struct {
	Config               Config
	Transport            Transport
	ClientMessageQueue   queue.Queue
	ServerEventQueue     queue.Queue
	BroadcastMessageChan chan<- workers.BroadcastMessage
	// Effects defaults to the built-in buff effects
	Effects *buffs.EffectTable
	// Rand defaults to a time seeded source
	Rand *rand.Rand
	// Clock defaults to time.Now
	Clock func() time.Time
}

// NewGameManager validates the configuration and the static catalogs and
// returns a manager with an empty game.
func NewGameManager(opts NewGameManagerOptions) (*GameManager, error) {
	if err := opts.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid game config: %v", err)
	}
	if err := types.ValidateCatalogs(); err != nil {
		return nil, fmt.Errorf("invalid catalogs: %v", err)
	}
	if opts.Transport == nil {
		return nil, fmt.Errorf("transport is required")
	}
	if opts.ClientMessageQueue == nil || opts.ServerEventQueue == nil {
		return nil, fmt.Errorf("client message and server event queues are required")
	}

	effects := buffs.DefaultEffects(constants.MagnetDistance, constants.TickPeriodBoostFactor)
	if opts.Effects != nil {
		effects = *opts.Effects
	}
	buffEngine, err := buffs.NewEngine(effects)
	if err != nil {
		return nil, fmt.Errorf("failed to create buff engine: %v", err)
	}

	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	gameState := types.NewGameState(collisions.NewSquareBounds(opts.Config.MapSize), opts.Config.TickPeriod, opts.Config.ConsumableCellSize)

	return &GameManager{
		config:               opts.Config,
		gameState:            gameState,
		transport:            opts.Transport,
		clientMessageQueue:   opts.ClientMessageQueue,
		serverEventQueue:     opts.ServerEventQueue,
		broadcastMessageChan: opts.BroadcastMessageChan,
		buffEngine:           buffEngine,
		physics:              NewPhysicsEngine(opts.Config, rng),
		spawner:              NewSpawner(opts.Config.ConsumableCount, rng),
		rng:                  rng,
		clock:                clock,
	}, nil
}

// Start runs the game loop until the context is cancelled.
// The tick period is read again before every wait since buffs can change it.
func (gm *GameManager) Start(ctx context.Context) error {
	log.Info("Starting game loop with a tick period of %v", gm.TickPeriod())

	timer := time.NewTimer(gm.TickPeriod())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Game loop stopped")
			return nil
		case <-timer.C:
			update := gm.Tick()
			gm.transport.Publish(update)
			timer.Reset(gm.TickPeriod())
		}
	}
}

// TickPeriod returns the current time between ticks.
func (gm *GameManager) TickPeriod() time.Duration {
	gm.lock.Lock()
	defer gm.lock.Unlock()
	return gm.gameState.TickPeriod
}

// Tick runs one iteration of the game loop and returns the snapshot to publish.
func (gm *GameManager) Tick() *messages.StateUpdate {
	gm.lock.Lock()
	defer gm.lock.Unlock()

	state := gm.gameState
	now := gm.clock()

	gm.processServerEvents()
	gm.pruneDisconnectedPlayers()
	gm.maintainBotPopulation()
	gm.processClientUpdates()

	state.Tick++
	state.Timestamp = now.UnixMilli()

	gm.buffEngine.Run(state, types.BuffApplicationTimePreStep)
	gm.steerBots()
	gm.physics.Step(state)
	gm.spawner.Spawn(state, now)
	gm.buffEngine.Run(state, types.BuffApplicationTimePostStep)

	state.NextTickTimestamp = gm.clock().Add(state.TickPeriod).UnixMilli()

	log.Trace("Tick %d: %d players, %d consumables, %d global buffs", state.Tick, len(state.Players), len(state.Consumables), len(state.GlobalBuffs))
	return StateUpdateFromState(state)
}

// Snapshot returns the state as of the last tick.
func (gm *GameManager) Snapshot() *messages.StateUpdate {
	gm.lock.Lock()
	defer gm.lock.Unlock()
	return StateUpdateFromState(gm.gameState)
}

// Join adds a human player, or binds a name whose previous connection dropped
// back to its player. bind is called under the game lock with the player id
// before the response is returned, so the player cannot be pruned in between.
func (gm *GameManager) Join(req *messages.JoinRequest, bind func(playerID string)) *messages.JoinResponse {
	name := strings.TrimSpace(req.Name)
	if name == "" || utf8.RuneCountInString(name) > constants.PlayerNameMaxLength {
		log.Info("Rejected join with invalid name %q", req.Name)
		return &messages.JoinResponse{OK: false, Reason: ErrInvalidName.Error()}
	}

	gm.lock.Lock()
	player, rebound, err := gm.addHuman(name, req.Color)
	if err == nil {
		bind(player.ID)
	}
	gm.lock.Unlock()

	if err != nil {
		log.Info("Rejected join as %s: %v", name, err)
		return &messages.JoinResponse{OK: false, Reason: err.Error()}
	}

	if rebound {
		log.Info("Player %s rebound to %s", name, player.ID)
	} else {
		log.Info("Player %s joined as %s", name, player.ID)
		gm.broadcast(messages.MessageTypePlayerJoined, &messages.PlayerJoined{
			PlayerID: player.ID,
			Name:     player.Name,
			IsBot:    false,
		})
	}
	return &messages.JoinResponse{PlayerID: player.ID, OK: true}
}

// addHuman must be called with the lock held.
func (gm *GameManager) addHuman(name string, requestedColor *[3]int) (*types.PlayerState, bool, error) {
	if existing := gm.gameState.GetPlayerByName(name); existing != nil {
		if existing.IsBot || gm.transport.IsConnected(existing.ID) {
			return nil, false, ErrNameTaken
		}
		return existing, true, nil
	}

	id, err := uuid.NewRandomFromReader(gm.rng)
	if err != nil {
		return nil, false, fmt.Errorf("failed to generate player id: %v", err)
	}

	player := types.NewPlayerState(id.String(), name, gm.pickColor(requestedColor), gm.gameState.Bounds.RandomPoint(gm.rng), gm.config.MinStepLength, gm.config.StepFOV, false)
	gm.gameState.AddPlayer(player)
	return player, false, nil
}

// pickColor returns the requested color when nobody uses it, else a free palette
// color, else any palette color. It must be called with the lock held.
func (gm *GameManager) pickColor(requested *[3]int) types.Color {
	if requested != nil {
		color := types.Color(*requested)
		if color.Valid() && !gm.gameState.ColorInUse(color) {
			return color
		}
	}

	free := make([]types.Color, 0, len(types.ColorPalette))
	for _, color := range types.ColorPalette {
		if !gm.gameState.ColorInUse(color) {
			free = append(free, color)
		}
	}
	if len(free) > 0 {
		return free[gm.rng.Intn(len(free))]
	}
	return types.ColorPalette[gm.rng.Intn(len(types.ColorPalette))]
}

// HandleClientUpdate queues a steering update for the next tick.
func (gm *GameManager) HandleClientUpdate(update *messages.ClientUpdate) error {
	if update == nil {
		return fmt.Errorf("client update is nil")
	}
	if err := gm.clientMessageQueue.Enqueue(update); err != nil {
		return fmt.Errorf("failed to enqueue client update: %v", err)
	}
	return nil
}

// KickPlayer removes a player and closes its connection.
func (gm *GameManager) KickPlayer(playerID string) error {
	gm.lock.Lock()
	player := gm.gameState.RemovePlayer(playerID)
	gm.lock.Unlock()

	if player == nil {
		return &PlayerNotFoundError{PlayerID: playerID}
	}

	log.Info("Player %s kicked", player.Name)
	if !player.IsBot {
		gm.transport.Disconnect(playerID)
	}
	gm.broadcast(messages.MessageTypePlayerRemoved, &messages.PlayerRemoved{
		PlayerID: playerID,
		Reason:   messages.PlayerRemovedReasonKicked,
	})
	return nil
}

// processServerEvents processes all pending server events in the queue.
func (gm *GameManager) processServerEvents() {
	pendingEvents, err := gm.serverEventQueue.ReadAllMessages()
	if err != nil {
		log.Error("Failed to read server events: %v", err)
		return
	}
	for _, item := range pendingEvents {
		switch event := item.(type) {
		case *types.DisconnectPlayerEvent:
			if gm.transport.IsConnected(event.PlayerID) {
				// the name was bound to a new connection in the meantime
				continue
			}
			gm.removePlayer(event.PlayerID, messages.PlayerRemovedReasonDisconnected)
		default:
			log.Error("Unhandled server event type: %T", event)
		}
	}
}

// pruneDisconnectedPlayers removes human players without a live connection.
func (gm *GameManager) pruneDisconnectedPlayers() {
	disconnected := make([]string, 0)
	for _, p := range gm.gameState.Players {
		if !p.IsBot && !gm.transport.IsConnected(p.ID) {
			disconnected = append(disconnected, p.ID)
		}
	}
	for _, id := range disconnected {
		gm.removePlayer(id, messages.PlayerRemovedReasonDisconnected)
	}
}

func (gm *GameManager) removePlayer(playerID string, reason messages.PlayerRemovedReason) {
	player := gm.gameState.RemovePlayer(playerID)
	if player == nil {
		return
	}
	log.Info("Player %s removed: %s", player.Name, reason)
	gm.broadcast(messages.MessageTypePlayerRemoved, &messages.PlayerRemoved{
		PlayerID: playerID,
		Reason:   reason,
	})
}

// maintainBotPopulation demotes the oldest bots once humans fill the game and
// spawns bots while it is short of players.
func (gm *GameManager) maintainBotPopulation() {
	excess, shortfall := botDemand(gm.gameState, gm.config.MinPlayers)

	for _, bot := range oldestBots(gm.gameState, excess) {
		gm.removePlayer(bot.ID, messages.PlayerRemovedReasonCapacityRebalance)
	}

	for i := 0; i < shortfall; i++ {
		if err := gm.addBot(); err != nil {
			log.Error("Failed to add bot: %v", err)
			return
		}
	}
}

func (gm *GameManager) addBot() error {
	name, err := generateBotName(gm.gameState, gm.rng, constants.BotNameMaxRetries)
	if err != nil {
		return err
	}
	id, err := uuid.NewRandomFromReader(gm.rng)
	if err != nil {
		return fmt.Errorf("failed to generate bot id: %v", err)
	}

	bot := types.NewPlayerState(id.String(), name, gm.pickColor(nil), gm.gameState.Bounds.RandomPoint(gm.rng), gm.config.MinStepLength, gm.config.StepFOV, true)
	gm.gameState.AddPlayer(bot)

	log.Debug("Bot %s joined as %s", name, bot.ID)
	gm.broadcast(messages.MessageTypePlayerJoined, &messages.PlayerJoined{
		PlayerID: bot.ID,
		Name:     bot.Name,
		IsBot:    true,
	})
	return nil
}

// processClientUpdates applies the latest queued heading of every player.
func (gm *GameManager) processClientUpdates() {
	pendingMessages, err := gm.clientMessageQueue.ReadAllMessages()
	if err != nil {
		log.Error("Failed to read client messages: %v", err)
		return
	}

	latest := make(map[string]*messages.ClientUpdate)
	order := make([]string, 0, len(pendingMessages))
	for _, item := range pendingMessages {
		update, ok := item.(*messages.ClientUpdate)
		if !ok {
			log.Error("Failed to cast message to messages.ClientUpdate")
			continue
		}
		if _, seen := latest[update.PlayerID]; !seen {
			order = append(order, update.PlayerID)
		}
		latest[update.PlayerID] = update
	}

	for _, playerID := range order {
		player := gm.gameState.GetPlayer(playerID)
		if player == nil {
			log.Warn("Client update for unknown player %s", playerID)
			continue
		}
		if player.IsBot {
			log.Warn("Client update for bot %s ignored", player.Name)
			continue
		}
		player.Angle = player.ClampHeading(kinematic.NormalizeAngle(latest[playerID].Angle))
	}
}

func (gm *GameManager) steerBots() {
	for _, p := range gm.gameState.Players {
		if p.IsBot {
			p.Angle = ChooseBotAngle(gm.gameState, p)
		}
	}
}

// broadcast hands a lifecycle event to the broadcast worker without blocking.
func (gm *GameManager) broadcast(messageType messages.MessageType, message interface{}) {
	if gm.broadcastMessageChan == nil {
		return
	}
	select {
	case gm.broadcastMessageChan <- workers.BroadcastMessage{Type: messageType, Message: message}:
	default:
		log.Warn("Broadcast channel is full, dropping %s message", messageType)
	}
}
