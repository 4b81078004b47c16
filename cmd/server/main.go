package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cbodonnell/leglesslizard/pkg/api"
	"github.com/cbodonnell/leglesslizard/pkg/config"
	"github.com/cbodonnell/leglesslizard/pkg/game"
	"github.com/cbodonnell/leglesslizard/pkg/log"
	"github.com/cbodonnell/leglesslizard/pkg/network"
	"github.com/cbodonnell/leglesslizard/pkg/queue"
	"github.com/cbodonnell/leglesslizard/pkg/version"
	"github.com/cbodonnell/leglesslizard/pkg/workers"
)

func main() {
	if err := config.LoadEnvFiles(".env"); err != nil {
		panic(fmt.Sprintf("Failed to load env files: %v", err))
	}
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	logger := log.New(os.Stdout, "", log.DefaultLoggerFlag, cfg.LogLevel)
	log.SetDefaultLogger(logger)
	log.Info("Log level set to %s", cfg.LogLevel)

	log.Info("Starting game server version %s", version.Get())
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	log.Debug("Using random seed %d", seed)

	clientMessageQueue := queue.NewInMemoryQueue(10000)
	serverEventQueue := queue.NewInMemoryQueue(1000)

	clientManager := network.NewClientManager(network.NewClientManagerOptions{
		SendBufferSize: cfg.SendBufferSize,
		Rand:           rand.New(rand.NewSource(seed + 1)),
	})
	networkManager := network.NewNetworkManager(network.NewNetworkManagerOptions{
		ClientManager: clientManager,
		WriteTimeout:  cfg.WriteTimeout,
	})

	broadcastMessageChan := make(chan workers.BroadcastMessage, workers.BroadcastChannelSize)

	gameManager, err := game.NewGameManager(game.NewGameManagerOptions{
		Config:               cfg.Game,
		Transport:            networkManager,
		ClientMessageQueue:   clientMessageQueue,
		ServerEventQueue:     serverEventQueue,
		BroadcastMessageChan: broadcastMessageChan,
		Rand:                 rand.New(rand.NewSource(seed)),
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to create game manager: %v", err))
	}
	networkManager.SetControlHandler(gameManager)

	connectionEventWorker := workers.NewConnectionEventWorker(workers.NewConnectionEventWorkerOptions{
		ConnectionEventChan: clientManager.GetConnectionEventChan(),
		ServerEventQueue:    serverEventQueue,
	})
	go connectionEventWorker.Start(ctx)

	broadcastMessageWorker := workers.NewBroadcastMessageWorker(workers.NewBroadcastMessageWorkerOptions{
		Broadcaster:          networkManager,
		BroadcastMessageChan: broadcastMessageChan,
	})
	go broadcastMessageWorker.Start(ctx)

	apiServer := api.NewAPIServer(api.NewAPIServerOptions{
		Port:      cfg.Port,
		Game:      gameManager,
		WSHandler: networkManager.WSHandler(ctx),
	})
	go apiServer.Start()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := apiServer.Stop(shutdownCtx); err != nil {
			log.Error("Failed to stop API server: %v", err)
		}
	}()

	log.Info("Starting game manager")
	if err := gameManager.Start(ctx); err != nil {
		panic(fmt.Sprintf("Failed to start game manager: %v", err))
	}
}
