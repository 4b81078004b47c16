package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cbodonnell/leglesslizard/pkg/client/autopilot"
	"github.com/cbodonnell/leglesslizard/pkg/client/network"
	"github.com/cbodonnell/leglesslizard/pkg/log"
	"github.com/cbodonnell/leglesslizard/pkg/messages"
	"github.com/cbodonnell/leglesslizard/pkg/queue"
	"github.com/cbodonnell/leglesslizard/pkg/version"
)

func main() {
	serverURL := flag.String("server", "ws://localhost:8080/ws", "Game server websocket url")
	name := flag.String("name", "AUTOPILOT", "Player name")
	codec := flag.String("codec", "json", "Encoding of server messages (json, msgpack)")
	compress := flag.String("compress", "none", "Compression of server messages (none, zstd)")
	logLevel := flag.String("log-level", "info", "Log level")
	flag.Parse()

	parsedLogLevel, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}
	log.SetDefaultLogger(log.New(os.Stdout, "", log.DefaultLoggerFlag, parsedLogLevel))

	encoding, err := messages.ParseEncoding(*codec, *compress)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse encoding: %v", err))
	}

	log.Info("Starting client version %s", version.Get())
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eventQueue := queue.NewInMemoryQueue(1000)
	client := network.NewWSClient(network.NewWSClientOptions{
		ServerURL:  *serverURL,
		Encoding:   encoding,
		EventQueue: eventQueue,
	})
	if err := client.Connect(ctx); err != nil {
		panic(fmt.Sprintf("Failed to connect: %v", err))
	}
	defer client.Close()

	go func() {
		if err := client.HandleMessages(ctx); err != nil {
			log.Error("Connection lost: %v", err)
		}
		stop()
	}()

	joinCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	response, err := client.Join(joinCtx, &messages.JoinRequest{Name: *name})
	cancel()
	if err != nil {
		panic(fmt.Sprintf("Failed to join: %v", err))
	}
	log.Info("Joined as %s with player id %s", *name, response.PlayerID)

	for {
		select {
		case <-ctx.Done():
			log.Info("Client stopped")
			return
		case update := <-client.StateUpdates():
			logEvents(eventQueue)
			angle, ok := autopilot.ChooseAngle(update, response.PlayerID)
			if !ok {
				log.Warn("Player %s missing from tick %d", response.PlayerID, update.Tick)
				continue
			}
			if err := client.SendClientUpdate(&messages.ClientUpdate{
				Tick:     update.Tick,
				PlayerID: response.PlayerID,
				Angle:    angle,
			}); err != nil {
				log.Error("Failed to send client update: %v", err)
			}
		}
	}
}

func logEvents(eventQueue queue.Queue) {
	events, err := eventQueue.ReadAllMessages()
	if err != nil {
		log.Error("Failed to read events: %v", err)
		return
	}
	for _, event := range events {
		switch e := event.(type) {
		case *messages.PlayerJoined:
			log.Info("%s joined", e.Name)
		case *messages.PlayerRemoved:
			log.Info("Player %s removed: %s", e.PlayerID, e.Reason)
		}
	}
}
