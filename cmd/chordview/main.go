package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sukalov/chordview/internal/bot"
	"github.com/sukalov/chordview/internal/bot/viewer"
	"github.com/sukalov/chordview/internal/db"
	"github.com/sukalov/chordview/internal/logger"
	"github.com/sukalov/chordview/internal/lyrics"
	"github.com/sukalov/chordview/internal/redis"
	"github.com/sukalov/chordview/internal/state"
	"github.com/sukalov/chordview/internal/utils"
)

func main() {
	env, err := utils.LoadEnv([]string{"BOT_TOKEN"})
	if err != nil {
		log.Fatal("required env missing")
	}

	db.MustInit()
	defer db.Close()

	rdb := redis.NewDBManager()
	defer rdb.Close()

	sessions := state.NewManager(rdb)
	if err := sessions.Init(context.Background()); err != nil {
		log.Printf("could not restore sessions: %v", err)
	}

	songs := lyrics.NewService(rdb)

	viewerBot, err := bot.New("chordview", env["BOT_TOKEN"])
	if err != nil {
		log.Fatalf("failed to start bot: %v", err)
	}

	if err := logger.Init(viewerBot); err != nil {
		log.Printf("log channel unavailable, staying on stderr: %v", err)
	}

	viewer.SetupHandlers(viewerBot, sessions, songs)
	logger.Info("chordview is up")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	viewerBot.Stop()
	logger.Info("chordview is shutting down")
}
