package main

import (
	"context"
	"log"

	"github.com/thecodedsurveyor/ai-chat-sub003/internal/config"
	"github.com/thecodedsurveyor/ai-chat-sub003/internal/reset"
)

// Wipes all chat data. Failures are logged by reset.Run and do not change
// the exit status.
func main() {
	cfg := config.Load()

	log.Println("WARNING: clearing all users, sessions, chats and messages")
	res := reset.Run(context.Background(), reset.GormOpener(cfg.Database.DSN))
	if !res.OK() {
		log.Printf("Reset stopped after %d of %d steps", len(res.Completed), len(reset.Steps))
	}
}
