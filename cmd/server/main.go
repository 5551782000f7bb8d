// cmd/server/main.go
package main

import (
	"log"
	"net/http"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/lobbyd/lobbyd/internal/config"
	"github.com/lobbyd/lobbyd/internal/coord"
	"github.com/lobbyd/lobbyd/internal/handlers"
	"github.com/lobbyd/lobbyd/internal/journal"
	"github.com/lobbyd/lobbyd/internal/lobby"
)

func main() {
	cfg := config.Load()

	logger := logrus.New()
	logger.SetLevel(cfg.LogLevel)

	var jnl *journal.Journal
	if cfg.RedisAddr != "" {
		j, err := journal.Connect(logger, cfg.RedisAddr, cfg.JournalQueue)
		if err != nil {
			logger.Warnf("journal disabled: %v", err)
		} else {
			jnl = j
			defer jnl.Close()
		}
	}

	groups := lobby.NewGroupRegistry(logger, cfg.MaxGroupSize)
	conns := coord.NewConnectionRegistry()
	engine := coord.NewEngine(logger, groups, conns, jnl)

	handler := handlers.NewRouter(logger, engine)

	logger.Infof("lobby server running on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
