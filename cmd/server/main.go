package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/caseforge/casechat/internal/admin"
	"github.com/caseforge/casechat/internal/config"
	"github.com/caseforge/casechat/internal/db"
	"github.com/caseforge/casechat/internal/httpapi"
	"github.com/caseforge/casechat/internal/store/rabbitmq"
	"github.com/caseforge/casechat/internal/store/redisstore"
	"github.com/caseforge/casechat/internal/transcript"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Warnf("no .env file loaded: %v", err)
	}

	cfg := config.Load()

	gdb, err := db.Connect(cfg.DBDSN)
	if err != nil {
		logrus.Fatalf("db connect: %v", err)
	}
	if err := gdb.AutoMigrate(&transcript.Turn{}, &admin.ExportJob{}); err != nil {
		logrus.Fatalf("automigrate: %v", err)
	}

	cache := redisstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err := cache.Ping(context.Background()); err != nil {
		logrus.Fatalf("redis ping: %v", err)
	}

	rabbit, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitQueue)
	if err != nil {
		logrus.Fatalf("rabbit connect: %v", err)
	}
	defer rabbit.Close()

	router := httpapi.NewRouter(gdb, cfg, cache, rabbit)

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{Addr: addr, Handler: router}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logrus.Infof("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	logrus.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("shutdown: %v", err)
	}
}
