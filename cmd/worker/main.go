package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/caseforge/casechat/internal/admin"
	"github.com/caseforge/casechat/internal/config"
	"github.com/caseforge/casechat/internal/db"
	"github.com/caseforge/casechat/internal/store/rabbitmq"
	"github.com/caseforge/casechat/internal/transcript"
)

type jobMsg struct {
	JobID string `json:"job_id"`
}

func workerConcurrency() int {
	v := os.Getenv("WORKER_CONCURRENCY")
	if v == "" {
		return 2
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 2
	}
	if n > 50 {
		return 50
	}
	return n
}

// noopCache keeps the worker off redis: export jobs always read the store
// directly so a job never materializes a stale view.
type noopCache struct{}

func (noopCache) GetTranscriptCache(ctx context.Context) ([]transcript.Turn, bool, error) {
	return nil, false, nil
}
func (noopCache) SetTranscriptCache(ctx context.Context, turns []transcript.Turn) error { return nil }
func (noopCache) InvalidateTranscriptCache(ctx context.Context) error                   { return nil }

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

	svc := admin.NewService(transcript.NewStore(gdb), noopCache{}, gdb, cfg.ExportDir)

	conn, err := amqp.Dial(cfg.RabbitURL)
	if err != nil {
		logrus.Fatalf("rabbit dial: %v", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logrus.Fatalf("rabbit channel: %v", err)
	}
	defer ch.Close()

	// Same declaration as the server's publisher; diverging arguments
	// would fail whichever process starts second.
	if err := rabbitmq.DeclareTopology(ch, cfg.RabbitQueue); err != nil {
		logrus.Fatalf("queue declare: %v", err)
	}

	concurrency := workerConcurrency()
	if err := ch.Qos(concurrency, 0, false); err != nil {
		logrus.Fatalf("qos: %v", err)
	}

	msgs, err := ch.Consume(cfg.RabbitQueue, "", false, false, false, false, nil)
	if err != nil {
		logrus.Fatalf("consume: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logrus.Infof("export worker started, queue=%s concurrency=%d", cfg.RabbitQueue, concurrency)

	jobs := make(chan amqp.Delivery, concurrency*2)

	var wg sync.WaitGroup
	wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go func(workerID int) {
			defer wg.Done()
			for d := range jobs {
				var m jobMsg
				if err := json.Unmarshal(d.Body, &m); err != nil || m.JobID == "" {
					logrus.Errorf("worker=%d bad message: %v", workerID, err)
					_ = d.Nack(false, false)
					continue
				}

				start := time.Now()
				if err := svc.RunExportJob(ctx, m.JobID); err != nil {
					logrus.Errorf("worker=%d job %s failed cost=%s err=%v", workerID, m.JobID, time.Since(start), err)
					_ = d.Nack(false, false)
					continue
				}

				logrus.Infof("worker=%d job %s done cost=%s", workerID, m.JobID, time.Since(start))
				if err := d.Ack(false); err != nil {
					logrus.Errorf("worker=%d ack failed job=%s err=%v", workerID, m.JobID, err)
				}
			}
		}(i)
	}

	for {
		select {
		case <-ctx.Done():
			logrus.Info("worker shutting down")
			close(jobs)
			wg.Wait()
			return

		case d, ok := <-msgs:
			if !ok {
				logrus.Warn("delivery channel closed")
				time.Sleep(1 * time.Second)
				continue
			}
			jobs <- d
		}
	}
}
