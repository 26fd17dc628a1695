// Command pongrelay boots the session service: it wires configuration, the
// broker admin client and sarama-backed log driver, the session manager,
// and the HTTP/websocket server, then runs until CTRL+C, per spec.md §5.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/IBM/sarama"
	"golang.org/x/sync/errgroup"

	"github.com/lguibr/pongrelay/broker"
	"github.com/lguibr/pongrelay/config"
	"github.com/lguibr/pongrelay/events"
	"github.com/lguibr/pongrelay/server"
	"github.com/lguibr/pongrelay/session"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := run(log); err != nil {
		log.Error("exiting", "error", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	brokers := strings.Split(cfg.BrokerHost, ",")

	producer, err := sarama.NewSyncProducer(brokers, broker.NewProducerConfig())
	if err != nil {
		return fmt.Errorf("connect producer: %w", err)
	}
	defer producer.Close()

	consumer, err := sarama.NewConsumer(brokers, broker.NewConsumerConfig())
	if err != nil {
		return fmt.Errorf("connect consumer: %w", err)
	}
	defer consumer.Close()

	partitions := broker.NewPartitionManagerClient(cfg.BrokerAdminHost, nil)
	if err := partitions.Health(); err != nil {
		return fmt.Errorf("broker admin proxy unreachable: %w", err)
	}
	for _, topic := range events.Topics {
		if err := partitions.CreateTopic(string(topic)); err != nil {
			return fmt.Errorf("create topic %s: %w", topic, err)
		}
	}

	newWriter := func(partition int, key string) (session.Writer, error) {
		sessionProducer, err := sarama.NewSyncProducer(brokers, broker.NewProducerConfig())
		if err != nil {
			return nil, fmt.Errorf("connect session producer: %w", err)
		}
		return broker.NewWriter(sessionProducer, int32(partition), key), nil
	}
	newReader := func(partition int, filter []events.Topic) (session.Reader, error) {
		return broker.NewReader(consumer, int32(partition), filter)
	}
	mgr := session.NewManager(partitions, newWriter, newReader, log)

	addr := fmt.Sprintf("%s:%d", cfg.HTTPAddr, cfg.HTTPPort)
	srv := server.NewServer(addr, mgr, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		log.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		<-egCtx.Done()
		log.Info("shutting down")
		return srv.Shutdown(context.Background())
	})

	return eg.Wait()
}
