package broker

import (
	"encoding/json"
	"sync"

	"github.com/IBM/sarama"
	"github.com/lguibr/pongrelay/events"
)

// NewProducerConfig returns the sarama config used by every Writer: manual
// partitioning (the session manager assigns the partition explicitly),
// synchronous acks, and idempotent retries, grounded on the Kafka producer
// config in `pronitdas-poker-platform-b2b/internal/fraud/kafka_producer.go`.
func NewProducerConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.Return.Errors = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Partitioner = sarama.NewManualPartitioner
	cfg.Producer.Idempotent = true
	cfg.Net.MaxOpenRequests = 1
	return cfg
}

// Writer appends events to one session's partition across the fixed topic
// set, per spec.md §4.H/§4.I. One Writer is cached per session to amortize
// broker-connection cost; its own lock serializes the owning bridge's
// ingress task.
type Writer struct {
	mu        sync.Mutex
	producer  sarama.SyncProducer
	partition int32
	key       string // the session's partition id, decimal, per spec.md §6
}

// NewWriter binds producer to the given partition, keyed by the session's
// partition id.
func NewWriter(producer sarama.SyncProducer, partition int32, key string) *Writer {
	return &Writer{producer: producer, partition: partition, key: key}
}

// Write serializes payload and appends it to topic at the writer's bound
// partition, keyed by the session's partition id.
func (w *Writer) Write(topic events.Topic, payload any) error {
	logEvent, err := events.NewLogEvent(topic, w.key, payload)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(logEvent)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	msg := &sarama.ProducerMessage{
		Topic:     string(topic),
		Partition: w.partition,
		Key:       sarama.StringEncoder(w.key),
		Value:     sarama.ByteEncoder(raw),
	}
	_, _, err = w.producer.SendMessage(msg)
	if err != nil {
		return newTransportFailure("produce:" + string(topic), err)
	}
	return nil
}

// Close releases the underlying producer. Safe to call once the writer is
// evicted from the session manager's cache.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.producer.Close()
}
