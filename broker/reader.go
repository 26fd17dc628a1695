package broker

import (
	"encoding/json"

	"github.com/IBM/sarama"
	"github.com/lguibr/pongrelay/events"
)

// NewConsumerConfig returns the sarama config used by every Reader, starting
// each partition consumer at the oldest retained offset — a session's
// partition is never shared with another session, so "oldest" is exactly
// "since this session was created".
func NewConsumerConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.Consumer.Return.Errors = true
	return cfg
}

// Reader polls one session's partition across a topic filter and returns
// whatever new events have accumulated since the last read, per spec.md
// §4.H/§4.I. A new Reader is opened for every session.Manager.Split call
// (one per bridge connection); readers are not cached.
type Reader struct {
	partitionID int32
	consumers   map[events.Topic]sarama.PartitionConsumer
}

// NewReader opens a PartitionConsumer on partition for every topic in
// filter. Topics outside filter are never consumed, enforcing the
// role-based read restriction at the source.
func NewReader(consumer sarama.Consumer, partition int32, filter []events.Topic) (*Reader, error) {
	r := &Reader{
		partitionID: partition,
		consumers:   make(map[events.Topic]sarama.PartitionConsumer, len(filter)),
	}
	for _, topic := range filter {
		pc, err := consumer.ConsumePartition(string(topic), partition, sarama.OffsetOldest)
		if err != nil {
			r.Close()
			return nil, newTransportFailure("consume:" + string(topic), err)
		}
		r.consumers[topic] = pc
	}
	return r, nil
}

// Read drains every currently-available message across the bound topics
// without blocking, decodes each into a LogEvent, and returns the batch in
// no particular cross-topic order (spec.md §5: "across partitions, no
// ordering is guaranteed" — and each topic here is consumed independently).
func (r *Reader) Read() ([]events.LogEvent, error) {
	var batch []events.LogEvent

	for topic, pc := range r.consumers {
	drain:
		for {
			select {
			case msg, ok := <-pc.Messages():
				if !ok {
					break drain
				}
				var logEvent events.LogEvent
				if err := json.Unmarshal(msg.Value, &logEvent); err != nil {
					continue
				}
				logEvent.Topic = topic
				batch = append(batch, logEvent)
			case err, ok := <-pc.Errors():
				if ok {
					return batch, newTransportFailure("consume:" + string(topic), err)
				}
			default:
				break drain
			}
		}
	}

	return batch, nil
}

// Close releases every underlying partition consumer.
func (r *Reader) Close() error {
	var firstErr error
	for _, pc := range r.consumers {
		if err := pc.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
