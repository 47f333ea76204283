package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// SnapshotEvent is the payload published after each successful recorder
// cycle, for anything downstream (notification bots, dashboards) that wants
// to react without polling the API.
type SnapshotEvent struct {
	Date        string    `json:"date"`
	TotalHours  float64   `json:"total_hours"`
	GamesPlayed int       `json:"games_played"`
	RecordedAt  time.Time `json:"recorded_at"`
}

type Producer struct {
	Writer *kafka.Writer
	// MockMode logs events instead of writing them, for local development
	// without a broker.
	MockMode bool
}

func NewProducer(brokers []string, topic string, mockMode bool) *Producer {
	if mockMode {
		return &Producer{MockMode: true}
	}
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers: brokers,
		Topic:   topic,
	})
	return &Producer{Writer: writer}
}

// SnapshotRecorded publishes one snapshot event keyed by date, so a
// re-recorded day compacts onto the same key.
func (p *Producer) SnapshotRecorded(date string, totalHours float64, gamesPlayed int) error {
	event := SnapshotEvent{
		Date:        date,
		TotalHours:  totalHours,
		GamesPlayed: gamesPlayed,
		RecordedAt:  time.Now().UTC(),
	}
	msgBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if p.MockMode {
		fmt.Printf("Publishing to Kafka [snapshot_recorded] (mock): %s\n", string(msgBytes))
		return nil
	}

	return p.Writer.WriteMessages(context.Background(),
		kafka.Message{
			Key:   []byte(date),
			Value: msgBytes,
		},
	)
}

func (p *Producer) Close() error {
	if p.Writer != nil {
		return p.Writer.Close()
	}
	return nil
}
