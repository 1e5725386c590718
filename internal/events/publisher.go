package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"

	"github.com/aidar/wfm-roster/internal/domain"
)

// KafkaPublisher публикует события изменения сотрудников в Kafka
type KafkaPublisher struct {
	sp     sarama.SyncProducer
	topic  string
	source string
	log    zerolog.Logger
}

// Config содержит настройки публикации
type Config struct {
	Topic  string
	Source string
}

// NewKafkaPublisher создает публикатор поверх готового SyncProducer
func NewKafkaPublisher(sp sarama.SyncProducer, cfg Config, log zerolog.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		sp:     sp,
		topic:  cfg.Topic,
		source: cfg.Source,
		log:    log.With().Str("component", "KafkaPublisher").Logger(),
	}
}

// NewSyncProducer создает SyncProducer с подтверждением записи всеми репликами
func NewSyncProducer(brokers []string) (sarama.SyncProducer, error) {
	cfg := sarama.NewConfig()
	cfg.Version = sarama.V3_3_2_0
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Idempotent = true
	cfg.Net.MaxOpenRequests = 1
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Retry.Backoff = 200 * time.Millisecond

	sp, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return sp, nil
}

// Close закрывает producer
func (p *KafkaPublisher) Close() error {
	if p == nil || p.sp == nil {
		return nil
	}
	return p.sp.Close()
}

// PublishEmployeeEvents отправляет события одним пакетом, ключ сообщения равен ID сотрудника
func (p *KafkaPublisher) PublishEmployeeEvents(_ context.Context, events []domain.EmployeeEvent) error {
	if p == nil || p.sp == nil {
		return errors.New("sync producer is not initialized")
	}
	if len(events) == 0 {
		return nil
	}

	msgs := make([]*sarama.ProducerMessage, 0, len(events))
	for _, ev := range events {
		body, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("marshal event payload: %w", err)
		}
		msgs = append(msgs, &sarama.ProducerMessage{
			Topic: p.topic,
			Key:   sarama.StringEncoder(ev.EmployeeID),
			Value: sarama.ByteEncoder(body),
			Headers: []sarama.RecordHeader{
				{Key: []byte("event-kind"), Value: []byte(ev.Kind)},
				{Key: []byte("source"), Value: []byte(p.source)},
				{Key: []byte("content-type"), Value: []byte("application/json")},
			},
		})
	}

	if err := p.sp.SendMessages(msgs); err != nil {
		p.log.Error().
			Err(err).
			Str("topic", p.topic).
			Int("messages", len(msgs)).
			Msg("failed to send kafka messages")
		return fmt.Errorf("send kafka messages: %w", err)
	}

	p.log.Debug().
		Str("topic", p.topic).
		Int("messages", len(msgs)).
		Msg("kafka messages sent")
	return nil
}

// NopPublisher отбрасывает события (Kafka отключена)
type NopPublisher struct{}

// PublishEmployeeEvents ничего не делает
func (NopPublisher) PublishEmployeeEvents(context.Context, []domain.EmployeeEvent) error {
	return nil
}
