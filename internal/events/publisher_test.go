package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidar/wfm-roster/internal/domain"
)

func TestKafkaPublisher_PublishEmployeeEvents(t *testing.T) {
	cfg := mocks.NewTestConfig()
	cfg.Producer.Return.Successes = true
	sp := mocks.NewSyncProducer(t, cfg)
	defer sp.Close()

	ev := domain.EmployeeEvent{
		EventID:    "ev-1",
		Kind:       domain.EventBulkEdited,
		EmployeeID: "emp-1",
		Status:     domain.StatusVacation,
		TeamID:     "t1",
		Tags:       []string{"VIP"},
		ChangedBy:  "manager",
		OccurredAt: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
	}

	sp.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		assert.Equal(t, "roster.employees", msg.Topic)

		key, err := msg.Key.Encode()
		require.NoError(t, err)
		assert.Equal(t, "emp-1", string(key))

		headers := map[string]string{}
		for _, h := range msg.Headers {
			headers[string(h.Key)] = string(h.Value)
		}
		assert.Equal(t, "bulk_edited", headers["event-kind"])
		assert.Equal(t, "wfm-roster", headers["source"])
		assert.Equal(t, "application/json", headers["content-type"])

		body, err := msg.Value.Encode()
		require.NoError(t, err)
		var decoded domain.EmployeeEvent
		require.NoError(t, json.Unmarshal(body, &decoded))
		assert.Equal(t, ev, decoded)
		return nil
	})

	p := NewKafkaPublisher(sp, Config{Topic: "roster.employees", Source: "wfm-roster"}, zerolog.Nop())
	require.NoError(t, p.PublishEmployeeEvents(context.Background(), []domain.EmployeeEvent{ev}))
}

func TestKafkaPublisher_SendFailure(t *testing.T) {
	sp := mocks.NewSyncProducer(t, nil)
	defer sp.Close()

	boom := errors.New("broker down")
	sp.ExpectSendMessageAndFail(boom)

	p := NewKafkaPublisher(sp, Config{Topic: "roster.employees"}, zerolog.Nop())
	err := p.PublishEmployeeEvents(context.Background(), []domain.EmployeeEvent{{EmployeeID: "emp-1", Kind: domain.EventSaved}})
	assert.Error(t, err)
}

func TestKafkaPublisher_EmptyBatch(t *testing.T) {
	sp := mocks.NewSyncProducer(t, nil)
	defer sp.Close()

	p := NewKafkaPublisher(sp, Config{Topic: "roster.employees"}, zerolog.Nop())
	assert.NoError(t, p.PublishEmployeeEvents(context.Background(), nil))
}

func TestNopPublisher(t *testing.T) {
	assert.NoError(t, NopPublisher{}.PublishEmployeeEvents(context.Background(), []domain.EmployeeEvent{{EmployeeID: "x"}}))
}
