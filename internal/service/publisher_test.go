package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/Kepler-Br/omega-momiji-telegram-frontend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProducer struct {
	mu      sync.Mutex
	records []producedRecord
	err     error
}

type producedRecord struct {
	key   string
	value []byte
}

func (p *fakeProducer) Produce(ctx context.Context, key, value []byte) error {
	if p.err != nil {
		return p.err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.records = append(p.records, producedRecord{key: string(key), value: value})
	return nil
}

func TestPublish_KeyedByChatID(t *testing.T) {
	producer := &fakeProducer{}
	publisher := NewPublisher(producer, testLogger())

	msg := &models.CanonicalMessage{
		ID:       "12",
		Author:   models.User{ID: "7", Username: "momiji"},
		Chat:     models.Chat{ID: "-100123", Title: "lobby", Type: models.ChatTypeGroup},
		Frontend: "telegram",
		Type:     models.MessageTypeMessage,
		Text:     "hi",
	}

	publisher.Publish(context.Background(), msg)

	require.Len(t, producer.records, 1)
	assert.Equal(t, "-100123", producer.records[0].key)

	var wire map[string]interface{}
	require.NoError(t, json.Unmarshal(producer.records[0].value, &wire))
	assert.Equal(t, "12", wire["id"])
	assert.Equal(t, "telegram", wire["frontend"])
	assert.Equal(t, "MESSAGE", wire["type"])
}

func TestPublish_BrokerFailureIsSwallowed(t *testing.T) {
	producer := &fakeProducer{err: errors.New("broker unreachable")}
	publisher := NewPublisher(producer, testLogger())

	msg := &models.CanonicalMessage{
		ID:   "1",
		Chat: models.Chat{ID: "5", Type: models.ChatTypePrivate},
	}

	// Must not panic and must not propagate the error.
	publisher.Publish(context.Background(), msg)
	assert.Empty(t, producer.records)
}
