package logger

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEventLogger(t *testing.T) {
	logger := NewEventLogger(100)
	require.NotNil(t, logger)
	assert.Equal(t, 100, logger.maxSize)
	assert.NotNil(t, logger.events)
	assert.Equal(t, 0, len(logger.events))
}

func TestEventLogger_LogEvent(t *testing.T) {
	logger := NewEventLogger(100)

	data := map[string]interface{}{
		"correlation_id": "corr-1",
		"amount":         "250.00",
	}

	logger.LogEvent(EventTransferStarted, "transfer-service", "saga", data)

	assert.Len(t, logger.events, 1)
	event := logger.events[0]
	assert.Equal(t, EventTransferStarted, event.Type)
	assert.Equal(t, "transfer-service", event.Service)
	assert.Equal(t, "saga", event.Component)
	assert.Equal(t, data, event.Data)
	assert.NotEmpty(t, event.ID)
	assert.False(t, event.Timestamp.IsZero())
}

func TestEventLogger_LogEvent_MaxSize(t *testing.T) {
	logger := NewEventLogger(3)

	// Добавляем больше событий, чем maxSize
	for i := 0; i < 5; i++ {
		logger.LogEvent(EventKafkaReceived, "test-service", "test", map[string]interface{}{
			"index": i,
		})
	}

	assert.Len(t, logger.events, 3)
	// Остались последние события
	assert.Equal(t, 2, logger.events[0].Data["index"])
	assert.Equal(t, 4, logger.events[2].Data["index"])
}

func TestEventLogger_GetEvents(t *testing.T) {
	logger := NewEventLogger(100)

	for i := 0; i < 10; i++ {
		logger.LogEvent(EventKafkaReceived, "test-service", "test", map[string]interface{}{
			"index": i,
		})
	}

	events := logger.GetEvents(3)
	require.Len(t, events, 3)
	assert.Equal(t, 7, events[0].Data["index"])
	assert.Equal(t, 9, events[2].Data["index"])

	// limit <= 0 возвращает все события
	events = logger.GetEvents(0)
	assert.Len(t, events, 10)

	// limit больше количества событий
	events = logger.GetEvents(100)
	assert.Len(t, events, 10)
}

func TestEventLogger_GetStats(t *testing.T) {
	logger := NewEventLogger(100)

	logger.LogEvent(EventTransferStarted, "transfer-service", "saga", nil)
	logger.LogEvent(EventSagaCompleted, "transfer-service", "saga", nil)
	logger.LogEvent(EventWalletDebited, "wallet-service", "ledger", nil)

	stats := logger.GetStats()
	assert.Equal(t, 3, stats["total_events"])

	services := stats["services"].(map[string]int)
	assert.Equal(t, 2, services["transfer-service"])
	assert.Equal(t, 1, services["wallet-service"])

	components := stats["components"].(map[string]int)
	assert.Equal(t, 2, components["saga"])

	types := stats["event_types"].(map[string]int)
	assert.Equal(t, 1, types[string(EventSagaCompleted)])
}

func TestEvent_MarshalJSON(t *testing.T) {
	logger := NewEventLogger(10)
	logger.LogEvent(EventFraudDeclined, "fraud-service", "engine", map[string]interface{}{
		"reason": "blocked source",
	})

	raw, err := json.Marshal(logger.GetEvents(1)[0])
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, string(EventFraudDeclined), decoded["type"])
	assert.NotEmpty(t, decoded["timestamp"])
}
