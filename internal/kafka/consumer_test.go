package kafka

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallet-transfer-system/internal/models"
)

// stubSession реализует sarama.ConsumerGroupSession и запоминает
// помеченные сообщения
type stubSession struct {
	ctx    context.Context
	marked []*sarama.ConsumerMessage
}

func (s *stubSession) Claims() map[string][]int32                              { return nil }
func (s *stubSession) MemberID() string                                        { return "test-member" }
func (s *stubSession) GenerationID() int32                                     { return 1 }
func (s *stubSession) MarkOffset(topic string, p int32, o int64, meta string)  {}
func (s *stubSession) Commit()                                                 {}
func (s *stubSession) ResetOffset(topic string, p int32, o int64, meta string) {}
func (s *stubSession) Context() context.Context                                { return s.ctx }

func (s *stubSession) MarkMessage(msg *sarama.ConsumerMessage, _ string) {
	s.marked = append(s.marked, msg)
}

// stubClaim отдает сообщения из канала; закрытие канала завершает claim
type stubClaim struct {
	messages chan *sarama.ConsumerMessage
}

func (c *stubClaim) Topic() string                            { return "wallet.transfer.events" }
func (c *stubClaim) Partition() int32                         { return 0 }
func (c *stubClaim) InitialOffset() int64                     { return 0 }
func (c *stubClaim) HighWaterMarkOffset() int64               { return 0 }
func (c *stubClaim) Messages() <-chan *sarama.ConsumerMessage { return c.messages }

func consumerMessage(t *testing.T) *sarama.ConsumerMessage {
	t.Helper()
	msg, err := models.NewMessage(models.MsgWalletDebited, "corr-1", &models.WalletDebited{CorrelationID: "corr-1"})
	require.NoError(t, err)
	value, err := json.Marshal(msg)
	require.NoError(t, err)
	return &sarama.ConsumerMessage{Topic: "wallet.transfer.events", Value: value}
}

func TestConsumeClaim_SuccessMarksMessage(t *testing.T) {
	session := &stubSession{ctx: context.Background()}
	claim := &stubClaim{messages: make(chan *sarama.ConsumerMessage, 1)}
	claim.messages <- consumerMessage(t)
	close(claim.messages)

	var handled []string
	h := &consumerGroupHandler{handler: func(ctx context.Context, msg *models.Message) error {
		handled = append(handled, msg.CorrelationID)
		return nil
	}}

	require.NoError(t, h.ConsumeClaim(session, claim))
	assert.Equal(t, []string{"corr-1"}, handled)
	assert.Len(t, session.marked, 1)
}

func TestConsumeClaim_HandlerErrorLeavesMessageUnmarked(t *testing.T) {
	session := &stubSession{ctx: context.Background()}
	claim := &stubClaim{messages: make(chan *sarama.ConsumerMessage, 1)}
	claim.messages <- consumerMessage(t)

	h := &consumerGroupHandler{handler: func(ctx context.Context, msg *models.Message) error {
		return assert.AnError
	}}

	// Инфраструктурный сбой обработчика завершает сессию с ошибкой;
	// оффсет не помечен, сообщение будет доставлено повторно
	err := h.ConsumeClaim(session, claim)
	require.Error(t, err)
	assert.Empty(t, session.marked)
}

func TestConsumeClaim_MalformedMessageSkipped(t *testing.T) {
	session := &stubSession{ctx: context.Background()}
	claim := &stubClaim{messages: make(chan *sarama.ConsumerMessage, 1)}
	claim.messages <- &sarama.ConsumerMessage{Topic: "wallet.transfer.events", Value: []byte("not json")}
	close(claim.messages)

	called := false
	h := &consumerGroupHandler{handler: func(ctx context.Context, msg *models.Message) error {
		called = true
		return nil
	}}

	// Нечитаемое сообщение помечается и пропускается, не блокируя партицию
	require.NoError(t, h.ConsumeClaim(session, claim))
	assert.False(t, called)
	assert.Len(t, session.marked, 1)
}
