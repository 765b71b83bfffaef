package mocks

import (
	"github.com/stretchr/testify/mock"

	"wallet-transfer-system/internal/models"
)

// MockProducer является моком для kafka.Producer интерфейса
type MockProducer struct {
	mock.Mock
}

// Publish мок для Publish
func (m *MockProducer) Publish(topic string, msg *models.Message) error {
	args := m.Called(topic, msg)
	return args.Error(0)
}

// Close мок для Close
func (m *MockProducer) Close() error {
	args := m.Called()
	return args.Error(0)
}
