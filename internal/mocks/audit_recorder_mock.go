package mocks

import (
	"github.com/surafel-47/blog-mmcy/internal/models"

	"github.com/stretchr/testify/mock"
)

type AuditRecorder struct{ mock.Mock }

func (m *AuditRecorder) Record(action models.AuditAction, userID uint, description string) {
	m.Called(action, userID, description)
}
