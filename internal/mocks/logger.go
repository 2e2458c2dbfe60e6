// Package mocks provides testify mocks for the ports interfaces.
package mocks

import (
	"github.com/stretchr/testify/mock"
	"weatherproxy.app/internal/ports"
)

// Logger is a mock type for the ports.Logger interface.
// Fields are passed to Called as a single slice argument.
type Logger struct {
	mock.Mock
}

func (m *Logger) Debug(msg string, fields ...ports.Field) {
	m.Called(msg, fields)
}

func (m *Logger) Info(msg string, fields ...ports.Field) {
	m.Called(msg, fields)
}

func (m *Logger) Warn(msg string, fields ...ports.Field) {
	m.Called(msg, fields)
}

func (m *Logger) Error(msg string, fields ...ports.Field) {
	m.Called(msg, fields)
}

// AllowAll accepts any log call at any level
func (m *Logger) AllowAll() *Logger {
	for _, level := range []string{"Debug", "Info", "Warn", "Error"} {
		m.On(level, mock.Anything, mock.Anything).Maybe()
	}
	return m
}

// NewLogger creates a new instance of Logger. It also registers a testing interface on the mock
// and a cleanup function to assert the mocks expectations.
func NewLogger(t interface {
	mock.TestingT
	Cleanup(func())
}) *Logger {
	m := &Logger{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
