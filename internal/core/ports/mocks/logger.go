package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	ports "github.com/olusolaa/oracle-plus/internal/core/ports"
)

type Logger struct {
	mock.Mock
}

func (m *Logger) Debugf(ctx context.Context, format string, args ...any) {
	m.Called(ctx, format, args)
}

func (m *Logger) Infof(ctx context.Context, format string, args ...any) {
	m.Called(ctx, format, args)
}

func (m *Logger) Warnf(ctx context.Context, format string, args ...any) {
	m.Called(ctx, format, args)
}

func (m *Logger) Errorf(ctx context.Context, err error, format string, args ...any) {
	m.Called(ctx, err, format, args)
}

func (m *Logger) WithFields(fields map[string]any) ports.Logger {
	args := m.Called(fields)
	if args.Get(0) == nil {
		return m
	}
	return args.Get(0).(ports.Logger)
}

// NewLogger returns a logger mock that accepts every call.
func NewLogger(t interface {
	mock.TestingT
	Cleanup(func())
}) *Logger {
	m := &Logger{}
	m.Test(t)
	m.On("Debugf", mock.Anything, mock.Anything, mock.Anything).Maybe()
	m.On("Infof", mock.Anything, mock.Anything, mock.Anything).Maybe()
	m.On("Warnf", mock.Anything, mock.Anything, mock.Anything).Maybe()
	m.On("Errorf", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Maybe()
	m.On("WithFields", mock.Anything).Return(nil).Maybe()
	return m
}
