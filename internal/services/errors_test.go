package services

import (
	"errors"
	"testing"

	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
)

func TestStoreError(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core)

	err := storeError(log, "create time log", sqlite3.Error{Code: sqlite3.ErrBusy})
	assert.ErrorIs(t, err, ErrRetryableConflict)

	err = storeError(log, "create user", gorm.ErrDuplicatedKey)
	assert.ErrorIs(t, err, ErrDuplicate)

	cause := errors.New("disk full")
	err = storeError(log, "create task", cause)
	assert.ErrorIs(t, err, cause)
	assert.EqualError(t, err, "failed to create task: disk full")

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
		assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
		assert.Equal(t, "create task", entries[1].ContextMap()["op"])
	}
}
