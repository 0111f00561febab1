package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
)

var errBoom = errors.New("boom")
var errMiss = errors.New("miss")

func TestNew_OpensAfterThreshold(t *testing.T) {
	cb := New[int](Settings{Name: "test", FailureThreshold: 3, Timeout: time.Minute})

	for i := 0; i < 3; i++ {
		_, err := cb.Execute(func() (int, error) { return 0, errBoom })
		assert.ErrorIs(t, err, errBoom)
	}

	_, err := cb.Execute(func() (int, error) { return 1, nil })
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.True(t, IsRejected(err))
	assert.Equal(t, gobreaker.StateOpen, cb.State())
}

func TestNew_IsSuccessfulKeepsBreakerClosed(t *testing.T) {
	cb := New[int](Settings{
		Name:             "test",
		FailureThreshold: 2,
		Timeout:          time.Minute,
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errMiss)
		},
	})

	for i := 0; i < 5; i++ {
		_, err := cb.Execute(func() (int, error) { return 0, errMiss })
		assert.ErrorIs(t, err, errMiss)
	}

	assert.Equal(t, gobreaker.StateClosed, cb.State())
	assert.False(t, IsRejected(errMiss))
}
