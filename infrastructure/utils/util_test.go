package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetCurrentTime_IsUTC(t *testing.T) {
	assert.Equal(t, time.UTC, GetCurrentTime().Location())
	assert.WithinDuration(t, time.Now(), GetCurrentTime(), time.Second)
}
