package timegrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelsCoverFullDay(t *testing.T) {
	ls := Labels()
	require.Len(t, ls, 144)
	assert.Equal(t, "00:00", ls[0])
	assert.Equal(t, "00:10", ls[1])
	assert.Equal(t, "08:00", ls[48])
	assert.Equal(t, "23:50", ls[143])
}

func TestLabelsDeterministic(t *testing.T) {
	assert.Equal(t, Labels(), Labels())
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("00:00"))
	assert.True(t, Valid("23:50"))
	assert.False(t, Valid("23:55"))
	assert.False(t, Valid("24:00"))
	assert.False(t, Valid("8:00"))
	assert.False(t, Valid(""))
}

func TestEndOf(t *testing.T) {
	assert.Equal(t, "08:10", EndOf("08:00"))
	assert.Equal(t, "09:00", EndOf("08:50"))
	assert.Equal(t, "24:00", EndOf("23:50"))
	assert.Equal(t, "", EndOf("08:05"))
}
