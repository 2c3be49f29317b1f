package idgen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnowflakeGeneratorUnique(t *testing.T) {
	g, err := NewSnowflakeGenerator(Config{StartTime: "2024-01-01", MachineID: 1})
	require.NoError(t, err)

	seen := make(map[int64]struct{})
	for range 1000 {
		id := g.Generate()
		_, dup := seen[id]
		require.False(t, dup)
		seen[id] = struct{}{}
	}
	assert.NotEmpty(t, g.GenerateString())
}

func TestSnowflakeGeneratorErrors(t *testing.T) {
	_, err := NewSnowflakeGenerator(Config{StartTime: "01/01/2024"})
	assert.True(t, errors.Is(err, ErrParseTime))

	_, err = NewSnowflakeGenerator(Config{MachineID: 4096})
	assert.True(t, errors.Is(err, ErrCreateNode))
}
