package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("KUMIAI_ERROR_MODE", "panic")
	t.Setenv("KUMIAI_LOG_LEVEL", "info")
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--no-color"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

// go test -run ^TestDemoCommand$ ./internal/cli -count 1
func TestDemoCommand(t *testing.T) {
	out, err := execute(t, "demo", "-n", "2")
	require.NoError(t, err)
	assert.Equal(t, 3, bytes.Count([]byte(out), []byte("entity created")))
	assert.Equal(t, 2, bytes.Count([]byte(out), []byte("health added")))
	assert.Equal(t, 2, bytes.Count([]byte(out), []byte("attacker=Player")))
	assert.Equal(t, 3, bytes.Count([]byte(out), []byte("entity destroyed")))
	assert.Contains(t, out, "player tagged")
	assert.Contains(t, out, "name=Player")
	assert.Contains(t, out, "remaining=0")
}

// go test -run ^TestBenchCommand$ ./internal/cli -count 1
func TestBenchCommand(t *testing.T) {
	out, err := execute(t, "bench", "-n", "30", "-r", "2", "--grouped")
	require.NoError(t, err)
	assert.Equal(t, 2, bytes.Count([]byte(out), []byte("moved=20")))
	assert.Contains(t, out, "bench finished")

	_, err = execute(t, "bench", "--profile", "heap")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid profile mode")

	_, err = execute(t, "bench", "-n", "0")
	require.Error(t, err)
}

// go test -run ^TestBenchRound$ ./internal/cli -count 1
func TestBenchRound(t *testing.T) {
	for _, grouped := range []bool{false, true} {
		res := benchRound(&BenchOptions{Entities: 9, Grouped: grouped}, nil)
		assert.Equal(t, 6, res.Moved)
	}
}
