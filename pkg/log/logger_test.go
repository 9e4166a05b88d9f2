package log

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetSink(&buf)
	t.Cleanup(func() {
		ResetModuleLevels()
		SetLevel(Notice)
		SetSink(os.Stderr)
	})
	return &buf
}

func TestLevelFiltering(t *testing.T) {
	buf := capture(t)
	SetLevel(Warning)

	logger := New("logtest")
	logger.Info("hidden message")
	logger.Warningf("visible %d", 42)

	out := buf.String()
	assert.NotContains(t, out, "hidden message")
	assert.Contains(t, out, "visible 42")
	assert.Contains(t, out, "[logtest]")
}

func TestSetSinkKeepsLevels(t *testing.T) {
	SetLevel(Error)
	SetModuleLevel("chatty", Debug)
	buf := capture(t)

	New("logtest").Warning("dropped")
	New("chatty").Debug("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}

func TestModuleLevelOverride(t *testing.T) {
	buf := capture(t)
	SetLevel(Notice)
	SetModuleLevel("quiet", Error)

	New("quiet").Warning("suppressed")
	New("loud").Warning("shown")
	assert.Equal(t, Error, GetLevel("quiet"))
	assert.Equal(t, Notice, GetLevel("loud"))

	ResetModuleLevels()
	New("quiet").Warning("back")

	out := buf.String()
	assert.NotContains(t, out, "suppressed")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "back")
}

func TestParseModuleLevels(t *testing.T) {
	capture(t)

	require.NoError(t, ParseModuleLevels([]string{"info", "uithread=debug", " canvas = WARN "}))
	assert.Equal(t, Info, GetLevel("animator"))
	assert.Equal(t, Debug, GetLevel("uithread"))
	assert.Equal(t, Warning, GetLevel("canvas"))

	assert.Error(t, ParseModuleLevels([]string{"animator=loud"}))
}

func TestParseLevel(t *testing.T) {
	for name, want := range map[string]Level{"debug": Debug, "Info": Info, "notice": Notice, "warn": Warning, "ERROR": Error} {
		got, err := ParseLevel(name)
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}
	_, err := ParseLevel("verbose")
	assert.Error(t, err)
	assert.Equal(t, "warning", Warning.String())
}
