package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestSetupWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	log, out := Setup(Options{File: path, Level: "debug"})
	require.NotNil(t, out)
	require.Equal(t, logrus.DebugLevel, log.GetLevel())

	log.WithField("component", "test").Info("hello")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "hello")
	require.Contains(t, string(data), "component=test")
}

func TestSetupUnknownLevelFallsBackToInfo(t *testing.T) {
	log, _ := Setup(Options{Level: "chatty"})
	require.Equal(t, logrus.InfoLevel, log.GetLevel())
}
