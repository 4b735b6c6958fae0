package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"

	"sevasetu/internal/config"
)

func TestSetupWritesToRotatingFile(t *testing.T) {
	std := logrus.StandardLogger()
	prevOut, prevLevel := std.Out, std.GetLevel()
	t.Cleanup(func() {
		logrus.SetOutput(prevOut)
		logrus.SetLevel(prevLevel)
	})

	path := filepath.Join(t.TempDir(), "app.log")
	w := Setup(&config.Config{Environment: "production", LogFile: path, LogLevel: "warn"})
	require.NotNil(t, w)

	logrus.Info("hidden")
	logrus.WithField("submission_id", 7).Warn("review failed")

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "review failed")
	assert.Contains(t, string(raw), "submission_id=7")
	assert.NotContains(t, string(raw), "hidden")
}

func TestSetupFallsBackToInfo(t *testing.T) {
	std := logrus.StandardLogger()
	prevOut, prevLevel := std.Out, std.GetLevel()
	t.Cleanup(func() {
		logrus.SetOutput(prevOut)
		logrus.SetLevel(prevLevel)
	})

	Setup(&config.Config{Environment: "production", LogFile: filepath.Join(t.TempDir(), "app.log"), LogLevel: "loud"})
	assert.Equal(t, logrus.InfoLevel, logrus.GetLevel())
	assert.NotNil(t, GormLogger())

	logrus.SetLevel(logrus.DebugLevel)
	assert.Implements(t, (*gormlogger.Interface)(nil), GormLogger())
}
