package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"vendorpull/internal/config"
	"vendorpull/pkg/models"
)

func TestTargetsSubcommandsRegistered(t *testing.T) {
	assert.Equal(t, "targets", targetsCmd.Use)

	names := make(map[string]bool)
	for _, sub := range targetsCmd.Commands() {
		names[sub.Name()] = true
	}
	assert.True(t, names["list"])
	assert.True(t, names["add"])
	assert.True(t, names["remove"])
}

func TestTargetsListEmpty(t *testing.T) {
	t.Setenv("VENDORPULL_CONFIG", filepath.Join(t.TempDir(), "config.yaml"))

	b := bytes.NewBufferString("")
	targetsListCmd.SetOut(b)
	targetsListCmd.SetErr(b)

	err := runTargetsList(targetsListCmd, nil)
	require.NoError(t, err)
	assert.Contains(t, b.String(), "No targets configured")
}

func TestTargetsListShowsConfiguredTargets(t *testing.T) {
	t.Setenv("VENDORPULL_CONFIG", filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, config.Save(&models.Config{
		Targets: []models.Target{
			{
				Name:     "widgets",
				Repo:     "acme/widgets",
				Patterns: []string{"src/**/*.h"},
				Binary:   true,
			},
		},
	}))

	b := bytes.NewBufferString("")
	targetsListCmd.SetOut(b)
	targetsListCmd.SetErr(b)

	err := runTargetsList(targetsListCmd, nil)
	require.NoError(t, err)

	output := b.String()
	assert.Contains(t, output, "widgets")
	assert.Contains(t, output, "acme/widgets")
	assert.Contains(t, output, "src/**/*.h")
	assert.Contains(t, output, "binary")
}

func TestSyncUnknownTarget(t *testing.T) {
	t.Setenv("VENDORPULL_CONFIG", filepath.Join(t.TempDir(), "config.yaml"))

	err := runSync(syncCmd, []string{"nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unknown target")
}
