package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
	"github.com/schoolyear/webapp-cli/schema"
	"github.com/schoolyear/webapp-cli/static"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigNewCommand(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config")

	out := &bytes.Buffer{}
	err := newTestApp(out, ConfigNewCommand).Run([]string{"webapp-cli", "new", "--output", target})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "created new config folder at")

	props, err := schema.LoadWebappProperties(filepath.Join(target, "webapp.json5"))
	require.NoError(t, err)
	assert.Equal(t, static.DefaultLocation, props.Location)
	assert.Equal(t, static.DefaultResourceGroup, props.ResourceGroup)
	assert.Equal(t, static.DefaultHostingPlan, props.HostingPlan)
	assert.Empty(t, props.Site)

	env, err := godotenv.Read(filepath.Join(target, ".env.example"))
	require.NoError(t, err)
	for _, key := range []string{static.EnvTenantID, static.EnvClientID, static.EnvClientSecret, static.EnvSubscriptionID} {
		assert.Contains(t, env, key)
	}
}

func TestConfigNewCommand_ExistingDirectory(t *testing.T) {
	target := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(target, "keep.txt"), []byte("keep"), 0600))

	out := &bytes.Buffer{}
	err := newTestApp(out, ConfigNewCommand).Run([]string{"webapp-cli", "new", "--output", target})
	require.Error(t, err)

	_, err = os.Stat(filepath.Join(target, "webapp.json5"))
	assert.True(t, os.IsNotExist(err))
}
