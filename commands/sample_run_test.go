package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/schoolyear/webapp-cli/lib/lib_webapp/fakearm"
	"github.com/schoolyear/webapp-cli/schema"
	"github.com/schoolyear/webapp-cli/static"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func Test_parseTags(t *testing.T) {
	testCases := []struct {
		input []string
		valid bool
		tags  map[string]string
	}{
		{
			input: nil,
			valid: true,
			tags:  nil,
		},
		{
			input: []string{"purpose=sample"},
			valid: true,
			tags: map[string]string{
				"purpose": "sample",
			},
		},
		{
			input: []string{"purpose=sample", "owner=ops"},
			valid: true,
			tags: map[string]string{
				"purpose": "sample",
				"owner":   "ops",
			},
		},
		{
			input: []string{"query=a=b"},
			valid: true,
			tags: map[string]string{
				"query": "a=b",
			},
		},
		{
			input: []string{"empty="},
			valid: true,
			tags: map[string]string{
				"empty": "",
			},
		},
		{
			input: []string{"purpose=sample", "purpose=demo"},
			valid: true,
			tags: map[string]string{
				"purpose": "demo",
			},
		},
		{
			input: []string{"purpose"},
			valid: false,
		},
		{
			input: []string{"=sample"},
			valid: false,
		},
		{
			input: []string{"purpose=sample", ""},
			valid: false,
		},
	}

	for _, tc := range testCases {
		tags, err := parseTags(tc.input)
		if tc.valid {
			require.NoError(t, err, tc.input)
			require.Equal(t, tc.tags, tags, tc.input)
		} else {
			require.ErrorIs(t, err, errMalformedTags, tc.input)
		}
	}
}

func Test_resolveParams(t *testing.T) {
	props := &schema.WebappProperties{
		Location:         "eastus",
		ResourceGroup:    "group-from-config",
		HostingPlan:      "plan-from-config",
		Site:             "site-from-config",
		Tags:             map[string]string{"purpose": "config", "owner": "ops"},
		RegisterProvider: true,
	}

	t.Run("defaults", func(t *testing.T) {
		params, err := resolveParams(runFlags{}, nil)
		require.NoError(t, err)

		assert.Equal(t, static.DefaultLocation, params.Location)
		assert.Equal(t, static.DefaultResourceGroup, params.ResourceGroup)
		assert.Equal(t, static.DefaultHostingPlan, params.HostingPlan)
		assert.Regexp(t, `^webapp-[0-9a-f]{8}$`, params.Site)
		assert.Empty(t, params.Tags)
		assert.False(t, params.RegisterProvider)
	})

	t.Run("random site names differ", func(t *testing.T) {
		first, err := resolveParams(runFlags{}, nil)
		require.NoError(t, err)
		second, err := resolveParams(runFlags{}, nil)
		require.NoError(t, err)

		assert.NotEqual(t, first.Site, second.Site)
	})

	t.Run("config over defaults", func(t *testing.T) {
		params, err := resolveParams(runFlags{}, props)
		require.NoError(t, err)

		assert.Equal(t, "eastus", params.Location)
		assert.Equal(t, "group-from-config", params.ResourceGroup)
		assert.Equal(t, "plan-from-config", params.HostingPlan)
		assert.Equal(t, "site-from-config", params.Site)
		assert.Equal(t, map[string]string{"purpose": "config", "owner": "ops"}, params.Tags)
		assert.True(t, params.RegisterProvider)
	})

	t.Run("flags over config", func(t *testing.T) {
		params, err := resolveParams(runFlags{
			Location:      "northeurope",
			ResourceGroup: "group-from-flag",
			Site:          "site-from-flag",
			Tags:          map[string]string{"purpose": "flag"},
		}, props)
		require.NoError(t, err)

		assert.Equal(t, "northeurope", params.Location)
		assert.Equal(t, "group-from-flag", params.ResourceGroup)
		assert.Equal(t, "plan-from-config", params.HostingPlan)
		assert.Equal(t, "site-from-flag", params.Site)
		assert.Equal(t, map[string]string{"purpose": "flag", "owner": "ops"}, params.Tags)
	})

	t.Run("invalid flag value", func(t *testing.T) {
		_, err := resolveParams(runFlags{Site: "not_a_valid_site"}, nil)
		require.Error(t, err)
	})
}

const testSubscriptionID = "00000000-0000-0000-0000-000000000001"

func setServicePrincipalEnv(t *testing.T) {
	t.Setenv(static.EnvTenantID, "00000000-0000-0000-0000-0000000000aa")
	t.Setenv(static.EnvClientID, "00000000-0000-0000-0000-0000000000bb")
	t.Setenv(static.EnvClientSecret, "secret")
	t.Setenv(static.EnvSubscriptionID, testSubscriptionID)
}

func newTestApp(out *bytes.Buffer, commands ...*cli.Command) *cli.App {
	return &cli.App{
		Name:      "webapp-cli",
		Writer:    out,
		ErrWriter: out,
		Commands:  commands,
	}
}

func TestSampleRunCommand(t *testing.T) {
	srv := fakearm.NewServer()
	t.Cleanup(srv.Close)
	setServicePrincipalEnv(t)

	out := &bytes.Buffer{}
	app := newTestApp(out, SampleRunCommand)

	err := app.Run([]string{
		"webapp-cli", "run",
		"--arm-endpoint", srv.URL,
		"--yes", "--no-progress",
		"--resource-group", "cli-group",
		"--site", "cli-site",
		"--tag", "purpose=test",
	})
	require.NoError(t, err)

	require.Equal(t, []string{
		fakearm.CallPutGroup,
		fakearm.CallPutPlan,
		fakearm.CallPutSite,
		fakearm.CallListSites,
		fakearm.CallGetSite,
		fakearm.CallDeleteSite,
		fakearm.CallDeleteGroup,
	}, srv.Calls())

	assert.Contains(t, out.String(), "Working in Subscription: ")
	assert.Contains(t, out.String(), testSubscriptionID)
	assert.Contains(t, out.String(), "http://cli-site.azurewebsites.net/")
	assert.Contains(t, out.String(), "{purpose: test}")
	assert.False(t, srv.GroupExists("cli-group"))
}

func TestSampleRunCommand_ConfigFile(t *testing.T) {
	srv := fakearm.NewServer()
	t.Cleanup(srv.Close)
	setServicePrincipalEnv(t)

	configPath := filepath.Join(t.TempDir(), "webapp.json5")
	require.NoError(t, os.WriteFile(configPath, []byte(`{
  // picked up by the run command
  "hostingPlan": "plan-from-config",
  "site": "site-from-config",
  "registerProvider": true,
}`), 0600))

	out := &bytes.Buffer{}
	app := newTestApp(out, SampleRunCommand)

	err := app.Run([]string{
		"webapp-cli", "run",
		"--arm-endpoint", srv.URL,
		"--yes", "--no-progress",
		"--config", configPath,
	})
	require.NoError(t, err)

	require.Equal(t, fakearm.CallRegisterProvider, srv.Calls()[0])
	_, ok := srv.Plan("plan-from-config")
	assert.True(t, ok)
	assert.Contains(t, out.String(), "http://site-from-config.azurewebsites.net/")
}

func TestSampleRunCommand_MissingEnvSendsNoRequests(t *testing.T) {
	srv := fakearm.NewServer()
	t.Cleanup(srv.Close)
	setServicePrincipalEnv(t)
	t.Setenv(static.EnvClientSecret, "")

	out := &bytes.Buffer{}
	app := newTestApp(out, SampleRunCommand)

	err := app.Run([]string{
		"webapp-cli", "run",
		"--arm-endpoint", srv.URL,
		"--yes", "--no-progress",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), static.EnvClientSecret)
	assert.Empty(t, srv.Calls())
}

func TestSampleRunCommand_InvalidConfigSendsNoRequests(t *testing.T) {
	srv := fakearm.NewServer()
	t.Cleanup(srv.Close)
	setServicePrincipalEnv(t)

	configPath := filepath.Join(t.TempDir(), "webapp.json")
	require.NoError(t, os.WriteFile(configPath, []byte(`{"unknown": true}`), 0600))

	out := &bytes.Buffer{}
	app := newTestApp(out, SampleRunCommand)

	err := app.Run([]string{
		"webapp-cli", "run",
		"--arm-endpoint", srv.URL,
		"--yes", "--no-progress",
		"--config", configPath,
	})
	require.Error(t, err)
	assert.Empty(t, srv.Calls())
}

func TestSampleRunCommand_FailedSiteLeavesResources(t *testing.T) {
	srv := fakearm.NewServer()
	t.Cleanup(srv.Close)
	srv.FailCalls[fakearm.CallPutSite] = true
	setServicePrincipalEnv(t)

	out := &bytes.Buffer{}
	app := newTestApp(out, SampleRunCommand)

	err := app.Run([]string{
		"webapp-cli", "run",
		"--arm-endpoint", srv.URL,
		"--yes", "--no-progress",
		"--resource-group", "left-behind",
	})
	require.Error(t, err)
	assert.NotContains(t, srv.Calls(), fakearm.CallDeleteSite)
	assert.NotContains(t, srv.Calls(), fakearm.CallDeleteGroup)
	assert.True(t, srv.GroupExists("left-behind"))
}
