package lib

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	testTenantID       = "72f988bf-86f1-41af-91ab-2d7cd011db47"
	testClientID       = "11111111-2222-3333-4444-555555555555"
	testSubscriptionID = "00000000-0000-0000-0000-000000000001"
)

func mapLookup(env map[string]string) LookupEnvFunc {
	return func(key string) (string, bool) {
		value, ok := env[key]
		return value, ok
	}
}

func completeEnv() map[string]string {
	return map[string]string{
		"AZURE_TENANT_ID":       testTenantID,
		"AZURE_CLIENT_ID":       testClientID,
		"AZURE_CLIENT_SECRET":   "s3cr3t",
		"AZURE_SUBSCRIPTION_ID": testSubscriptionID,
	}
}

func TestLoadServicePrincipal(t *testing.T) {
	sp, err := LoadServicePrincipal(mapLookup(completeEnv()))
	require.NoError(t, err)
	require.Equal(t, ServicePrincipal{
		TenantID:       testTenantID,
		ClientID:       testClientID,
		ClientSecret:   "s3cr3t",
		SubscriptionID: testSubscriptionID,
	}, *sp)
}

func TestLoadServicePrincipal_Missing(t *testing.T) {
	testCases := []struct {
		missing string
	}{
		{missing: "AZURE_TENANT_ID"},
		{missing: "AZURE_CLIENT_ID"},
		{missing: "AZURE_CLIENT_SECRET"},
		{missing: "AZURE_SUBSCRIPTION_ID"},
	}

	for _, tc := range testCases {
		t.Run(tc.missing, func(t *testing.T) {
			env := completeEnv()
			delete(env, tc.missing)

			_, err := LoadServicePrincipal(mapLookup(env))
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.missing)
		})
	}
}

func TestLoadServicePrincipal_EmptyCountsAsMissing(t *testing.T) {
	env := completeEnv()
	env["AZURE_CLIENT_SECRET"] = ""

	_, err := LoadServicePrincipal(mapLookup(env))
	require.Error(t, err)
	require.Contains(t, err.Error(), "AZURE_CLIENT_SECRET")
}

func TestLoadServicePrincipal_InvalidUUID(t *testing.T) {
	env := completeEnv()
	env["AZURE_SUBSCRIPTION_ID"] = "not-a-subscription"

	_, err := LoadServicePrincipal(mapLookup(env))
	require.Error(t, err)
	require.Contains(t, err.Error(), "AZURE_SUBSCRIPTION_ID")
}

func TestLoadServicePrincipal_TenantDomain(t *testing.T) {
	env := completeEnv()
	env["AZURE_TENANT_ID"] = "contoso.onmicrosoft.com"

	sp, err := LoadServicePrincipal(mapLookup(env))
	require.NoError(t, err)
	require.Equal(t, "contoso.onmicrosoft.com", sp.TenantID)
}

func TestLoadServicePrincipal_EnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"AZURE_CLIENT_SECRET=from-file\n"+
			"AZURE_SUBSCRIPTION_ID="+testSubscriptionID+"\n"+
			"AZURE_TENANT_ID=file-tenant.onmicrosoft.com\n",
	), 0600))

	env := completeEnv()
	delete(env, "AZURE_CLIENT_SECRET")
	delete(env, "AZURE_SUBSCRIPTION_ID")

	sp, err := LoadServicePrincipal(mapLookup(env), envFile)
	require.NoError(t, err)
	require.Equal(t, "from-file", sp.ClientSecret)
	require.Equal(t, testSubscriptionID, sp.SubscriptionID)
	// the process environment takes precedence
	require.Equal(t, testTenantID, sp.TenantID)
}

func TestLoadServicePrincipal_MissingEnvFile(t *testing.T) {
	_, err := LoadServicePrincipal(mapLookup(completeEnv()), filepath.Join(t.TempDir(), "nope.env"))
	require.Error(t, err)
}

func TestNewCredential_Static(t *testing.T) {
	sp, err := LoadServicePrincipal(mapLookup(completeEnv()))
	require.NoError(t, err)

	cred, err := sp.NewCredential(true)
	require.NoError(t, err)
	require.IsType(t, StaticTokenCredential{}, cred)
}
