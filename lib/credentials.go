package lib

import (
	"context"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/friendsofgo/errors"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/joho/godotenv"
	"github.com/schoolyear/webapp-cli/static"
)

// ServicePrincipal holds the secrets used to authenticate against Azure.
// The json tags are only used to name the fields in validation errors.
type ServicePrincipal struct {
	TenantID       string `json:"AZURE_TENANT_ID"`
	ClientID       string `json:"AZURE_CLIENT_ID"`
	ClientSecret   string `json:"AZURE_CLIENT_SECRET"`
	SubscriptionID string `json:"AZURE_SUBSCRIPTION_ID"`
}

func (s ServicePrincipal) Validate() error {
	return validation.ValidateStruct(&s,
		// tenant may also be a domain, like contoso.onmicrosoft.com
		validation.Field(&s.TenantID, validation.Required),
		validation.Field(&s.ClientID, validation.Required, is.UUID),
		validation.Field(&s.ClientSecret, validation.Required),
		validation.Field(&s.SubscriptionID, validation.Required, is.UUID),
	)
}

// LookupEnvFunc has the signature of os.LookupEnv
type LookupEnvFunc func(key string) (string, bool)

// LoadServicePrincipal reads the service principal secrets from the environment.
// Values missing from the environment are looked up in the env files, in order.
// Returns a validation error when any of the secrets is missing.
func LoadServicePrincipal(lookupEnv LookupEnvFunc, envFiles ...string) (*ServicePrincipal, error) {
	fileEnv := map[string]string{}
	if len(envFiles) > 0 {
		var err error
		// godotenv.Read without arguments would fall back to ./.env
		fileEnv, err = godotenv.Read(envFiles...)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read env files")
		}
	}

	lookup := func(key string) string {
		if value, ok := lookupEnv(key); ok && value != "" {
			return value
		}
		return fileEnv[key]
	}

	sp := &ServicePrincipal{
		TenantID:       lookup(static.EnvTenantID),
		ClientID:       lookup(static.EnvClientID),
		ClientSecret:   lookup(static.EnvClientSecret),
		SubscriptionID: lookup(static.EnvSubscriptionID),
	}

	if err := sp.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid service principal environment")
	}

	return sp, nil
}

// NewCredential builds the token credential for the service principal.
// When useStaticToken is set, a fixed token is returned instead, which is what local ARM simulators accept.
func (s ServicePrincipal) NewCredential(useStaticToken bool) (azcore.TokenCredential, error) {
	if useStaticToken {
		return StaticTokenCredential{}, nil
	}

	cred, err := azidentity.NewClientSecretCredential(s.TenantID, s.ClientID, s.ClientSecret, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create client secret credential")
	}

	return cred, nil
}

type StaticTokenCredential struct{}

func (StaticTokenCredential) GetToken(_ context.Context, _ policy.TokenRequestOptions) (azcore.AccessToken, error) {
	return azcore.AccessToken{Token: "static-token", ExpiresOn: time.Now().Add(time.Hour)}, nil
}
