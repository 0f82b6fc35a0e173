package static

// these variables are baked in during compilation
var (
	Version = "v0.0.0"
)

// service principal secrets, all required
const (
	EnvTenantID       = "AZURE_TENANT_ID"
	EnvClientID       = "AZURE_CLIENT_ID"
	EnvClientSecret   = "AZURE_CLIENT_SECRET"
	EnvSubscriptionID = "AZURE_SUBSCRIPTION_ID"
)

var (
	DefaultLocation      = "westus"
	DefaultResourceGroup = "azure-sample-group"
	DefaultHostingPlan   = "sample-server-farm"
	DefaultSitePrefix    = "webapp"
)

// The hosting plan SKU is fixed for the sample
const (
	HostingPlanSKUName     = "S1"
	HostingPlanSKUTier     = "Standard"
	HostingPlanSKUCapacity = int32(1)
)

const WebProviderNamespace = "Microsoft.Web"
