package lib_webapp

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/appservice/armappservice/v4"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
	"github.com/friendsofgo/errors"
)

type ResourceGroupsClient interface {
	CreateOrUpdate(ctx context.Context, resourceGroupName string, parameters armresources.ResourceGroup,
		options *armresources.ResourceGroupsClientCreateOrUpdateOptions) (
		armresources.ResourceGroupsClientCreateOrUpdateResponse, error)
	BeginDelete(ctx context.Context, resourceGroupName string,
		options *armresources.ResourceGroupsClientBeginDeleteOptions) (
		*runtime.Poller[armresources.ResourceGroupsClientDeleteResponse], error)
}

type ProvidersClient interface {
	Register(ctx context.Context, resourceProviderNamespace string,
		options *armresources.ProvidersClientRegisterOptions) (
		armresources.ProvidersClientRegisterResponse, error)
}

type PlansClient interface {
	BeginCreateOrUpdate(ctx context.Context, resourceGroupName string, name string, appServicePlan armappservice.Plan,
		options *armappservice.PlansClientBeginCreateOrUpdateOptions) (
		*runtime.Poller[armappservice.PlansClientCreateOrUpdateResponse], error)
}

type WebAppsClient interface {
	BeginCreateOrUpdate(ctx context.Context, resourceGroupName string, name string, siteEnvelope armappservice.Site,
		options *armappservice.WebAppsClientBeginCreateOrUpdateOptions) (
		*runtime.Poller[armappservice.WebAppsClientCreateOrUpdateResponse], error)
	NewListByResourceGroupPager(resourceGroupName string,
		options *armappservice.WebAppsClientListByResourceGroupOptions) *runtime.Pager[armappservice.WebAppsClientListByResourceGroupResponse]
	Get(ctx context.Context, resourceGroupName string, name string,
		options *armappservice.WebAppsClientGetOptions) (armappservice.WebAppsClientGetResponse, error)
	Delete(ctx context.Context, resourceGroupName string, name string,
		options *armappservice.WebAppsClientDeleteOptions) (armappservice.WebAppsClientDeleteResponse, error)
}

var (
	_ ResourceGroupsClient = (*armresources.ResourceGroupsClient)(nil)
	_ ProvidersClient      = (*armresources.ProvidersClient)(nil)
	_ PlansClient          = (*armappservice.PlansClient)(nil)
	_ WebAppsClient        = (*armappservice.WebAppsClient)(nil)
)

// Clients groups the resource management and web-hosting management clients of one subscription
type Clients struct {
	ResourceGroups ResourceGroupsClient
	Providers      ProvidersClient
	Plans          PlansClient
	WebApps        WebAppsClient
}

// NewClients builds all clients for subscriptionID. options may be nil.
func NewClients(subscriptionID string, cred azcore.TokenCredential, options *arm.ClientOptions) (*Clients, error) {
	resourcesFactory, err := armresources.NewClientFactory(subscriptionID, cred, options)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize resource management client")
	}

	appServiceFactory, err := armappservice.NewClientFactory(subscriptionID, cred, options)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize web site management client")
	}

	return &Clients{
		ResourceGroups: resourcesFactory.NewResourceGroupsClient(),
		Providers:      resourcesFactory.NewProvidersClient(),
		Plans:          appServiceFactory.NewPlansClient(),
		WebApps:        appServiceFactory.NewWebAppsClient(),
	}, nil
}
