package lib_webapp

import (
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/appservice/armappservice/v4"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
)

type Kind string

const (
	KindResourceGroup Kind = "ResourceGroup"
	KindHostingPlan   Kind = "HostingPlan"
	KindSite          Kind = "Site"
	KindProvider      Kind = "Provider"
)

// Resource is one of ResourceGroup, HostingPlan, Site or Provider
type Resource interface {
	Kind() Kind
	isResource()
}

// Common holds the fields every ARM tracked resource has
type Common struct {
	Name     string
	ID       string
	Location string
	Tags     map[string]string
}

type ResourceGroup struct {
	Common
	ProvisioningState string
}

type SKU struct {
	Name     string
	Tier     string
	Capacity int32
}

// HostingPlan is an App Service plan (server farm)
type HostingPlan struct {
	Common
	SKU               SKU
	Status            string
	ProvisioningState string
}

type Site struct {
	Common
	HostingPlanID   string
	DefaultHostName string
	State           string
}

// Provider is a resource provider namespace registration
type Provider struct {
	Namespace         string
	RegistrationState string
}

func (ResourceGroup) Kind() Kind { return KindResourceGroup }
func (HostingPlan) Kind() Kind   { return KindHostingPlan }
func (Site) Kind() Kind          { return KindSite }
func (Provider) Kind() Kind      { return KindProvider }

func (ResourceGroup) isResource() {}
func (HostingPlan) isResource()   {}
func (Site) isResource()          {}
func (Provider) isResource()      {}

func resourceGroupFromARM(group armresources.ResourceGroup) ResourceGroup {
	rg := ResourceGroup{
		Common: Common{
			Name:     deref(group.Name),
			ID:       deref(group.ID),
			Location: deref(group.Location),
			Tags:     derefMap(group.Tags),
		},
	}
	if group.Properties != nil {
		rg.ProvisioningState = deref(group.Properties.ProvisioningState)
	}
	return rg
}

func hostingPlanFromARM(plan armappservice.Plan) HostingPlan {
	hp := HostingPlan{
		Common: Common{
			Name:     deref(plan.Name),
			ID:       deref(plan.ID),
			Location: deref(plan.Location),
			Tags:     derefMap(plan.Tags),
		},
	}
	if plan.SKU != nil {
		hp.SKU = SKU{
			Name:     deref(plan.SKU.Name),
			Tier:     deref(plan.SKU.Tier),
			Capacity: deref(plan.SKU.Capacity),
		}
	}
	if plan.Properties != nil {
		hp.Status = string(deref(plan.Properties.Status))
		hp.ProvisioningState = string(deref(plan.Properties.ProvisioningState))
	}
	return hp
}

func siteFromARM(site armappservice.Site) Site {
	s := Site{
		Common: Common{
			Name:     deref(site.Name),
			ID:       deref(site.ID),
			Location: deref(site.Location),
			Tags:     derefMap(site.Tags),
		},
	}
	if site.Properties != nil {
		s.HostingPlanID = deref(site.Properties.ServerFarmID)
		s.DefaultHostName = deref(site.Properties.DefaultHostName)
		s.State = deref(site.Properties.State)
	}
	return s
}

func providerFromARM(provider armresources.Provider) Provider {
	return Provider{
		Namespace:         deref(provider.Namespace),
		RegistrationState: deref(provider.RegistrationState),
	}
}

func deref[T any](v *T) T {
	if v == nil {
		var zero T
		return zero
	}
	return *v
}

func derefMap(m map[string]*string) map[string]string {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = deref(v)
	}
	return out
}
