package lib_webapp

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/appservice/armappservice/v4"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
	"github.com/fatih/color"
	"github.com/friendsofgo/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/schoolyear/webapp-cli/static"
)

// Params names the resources of a sample run
type Params struct {
	Location         string
	ResourceGroup    string
	HostingPlan      string
	Site             string
	Tags             map[string]string
	RegisterProvider bool
	Probe            bool
}

type Runner struct {
	Clients *Clients
	Out     io.Writer

	// Pause is called after the site is fetched and before anything is deleted.
	// nil means no pause.
	Pause func(site Site)

	// ProbeURL is used when Params.Probe is set
	ProbeURL func(ctx context.Context, url string) (int, error)

	// Spinners shows a spinner on Out while waiting for long-running operations
	Spinners bool
}

// Run creates a resource group, a hosting plan and a site, lists and gets the site and deletes everything again.
// The first error aborts the run. Resources that were created before the error are not cleaned up.
func (r *Runner) Run(ctx context.Context, params Params) error {
	if params.RegisterProvider {
		r.step("Register the %s resource provider", static.WebProviderNamespace)
		provider, err := r.RegisterProvider(ctx, static.WebProviderNamespace)
		if err != nil {
			return errors.Wrapf(err, "failed to register resource provider %s", static.WebProviderNamespace)
		}
		PrintResource(r.Out, provider)
	}

	r.step("Create Resource Group")
	group, err := r.CreateResourceGroup(ctx, params.ResourceGroup, params.Location, params.Tags)
	if err != nil {
		return errors.Wrapf(err, "failed to create resource group %s", params.ResourceGroup)
	}
	PrintResource(r.Out, group)

	r.step("Create an App Service plan for your WebApp")
	plan, err := r.CreateHostingPlan(ctx, params.ResourceGroup, params.HostingPlan, params.Location)
	if err != nil {
		return errors.Wrapf(err, "failed to create App Service plan %s", params.HostingPlan)
	}
	PrintResource(r.Out, plan)

	r.step("Create a Site to be hosted on the App Service plan")
	site, err := r.CreateSite(ctx, params.ResourceGroup, params.Site, params.Location, plan.ID)
	if err != nil {
		return errors.Wrapf(err, "failed to create site %s", params.Site)
	}
	PrintResource(r.Out, site)

	r.step("List Sites by Resource Group")
	sites, err := r.ListSites(ctx, params.ResourceGroup)
	if err != nil {
		return errors.Wrapf(err, "failed to list sites in resource group %s", params.ResourceGroup)
	}
	for _, s := range sites {
		PrintResource(r.Out, s)
	}

	r.step("Get a single Site")
	site, err = r.GetSite(ctx, params.ResourceGroup, params.Site)
	if err != nil {
		return errors.Wrapf(err, "failed to get site %s", params.Site)
	}
	PrintResource(r.Out, site)

	siteURL := fmt.Sprintf("http://%s/", site.DefaultHostName)
	fmt.Fprintf(r.Out, "Your site and server farm have been created. You can now go and visit at %s\n", siteURL)

	if params.Probe && r.ProbeURL != nil {
		r.probe(ctx, siteURL)
	}

	if r.Pause != nil {
		r.Pause(site)
	}

	r.step("Deleting the Site")
	if err := r.DeleteSite(ctx, params.ResourceGroup, params.Site); err != nil {
		return errors.Wrapf(err, "failed to delete site %s", params.Site)
	}

	r.step("Deleting the resource group")
	if err := r.DeleteResourceGroup(ctx, params.ResourceGroup); err != nil {
		return errors.Wrapf(err, "failed to delete resource group %s", params.ResourceGroup)
	}
	color.New(color.FgGreen).Fprintln(r.Out, "[DONE]")

	return nil
}

func (r *Runner) RegisterProvider(ctx context.Context, namespace string) (Provider, error) {
	res, err := r.Clients.Providers.Register(ctx, namespace, nil)
	if err != nil {
		return Provider{}, err
	}

	return providerFromARM(res.Provider), nil
}

func (r *Runner) CreateResourceGroup(ctx context.Context, name, location string, tags map[string]string) (ResourceGroup, error) {
	group := armresources.ResourceGroup{
		Location: to.Ptr(location),
	}
	if len(tags) > 0 {
		group.Tags = make(map[string]*string, len(tags))
		for k, v := range tags {
			group.Tags[k] = to.Ptr(v)
		}
	}

	res, err := r.Clients.ResourceGroups.CreateOrUpdate(ctx, name, group, nil)
	if err != nil {
		return ResourceGroup{}, err
	}

	return resourceGroupFromARM(res.ResourceGroup), nil
}

// CreateHostingPlan creates the plan with the fixed sample SKU and waits for it to be provisioned
func (r *Runner) CreateHostingPlan(ctx context.Context, resourceGroup, name, location string) (HostingPlan, error) {
	poller, err := r.Clients.Plans.BeginCreateOrUpdate(ctx, resourceGroup, name, armappservice.Plan{
		Location: to.Ptr(location),
		SKU: &armappservice.SKUDescription{
			Name:     to.Ptr(static.HostingPlanSKUName),
			Tier:     to.Ptr(static.HostingPlanSKUTier),
			Capacity: to.Ptr(static.HostingPlanSKUCapacity),
		},
	}, nil)
	if err != nil {
		return HostingPlan{}, err
	}

	stop := r.spinner("Creating App Service plan")
	res, err := poller.PollUntilDone(ctx, nil)
	stop()
	if err != nil {
		return HostingPlan{}, errors.Wrap(err, "failed to wait until App Service plan is created")
	}

	plan := hostingPlanFromARM(res.Plan)
	if plan.ID == "" {
		return HostingPlan{}, errors.New("created App Service plan has no id")
	}

	return plan, nil
}

// CreateSite creates a site on the hosting plan and waits for it to be provisioned
func (r *Runner) CreateSite(ctx context.Context, resourceGroup, name, location, hostingPlanID string) (Site, error) {
	poller, err := r.Clients.WebApps.BeginCreateOrUpdate(ctx, resourceGroup, name, armappservice.Site{
		Location: to.Ptr(location),
		Properties: &armappservice.SiteProperties{
			ServerFarmID: to.Ptr(hostingPlanID),
		},
	}, nil)
	if err != nil {
		return Site{}, err
	}

	stop := r.spinner("Creating Site")
	res, err := poller.PollUntilDone(ctx, nil)
	stop()
	if err != nil {
		return Site{}, errors.Wrap(err, "failed to wait until Site is created")
	}

	return siteFromARM(res.Site), nil
}

// ListSites reads all pages of sites in the resource group
func (r *Runner) ListSites(ctx context.Context, resourceGroup string) ([]Site, error) {
	var sites []Site
	pager := r.Clients.WebApps.NewListByResourceGroupPager(resourceGroup, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, site := range page.Value {
			if site != nil {
				sites = append(sites, siteFromARM(*site))
			}
		}
	}

	return sites, nil
}

func (r *Runner) GetSite(ctx context.Context, resourceGroup, name string) (Site, error) {
	res, err := r.Clients.WebApps.Get(ctx, resourceGroup, name, nil)
	if err != nil {
		return Site{}, err
	}

	return siteFromARM(res.Site), nil
}

func (r *Runner) DeleteSite(ctx context.Context, resourceGroup, name string) error {
	_, err := r.Clients.WebApps.Delete(ctx, resourceGroup, name, nil)
	return err
}

// DeleteResourceGroup deletes the group with everything in it and waits for the deletion to finish
func (r *Runner) DeleteResourceGroup(ctx context.Context, name string) error {
	poller, err := r.Clients.ResourceGroups.BeginDelete(ctx, name, nil)
	if err != nil {
		return err
	}

	stop := r.spinner("Deleting resource group")
	_, err = poller.PollUntilDone(ctx, nil)
	stop()
	if err != nil {
		return errors.Wrap(err, "failed to wait until resource group is deleted")
	}

	return nil
}

func (r *Runner) probe(ctx context.Context, url string) {
	fmt.Fprintf(r.Out, "Probing %s...", url)
	status, err := r.ProbeURL(ctx, url)
	if err != nil {
		color.New(color.FgYellow).Fprintf(r.Out, "[FAILED] %s\n", err)
		return
	}
	color.New(color.FgGreen).Fprintf(r.Out, "[DONE] (status %d)\n", status)
}

func (r *Runner) step(format string, args ...any) {
	color.New(color.FgCyan).Fprintf(r.Out, format+"\n", args...)
}

func (r *Runner) spinner(description string) (stop func()) {
	if !r.Spinners {
		return func() {}
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(r.Out),
		progressbar.OptionSetWidth(10),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(r.Out, "\n")
		}),
	)
	return func() {
		bar.Finish()
	}
}
