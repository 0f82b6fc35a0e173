package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/friendsofgo/errors"
	"github.com/google/uuid"
	"github.com/schoolyear/webapp-cli/lib"
	"github.com/schoolyear/webapp-cli/lib/lib_webapp"
	"github.com/schoolyear/webapp-cli/schema"
	"github.com/schoolyear/webapp-cli/static"
	"github.com/urfave/cli/v2"
)

var SampleRunCommand = &cli.Command{
	Name:  "run",
	Usage: "Create a resource group, App Service plan and site, show them and delete them again",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "location",
			Usage:   "Azure region for all resources (default: " + static.DefaultLocation + ")",
			Aliases: []string{"l"},
			EnvVars: []string{"WEBAPP_LOCATION"},
		},
		&cli.StringFlag{
			Name:    "resource-group",
			Usage:   "Name of the resource group to create (default: " + static.DefaultResourceGroup + ")",
			Aliases: []string{"g"},
			EnvVars: []string{"WEBAPP_RESOURCE_GROUP"},
		},
		&cli.StringFlag{
			Name:    "plan",
			Usage:   "Name of the App Service plan to create (default: " + static.DefaultHostingPlan + ")",
			EnvVars: []string{"WEBAPP_PLAN"},
		},
		&cli.StringFlag{
			Name:    "site",
			Usage:   "Name of the site to create. Must be globally unique (default: random)",
			EnvVars: []string{"WEBAPP_SITE"},
		},
		&cli.StringSliceFlag{
			Name:  "tag",
			Usage: "Resource group tag as key=value. Can be repeated",
		},
		&cli.PathFlag{
			Name:      "config",
			Usage:     "Path to a webapp properties file (.json or .json5). Flags take precedence",
			Aliases:   []string{"c"},
			TakesFile: true,
		},
		envFilesFlag(),
		&cli.BoolFlag{
			Name:  "register-provider",
			Usage: "Register the " + static.WebProviderNamespace + " resource provider before creating resources",
		},
		&cli.BoolFlag{
			Name:  "probe",
			Usage: "Send a request to the site once it is created",
		},
		&cli.BoolFlag{
			Name:    "yes",
			Usage:   "Don't wait for enter before deleting the site and resource group",
			Aliases: []string{"y"},
		},
		&cli.BoolFlag{
			Name:  "no-progress",
			Usage: "Don't show spinners while waiting for Azure",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Set after how much time the command should timeout. Valid time units are \"ns\", \"us\" (or \"µs\"), \"ms\", \"s\", \"m\", \"h\", which you can combine like this \"1h30m\"",
		},
		verboseFlag(),
		armEndpointFlag(),
	},
	Action: func(c *cli.Context) error {
		configPath := c.Path("config")
		yesFlag := c.Bool("yes")
		timeoutFlag := c.Duration("timeout")

		var props *schema.WebappProperties
		if configPath != "" {
			var err error
			props, err = schema.LoadWebappProperties(configPath)
			if err != nil {
				return errors.Wrapf(err, "failed to load config file %s", configPath)
			}
		}

		tags, err := parseTags(c.StringSlice("tag"))
		if err != nil {
			return errors.Wrap(err, "failed to parse tag flags")
		}

		params, err := resolveParams(runFlags{
			Location:         c.String("location"),
			ResourceGroup:    c.String("resource-group"),
			HostingPlan:      c.String("plan"),
			Site:             c.String("site"),
			Tags:             tags,
			RegisterProvider: c.Bool("register-provider"),
		}, props)
		if err != nil {
			return err
		}
		params.Probe = c.Bool("probe")

		runner, servicePrincipal, err := newRunner(c)
		if err != nil {
			return err
		}
		runner.ProbeURL = lib.ProbeURL
		runner.Spinners = !c.Bool("no-progress")
		if !yesFlag {
			runner.Pause = func(lib_webapp.Site) {
				lib.PromptEnter("Press enter to delete the site and server farm. ")
			}
		}

		ctx := c.Context
		if timeoutFlag > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeoutFlag)
			defer cancel()
		}

		fmt.Fprintf(c.App.Writer, "Working in Subscription: %s\n", color.GreenString(servicePrincipal.SubscriptionID))
		fmt.Fprintf(c.App.Writer, "Site name: %s\n\n", params.Site)

		return runner.Run(ctx, params)
	},
}

type runFlags struct {
	Location         string
	ResourceGroup    string
	HostingPlan      string
	Site             string
	Tags             map[string]string
	RegisterProvider bool
}

// resolveParams merges flags, the optional properties file and defaults, in that order of precedence
func resolveParams(flags runFlags, props *schema.WebappProperties) (lib_webapp.Params, error) {
	if props == nil {
		props = &schema.WebappProperties{}
	}

	tags := make(map[string]string, len(props.Tags)+len(flags.Tags))
	for k, v := range props.Tags {
		tags[k] = v
	}
	for k, v := range flags.Tags {
		tags[k] = v
	}

	resolved := schema.WebappProperties{
		Location:         firstNonEmpty(flags.Location, props.Location, static.DefaultLocation),
		ResourceGroup:    firstNonEmpty(flags.ResourceGroup, props.ResourceGroup, static.DefaultResourceGroup),
		HostingPlan:      firstNonEmpty(flags.HostingPlan, props.HostingPlan, static.DefaultHostingPlan),
		Site:             firstNonEmpty(flags.Site, props.Site, randomSiteName()),
		Tags:             tags,
		RegisterProvider: flags.RegisterProvider || props.RegisterProvider,
	}

	if err := resolved.Validate(); err != nil {
		return lib_webapp.Params{}, errors.Wrap(err, "invalid sample parameters")
	}

	return lib_webapp.Params{
		Location:         resolved.Location,
		ResourceGroup:    resolved.ResourceGroup,
		HostingPlan:      resolved.HostingPlan,
		Site:             resolved.Site,
		Tags:             resolved.Tags,
		RegisterProvider: resolved.RegisterProvider,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// site names end up in <name>.azurewebsites.net, so they need to be globally unique
func randomSiteName() string {
	return static.DefaultSitePrefix + "-" + strings.Split(uuid.NewString(), "-")[0]
}

var errMalformedTags = errors.New("malformed tags")

func parseTags(tagFlags []string) (map[string]string, error) {
	if len(tagFlags) == 0 {
		return nil, nil
	}

	tags := make(map[string]string, len(tagFlags))
	for _, tag := range tagFlags {
		// values may contain '=', keys can't
		key, value, ok := strings.Cut(tag, "=")
		if !ok || len(key) == 0 {
			return nil, errors.Wrapf(errMalformedTags, "expected key=value, got %q", tag)
		}

		tags[key] = value
	}

	return tags, nil
}
