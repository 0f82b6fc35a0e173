package commands

import (
	"os"

	"github.com/friendsofgo/errors"
	"github.com/schoolyear/webapp-cli/lib"
	"github.com/schoolyear/webapp-cli/lib/lib_webapp"
	"github.com/urfave/cli/v2"
)

func envFilesFlag() cli.Flag {
	return &cli.StringSliceFlag{
		Name:      "env",
		Usage:     "Paths to .env files to read the AZURE_* service principal variables from. The process environment takes precedence",
		Aliases:   []string{"e"},
		TakesFile: true,
	}
}

func verboseFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "verbose",
		Usage: "Log Azure SDK requests, responses, retries and polling to stderr",
	}
}

func armEndpointFlag() cli.Flag {
	return &cli.StringFlag{
		Name:   "arm-endpoint",
		Usage:  "Send Azure Resource Manager requests to this endpoint, e.g. a local simulator. A static token is used instead of the service principal",
		Hidden: true,
	}
}

// newRunner loads the service principal and builds the Azure clients.
// No request is sent to Azure before the service principal is validated.
func newRunner(c *cli.Context) (*lib_webapp.Runner, *lib.ServicePrincipal, error) {
	servicePrincipal, err := lib.LoadServicePrincipal(os.LookupEnv, c.StringSlice("env")...)
	if err != nil {
		return nil, nil, err
	}

	if c.Bool("verbose") {
		lib.EnableSDKLogging(c.App.ErrWriter)
	}

	armEndpoint := c.String("arm-endpoint")
	cred, err := servicePrincipal.NewCredential(armEndpoint != "")
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to get Azure credentials")
	}

	clients, err := lib_webapp.NewClients(servicePrincipal.SubscriptionID, cred, lib.ARMClientOptions(armEndpoint))
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to initialize Azure SDK")
	}

	return &lib_webapp.Runner{
		Clients: clients,
		Out:     c.App.Writer,
	}, servicePrincipal, nil
}
