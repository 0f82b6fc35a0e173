package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

var SampleCleanupCommand = &cli.Command{
	Name:  "cleanup",
	Usage: "Delete the site and resource group that an aborted run left behind",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "resource-group",
			Usage:    "Name of the resource group to delete",
			Aliases:  []string{"g"},
			Required: true,
		},
		&cli.StringFlag{
			Name:  "site",
			Usage: "Name of the site to delete before the resource group",
		},
		envFilesFlag(),
		verboseFlag(),
		armEndpointFlag(),
	},
	Action: func(c *cli.Context) error {
		resourceGroupFlag := c.String("resource-group")
		siteFlag := c.String("site")

		runner, servicePrincipal, err := newRunner(c)
		if err != nil {
			return err
		}

		fmt.Fprintf(c.App.Writer, "Working in Subscription: %s\n", color.GreenString(servicePrincipal.SubscriptionID))

		return runner.Cleanup(c.Context, resourceGroupFlag, siteFlag)
	},
}
