package commands

import (
	"fmt"
	"path/filepath"

	"github.com/friendsofgo/errors"
	"github.com/schoolyear/webapp-cli/embeddedfiles"
	"github.com/schoolyear/webapp-cli/lib"
	"github.com/urfave/cli/v2"
)

var ConfigNewCommand = &cli.Command{
	Name:  "new",
	Usage: "create a sample properties file and .env template",
	Flags: []cli.Flag{
		&cli.PathFlag{
			Name:     "output",
			Required: true,
			Usage:    "Path in which the new config folder should be created",
			Aliases:  []string{"o"},
		},
	},
	Action: func(c *cli.Context) error {
		targetPath := c.Path("output")

		if err := lib.EnsureEmptyDirectory(targetPath, false); err != nil {
			return errors.Wrap(err, "failed to create target directory")
		}

		absTargetPath, err := filepath.Abs(targetPath)
		if err != nil {
			return errors.Wrapf(err, "failed to convert target path to absolute path")
		}

		if err := lib.CopyDirectory(c.App.Writer, embeddedfiles.SampleConfig, embeddedfiles.SampleConfigBasePath, targetPath); err != nil {
			return errors.Wrap(err, "failed to copy sample config directory")
		}

		fmt.Fprintln(c.App.Writer, "created new config folder at", absTargetPath)
		fmt.Fprintln(c.App.Writer, "rename .env.example to .env, fill in your service principal and pass it with --env")

		return nil
	},
}
