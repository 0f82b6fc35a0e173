package main

import (
	"fmt"
	"os"
	"time"

	"github.com/schoolyear/webapp-cli/commands"
	"github.com/schoolyear/webapp-cli/static"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:    "webapp-cli",
		Usage:   "run the Azure App Service management sample",
		Version: static.Version,
		Suggest: true,
		Commands: cli.Commands{
			{
				Name:  "sample",
				Usage: "create, inspect and delete a sample web app",
				Subcommands: cli.Commands{
					commands.SampleRunCommand,
					commands.SampleCleanupCommand,
				},
			},
			{
				Name:  "config",
				Usage: "manage sample configuration files",
				Subcommands: cli.Commands{
					commands.ConfigNewCommand,
				},
			},
		},
		Flags:                []cli.Flag{},
		EnableBashCompletion: true,
		Compiled:             time.Time{},
		Authors: []*cli.Author{
			{
				Name:  "Schoolyear",
				Email: "support@schoolyear.com",
			},
		},
		Copyright: "Schoolyear",
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Println("Error:", err.Error())
		os.Exit(1)
	}
}
