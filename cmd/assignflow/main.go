package main

import (
	"context"
	"os"
	"time"

	"github.com/edukit/assignflow/pkg/log"
	cli "github.com/urfave/cli/v3"
)

const defaultTimeout = 30 * time.Second

func main() {
	command := &cli.Command{
		Name:                  "assignflow",
		Usage:                 "Author and publish assignments from the terminal",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api-url",
				Usage:   "Base URL of the assignflow API",
				Value:   "http://localhost:9080",
				Sources: cli.EnvVars("ASSIGNFLOW_API_URL"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "save",
				Aliases:   []string{"s"},
				Usage:     "Save an assignment draft from a JSON file",
				ArgsUsage: "<payload.json>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "id",
						Usage:   "Existing assignment ID (a new draft is created when omitted)",
						Sources: cli.EnvVars("ASSIGNFLOW_ASSIGNMENT_ID"),
					},
				},
				Action: func(ctx context.Context, command *cli.Command) error {
					log.Setup(command.String("log-level"))

					return runSave(ctx, command)
				},
			},
			{
				Name:      "publish",
				Aliases:   []string{"p"},
				Usage:     "Publish an assignment from a JSON file",
				ArgsUsage: "<payload.json>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "id",
						Usage:   "Existing assignment ID (the draft is created first when omitted)",
						Sources: cli.EnvVars("ASSIGNFLOW_ASSIGNMENT_ID"),
					},
					&cli.BoolFlag{
						Name:    "yes",
						Aliases: []string{"y"},
						Usage:   "Skip the confirmation prompt",
					},
				},
				Action: func(ctx context.Context, command *cli.Command) error {
					log.Setup(command.String("log-level"))

					return runPublish(ctx, command)
				},
			},
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		log.WithModule("cli").Error("Command failed", "error", err)
		os.Exit(1)
	}
}
