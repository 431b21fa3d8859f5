package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	s.app = cli.NewApp()
	s.app.Name = "facepass"
	s.app.Usage = "Face recognition check-in, contests and trivia"
	s.app.Action = cli.ShowAppHelp
	s.app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to a toml config file, environment variables override it",
			EnvVars: []string{"FACEPASS_CONFIG"},
		},
	}
	s.app.Before = func(ctx *cli.Context) error {
		if err := s.loadConfig(ctx); err != nil {
			return err
		}

		s.loadLogger()
		return nil
	}
	s.app.Commands = []*cli.Command{
		{
			Action:      s.startApi,
			Name:        "api",
			Usage:       "Start service api",
			Category:    "Api",
			Description: `Serve every public operation over HTTP, plus /metrics.`,
		},
		{
			Action:   s.startMigrate,
			Name:     "migrate",
			Usage:    "Migrate the database schema",
			Category: "Database",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "auto",
					Usage: "Create the schema from the entities instead of the versioned migrations",
				},
				&cli.BoolFlag{
					Name:  "down",
					Usage: "Revert the last versioned migration",
				},
			},
		},
		{
			Action:      s.startSetupCollection,
			Name:        "setup-collection",
			Usage:       "Create the face collection",
			Category:    "Admin",
			Description: `Create the face collection if it does not exist yet.`,
		},
		{
			Action:      s.startVerifySetup,
			Name:        "verify-setup",
			Usage:       "Check the face collection and the photo bucket",
			Category:    "Admin",
			Description: `Fail if the face collection or the photo bucket is unreachable.`,
		},
		{
			Action:   s.startCleanupFaces,
			Name:     "cleanup-faces",
			Usage:    "Delete faces that no identity refers to",
			Category: "Admin",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "dry-run",
					Usage: "Only list the orphan faces",
				},
			},
		},
		{
			Action:      s.startSubscriber,
			Name:        "subscriber",
			Usage:       "Start service subscriber",
			Category:    "Worker",
			Description: `Consume award events and keep the cached leaderboard fresh.`,
		},
	}
}
