package main

// bank reader/editor for Runling Run
//
// example usage:
//
// bankedit load RunlingRun004.SC2Bank
// bankedit get account.total_score
// bankedit set account.total_score 5000000
// bankedit set unit2.speed 40
// bankedit set unit1.rem 100
// bankedit add-unit --class 2 5
// bankedit dump --yaml
// bankedit save
//
// bankedit sign RunlingRun004.SC2Bank
// bankedit watch

import (
	"io"
	"os"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/logger"
	"github.com/urfave/cli"

	"bankedit/checksum"
	"bankedit/config"
)

type metadata struct {
	settings *config.Settings
	engine   *checksum.Engine
	stash    string
	log      *logger.L
	w        io.Writer
}

// logging is started at most once per process
var g_logging = false

func main() {
	defer exitwithstatus.Handler()

	err := new_app().Run(os.Args)
	if g_logging {
		logger.Finalise()
	}
	if err != nil {
		exitwithstatus.Message("error: %s", err)
	}
}

func new_app() *cli.App {
	app := cli.NewApp()
	app.Name = "bankedit"
	app.Usage = "Runling Run bank editor"
	app.HideVersion = true

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "dir, d",
			Value: "",
			Usage: " bank `DIRECTORY` [from config file, else current directory]",
		},
		cli.StringFlag{
			Name:  "config, c",
			Value: config.FILENAME,
			Usage: " configuration `FILE`",
		},
		cli.StringFlag{
			Name:  "stash",
			Value: g_stash_filename,
			Usage: " where loaded data is kept between commands `FILE`",
		},
	}

	app.Commands = []cli.Command{
		{
			Name:      "load",
			Usage:     "load a bank from the bank directory",
			ArgsUsage: "FILE",
			Action:    runLoad,
		},
		{
			Name:      "get",
			Usage:     "display one value: handle, account.FIELD or unitN.FIELD",
			ArgsUsage: "WHAT",
			Action:    runGet,
		},
		{
			Name:      "set",
			Usage:     "change one value; names need only be long enough to be unambiguous",
			ArgsUsage: "WHAT VALUE",
			Action:    runSet,
		},
		{
			Name:      "add-unit",
			Usage:     "create a new unit in an empty slot",
			ArgsUsage: "SLOT",
			Flags: []cli.Flag{
				cli.Uint64Flag{
					Name:  "class",
					Value: 0,
					Usage: " unit class `N`",
				},
			},
			Action: runAddUnit,
		},
		{
			Name:      "remove-unit",
			Usage:     "delete the unit in a slot",
			ArgsUsage: "SLOT",
			Action:    runRemoveUnit,
		},
		{
			Name:  "dump",
			Usage: "list every value",
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "yaml, y",
					Usage: " output YAML",
				},
			},
			Action: runDump,
		},
		{
			Name:  "save",
			Usage: "write the edited bank back, keeping the original as .old",
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "force, f",
					Usage: " overwrite even if the game changed the file since load",
				},
			},
			Action: runSave,
		},
		{
			Name:      "sign",
			Usage:     "display the signature a bank should carry",
			ArgsUsage: "FILE",
			Action:    runSign,
		},
		{
			Name:   "watch",
			Usage:  "report every change the game makes to banks in the bank directory",
			Action: runWatch,
		},
	}

	app.Before = func(c *cli.Context) error {
		settings, err := config.Load(c.GlobalString("config"))
		if err != nil {
			return err
		}
		if dir := c.GlobalString("dir"); dir != "" {
			settings.Dir = dir
		}

		if !g_logging {
			err = os.MkdirAll(settings.Log.Directory, 0700)
			if err != nil {
				return err
			}
			err = logger.Initialise(settings.Log)
			if err != nil {
				return err
			}
			g_logging = true
		}

		c.App.Metadata["config"] = &metadata{
			settings: settings,
			engine:   checksum.New(settings.Handle_per_unit),
			stash:    c.GlobalString("stash"),
			log:      logger.New("bankedit"),
			w:        c.App.Writer,
		}
		return nil
	}

	return app
}
