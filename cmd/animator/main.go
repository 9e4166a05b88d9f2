package main

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli"

	"github.com/go-drift/animator/cmd/animator/cmd"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "animator"
	app.Usage = "drive drawables from a render loop and probe for UI-thread deadlocks"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringSliceFlag{
			Name:  "log, l",
			Value: &cli.StringSlice{},
			Usage: "set a module's log level, e.g. uithread=debug (a bare level applies to all modules)",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "run",
			Usage: "run the canvas restart deadlock probe",
			Description: `
Create a canvas, hand it to an animator and show it in a host frame. While the
animator renders, the canvas is periodically torn down and recreated, either on
the UI loop or on the probing goroutine. The probe fails if it does not finish
within its duration plus a grace period.

Settings are read from animator.yaml or animator.toml in the config directory
(default: the enclosing Go module root) and reloaded when the file changes.
Flags take precedence over the file.`,
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "config, c",
					Usage: "directory containing animator.yaml or animator.toml",
				},
				cli.DurationFlag{
					Name:  "duration, d",
					Value: 5 * time.Second,
					Usage: "how long to run the probe",
				},
				cli.DurationFlag{
					Name:  "restart-period",
					Value: 200 * time.Millisecond,
					Usage: "recreate the canvas at this interval (0 disables restarts)",
				},
				cli.BoolFlag{
					Name:  "on-current",
					Usage: "attach and detach on the probing goroutine instead of the UI loop",
				},
				cli.Float64Flag{
					Name:  "fps",
					Usage: "use a fixed-rate animator at this frame rate (0 for unpaced)",
				},
				cli.StringFlag{
					Name:  "strategy",
					Value: "default",
					Usage: "pass strategy: default or ui",
				},
				cli.StringFlag{
					Name:  "name",
					Usage: "animator name (generated when empty)",
				},
				cli.IntFlag{
					Name:  "width",
					Value: 512,
					Usage: "frame width",
				},
				cli.IntFlag{
					Name:  "height",
					Value: 512,
					Usage: "frame height",
				},
				cli.IntFlag{
					Name:  "update-fps-frames",
					Value: 60,
					Usage: "print fps statistics every N frames (0 disables)",
				},
				cli.BoolFlag{
					Name:  "ignore-exceptions",
					Usage: "keep rendering when a drawable fails",
				},
				cli.BoolFlag{
					Name:  "print-exceptions",
					Usage: "report ignored drawable failures",
				},
				cli.BoolFlag{
					Name:  "no-animator",
					Usage: "display the canvas from the probe instead of an animator",
				},
			},
			Action: cmd.RunProbe,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "animator: %v\n", err)
		os.Exit(1)
	}
}
