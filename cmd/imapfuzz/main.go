// Command imapfuzz replays fuzz corpora against the conversion engine and
// inspects the crashers it records.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/ipfs/go-cid"
	logging "github.com/ipfs/go-log/v2"
	"github.com/urfave/cli/v2"
	"golang.org/x/xerrors"

	"github.com/imapwire/imapfuzz"
	"github.com/imapwire/imapfuzz/arbitrary"
	"github.com/imapwire/imapfuzz/crashers"
	"github.com/imapwire/imapfuzz/fuzzing"
	"github.com/imapwire/imapfuzz/pubsub"
	"github.com/imapwire/imapfuzz/replay"
	"github.com/imapwire/imapfuzz/snapshot"
)

var log = logging.Logger("imapfuzz")

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "imapfuzz",
		Usage: "check zero-copy IMAP values against their owned copies",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Value: "info", Usage: "log level for every subsystem"},
		},
		Before: func(c *cli.Context) error {
			lvl, err := logging.LevelFromString(c.String("log-level"))
			if err != nil {
				return err
			}
			logging.SetAllLoggers(lvl)
			return nil
		},
		Commands: []*cli.Command{
			replayCmd,
			crashersCmd,
			showCmd,
		},
	}
}

var storeFlag = &cli.StringFlag{Name: "store", Usage: "badger directory holding crashers"}

var featuresFlag = &cli.StringFlag{
	Name:    "features",
	EnvVars: []string{imapfuzz.EnvFeatures},
	Value:   "all",
	Usage:   "comma separated extensions the generators may use",
}

var replayCmd = &cli.Command{
	Name:      "replay",
	Usage:     "run every input in a corpus directory through the drivers",
	ArgsUsage: "<corpus-dir>",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "drivers", Usage: "comma separated drivers, default all of " + strings.Join(fuzzing.DriverNames(), ",")},
		featuresFlag,
		&cli.IntFlag{Name: "workers", Usage: "inputs checked at once, default GOMAXPROCS"},
		&cli.IntFlag{Name: "max-size", Value: replay.DefaultMaxInputSize, Usage: "skip inputs larger than this"},
		storeFlag,
	},
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return cli.Exit("replay takes exactly one corpus directory", 2)
		}
		fs, err := imapfuzz.ParseFeatures(c.String("features"))
		if err != nil {
			return err
		}
		opts := []replay.Option{replay.WithFeatures(fs), replay.WithMaxInputSize(c.Int("max-size"))}
		if names := c.String("drivers"); names != "" {
			opts = append(opts, replay.WithDrivers(strings.Split(names, ",")...))
		}
		if c.IsSet("workers") {
			opts = append(opts, replay.WithWorkers(c.Int("workers")))
		}

		var store *crashers.Store
		if dir := c.String("store"); dir != "" {
			if store, err = crashers.Open(dir); err != nil {
				return err
			}
			defer store.Close()
		}
		runner, err := replay.New(store, opts...)
		if err != nil {
			return err
		}
		runner.Subscribe(func(evt pubsub.Event) {
			if evt.Code == pubsub.Failed || evt.Code == pubsub.Panicked {
				fmt.Fprintf(c.App.Writer, "%s\t%s\t%s\n", evt.Code, evt.Driver, evt.Input)
			}
		})

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()
		summary, err := runner.RunDir(ctx, c.Args().First())
		if err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "inputs %d, oversize %d, passed %d, skipped %d, failed %d, panicked %d\n",
			summary.Inputs, summary.Oversize, summary.Passed, summary.Skipped, summary.Failed, summary.Panicked)
		if summary.Defects() > 0 {
			return cli.Exit(fmt.Sprintf("%d defects in %d inputs", summary.Defects(), len(summary.Crashers)), 1)
		}
		return nil
	},
}

var crashersCmd = &cli.Command{
	Name:  "crashers",
	Usage: "list recorded crashers",
	Flags: []cli.Flag{storeFlag},
	Action: func(c *cli.Context) error {
		store, err := openStore(c)
		if err != nil {
			return err
		}
		defer store.Close()
		ctx := context.Background()
		ids, err := store.List(ctx)
		if err != nil {
			return err
		}
		for _, id := range ids {
			crasher, err := store.Get(ctx, id)
			if err != nil {
				return err
			}
			for _, report := range crasher.Reports {
				fmt.Fprintf(c.App.Writer, "%s\t%s\t%s\t%s\n", id, report.Driver, report.Property, report.Features)
			}
		}
		return nil
	},
}

var showCmd = &cli.Command{
	Name:      "show",
	Usage:     "render the value generated from an input file or a stored crasher",
	ArgsUsage: "<file|cid>",
	Flags: []cli.Flag{
		featuresFlag,
		storeFlag,
		&cli.StringFlag{Name: "driver", Usage: "generate the way this driver does, default the driver of the first report"},
	},
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return cli.Exit("show takes exactly one input", 2)
		}
		fs, err := imapfuzz.ParseFeatures(c.String("features"))
		if err != nil {
			return err
		}
		input, reports, err := readInput(context.Background(), c, c.Args().First())
		if err != nil {
			return err
		}
		driver := showDriver(c.String("driver"), reports)
		log.Debugw("generating", "driver", driver)
		v, err := fuzzing.Generate(driver, input, arbitrary.WithFeatures(fs))
		if err != nil {
			return xerrors.Errorf("generating value: %w", err)
		}
		out, err := snapshot.Render(v)
		if err != nil {
			return err
		}
		id, err := snapshot.Fingerprint(v)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "%s\n%s\n", id, out)
		return nil
	},
}

func openStore(c *cli.Context) (*crashers.Store, error) {
	dir := c.String("store")
	if dir == "" {
		return nil, cli.Exit("--store is required", 2)
	}
	return crashers.Open(dir)
}

// readInput loads a corpus file, or a stored crasher with its reports.
func readInput(ctx context.Context, c *cli.Context, arg string) ([]byte, []crashers.Report, error) {
	id, err := cid.Decode(arg)
	if err != nil {
		input, err := os.ReadFile(arg)
		return input, nil, err
	}
	store, err := openStore(c)
	if err != nil {
		return nil, nil, err
	}
	defer store.Close()
	crasher, err := store.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	log.Debugw("loaded crasher", "input", id, "reports", len(crasher.Reports))
	return crasher.Input, crasher.Reports, nil
}

func showDriver(flag string, reports []crashers.Report) string {
	if flag != "" || len(reports) == 0 {
		return flag
	}
	return reports[0].Driver
}
