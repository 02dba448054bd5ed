package launcher

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/go-opera-genesis/flags"
	"github.com/rony4d/go-opera-genesis/generator"
	"github.com/rony4d/go-opera-genesis/opera/genesis"
)

var app = newApp()

func newApp() *cli.App {
	app := flags.NewApp("Genesis ledger generator")
	app.Commands = []cli.Command{
		{
			Name:   "generate",
			Usage:  "Generate keyfiles and write a genesis artifact",
			Flags:  flags.Merge(flags.CommonFlags(), flags.NetworkFlags(), flags.OutputFlags(), flags.SourceFlags()),
			Action: generateAction,
		},
		{
			Name:      "inspect",
			Usage:     "Decode a genesis artifact and print its summary",
			ArgsUsage: "<artifact>",
			Flags:     flags.CommonFlags(),
			Action:    inspectAction,
		},
		{
			Name:      "dumpconfig",
			Usage:     "Write the effective generate configuration as TOML",
			ArgsUsage: "<file>",
			Flags:     flags.Merge(flags.CommonFlags(), flags.NetworkFlags(), flags.OutputFlags(), flags.SourceFlags()),
			Action:    dumpConfigAction,
		},
	}
	return app
}

// Launch runs the command line tool.
func Launch(args []string) error {
	return app.Run(args)
}

func loggerFor(ctx *cli.Context, cfg LoggingConfig) (*logrus.Logger, error) {
	return makeLogger(cfg, ctx.App.ErrWriter)
}

func generateAction(ctx *cli.Context) error {
	cfg, err := makeAllConfigs(ctx)
	if err != nil {
		return err
	}
	log, err := loggerFor(ctx, cfg.Logging)
	if err != nil {
		return err
	}
	opts, err := cfg.generatorOptions()
	if err != nil {
		return err
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := generator.Run(runCtx, opts, log)
	if err != nil {
		log.WithError(err).Error("Genesis generation failed")
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "%s %s\n", report.Hash.Hex(), report.Path)
	return nil
}

func inspectAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return fmt.Errorf("inspect takes exactly one artifact path")
	}
	cfg, err := makeAllConfigs(ctx)
	if err != nil {
		return err
	}
	log, err := loggerFor(ctx, cfg.Logging)
	if err != nil {
		return err
	}

	path := ctx.Args().First()
	g, digest, err := genesis.ReadArtifact(path)
	if err != nil {
		return err
	}
	total, err := g.TotalStake()
	if err != nil {
		return err
	}
	kind := "explicit"
	if g.Distribution != nil && g.Distribution.Kind() == genesis.RichPoorKind {
		kind = "richpoor"
	}
	log.WithFields(logrus.Fields{
		"network":      g.Network.Name,
		"id":           g.Network.NetworkID,
		"start":        g.Network.StartTime.Time().UTC(),
		"distribution": kind,
		"stakeholders": humanize.Comma(int64(g.Stakeholders())),
		"certificates": len(g.VssCertificates),
		"total":        total,
	}).Info("Genesis artifact")
	log.Infof("First addresses: %s", generator.FormatPreview(g.Addresses, cfg.Output.Preview))
	fmt.Fprintf(ctx.App.Writer, "%s %s\n", digest.Hex(), path)
	return nil
}

func dumpConfigAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return fmt.Errorf("dumpconfig takes exactly one output path")
	}
	cfg, err := makeAllConfigs(ctx)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	return dumpConfig(cfg, ctx.Args().First())
}
