// Command mwalib-print-obs-context is a Go rendition of the reference C
// driver of the same name: given a metafits file and one or more gpubox
// files, build a correlator context and print the same obs id, antenna,
// baseline, coarse channel, rf_input, timestep and visibility pol summary.
package main

import (
	"errors"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/derwentx/mwalib/display"
	"github.com/derwentx/mwalib/geometry"
	"github.com/derwentx/mwalib/obscontext"
)

func printObsContext(metafitsPath string, gpuboxPaths []string, allowIntegrationMismatch bool) error {
	if len(gpuboxPaths) == 0 {
		return errors.New("at least one gpubox file is needed")
	}

	ctx, mErr := obscontext.BuildCorrelatorContext(metafitsPath, gpuboxPaths, obscontext.Options{
		AllowIntegrationTimeMismatch: allowIntegrationMismatch,
	})
	if mErr != nil {
		return mErr
	}

	meta := obscontext.GetMetafitsMetadata(ctx)
	log.Println("Retrieved metadata for obs_id:", meta.ObsID)

	if err := display.Summary(os.Stdout, ctx); err != nil {
		return err
	}

	cc, err := geometry.Check(ctx.Descriptor)
	if err != nil {
		log.Println("geometry cross-check skipped:", err)
		return nil
	}
	if cc.LSTDisagrees {
		log.Printf("warning: computed LST %.4f deg disagrees with metafits LST %.4f deg by %.4f deg\n",
			cc.ComputedLSTDegrees, ctx.Descriptor.LSTDegrees, cc.LSTDeltaDegrees)
	}
	if cc.SunAltDisagrees {
		log.Printf("warning: computed Sun altitude %.4f deg disagrees with metafits value %.4f deg by %.4f deg\n",
			cc.ComputedSunAltDegrees, ctx.Descriptor.SunAltDegrees, cc.SunAltDeltaDegrees)
	}

	return nil
}

func main() {
	app := &cli.App{
		Name:  "mwalib-print-obs-context",
		Usage: "print a correlator observation context built from a metafits file and its gpubox files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "metafits",
				Usage:    "pathname to the metafits file.",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "allow-integration-time-mismatch",
				Usage: "do not fail when the metafits INTTIME keyword disagrees with the gpubox HDU timestamp delta.",
			},
		},
		Action: func(cCtx *cli.Context) error {
			gpuboxPaths := cCtx.Args().Slice()
			return printObsContext(cCtx.String("metafits"), gpuboxPaths, cCtx.Bool("allow-integration-time-mismatch"))
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
