// Command rectify flattens one photographed document.
//
//	rectify [-w W] [-h H] [-debug mask.png] in.jpg out.{png,jpg,pdf}
//
// It exits with status 2 when the photo is rejected (markers missing, quad
// too small...) and 1 on any other error.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"github.com/ironsheep/docrectify-mcp/internal/config"
	"github.com/ironsheep/docrectify-mcp/internal/detection"
	"github.com/ironsheep/docrectify-mcp/internal/failure"
	"github.com/ironsheep/docrectify-mcp/internal/imaging"
	"github.com/ironsheep/docrectify-mcp/internal/logging"
	"github.com/ironsheep/docrectify-mcp/internal/rectify"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fset := flag.NewFlagSet("rectify", flag.ContinueOnError)
	width := fset.Int("w", 0, "output width in pixels (0 = derive from markers; with -h only, keeps their aspect ratio)")
	height := fset.Int("h", 0, "output height in pixels (0 = derive from markers; with -w only, keeps their aspect ratio)")
	debugPath := fset.String("debug", "", "write the marker mask diagnostic to this file")
	fset.Usage = func() {
		fmt.Fprintln(fset.Output(), "Usage: rectify [-w W] [-h H] [-debug mask.png] in out.{png,jpg,pdf}")
		fset.PrintDefaults()
	}
	if err := fset.Parse(args); err != nil {
		return 1
	}
	if fset.NArg() != 2 {
		fset.Usage()
		return 1
	}
	in, out := fset.Arg(0), fset.Arg(1)

	envErr := godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	logger, err := logging.New(cfg.LogLevel, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	detection.SetLogger(logger)
	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		logger.Warn("failed to read .env", "error", envErr)
	}

	format, err := imaging.FormatFromPath(out)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	img, err := imaging.NewImageCacheWithLimit(cfg.MaxDimension).Load(in)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	opts := cfg.PipelineOptions()
	opts.TargetWidth = *width
	opts.TargetHeight = *height
	opts.KeepMask = *debugPath != ""
	opts.Logger = logger

	res, runErr := rectify.New(opts).Run(imaging.ToPixelBuffer(img))

	if *debugPath != "" && res.Mask != nil {
		overlay, err := imaging.ParseOverlayColor(cfg.OverlayColor)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		diag := imaging.RenderDiagnostic(*res.Mask, res.Centroids, overlay)
		if _, err := imaging.EncodeRaster(imaging.ToPixelBuffer(diag), imaging.FormatPNG, *debugPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}

	fmt.Println(res.Status)
	if runErr != nil {
		var fe *failure.Error
		if errors.As(runErr, &fe) {
			return 2
		}
		fmt.Fprintln(os.Stderr, runErr)
		return 1
	}

	if _, err := imaging.EncodeRaster(res.Raster, format, out); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(res.Metrics)
	return 0
}
