package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/ironsheep/docrectify-mcp/internal/config"
	"github.com/ironsheep/docrectify-mcp/internal/detection"
	"github.com/ironsheep/docrectify-mcp/internal/logging"
	"github.com/ironsheep/docrectify-mcp/internal/ocr"
	"github.com/ironsheep/docrectify-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("docrectify-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("docrectify-mcp - MCP server for fiducial-marker document rectification")
			fmt.Println()
			fmt.Println("Usage: docrectify-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables (also read from ./.env):")
			fmt.Println("  DOCRECTIFY_LOG_LEVEL=debug|info|warn|error")
			fmt.Println("  DOCRECTIFY_MAX_DIMENSION=3400      Downscale limit, 0 disables")
			fmt.Println("  DOCRECTIFY_MIN_MARKER_AREA=0.0001  Smallest marker, as a share of the image")
			fmt.Println("  DOCRECTIFY_MIN_ASPECT=0.7 DOCRECTIFY_MAX_ASPECT=1.4")
			fmt.Println("  DOCRECTIFY_MIN_FILL=0.4")
			fmt.Println("  DOCRECTIFY_MIN_QUAD_AREA=0.06      Smallest quad, as a share of the image")
			fmt.Println("  DOCRECTIFY_ALLOW_DEGENERATE=false")
			fmt.Println("  DOCRECTIFY_OVERLAY_COLOR=#FF0000")
			fmt.Println("  DOCRECTIFY_OCR_LANGUAGE=eng")
			fmt.Println("  DOCRECTIFY_TESSDATA_DIR=           Tesseract models, default next to the binary")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	// stdout is for MCP protocol
	log.SetOutput(os.Stderr)

	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, os.Stderr)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	detection.SetLogger(logger)

	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		logger.Warn("failed to read .env", "error", envErr)
	}
	if err := ocr.SetTessdataDir(cfg.TessdataDir); err != nil {
		logger.Warn("ignoring DOCRECTIFY_TESSDATA_DIR", "error", err)
	}
	logger.Debug("docrectify-mcp starting",
		"version", Version,
		"build_time", BuildTime,
		"commit", GitCommit,
		"max_dimension", cfg.MaxDimension)

	srv := server.New(cfg, logger)
	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
