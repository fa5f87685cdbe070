package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/ironsheep/partnum-ocr/internal/config"
	"github.com/ironsheep/partnum-ocr/internal/imaging"
	"github.com/ironsheep/partnum-ocr/internal/logging"
	"github.com/ironsheep/partnum-ocr/internal/ocr"
	"github.com/ironsheep/partnum-ocr/internal/partnum"
	"github.com/ironsheep/partnum-ocr/internal/server"
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
			fmt.Printf("partnum-ocr %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		}
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "partnum-ocr: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("partnum-ocr - HTTP service that reads part numbers from images")
	fmt.Println()
	fmt.Println("Usage: partnum-ocr [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables (also read from ./.env):")
	fmt.Println("  PARTNUM_ADDR=:8000                listen address")
	fmt.Println("  PARTNUM_LOG_LEVEL=info            debug, info, warn or error")
	fmt.Println("  PARTNUM_OCR_ENGINE=tesseract      tesseract or rekognition")
	fmt.Println("  PARTNUM_OCR_LANGUAGE=eng          Tesseract language(s), e.g. eng+deu")
	fmt.Println("  PARTNUM_TESSDATA_PREFIX=          directory holding *.traineddata")
	fmt.Println("  PARTNUM_OCR_WHITELIST=            restrict recognized characters")
	fmt.Println("  PARTNUM_OCR_PSM=3                 Tesseract page segmentation mode")
	fmt.Println("  PARTNUM_PREPROCESS=               e.g. grayscale,contrast,sharpen,upscale")
	fmt.Println("  PARTNUM_MAX_UPLOAD_MB=20          request body limit")
	fmt.Println("  PARTNUM_MAX_PIXELS=178956970      decoded image size limit (width*height)")
	fmt.Println("  PARTNUM_CORS_ORIGINS=*            comma separated allowed origins")
	fmt.Println("  PARTNUM_SHUTDOWN_TIMEOUT=10s      graceful shutdown limit")
	fmt.Println("  AWS_REGION=us-east-1              region for the rekognition engine")
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level := logging.ParseLevel(cfg.LogLevel)
	logger := logging.New(os.Stderr, "partnum-ocr", level)
	logger.Info("starting",
		"version", Version,
		"build_time", BuildTime,
		"commit", GitCommit,
		"addr", cfg.Addr)

	if level != logging.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The server still starts without an engine so /health can report it.
	engine, err := ocr.New(ctx, ocr.Options{
		Backend: cfg.OCREngine,
		Tesseract: ocr.TesseractConfig{
			Language:       cfg.OCRLanguage,
			TessdataPrefix: cfg.TessdataPrefix,
			Whitelist:      cfg.OCRWhitelist,
			PageSegMode:    cfg.OCRPageSegMode,
		},
		AWSRegion: cfg.AWSRegion,
	})
	if err != nil {
		logger.Warn("OCR engine failed to load, recognition disabled", "engine", cfg.OCREngine, "error", err)
	} else {
		logger.Info("OCR engine loaded", "engine", engine.Name(), "version", engine.Version())
		if closer, ok := engine.(io.Closer); ok {
			defer closer.Close()
		}
	}

	pre := imaging.NewPreprocessor(cfg.Preprocess...)
	if steps := pre.Steps(); len(steps) > 0 {
		logger.Info("preprocessing enabled", "steps", steps)
	}

	pipeline := partnum.NewPipeline(engine,
		partnum.WithPreprocessor(pre),
		partnum.WithMaxPixels(cfg.MaxPixels),
		partnum.WithLogger(logger.With("pipeline")))

	srv := server.New(pipeline, server.Options{
		MaxUploadBytes:  cfg.MaxUploadBytes,
		CORSOrigins:     cfg.CORSOrigins,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger.With("http"))

	return srv.Run(ctx, cfg.Addr)
}
