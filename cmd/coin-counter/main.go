package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ironsheep/coin-counter/internal/config"
	"github.com/ironsheep/coin-counter/internal/counter"
	"github.com/ironsheep/coin-counter/internal/detection"
	"github.com/ironsheep/coin-counter/internal/display"
	"github.com/ironsheep/coin-counter/internal/imaging"
	"github.com/ironsheep/coin-counter/internal/logging"
	"github.com/ironsheep/coin-counter/internal/server"
	"github.com/ironsheep/coin-counter/internal/valuation"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const (
	exitOK          = 0
	exitFailure     = 1
	exitUsage       = 2
	exitUnavailable = 3
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stderr)
		return exitUsage
	}

	switch args[0] {
	case "--version", "-v", "version":
		fmt.Fprintf(stdout, "coin-counter %s\n", Version)
		fmt.Fprintf(stdout, "  Build time: %s\n", BuildTime)
		fmt.Fprintf(stdout, "  Git commit: %s\n", GitCommit)
		return exitOK
	case "--help", "-h", "help":
		printUsage(stdout)
		return exitOK
	case "denominations":
		return runDenominations(stdout)
	case "count":
		return runCount(ctx, args[1:], stdout, stderr)
	case "serve":
		return runServe(ctx, args[1:], stderr)
	default:
		fmt.Fprintf(stderr, "unknown command: %s\n\n", args[0])
		printUsage(stderr)
		return exitUsage
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "coin-counter - count and value coins in a photograph")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  coin-counter count [options] <image.jpg|image.png>")
	fmt.Fprintln(w, "  coin-counter serve [options]")
	fmt.Fprintln(w, "  coin-counter denominations")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Count options:")
	fmt.Fprintln(w, "  --out <path>          Write the annotated image (.png, .jpg)")
	fmt.Fprintln(w, "  --height <px>         Display height of the written image (default COIN_DISPLAY_HEIGHT)")
	fmt.Fprintln(w, "  --detections <file>   Replay detections from a JSON file instead of running a model")
	fmt.Fprintln(w, "  --no-color            Disable coloured swatches")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  --version, -v    Print version information")
	fmt.Fprintln(w, "  --help, -h       Print this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables (also read from .env):")
	fmt.Fprintln(w, "  COIN_MODEL_PATH         ONNX weights (default weights.onnx)")
	fmt.Fprintln(w, "  COIN_LABELS_PATH        Class names, one per line (default labels.txt)")
	fmt.Fprintln(w, "  COIN_CONFIDENCE         Detection threshold (default 0.45)")
	fmt.Fprintln(w, "  COIN_IOU                NMS overlap threshold (default 0.45)")
	fmt.Fprintln(w, "  COIN_INPUT_SIZE         Network input size (default 640)")
	fmt.Fprintln(w, "  COIN_INFERENCE_URL      Use a remote inference service instead of the local model")
	fmt.Fprintln(w, "  COIN_INFERENCE_TIMEOUT  Remote timeout in seconds (default 30)")
	fmt.Fprintln(w, "  COIN_DISPLAY_HEIGHT     Annotated image height (default 650)")
	fmt.Fprintln(w, "  COIN_LOG_LEVEL          debug, info, warn or error (default info)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "serve speaks MCP over stdin/stdout; logs go to stderr.")
}

func runDenominations(stdout io.Writer) int {
	for _, e := range valuation.Default().Entries() {
		fmt.Fprintf(stdout, "%-6s %4d %s  %s\n", e.Label, e.Value, valuation.Currency, e.Hex())
	}
	return exitOK
}

// setup loads configuration and builds the logger.
func setup(stderr io.Writer) (*config.Config, *logging.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	log := logging.New(stderr, "coin-counter", logging.ParseLevel(cfg.LogLevel))
	return cfg, log, nil
}

// buildDetector picks the adapter: a replay file if given, the remote service
// if COIN_INFERENCE_URL is set, otherwise the local ONNX model.
func buildDetector(ctx context.Context, cfg *config.Config, replay string, log *logging.Logger) (detection.Detector, error) {
	switch {
	case replay != "":
		log.Info("replaying detections", "path", replay)
		return detection.LoadReplay(replay, cfg.Confidence)

	case cfg.InferenceURL != "":
		log.Info("Loading AI Model...", "adapter", "remote", "url", cfg.InferenceURL)
		det, err := detection.NewRemote(ctx, detection.RemoteConfig{
			URL:           cfg.InferenceURL,
			MinConfidence: cfg.Confidence,
			Timeout:       cfg.InferenceTimeout,
		})
		if err != nil {
			return nil, err
		}
		log.Info("AI Model loaded successfully", "adapter", "remote")
		return det, nil

	default:
		log.Info("Loading AI Model...", "adapter", "onnx", "model", cfg.ModelPath)
		labels, err := detection.LoadLabels(cfg.LabelsPath)
		if err != nil {
			return nil, detection.Unavailable("failed to load labels: %v", err)
		}
		det, err := detection.NewONNX(detection.ONNXConfig{
			ModelPath:     cfg.ModelPath,
			Labels:        labels,
			MinConfidence: cfg.Confidence,
			IoU:           cfg.IoU,
			InputSize:     cfg.InputSize,
		})
		if err != nil {
			return nil, err
		}
		log.Info("AI Model loaded successfully", "adapter", "onnx", "classes", len(labels))
		return det, nil
	}
}

func runCount(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("count", flag.ContinueOnError)
	fs.SetOutput(stderr)
	out := fs.String("out", "", "write the annotated image to this path")
	height := fs.Int("height", 0, "display height of the written image")
	replay := fs.String("detections", "", "replay detections from a JSON file")
	noColor := fs.Bool("no-color", false, "disable coloured swatches")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "count: exactly one image path is required")
		return exitUsage
	}
	path := fs.Arg(0)

	cfg, log, err := setup(stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitFailure
	}
	if *height <= 0 {
		*height = cfg.DisplayHeight
	}

	det, err := buildDetector(ctx, cfg, *replay, log)
	if err != nil {
		log.Error("Error loading model", "error", err)
		fmt.Fprintln(stderr, counter.NewAdapterUnavailableError(err))
		return exitUnavailable
	}

	c := counter.New(det, valuation.Default(), log)
	defer c.Close()

	outcome, err := c.ProcessFile(ctx, path)
	if err != nil {
		fmt.Fprintln(stderr, err)
		if counter.CodeOf(err) == counter.ErrorAdapterUnavailable {
			return exitUnavailable
		}
		return exitFailure
	}

	if err := display.WriteReport(stdout, outcome.Report, display.Options{NoColor: *noColor}); err != nil {
		log.Error("failed to write report", "error", err)
		return exitFailure
	}

	if *out != "" {
		fitted, err := imaging.FitHeight(outcome.Annotated, *height)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return exitFailure
		}
		if err := display.SaveImage(*out, fitted); err != nil {
			fmt.Fprintln(stderr, err)
			return exitFailure
		}
		log.Info("annotated image written", "image_id", outcome.ImageID, "path", *out,
			"width", fitted.Bounds().Dx(), "height", fitted.Bounds().Dy())
	}

	return exitOK
}

func runServe(ctx context.Context, args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	replay := fs.String("detections", "", "replay detections from a JSON file")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	cfg, log, err := setup(stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitFailure
	}
	log.Debug("Coin Counter MCP Server", "version", Version, "built", BuildTime, "commit", GitCommit)

	opts := server.Options{
		DisplayHeight: cfg.DisplayHeight,
		Version:       Version,
		Logger:        log,
	}

	det, err := buildDetector(ctx, cfg, *replay, log)
	if err != nil {
		// Keep serving so clients get a clear ADAPTER_UNAVAILABLE from coin_count.
		log.Error("Error loading model", "error", err)
		opts.Unavailable = err
	} else {
		c := counter.New(det, valuation.Default(), log)
		defer c.Close()
		opts.Counter = c
	}

	srv := server.New(opts)
	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server error", "error", err)
		return exitFailure
	}
	return exitOK
}
