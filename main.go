// ABOUTME: Entry point for the wavecut waveform segment editor
// ABOUTME: Parses CLI flags and starts the editor or runs a batch segmentation
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Resonate-Protocol/wavecut/internal/config"
	"github.com/Resonate-Protocol/wavecut/internal/session"
	"github.com/Resonate-Protocol/wavecut/internal/ui"
	"github.com/Resonate-Protocol/wavecut/internal/version"
	"github.com/Resonate-Protocol/wavecut/pkg/audio/output"
	"github.com/Resonate-Protocol/wavecut/pkg/vad"
)

var (
	logFile      = flag.String("log-file", "wavecut.log", "Log file path")
	noTUI        = flag.Bool("no-tui", false, "Disable TUI, segment in batch mode and print markers")
	minSilence   = flag.Float64("min-silence", config.DefaultMinSilence, "Minimum silence in seconds that ends a segment")
	vadEngine    = flag.String("vad-engine", config.DefaultVADEngine, "Speech detector: auto, silero or energy")
	vadModel     = flag.String("vad-model", "", "Path to the Silero ONNX model")
	logLevel     = flag.String("log-level", config.DefaultLogLevel, "Log level: debug, info, warn or error")
	track        = flag.Int("track", 2, "Track used by -export-marker (1: speech, 2: silence)")
	exportMarker = flag.Int("export-marker", 0, "Batch mode: export the segment starting at this marker (1-based)")
	out          = flag.String("out", "", "Batch mode: export path (default: next to the input)")
	showVersion  = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] file1.wav [file2.wav]\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	useTUI := !*noTUI

	// Set up logging
	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	var logOut io.Writer = f
	if !useTUI {
		// Batch mode: log to both stdout and file
		logOut = io.MultiWriter(os.Stdout, f)
	}
	log.SetOutput(logOut)

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// log.Printf output is routed through this handler at info level
	slog.SetDefault(newLogger(logOut, cfg.Level()))
	slog.Debug("configuration loaded",
		"min_silence", cfg.MinSilence,
		"silence_threshold", cfg.SilenceThreshold,
		"vad_engine", cfg.VADEngine,
		"vad_model", cfg.VADModel,
		"vad_params", cfg.VADParams(),
	)

	paths := flag.Args()
	if useTUI && len(paths) == 0 {
		flag.Usage()
		os.Exit(2)
	}
	if !useTUI && len(paths) == 0 {
		log.Fatalf("No input files")
	}

	detector, err := vad.New(cfg.VAD())
	if err != nil {
		log.Fatalf("Failed to create speech detector: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var sink output.Sink = output.NewDiscard()
	if useTUI {
		sink = output.NewOto()
	}

	s := session.New(cfg, detector, sink)
	defer func() {
		if err := s.Close(); err != nil {
			log.Printf("Error closing audio output: %v", err)
		}
	}()

	// a single file is compared against itself: speech markers above, silence markers below
	if len(paths) == 1 {
		paths = append(paths, paths[0])
	}

	if err := s.Load(paths...); err != nil {
		log.Fatalf("Failed to load: %v", err)
	}

	log.Printf("Starting %s", version.String())

	if useTUI {
		if err := ui.Run(ctx, s); err != nil && ctx.Err() == nil {
			log.Fatalf("TUI error: %v", err)
		}
		log.Printf("Editor closed")
		return
	}

	if err := runBatch(ctx, s); err != nil {
		log.Fatalf("%v", err)
	}
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(handler)
}

// loadConfig reads the environment, then applies flags the user set explicitly,
// then validates the result
func loadConfig() (config.Config, error) {
	cfg, err := config.Loader{}.Read()
	if err != nil {
		return config.Config{}, err
	}

	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "min-silence":
			cfg.MinSilence = *minSilence
		case "vad-engine":
			cfg.VADEngine = *vadEngine
		case "vad-model":
			cfg.VADModel = *vadModel
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// runBatch segments every loaded track, prints the markers and optionally exports one segment
func runBatch(ctx context.Context, s *session.Session) error {
	for _, tr := range s.Tracks {
		if _, err := tr.PlaceMarkers(ctx); err != nil {
			return fmt.Errorf("%s: %w", tr.Name, err)
		}

		markers := tr.Store().Sorted()
		fmt.Printf("%s (%s) %s: %d markers\n", tr.Name, tr.Method, tr.Path(), len(markers))
		for i, m := range markers {
			fmt.Printf("  %3d  %9.3fs\n", i+1, m.Time)
		}
	}

	if *exportMarker == 0 {
		return nil
	}

	tr, err := s.Track(*track - 1)
	if err != nil {
		return err
	}
	if !tr.Loaded() {
		return fmt.Errorf("%s has no file loaded", tr.Name)
	}
	if err := tr.SelectOrdinal(*exportMarker); err != nil {
		return fmt.Errorf("%s: %w", tr.Name, err)
	}

	path := *out
	if path == "" {
		path = ui.ExportPath(tr.Path(), *exportMarker)
	}

	clip, err := tr.Export(path)
	if err != nil {
		return err
	}
	fmt.Printf("Exported %.3fs-%.3fs (%d samples) to %s\n", clip.Start, clip.End, clip.Samples(), path)
	return nil
}
