package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dshills/diagen/pkg/engine"
	"github.com/dshills/diagen/pkg/export"
	"github.com/dshills/diagen/pkg/scene"
)

const (
	version = "1.0.0"
)

// CLI flags
var (
	scenePath  = flag.String("scene", "", "Path to YAML scene file (required)")
	configPath = flag.String("config", "", "Path to YAML configuration file (default config if omitted)")
	outputDir  = flag.String("output", ".", "Output directory for generated files")
	format     = flag.String("format", "svg", "Export format: svg, json, or all")
	seedFlag   = flag.Uint64("seed", 0, "Override the seed from config (0 = use config seed)")
	samples    = flag.Int("samples", 0, "Resample-best draw count (0 = use config value)")
	labels     = flag.Bool("labels", false, "Draw shape name labels in the SVG")
	verbose    = flag.Bool("verbose", false, "Enable verbose output")
	versionF   = flag.Bool("version", false, "Print version and exit")
	help       = flag.Bool("help", false, "Show help message")
)

func main() {
	flag.Parse()

	if *versionF {
		fmt.Printf("diagen version %s\n", version)
		os.Exit(0)
	}

	if *help {
		printHelp()
		os.Exit(0)
	}

	if *scenePath == "" {
		fmt.Fprintln(os.Stderr, "Error: -scene flag is required")
		printUsage()
		os.Exit(1)
	}

	validFormats := map[string]bool{
		"svg":  true,
		"json": true,
		"all":  true,
	}
	if !validFormats[*format] {
		fmt.Fprintf(os.Stderr, "Error: invalid format %q, must be one of: svg, json, all\n", *format)
		os.Exit(1)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := engine.DefaultConfig()
	if *configPath != "" {
		if *verbose {
			fmt.Printf("Loading configuration from %s\n", *configPath)
		}
		loaded, err := engine.LoadConfig(*configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if *seedFlag != 0 {
		if *verbose {
			fmt.Printf("Overriding seed from %d to %d\n", cfg.Seed, *seedFlag)
		}
		cfg.Seed = *seedFlag
	}

	if *verbose {
		fmt.Printf("Using seed: %d\n", cfg.Seed)
		fmt.Printf("Canvas: %.0fx%.0f\n", cfg.Canvas.Width, cfg.Canvas.Height)
		fmt.Printf("Method: %s\n", cfg.Opt.Method)
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if *verbose {
		fmt.Printf("Loading scene from %s\n", *scenePath)
	}
	translation, err := scene.Load(*scenePath)
	if err != nil {
		return fmt.Errorf("failed to load scene: %w", err)
	}

	start := time.Now()
	state, err := engine.Compile(translation, cfg)
	if err != nil {
		return fmt.Errorf("compile failed: %w", err)
	}
	if *verbose {
		fmt.Printf("Sampling stage seed: %d\n", state.RNG.Seed())
	}

	n := *samples
	if n == 0 {
		n = cfg.Opt.ResampleCount
	}
	if *verbose {
		fmt.Printf("Resampling best of %d draws\n", n)
	}
	state, err = state.ResampleBest(n)
	if err != nil {
		return fmt.Errorf("resample failed: %w", err)
	}
	elapsed := time.Since(start)

	energyVal, err := state.EvalEnergy()
	if err != nil {
		return fmt.Errorf("energy evaluation failed: %w", err)
	}

	fmt.Printf("Compiled %d shapes, %d varying values in %v (energy %.4g)\n",
		len(state.Shapes), len(state.VaryingState), elapsed, energyVal)
	for _, w := range state.Translation.Warnings() {
		fmt.Printf("warning: %s\n", w)
	}

	base := stem(*scenePath)
	if *format == "svg" || *format == "all" {
		opts := export.DefaultSVGOptions()
		opts.Width = int(cfg.Canvas.Width)
		opts.Height = int(cfg.Canvas.Height)
		opts.ShowLabels = *labels
		out := filepath.Join(*outputDir, base+".svg")
		if err := export.SaveSVGToFile(state.Shapes, state.ShapeOrdering, out, opts); err != nil {
			return fmt.Errorf("failed to write SVG: %w", err)
		}
		fmt.Printf("Wrote %s\n", out)
	}
	if *format == "json" || *format == "all" {
		out := filepath.Join(*outputDir, base+".json")
		if err := export.SaveJSONToFile(state.Shapes, state.ShapeOrdering, out); err != nil {
			return fmt.Errorf("failed to write JSON: %w", err)
		}
		fmt.Printf("Wrote %s\n", out)
	}

	return nil
}

// stem returns the scene file name without directory or extension.
func stem(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage: diagen -scene <scene.yaml> [options]")
	fmt.Fprintln(os.Stderr, "Run 'diagen -help' for details")
}

func printHelp() {
	fmt.Println("diagen - constraint-based diagram generator")
	fmt.Println()
	fmt.Println("Usage: diagen -scene <scene.yaml> [options]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  diagen -scene venn.yaml")
	fmt.Println("  diagen -scene venn.yaml -config engine.yaml -samples 1000 -format all")
	fmt.Println("  diagen -scene venn.yaml -seed 17 -labels -output out/")
}
