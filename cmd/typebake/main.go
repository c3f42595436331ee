package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/typebake/typebake/internal/config"
	"github.com/typebake/typebake/internal/generator"
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
			fmt.Printf("typebake %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		}
	}

	var (
		configPath = flag.String("config", "", "path to a JSON or YAML config file (defaults apply if empty)")
		text       = flag.String("text", "", "literal text to render; repeatable via comma separation")
		count      = flag.Int("count", 0, "number of random samples to generate")
		length     = flag.Int("length", 0, "character count per random sample (0 draws from the configured range)")
		outputDir  = flag.String("output", "", "output directory override")
		seed       = flag.Int64("seed", 0, "seed override (0 keeps the configured seed)")
	)
	flag.Usage = usage
	flag.Parse()

	// Logging to stderr keeps stdout clean for generated file paths.
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime)

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("config error: %v", err)
		}
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}

	gen, err := generator.New(cfg)
	if err != nil {
		log.Fatalf("generator error: %v", err)
	}

	if *text == "" && *count <= 0 {
		usage()
		os.Exit(2)
	}

	failures := 0
	if *text != "" {
		texts := strings.Split(*text, ",")
		for _, item := range gen.GenerateBatch(texts) {
			if item.Err != nil {
				failures++
				continue
			}
			failures += saveResult(gen, item.Result, *outputDir)
		}
	}

	for i := 0; i < *count; i++ {
		res, err := gen.GenerateRandom(*length)
		if err != nil {
			log.Printf("random sample %d: %v", i, err)
			failures++
			continue
		}
		failures += saveResult(gen, res, *outputDir)
	}

	if failures > 0 {
		log.Fatalf("%d generation(s) failed", failures)
	}
}

// saveResult persists one result and prints its path. It returns 1 on
// failure so callers can accumulate a failure count.
func saveResult(gen *generator.Generator, res *generator.Result, outputDir string) int {
	path, err := gen.Save(res, "", outputDir)
	if err != nil {
		log.Printf("save %q: %v", res.Text, err)
		return 1
	}
	fmt.Println(path)
	return 0
}

func usage() {
	fmt.Fprintln(os.Stderr, "typebake - synthetic text-image generator for OCR training data")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Usage: typebake [options]")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Options:")
	flag.PrintDefaults()
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Examples:")
	fmt.Fprintln(os.Stderr, "  typebake -text hello -output out/")
	fmt.Fprintln(os.Stderr, "  typebake -config gen.yaml -count 100 -seed 7")
}
