package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/classwatch/internal/demo"
	"github.com/okian/classwatch/pkg/logger"
)

// Default configuration constants.
const (
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 10 * time.Second
	defaultWait        = 30 * time.Second
	defaultTestTimeout = 5 * time.Minute
)

func main() {
	gen := demo.DefaultGeneratorConfig()
	var (
		baseURL  = flag.String("url", "http://localhost:9080", "Base URL of the service")
		workers  = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent submitters")
		timeout  = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		wait     = flag.Duration("wait", defaultWait, "How long to wait for the cohort to be stored")
		output   = flag.String("output", "", "Write the generated cohort to this JSON file")
		weeks    = flag.Int("weeks", gen.Weeks, "Number of weekly batches")
		seed     = flag.Int64("seed", gen.Seed, "Seed for the steady students' jitter")
		genOnly  = flag.Bool("generate-only", false, "Only write the cohort to -output; do not contact the service")
		logLevel = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	)
	flag.Parse()

	if err := logger.Init(logger.WithLevel(*logLevel)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get()

	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	gen.Weeks = *weeks
	gen.Seed = *seed
	records := demo.Generate(gen)

	if *genOnly {
		if *output == "" {
			log.Error(ctx, "-generate-only requires -output")
			os.Exit(2)
		}
		if err := demo.SaveRecords(*output, records); err != nil {
			log.Error(ctx, "failed to save cohort", logger.Error(err))
			os.Exit(1)
		}
		log.Info(ctx, "cohort written", logger.String("file", *output), logger.Int("observations", len(records)))
		return
	}

	if _, err := demo.Run(ctx, demo.RunnerConfig{
		BaseURL:     *baseURL,
		Workers:     *workers,
		Timeout:     *timeout,
		WaitTimeout: *wait,
		OutputFile:  *output,
	}, records); err != nil {
		log.Error(ctx, "demo run failed", logger.Error(err))
		os.Exit(1)
	}
}
