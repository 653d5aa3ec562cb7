package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/pprof"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"pathtracer/pkg/renderer"
	"pathtracer/pkg/scene"
)

func main() {
	workers := flag.Int("workers", 0, "Number of parallel workers (0 = CPU count)")
	outputDir := flag.String("output", ".", "Directory for the per-frame PNG files")
	cpuProfile := flag.String("cpuprofile", "", "Write CPU profile to file")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Println("Usage: pathtracer [options] <config-file>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	logger := newLogger()
	defer logger.Sync()

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Printf("Could not create CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Printf("Could not start CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	sc, err := scene.LoadConfig(flag.Arg(0), logger)
	if err != nil {
		fmt.Printf("Config error: %v\n", err)
		os.Exit(1)
	}

	r := renderer.NewRenderer(sc, *workers, *outputDir, logger)
	if err := r.Render(); err != nil {
		fmt.Printf("Render error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger builds a console logger writing to stdout
func newLogger() *zap.SugaredLogger {
	config := zap.NewDevelopmentConfig()
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stdout"}
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	logger, err := config.Build()
	if err != nil {
		fmt.Printf("Could not create logger: %v\n", err)
		os.Exit(1)
	}
	return logger.Sugar()
}
