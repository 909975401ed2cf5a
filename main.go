package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"

	"github.com/ry755/rybot2/bot"
	"github.com/ry755/rybot2/cli"
	"github.com/ry755/rybot2/emu"
)

func main() {
	capacity := flag.Int("capacity", emu.CapacitySmall, "emulated machine memory size in bytes (max 65536)")
	prefix := flag.String("prefix", "~", "command prefix")
	assembler := flag.String("assembler", "customasm", "external assembler binary for the asm command")
	runFile := flag.String("run", "", "run a program binary locally and exit, without connecting")
	outPath := flag.String("out", "frame.png", "output image path for local runs")
	debug := flag.Bool("debug", false, "enable debug logging")
	quiet := flag.Bool("quiet", false, "only log errors")
	flag.Parse()

	logger := createLogger(*debug, *quiet)

	if *runFile != "" {
		runLocal(logger, *runFile, *capacity, *outPath)
		return
	}

	token := os.Getenv("DISCORD_TOKEN")
	if token == "" {
		logger.Fatal("Expected a token in the DISCORD_TOKEN environment variable")
	}

	b, err := bot.New(bot.Config{
		Token:     token,
		Prefix:    *prefix,
		Capacity:  *capacity,
		Assembler: *assembler,
	}, logger)
	if err != nil {
		logger.Fatal("Creating bot failed", log.Err(err))
	}

	runner := cli.NewRunner(b, logger)
	if err := runner.Run(app.Context()); err != nil {
		logger.Fatal("Running bot failed", log.Err(err))
	}
}

// createLogger creates a logger with appropriate settings.
func createLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// runLocal drives one load-execute-export pass against a program file
// and prints the result, writing the frame image next to the caller.
func runLocal(logger *log.Logger, path string, capacity int, outPath string) {
	program, err := os.ReadFile(path)
	if err != nil {
		logger.Fatal("Reading program failed", log.Err(err))
	}

	driver, err := emu.Load(program, capacity)
	if err != nil {
		logger.Fatal("Loading program failed", log.Err(err))
	}

	fmt.Print(emu.Listing(driver))
	fmt.Println()

	if err := driver.Execute(); err != nil {
		logger.Fatal("Execution failed", log.Err(err))
	}

	result, err := emu.Export(driver)
	if err != nil {
		logger.Error("Frame export failed", log.Err(err))
	}
	fmt.Print(result.RegisterText)

	if result.FramePNG != nil {
		// A failed image write still leaves the register text above.
		if err := os.WriteFile(outPath, result.FramePNG, 0o644); err != nil {
			logger.Error("Writing frame image failed",
				log.String("path", outPath),
				log.Err(err))
			return
		}
		logger.Info("Frame written",
			log.String("path", outPath),
			log.Int("cycles", int(driver.Clock())))
	}
}
