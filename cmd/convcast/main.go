// Package main provides the convcast CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/born-ml/convcast/internal/forecast"
)

var commands = map[string]func(ctx context.Context, args []string) error{
	"window":   runWindow,
	"train":    runTrain,
	"predict":  runPredict,
	"forecast": runForecast,
	"import":   runImport,
	"series":   runSeries,
	"models":   runModels,
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	name := os.Args[1]
	switch name {
	case "version":
		fmt.Printf("convcast %s\n", forecast.Version)
		return
	case "help", "-h", "--help":
		usage()
		return
	}

	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", name)
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd(ctx, os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "convcast %s: %v\n", name, err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("convcast - 1D CNN timeseries forecasting")
	fmt.Printf("Version: %s\n\n", forecast.Version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("  window     Print the supervised instances of a series")
	fmt.Println("  train      Fit a model and save the checkpoint")
	fmt.Println("  predict    Predict the observation after a series")
	fmt.Println("  forecast   Predict several steps ahead")
	fmt.Println("  import     Store a CSV series")
	fmt.Println("  series     List stored series")
	fmt.Println("  models     List stored models")
	fmt.Println("")
	fmt.Println("Run 'convcast <command> -h' for the flags of a command.")
}
