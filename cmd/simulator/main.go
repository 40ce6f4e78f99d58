package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

var (
	serverURL   = flag.String("server", "http://localhost:8000", "Assistant HTTP base URL")
	wsURL       = flag.String("ws", "", "Voice websocket URL (e.g. ws://localhost:8000/ws/voice); empty uses HTTP")
	queriesFile = flag.String("queries", "", "File with one query per line; empty uses built-in samples")
	rate        = flag.Duration("rate", 2*time.Second, "Delay between queries in load mode")
	count       = flag.Int("count", 0, "Number of queries to send in load mode (0 = loop forever)")
	interactive = flag.Bool("interactive", false, "Read queries from stdin instead of load mode")
	verbose     = flag.Bool("verbose", false, "Enable verbose logging")
)

func main() {
	flag.Parse()

	var logger *zap.Logger
	var err error
	if *verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	config := &SimulatorConfig{
		ServerURL:    *serverURL,
		WebsocketURL: *wsURL,
		QueriesFile:  *queriesFile,
		Rate:         *rate,
		Count:        *count,
	}

	simulator := NewSimulator(config, logger)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down simulator...")
		simulator.Stop()
		os.Exit(0)
	}()

	if err := simulator.Connect(); err != nil {
		logger.Fatal("Failed to connect to assistant", zap.Error(err))
	}
	defer simulator.Close()

	if *interactive {
		runInteractiveMode(simulator)
		return
	}

	fmt.Printf("Hurliman query simulator started\n")
	fmt.Printf("  Server: %s\n", *serverURL)
	if *wsURL != "" {
		fmt.Printf("  Transport: websocket (%s)\n", *wsURL)
	} else {
		fmt.Printf("  Transport: http\n")
	}
	fmt.Println("\nPress Ctrl+C to stop")

	simulator.RunLoad()
	simulator.PrintStats()
}

func runInteractiveMode(sim *Simulator) {
	fmt.Println("\nHurliman query simulator - Interactive Mode")
	fmt.Println("===========================================")
	fmt.Println("Type a query and press Enter; the routed answer is printed.")
	fmt.Println("Commands:")
	fmt.Println("  :stats    - Print session statistics")
	fmt.Println("  :quit     - Exit simulator")
	fmt.Println("")

	sim.RunInteractive()
}
