package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"holocron/infrastructure/config"
	"holocron/infrastructure/di"
	"holocron/interfaces/cli"

	"github.com/chzyer/readline"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	// Keep log lines from interleaving with the prompt unless asked for.
	if os.Getenv("LOG_LEVEL") == "" {
		cfg.LogLevel = "error"
	}
	cfg.EnableMetrics = false

	container, cleanup, err := di.InitializeContainer(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer cleanup()

	// Initialize readline with history file from config
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "holocron> ",
		HistoryFile:     cfg.HistoryFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		log.Fatalf("Failed to initialize readline: %v", err)
	}
	defer rl.Close()

	session := container.Sessions.Create(ctx)
	c := cli.NewCLI(session, container.CommandBus, container.QueryBus,
		cfg.SearchDebounce+cfg.RequestTimeout, rl, rl.Stdout())

	fmt.Fprintln(rl.Stdout(), "Type 'help' for a list of commands.")
	_ = c.ExecuteCommand(ctx, []string{"list"})

	// Main loop
	for {
		err := c.Run(ctx)
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				fmt.Fprintln(rl.Stdout(), "Use 'exit' or 'quit' to exit the program.")
				continue
			} else if errors.Is(err, io.EOF) || errors.Is(err, cli.ErrExit) {
				break
			}
			fmt.Fprintln(rl.Stdout(), "Error:", err)
		}
	}
}
