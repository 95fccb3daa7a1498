// Package main is the entry point for the tdui task manager.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"tdui/internal/backend/googletasks"
	"tdui/internal/backend/todoist"
	"tdui/internal/cli"
	"tdui/internal/commands"
	"tdui/internal/config"
	"tdui/internal/service"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		if cfg.Backend == config.BackendGoogleTasks {
			return googletasks.New(ctx, cfg)
		}
		return todoist.New(ctx, cfg)
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)
	os.Exit(dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}
