package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/huntboard/internal/config"
	"git.home.luguber.info/inful/huntboard/internal/daemon"
	"git.home.luguber.info/inful/huntboard/internal/hunt"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"huntboard.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Serve struct{} `cmd:"" help:"Run the hunt API server"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new configuration file"`

	Status struct{} `cmd:"" help:"Show hunt progress and unlocked reward"`

	Mark struct {
		Item  string `arg:"" help:"Item ID or title"`
		Photo string `arg:"" type:"existingfile" help:"Path to the captured photo"`
	} `cmd:"" help:"Mark an item found with a photo"`

	Clear struct {
		Item string `arg:"" help:"Item ID or title"`
	} `cmd:"" help:"Clear an item's found mark and discard its photo"`

	Reset struct{} `cmd:"" help:"Clear every item and photo"`

	Submit struct{} `cmd:"" help:"Submit the completed hunt"`
}

func main() {
	ctx := kong.Parse(&CLI)

	config.LoadEnvFiles()
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load configuration:", err)
		os.Exit(1)
	}

	level := config.SetupLogging(cfg.Logging, CLI.Verbose)

	var cmdErr error
	switch ctx.Command() {
	case "serve":
		cmdErr = runServe(cfg, level)
	case "init":
		cmdErr = config.Init(CLI.Config, CLI.Init.Force)
		if cmdErr == nil {
			fmt.Println("Wrote", CLI.Config)
		}
	case "status":
		cmdErr = runStatus(cfg)
	case "mark <item> <photo>":
		cmdErr = runMark(cfg, CLI.Mark.Item, CLI.Mark.Photo)
	case "clear <item>":
		cmdErr = runClear(cfg, CLI.Clear.Item)
	case "reset":
		cmdErr = runReset(cfg)
	case "submit":
		cmdErr = runSubmit(cfg)
	}

	if cmdErr != nil {
		slog.Error("Command failed", "command", ctx.Command(), "error", cmdErr)
		os.Exit(1)
	}
}

func runServe(cfg *config.Config, level *slog.LevelVar) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	d, err := daemon.New(cfg, CLI.Config, level)
	if err != nil {
		return fmt.Errorf("failed to create daemon: %w", err)
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- d.Start(ctx)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		slog.Info("Shutdown signal received, stopping...")
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()
	return d.Stop(stopCtx)
}

func runStatus(cfg *config.Config) error {
	tracker, cleanup, err := openTracker(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	snapshot := tracker.Snapshot()
	for _, it := range snapshot.Items {
		mark := " "
		if it.Found {
			mark = "x"
		}
		fmt.Printf("[%s] %-18s %s\n", mark, it.Title, it.Clue)
	}
	fmt.Printf("\nFound %d of %d items.\n", snapshot.FoundCount(), snapshot.Total())

	if tier, ok := hunt.RewardFor(snapshot.FoundCount()); ok {
		fmt.Printf("Reward unlocked: %s (%s)\n", tier.Code, tier.Description)
	} else {
		fmt.Println("No reward unlocked yet.")
	}
	for _, tier := range hunt.Tiers() {
		fmt.Printf("  %2d+ items: %s\n", tier.Threshold, tier.Description)
	}
	return nil
}

func runMark(cfg *config.Config, item, photoPath string) error {
	tracker, cleanup, err := openTracker(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	id, err := resolveItem(tracker.Snapshot(), item)
	if err != nil {
		return err
	}

	image, err := os.ReadFile(photoPath) // #nosec G304 - user-chosen photo path
	if err != nil {
		return fmt.Errorf("read photo: %w", err)
	}

	if err := tracker.MarkFound(context.Background(), id, image); err != nil {
		return err
	}
	fmt.Printf("Marked found. %d of %d items.\n", tracker.FoundCount(), tracker.Total())
	return nil
}

func runClear(cfg *config.Config, item string) error {
	tracker, cleanup, err := openTracker(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	id, err := resolveItem(tracker.Snapshot(), item)
	if err != nil {
		return err
	}
	if err := tracker.ClearFound(context.Background(), id); err != nil {
		return err
	}
	fmt.Printf("Cleared. %d of %d items.\n", tracker.FoundCount(), tracker.Total())
	return nil
}

func runReset(cfg *config.Config) error {
	tracker, cleanup, err := openTracker(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := tracker.ResetAll(context.Background()); err != nil {
		return err
	}
	fmt.Println("Hunt reset.")
	return nil
}

func runSubmit(cfg *config.Config) error {
	tracker, cleanup, err := openTracker(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	outcome, err := tracker.Submit(context.Background())
	if err != nil {
		return err
	}
	fmt.Println(outcome.Message)
	return nil
}
