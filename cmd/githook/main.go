package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"golang.org/x/term"

	"github.com/ccdc-opensource/githook/internal/adapter/cli"
	"github.com/ccdc-opensource/githook/internal/adapter/git"
	"github.com/ccdc-opensource/githook/internal/adapter/store/sqlite"
	"github.com/ccdc-opensource/githook/internal/config"
	"github.com/ccdc-opensource/githook/internal/logging"
	"github.com/ccdc-opensource/githook/internal/usecase/hook"
	"github.com/ccdc-opensource/githook/internal/version"
)

func main() {
	if err := run(); err != nil {
		if errors.Is(err, cli.ErrCommitBlocked) {
			os.Exit(1)
		}
		log.Println(err)
		os.Exit(1)
	}
}

func run() error {
	// Cancellable context so a Ctrl-C during the hook aborts cleanly.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(config.LoaderOptions{
		ConfigPaths: defaultConfigPaths(),
		FileName:    "githook",
		EnvPrefix:   "GITHOOK",
	})
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	repoDir := cfg.Git.RepositoryDir
	if repoDir == "" {
		repoDir = "."
	}

	logger := logging.New(
		logging.ParseLevel(cfg.Logging.Level),
		logging.ParseFormat(cfg.Logging.Format),
	)

	gitEngine := git.NewEngine(repoDir)

	// Initialize run-history store if enabled
	var runStore hook.Store
	var history cli.HistoryStore
	if cfg.Store.Enabled {
		storeDir := filepath.Dir(cfg.Store.Path)
		if err := os.MkdirAll(storeDir, 0755); err != nil {
			log.Printf("warning: failed to create store directory: %v", err)
		} else {
			sqliteStore, err := sqlite.NewStore(cfg.Store.Path)
			if err != nil {
				log.Printf("warning: failed to initialize store: %v", err)
			} else {
				runStore = sqliteStore
				history = sqliteStore
				defer sqliteStore.Close()
			}
		}
	}

	runner := hook.NewRunner(hook.Deps{
		Git:     gitEngine,
		RepoDir: repoDir,
		Options: hook.Options{
			AutofixWhitespace: cfg.Checks.AutofixWhitespace,
			MaxSubpathChars:   cfg.Checks.MaxSubpathChars,
			CaseCollision:     cfg.Checks.CaseCollision,
		},
		Out:          os.Stdout,
		ShowProgress: term.IsTerminal(int(os.Stdout.Fd())),
		Logger:       logger,
		Store:        runStore,
	})

	root := cli.NewRootCommand(cli.Dependencies{
		Runner:  runner,
		History: history,
		Version: version.Value(),
	})

	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, cli.ErrVersionRequested) {
			return nil
		}
		return err
	}
	return nil
}

func defaultConfigPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "githook"))
	}
	return paths
}
