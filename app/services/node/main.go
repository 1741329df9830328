package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/ardanlabs/powchain/app/services/node/handlers"
	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/powchain/foundation/blockchain/peer"
	"github.com/ardanlabs/powchain/foundation/blockchain/state"
	"github.com/ardanlabs/powchain/foundation/blockchain/worker"
	"github.com/ardanlabs/powchain/foundation/events"
	"github.com/ardanlabs/powchain/foundation/logger"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("NODE")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {

	// =========================================================================
	// Configuration

	cfg := struct {
		conf.Version
		Web struct {
			ReadTimeout     time.Duration `conf:"default:5s"`
			WriteTimeout    time.Duration `conf:"default:10s"`
			IdleTimeout     time.Duration `conf:"default:120s"`
			ShutdownTimeout time.Duration `conf:"default:20s"`
			DebugHost       string        `conf:"default:0.0.0.0:7080"`
			PublicHost      string        `conf:"default:0.0.0.0:8080"`
			PrivateHost     string        `conf:"default:0.0.0.0:9080"`
		}
		State struct {
			GenesisFile    string        `conf:"default:zblock/genesis.json"`
			Difficulty     uint          `conf:"help:overrides the genesis difficulty when not zero. A zero difficulty can only come from the genesis file"`
			HashAlgorithm  string        `conf:"help:overrides the genesis hash algorithm when set"`
			MaxMiningDelay time.Duration `conf:"default:500ms"`
			KnownPeers     []string      `conf:"default:0.0.0.0:9080;0.0.0.0:9180"`
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "proof of work blockchain node",
		},
	}

	const prefix = "NODE"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// =========================================================================
	// App Starting

	log.Infow("starting service", "version", build)
	defer log.Infow("shutdown complete")

	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Infow("startup", "config", out)

	// =========================================================================
	// Blockchain Support

	gen, err := loadGenesis(cfg.State.GenesisFile, cfg.State.Difficulty, cfg.State.HashAlgorithm)
	if err != nil {
		return err
	}

	log.Infow("startup", "status", "genesis", "difficulty", gen.Difficulty, "algorithm", gen.HashAlgorithm)

	// Every node event is logged and pushed to the websocket subscribers.
	evts := events.New()
	ev := func(v string, args ...any) {
		s := fmt.Sprintf(v, args...)
		log.Infow(s, "traceid", "00000000-0000-0000-0000-000000000000")
		evts.Send(s)
	}

	state, err := state.New(state.Config{
		Host:           cfg.Web.PrivateHost,
		Genesis:        gen,
		MaxMiningDelay: cfg.State.MaxMiningDelay,
		KnownPeers:     peer.NewPeerSet(cfg.State.KnownPeers...),
		EvHandler:      ev,
	})
	if err != nil {
		return err
	}
	defer state.Shutdown()

	// Run syncs the chain with the known peers before returning.
	worker.Run(state, ev)

	// =========================================================================
	// Start Debug Service

	log.Infow("startup", "status", "debug v1 router started", "host", cfg.Web.DebugHost)

	// Not concerned with shutting this down with load shedding.
	debugMux := handlers.DebugMux(build, log, state)
	go func() {
		if err := http.ListenAndServe(cfg.Web.DebugHost, debugMux); err != nil {
			log.Errorw("shutdown", "status", "debug v1 router closed", "host", cfg.Web.DebugHost, "ERROR", err)
		}
	}()

	// =========================================================================
	// Start Public and Private Services

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 2)

	mcfg := handlers.MuxConfig{
		Shutdown: shutdown,
		Log:      log,
		State:    state,
		Evts:     evts,
	}

	servers := []struct {
		name string
		srv  *http.Server
	}{
		{"private", newServer(log, cfg.Web.PrivateHost, handlers.PrivateMux(mcfg), cfg.Web.ReadTimeout, cfg.Web.WriteTimeout, cfg.Web.IdleTimeout)},
		{"public", newServer(log, cfg.Web.PublicHost, handlers.PublicMux(mcfg), cfg.Web.ReadTimeout, cfg.Web.WriteTimeout, cfg.Web.IdleTimeout)},
	}

	for _, s := range servers {
		go func() {
			log.Infow("startup", "status", s.name+" api router started", "host", s.srv.Addr)
			serverErrors <- s.srv.ListenAndServe()
		}()
	}

	// =========================================================================
	// Shutdown

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.Infow("shutdown", "status", "shutdown started", "signal", sig)
		defer log.Infow("shutdown", "status", "shutdown complete", "signal", sig)

		log.Infow("shutdown", "status", "shutdown web socket channels")
		evts.Shutdown()

		for _, s := range servers {
			log.Infow("shutdown", "status", "shutdown "+s.name+" API started")
			if err := shutdownServer(s.srv, cfg.Web.ShutdownTimeout); err != nil {
				return fmt.Errorf("could not stop %s service gracefully: %w", s.name, err)
			}
		}
	}

	return nil
}

// loadGenesis reads the chain rules and applies the configured overrides.
// A zero difficulty or an empty algorithm leaves the file value in place.
func loadGenesis(path string, difficulty uint, algorithm string) (genesis.Genesis, error) {
	gen, err := genesis.Load(path)
	if err != nil {
		return genesis.Genesis{}, fmt.Errorf("unable to load genesis file: %w", err)
	}

	if difficulty != 0 {
		gen.Difficulty = difficulty
	}
	if algorithm != "" {
		gen.HashAlgorithm = algorithm
	}

	return gen, nil
}

func newServer(log *zap.SugaredLogger, addr string, h http.Handler, read, write, idle time.Duration) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      h,
		ReadTimeout:  read,
		WriteTimeout: write,
		IdleTimeout:  idle,
		ErrorLog:     zap.NewStdLog(log.Desugar()),
	}
}

// shutdownServer gives outstanding requests the timeout to complete before
// the listener is closed.
func shutdownServer(srv *http.Server, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		srv.Close()
		return err
	}

	return nil
}
