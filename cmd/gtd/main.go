// Command gtd runs the task manager daemon: it owns the data snapshot,
// serves it to clients over HTTP, syncs it with a configured remote,
// and fires reminders and daily digests.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/nhle/gtd/internal/model"
	"github.com/nhle/gtd/internal/notify"
	"github.com/nhle/gtd/internal/persist"
	"github.com/nhle/gtd/internal/server"
	"github.com/nhle/gtd/internal/store"
	"github.com/nhle/gtd/internal/sync"
)

func main() {
	configPath := flag.String("config", model.DefaultConfigPath(), "path to the configuration file")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	if *debug {
		log.SetLevel(log.DebugLevel)
	}

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	adapter, closeAdapter, err := buildAdapter(cfg)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	if closeAdapter != nil {
		defer closeAdapter()
	}

	st := store.New(adapter,
		store.WithDebounce(time.Duration(cfg.Storage.DebounceMS)*time.Millisecond),
	)
	if err := st.Load(context.Background()); err != nil {
		log.Fatalf("loading data: %v", err)
	}
	snap := st.Snapshot()
	log.WithFields(log.Fields{
		"adapter":  cfg.Storage.Adapter,
		"tasks":    len(snap.Tasks),
		"projects": len(snap.Projects),
	}).Info("data loaded")

	sched := notify.NewScheduler(st, notify.LogNotifier{},
		notify.WithInterval(time.Duration(cfg.Notify.CheckIntervalSec)*time.Second),
	)
	sched.Start()
	defer sched.Stop()

	syncSvc := sync.NewService(st)
	stopSync := startSyncLoop(syncSvc, time.Duration(cfg.Sync.IntervalSec)*time.Second)
	defer stopSync()

	// When the daemon is itself a client of another server, running a
	// second server on the same data would just bounce snapshots around.
	serveHTTP := cfg.Server.Enabled && cfg.Storage.Adapter != model.AdapterHTTP

	e := server.New(st, log.StandardLogger())
	if serveHTTP {
		go func() {
			log.WithField("addr", cfg.Server.ListenAddr).Info("serving API")
			if err := e.Start(cfg.Server.ListenAddr); err != nil {
				log.WithError(err).Info("server stopped")
			}
		}()
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if serveHTTP {
		if err := e.Shutdown(ctx); err != nil {
			log.WithError(err).Warn("server shutdown failed")
		}
	}
	if err := st.Flush(ctx); err != nil {
		log.WithError(err).Error("final save failed")
	}
}

// buildAdapter constructs the persistence adapter selected in the config.
func buildAdapter(cfg *model.Config) (persist.Adapter, func(), error) {
	switch cfg.Storage.Adapter {
	case model.AdapterSQLite:
		a, err := persist.NewSQLiteAdapter(cfg.Storage.DBPath)
		if err != nil {
			return nil, nil, err
		}
		return a, func() {
			if err := a.Close(); err != nil {
				log.WithError(err).Warn("closing database failed")
			}
		}, nil
	case model.AdapterHTTP:
		return persist.NewHTTPAdapter(cfg.Storage.ServerURL), nil, nil
	default:
		return persist.NewFileAdapter(cfg.Storage.DataFile), nil, nil
	}
}

// startSyncLoop runs periodic background sync when a backend is
// configured. The cycle itself re-reads the settings, so turning sync
// on or off takes effect without a restart.
func startSyncLoop(svc *sync.Service, interval time.Duration) func() {
	if interval <= 0 {
		return func() {}
	}

	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if res := svc.PerformSync(context.Background()); !res.Success {
					if res.Error != "sync backend is off" {
						log.WithField("error", res.Error).Warn("background sync failed")
					}
				}
			}
		}
	}()
	return func() { close(stop) }
}
