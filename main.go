package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wolfden/server/internal/journal"
	"wolfden/server/internal/skilldb"
	"wolfden/server/internal/telemetry"
	"wolfden/server/internal/tuning"
	"wolfden/server/internal/wolf"
	"wolfden/server/logging"
	"wolfden/server/logging/sinks"
)

const skillSampleInterval = 30 * time.Second

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	tuningPath := flag.String("tuning", "", "path to a tuning YAML document (defaults to built-in values)")
	journalPath := flag.String("journal", "", "path for the zstd snapshot journal (disabled when empty)")
	skillPath := flag.String("skilldb", "", "path to the SQLite skill store (disabled when empty)")
	logJSONPath := flag.String("log-json", "", "path for the JSON event log (disabled when empty)")
	seed := flag.Uint("seed", 1, "attribute derivation seed shared by lockstep replicas")
	flag.Parse()

	doc := tuning.Default()
	if *tuningPath != "" {
		loaded, err := tuning.Load(*tuningPath)
		if err != nil {
			log.Fatalf("load tuning: %v", err)
		}
		doc = loaded
	}

	router, jsonFile := buildRouter(*logJSONPath)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := router.Close(ctx); err != nil {
			log.Printf("close event router: %v", err)
		}
		if jsonFile != nil {
			jsonFile.Close()
		}
	}()

	metrics := logging.NewMetrics()

	engine := wolf.New(
		wolf.Config{Tuning: doc, Seed: uint32(*seed)},
		wolf.Deps{
			Publisher: router,
			Logger:    telemetry.WrapLogger(log.Default()),
			Metrics:   telemetry.WrapMetrics(metrics),
		},
	)

	var skillStore *skilldb.Store
	if *skillPath != "" {
		store, err := skilldb.Open(*skillPath)
		if err != nil {
			log.Fatalf("open skill store: %v", err)
		}
		skillStore = store
		defer skillStore.Close()

		if last, ok, err := skillStore.Latest(); err != nil {
			log.Printf("read last skill sample: %v", err)
		} else if ok {
			engine.RescaleForSkill(last.Skill)
			engine.SetAverageKillTime(last.AverageKillTime)
			log.Printf("resumed difficulty at skill %.2f from %s", last.Skill, last.RecordedAt.Format(time.RFC3339))
		}
	}

	hub := newHub(engine, &targetState{})

	var journalWriter *journal.Writer
	if *journalPath != "" {
		writer, err := journal.NewWriter(*journalPath)
		if err != nil {
			log.Fatalf("open journal: %v", err)
		}
		journalWriter = writer
		hub.setRecorder(func(snapshot wolf.Snapshot) {
			if err := journalWriter.Record(snapshot); err != nil {
				log.Printf("journal record: %v", err)
			}
		})
	}

	stop := make(chan struct{})
	go hub.run(stop)
	go skillLoop(hub, skillStore, stop)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.handleWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(metrics.TelemetrySnapshot())
	})

	server := &http.Server{Addr: *addr, Handler: mux}

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		close(stop)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("wolf behavior engine listening on %s (seed %d)", *addr, *seed)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("serve: %v", err)
	}

	if journalWriter != nil {
		if err := journalWriter.Close(); err != nil {
			log.Printf("close journal: %v", err)
		} else {
			log.Printf("journal closed: %d records, checksum %s", journalWriter.Records(), journalWriter.Checksum())
		}
	}
}

// buildRouter assembles the event router with a console sink and, when
// configured, a JSON file sink.
func buildRouter(jsonPath string) (*logging.Router, *os.File) {
	cfg := logging.DefaultConfig()

	named := []logging.NamedSink{
		{Name: "console", Sink: sinks.NewConsoleSink(os.Stdout, cfg.Console)},
	}

	var jsonFile *os.File
	if jsonPath != "" {
		file, err := os.Create(jsonPath)
		if err != nil {
			log.Fatalf("open json log: %v", err)
		}
		jsonFile = file
		cfg.EnabledSinks = append(cfg.EnabledSinks, "json")
		named = append(named, logging.NamedSink{Name: "json", Sink: sinks.NewJSON(file, cfg.JSON.FlushInterval)})
	}

	router, err := logging.NewRouter(logging.SystemClock{}, cfg, named)
	if err != nil {
		log.Fatalf("build event router: %v", err)
	}
	return router, jsonFile
}

// skillLoop periodically re-estimates player skill, rescales difficulty, and
// persists the sample so the next session resumes where this one ends.
func skillLoop(hub *Hub, store *skilldb.Store, stop <-chan struct{}) {
	ticker := time.NewTicker(skillSampleInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			var sample skilldb.Sample
			hub.withEngine(func(e *wolf.Engine) {
				sample.Skill = e.EstimateSkill()
				sample.Attacks, sample.Dodges, sample.Blocks, sample.AverageKillTime = e.SkillCounters()
				e.RescaleForSkill(sample.Skill)
			})
			if store != nil {
				if err := store.Record(sample); err != nil {
					log.Printf("record skill sample: %v", err)
				}
			}
		}
	}
}
