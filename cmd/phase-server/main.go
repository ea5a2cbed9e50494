package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"phase-lab/internal/app"
	"phase-lab/internal/lab"
	"phase-lab/internal/stream"
)

type toolInfo struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Color     string `json:"color"`
	Principle string `json:"principle"`
}

type experimentInfo struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	DefaultTool string     `json:"defaultTool"`
	Tools       []toolInfo `json:"tools"`
}

func catalogue() []experimentInfo {
	var out []experimentInfo
	for _, e := range lab.Experiments() {
		info := experimentInfo{ID: e.ID, Name: e.Name, DefaultTool: e.DefaultTool}
		for _, t := range e.Tools {
			info.Tools = append(info.Tools, toolInfo{ID: t.ID, Label: t.Label, Color: t.Color, Principle: t.Principle})
		}
		out = append(out, info)
	}
	return out
}

func main() {
	cfg := app.NewConfig()
	addr := flag.String("addr", ":8080", "listen address")
	every := flag.Int("frame-every", 2, "broadcast a frame every n ticks")
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	if _, err := lab.Lookup(cfg.Experiment); err != nil {
		log.Fatal(err)
	}

	logger := log.New(os.Stderr, "phase-server ", log.LstdFlags)
	hub := stream.NewHub(lab.NewSession(cfg.Lab()), stream.Options{TPS: cfg.TPS, FrameEvery: *every, Logger: logger})

	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	mux.HandleFunc("/experiments", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(catalogue()); err != nil {
			logger.Printf("encode catalogue: %v", err)
		}
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	srv := &http.Server{Addr: *addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdown)
	}()
	go hub.Run(ctx)

	logger.Printf("serving %s on %s", cfg.Experiment, *addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal(err)
	}
}
