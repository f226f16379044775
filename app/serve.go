package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/joliciel-informatique/talismane-sub002/nlp/parser/dependency/beam"
	"github.com/joliciel-informatique/talismane-sub002/nlp/tagger"
	"github.com/joliciel-informatique/talismane-sub002/service/worker"
	"github.com/joliciel-informatique/talismane-sub002/util/logger"
)

var metricsAddr string

func metricsServer(addr string, reg prometheus.Gatherer) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
}

func Serve(cmd *commander.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := readConfig(configFile)
	if err != nil {
		return err
	}
	store, err := openStore()
	if err != nil {
		return err
	}
	parser, err := buildParser(ctx, cfg, store, logger.NewLogger("BeamParser"))
	if err != nil {
		return err
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	parser.Metrics = beam.NewMetrics(reg)

	server := metricsServer(metricsAddr, reg)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error().Err(err).Msg("Metrics server failed")
		}
	}()
	defer server.Close()
	appLogger.Info().Str("addr", metricsAddr).Msg("Serving metrics")

	w, err := worker.New(parser, tagger.ProseTagger{})
	if err != nil {
		return err
	}
	if err := w.StartWorker(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func ServeCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       Serve,
		UsageLine: "serve -c <config> [-metrics <addr>]",
		Short:     "runs the parse worker",
		Long: `
consumes parse requests from RabbitMQ and publishes the parses; connection
settings are read from the PARSER_RMQ_* environment variables

	$ ./parser serve -c parser.yaml -metrics :9090

`,
		Flag: *flag.NewFlagSet("serve", flag.ExitOnError),
	}
	cmd.Flag.StringVar(&configFile, "c", "", "Parser Configuration File (YAML)")
	cmd.Flag.StringVar(&metricsAddr, "metrics", ":9090", "Metrics listen address")
	return cmd
}
