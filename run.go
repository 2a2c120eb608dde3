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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/xid"
	"github.com/spf13/cobra"

	"oms-loadtest/communication"
	"oms-loadtest/core"
	"oms-loadtest/core/configs"
	"oms-loadtest/core/configs/validators"
	"oms-loadtest/core/results"
	"oms-loadtest/util"
)


var runFlags struct {
	host        string
	port        int
	users       int
	spawnRate   float64
	requests    int
	timeout     time.Duration
	duration    time.Duration
	listen      string
	natsUrl     string
	resultsDir  string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a load test against an order management server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var config *configs.Config
		var err error

		config, err = loadConfig(cmd, func(c *configs.Config) {
			overrideRun(cmd, c)
		})
		if err != nil {
			return err
		}

		if ok, err := validators.ValidateConfig(config); !ok {
			return err
		}

		return runLoadTest(cmd, config)
	},
}

func init() {
	var flags = runCmd.Flags()

	flags.StringVar(&runFlags.host, "host", "", "address of the server")
	flags.IntVarP(&runFlags.port, "port", "p", 0, "port of the server")
	flags.IntVarP(&runFlags.users, "users", "u", 0,
		"number of simulated users")
	flags.Float64VarP(&runFlags.spawnRate, "spawn-rate", "r", 0,
		"users started per second")
	flags.IntVarP(&runFlags.requests, "requests", "n", 0,
		"requests sent by each user")
	flags.DurationVar(&runFlags.timeout, "timeout", 0,
		"deadline of one order round trip")
	flags.DurationVarP(&runFlags.duration, "duration", "d", 0,
		"stop the run after this time")
	flags.StringVar(&runFlags.listen, "metrics-listen", "",
		"serve prometheus metrics on this address")
	flags.StringVar(&runFlags.natsUrl, "nats-url", "",
		"publish every sample to this NATS server")
	flags.StringVarP(&runFlags.resultsDir, "output", "o", "",
		"write the results in this directory")

	rootCmd.AddCommand(runCmd)
}

func overrideRun(cmd *cobra.Command, config *configs.Config) {
	var flags = cmd.Flags()

	if flags.Changed("host") {
		config.Target.Host = runFlags.host
	}
	if flags.Changed("port") {
		config.Target.Port = runFlags.port
	}
	if flags.Changed("users") {
		config.Load.Users = runFlags.users
	}
	if flags.Changed("spawn-rate") {
		config.Load.SpawnRate = runFlags.spawnRate
	}
	if flags.Changed("requests") {
		config.Load.Requests = runFlags.requests
	}
	if flags.Changed("timeout") {
		config.Target.Timeout = runFlags.timeout
	}
	if flags.Changed("duration") {
		config.Load.Duration = runFlags.duration
	}
	if flags.Changed("metrics-listen") {
		config.Metrics.Listen = runFlags.listen
	}
	if flags.Changed("nats-url") {
		config.Metrics.NatsUrl = runFlags.natsUrl
	}
	if flags.Changed("output") {
		config.Metrics.ResultsDir = runFlags.resultsDir
	}
}

// Build the event sinks the configuration asks for. The returned function
// releases them.
//
func buildSinks(config *configs.Config, collector *results.Collector, logger util.Logger) (results.EventSink, func(), error) {
	var sinks results.MultiSink = results.MultiSink{ collector }
	var closers []func() = make([]func(), 0)
	var registry *prometheus.Registry
	var publisher *results.Publisher
	var prom *results.PrometheusSink
	var server *http.Server
	var mux *http.ServeMux
	var err error

	release := func() {
		var i int

		for i = len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if len(config.Metrics.Listen) > 0 {
		registry = prometheus.NewRegistry()

		prom, err = results.NewPrometheusSink(config.Metrics.Namespace,
			registry)
		if err != nil {
			return nil, release, err
		}

		mux = http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry,
			promhttp.HandlerOpts{}))
		server = &http.Server{ Addr: config.Metrics.Listen, Handler: mux }

		go func() {
			var err error = server.ListenAndServe()

			if (err != nil) && !errors.Is(err, http.ErrServerClosed) {
				logger.Errorf("metrics server: %s", err.Error())
			}
		}()

		logger.Infof("serve metrics on %s/metrics", config.Metrics.Listen)

		closers = append(closers, func() { server.Close() })
		sinks = append(sinks, prom)
	}

	if len(config.Metrics.NatsUrl) > 0 {
		publisher, err = results.NewPublisher(config.Metrics.NatsUrl,
			config.Metrics.NatsSubject, logger.Extend("nats"))
		if err != nil {
			release()
			return nil, func() {}, fmt.Errorf("cannot connect to " +
				"nats: %w", err)
		}

		closers = append(closers, func() {
			var err error = publisher.Close()

			if err != nil {
				logger.Warnf("drain nats connection: %s",
					err.Error())
			}
		})
		sinks = append(sinks, publisher)
	}

	return sinks, release, nil
}

func runLoadTest(cmd *cobra.Command, config *configs.Config) error {
	var logger util.Logger = util.ExtendLogger("run")
	var runId string = xid.New().String()
	var collector *results.Collector
	var summary *results.Summary
	var sink results.EventSink
	var ctx context.Context
	var cancel context.CancelFunc
	var release func()
	var runner *core.Runner
	var err error

	collector = results.NewCollector(runId)

	sink, release, err = buildSinks(config, collector, logger)
	if err != nil {
		return err
	}
	defer release()

	ctx, cancel = signal.NotifyContext(cmd.Context(), os.Interrupt,
		syscall.SIGTERM)
	defer cancel()

	if config.Load.Duration > 0 {
		ctx, cancel = context.WithTimeout(ctx, config.Load.Duration)
		defer cancel()
	}

	logger.Infof("run %s against %s:%d", runId, config.Target.Host,
		config.Target.Port)

	runner = core.NewRunner(&core.RunnerParams{
		Users: config.Load.Users,
		SpawnRate: config.Load.SpawnRate,
		Wait: config.Load.Wait,
		Driver: core.DriverParams{
			Session: communication.SessionParams{
				Host: config.Target.Host,
				Port: config.Target.Port,
				ConnectTimeout: config.Target.ConnectTimeout,
				Timeout: config.Target.Timeout,
			},
			Sink: sink,
			Template: config.OrderTemplate(),
			UserId: config.Order.UserId,
			Threshold: config.Load.Requests,
		},
		Logger: logger.Extend("runner"),
	})

	err = runner.Run(ctx)
	if (err != nil) && !errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	summary = collector.Summary()

	results.WriteSummary(cmd.OutOrStdout(), summary, config.Log.Color)

	if len(config.Metrics.ResultsDir) > 0 {
		err = results.WriteResultsToFile(config.Path, summary,
			config.Metrics.ResultsDir)
		if err != nil {
			return fmt.Errorf("cannot write results: %w", err)
		}

		logger.Infof("results written in %s", config.Metrics.ResultsDir)
	}

	return nil
}
