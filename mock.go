package main


import (
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"oms-loadtest/communication"
	"oms-loadtest/util"
)


var mockFlags struct {
	host        string
	port        int
	rejectCode  string
	delay       time.Duration
}

var mockCmd = &cobra.Command{
	Use:   "mock",
	Short: "Serve a mock exchange acknowledging every order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var exchange *communication.MockExchange
		var logger util.Logger
		var signals chan os.Signal
		var done chan error
		var err error

		_, err = loadConfig(cmd, nil)
		if err != nil {
			return err
		}

		logger = util.ExtendLogger("mock")

		exchange, err = communication.NewMockExchange(
			net.JoinHostPort(mockFlags.host,
				strconv.Itoa(mockFlags.port)),
			&communication.MockParams{
				RejectCode: mockFlags.rejectCode,
				Delay: mockFlags.delay,
				Logger: logger,
			})
		if err != nil {
			return err
		}

		logger.Infof("listen on %s", exchange.Addr())

		done = make(chan error, 1)
		go func() { done <- exchange.Serve() }()

		signals = make(chan os.Signal, 1)
		signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(signals)

		select {
		case err = <-done:
			exchange.Close()
			return err
		case <-signals:
		}

		err = exchange.Close()

		logger.Infof("served %d orders", exchange.Orders())

		return err
	},
}

func init() {
	var flags = mockCmd.Flags()

	flags.StringVar(&mockFlags.host, "host", "0.0.0.0",
		"address to listen on")
	flags.IntVarP(&mockFlags.port, "port", "p", 8080, "port to listen on")
	flags.StringVar(&mockFlags.rejectCode, "reject-code", "",
		"reject code of every reply (default accepted)")
	flags.DurationVar(&mockFlags.delay, "delay", 0,
		"wait before each reply")

	rootCmd.AddCommand(mockCmd)
}
