package parsers

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"oms-loadtest/core/configs"
	"oms-loadtest/core/configs/validators"
)

// Prefix of the environment variables overriding the configuration.
const EnvPrefix = "OMSLOAD_"

// LoadEnvFiles loads the given dotenv files, ".env" when none is given, into
// the process environment. Variables already set are kept. Missing files are
// ignored.
func LoadEnvFiles(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, file := range files {
		err := godotenv.Load(file)

		if errors.Is(err, fs.ErrNotExist) {
			continue
		}

		if err != nil {
			return fmt.Errorf("load %s: %w", file, err)
		}
	}

	return nil
}

// ApplyEnv overrides the configuration with the OMSLOAD_* variables of the
// environment and checks the result.
func ApplyEnv(config *configs.Config) error {
	return applyEnv(config, os.LookupEnv)
}

type lookupFunc func(string) (string, bool)

func applyEnv(config *configs.Config, lookup lookupFunc) error {
	var err error

	strs := map[string]*string{
		"HOST":           &config.Target.Host,
		"USER_ID":        &config.Order.UserId,
		"STOCK_CODE":     &config.Order.StockCode,
		"STOCK_NAME":     &config.Order.StockName,
		"LOG_LEVEL":      &config.Log.Level,
		"METRICS_LISTEN": &config.Metrics.Listen,
		"NATS_URL":       &config.Metrics.NatsUrl,
		"NATS_SUBJECT":   &config.Metrics.NatsSubject,
		"RESULTS_DIR":    &config.Metrics.ResultsDir,
	}

	ints := map[string]*int{
		"PORT":     &config.Target.Port,
		"USERS":    &config.Load.Users,
		"REQUESTS": &config.Load.Requests,
	}

	durations := map[string]*time.Duration{
		"CONNECT_TIMEOUT": &config.Target.ConnectTimeout,
		"TIMEOUT":         &config.Target.Timeout,
		"WAIT":            &config.Load.Wait,
		"DURATION":        &config.Load.Duration,
	}

	for name, dest := range strs {
		if value, ok := lookup(EnvPrefix + name); ok {
			*dest = value
		}
	}

	for name, dest := range ints {
		if value, ok := lookup(EnvPrefix + name); ok {
			if *dest, err = strconv.Atoi(value); err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
			}
		}
	}

	for name, dest := range durations {
		if value, ok := lookup(EnvPrefix + name); ok {
			if *dest, err = time.ParseDuration(value); err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
			}
		}
	}

	if value, ok := lookup(EnvPrefix + "SPAWN_RATE"); ok {
		if config.Load.SpawnRate, err = strconv.ParseFloat(value, 64); err != nil {
			return fmt.Errorf("%sSPAWN_RATE: %w", EnvPrefix, err)
		}
	}

	if value, ok := lookup(EnvPrefix + "ORDER_TYPE"); ok {
		if len(value) != 1 {
			return fmt.Errorf("%sORDER_TYPE: '%s' is not a single character",
				EnvPrefix, value)
		}
		config.Order.OrderType = configs.OrderType(value[0])
	}

	if ok, err := validators.ValidateConfig(config); !ok {
		return err
	}

	return nil
}
