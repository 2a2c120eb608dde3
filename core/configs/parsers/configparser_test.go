package parsers

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oms-loadtest/core/configs"
)

const exampleCorrectYaml = `target:
  host: "oms.internal"
  port: 9090
  timeout: 250ms
load:
  users: 50
  spawn-rate: 10
  requests: 2000
order:
  stock-code: "000660"
  stock-name: "SK하이닉스"
  user-id: "trader42"
  order-type: "S"
  quantity: 7
  price: 120000
metrics:
  listen: ":9100"
log:
  level: debug`

func TestCanParseCorrectYaml(t *testing.T) {
	t.Run("test no error", func(t *testing.T) {
		_, err := parseConfigYaml([]byte(exampleCorrectYaml), "example.yaml")

		if err != nil {
			t.Errorf("Failed to parse yaml, reason: %s", err.Error())
		}
	})

	t.Run("test all struct fields", func(t *testing.T) {
		c, err := parseConfigYaml([]byte(exampleCorrectYaml), "example.yaml")
		require.NoError(t, err)

		assert.Equal(t, "oms.internal", c.Target.Host)
		assert.Equal(t, 9090, c.Target.Port)
		assert.Equal(t, 250*time.Millisecond, c.Target.Timeout)
		assert.Equal(t, 50, c.Load.Users)
		assert.Equal(t, 10.0, c.Load.SpawnRate)
		assert.Equal(t, 2000, c.Load.Requests)
		assert.Equal(t, "000660", c.Order.StockCode)
		assert.Equal(t, "SK하이닉스", c.Order.StockName)
		assert.Equal(t, "trader42", c.Order.UserId)
		assert.Equal(t, configs.OrderType('S'), c.Order.OrderType)
		assert.Equal(t, int32(7), c.Order.Quantity)
		assert.Equal(t, int32(120000), c.Order.Price)
		assert.Equal(t, ":9100", c.Metrics.Listen)
		assert.Equal(t, "debug", c.Log.Level)
		assert.Equal(t, "example.yaml", c.Path)
	})

	t.Run("test missing fields keep defaults", func(t *testing.T) {
		c, err := parseConfigYaml([]byte(exampleCorrectYaml), "example.yaml")
		require.NoError(t, err)

		assert.Equal(t, 10*time.Second, c.Target.ConnectTimeout)
		assert.Equal(t, "NONE", c.Order.OriginalOrder)
		assert.Equal(t, "omsload", c.Metrics.Namespace)
		assert.True(t, c.Log.Color)
	})
}

func TestDefaults(t *testing.T) {
	c, err := ParseConfig("")
	require.NoError(t, err)

	template := c.OrderTemplate()

	assert.Equal(t, "127.0.0.1", c.Target.Host)
	assert.Equal(t, 8080, c.Target.Port)
	assert.Equal(t, 1000, c.Load.Requests)
	assert.Equal(t, "UserID123", c.Order.UserId)
	assert.Equal(t, "005930", template.StockCode)
	assert.Equal(t, "삼성전자_test", template.StockName)
	assert.Equal(t, byte('B'), template.OrderType)
	assert.Equal(t, int32(100), template.Quantity)
	assert.Equal(t, int32(50000), template.Price)
	assert.Equal(t, "NONE", template.OriginalOrder)
}

func TestRejectInvalidYaml(t *testing.T) {
	cases := map[string]string{
		"empty host":         "target:\n  host: \"\"",
		"port out of range":  "target:\n  port: 70000",
		"negative users":     "load:\n  users: -1",
		"negative requests":  "load:\n  requests: -5",
		"negative spawn":     "load:\n  spawn-rate: -0.5",
		"long order type":    "order:\n  order-type: \"BUY\"",
		"negative price":     "order:\n  price: -1",
		"unknown log level":  "log:\n  level: loud",
		"malformed duration": "target:\n  timeout: soon",
		"not yaml":           "target: [",
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseConfigYaml([]byte(content), "")
			assert.Error(t, err)
		})
	}
}

func TestParseConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "load.yaml")
	require.NoError(t, os.WriteFile(path, []byte(exampleCorrectYaml), 0644))

	c, err := ParseConfig(path)
	require.NoError(t, err)
	assert.Equal(t, path, c.Path)

	_, err = ParseConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	lookup := func(env map[string]string) lookupFunc {
		return func(name string) (string, bool) {
			value, ok := env[name]
			return value, ok
		}
	}

	t.Run("test overrides", func(t *testing.T) {
		c := configs.Defaults()

		err := applyEnv(c, lookup(map[string]string{
			"OMSLOAD_HOST":       "10.0.0.7",
			"OMSLOAD_PORT":       "9000",
			"OMSLOAD_USERS":      "12",
			"OMSLOAD_SPAWN_RATE": "2.5",
			"OMSLOAD_TIMEOUT":    "1s",
			"OMSLOAD_ORDER_TYPE": "S",
			"OMSLOAD_NATS_URL":   "nats://127.0.0.1:4222",
		}))
		require.NoError(t, err)

		assert.Equal(t, "10.0.0.7", c.Target.Host)
		assert.Equal(t, 9000, c.Target.Port)
		assert.Equal(t, 12, c.Load.Users)
		assert.Equal(t, 2.5, c.Load.SpawnRate)
		assert.Equal(t, time.Second, c.Target.Timeout)
		assert.Equal(t, configs.OrderType('S'), c.Order.OrderType)
		assert.Equal(t, "nats://127.0.0.1:4222", c.Metrics.NatsUrl)
		assert.Equal(t, 1000, c.Load.Requests, "unset variables keep the value")
	})

	t.Run("test malformed values", func(t *testing.T) {
		for name, value := range map[string]string{
			"OMSLOAD_PORT":       "http",
			"OMSLOAD_WAIT":       "10",
			"OMSLOAD_SPAWN_RATE": "fast",
			"OMSLOAD_ORDER_TYPE": "",
		} {
			err := applyEnv(configs.Defaults(), lookup(map[string]string{name: value}))
			assert.ErrorContains(t, err, name)
		}
	})

	t.Run("test invalid result", func(t *testing.T) {
		err := applyEnv(configs.Defaults(), lookup(map[string]string{"OMSLOAD_PORT": "0"}))
		assert.Error(t, err)
	})
}

func TestLoadEnvFiles(t *testing.T) {
	const name = "OMSLOAD_TEST_DOTENV_USERS"

	os.Unsetenv(name)
	t.Cleanup(func() { os.Unsetenv(name) })

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte(name+"=33\n"), 0644))

	require.NoError(t, LoadEnvFiles(path, filepath.Join(t.TempDir(), "absent.env")))
	assert.Equal(t, "33", os.Getenv(name))

	require.Error(t, LoadEnvFiles(t.TempDir()), "a directory is not a dotenv file")
}
