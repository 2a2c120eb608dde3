package main

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oms-loadtest/core/configs"
	"oms-loadtest/protocol"
)

func TestDumpOrder(t *testing.T) {
	now := time.Date(2025, time.January, 23, 4, 45, 0, 0, time.UTC)
	config := configs.Defaults()

	var out bytes.Buffer
	require.NoError(t, dumpOrder(&out, config, 41, now))

	lines := strings.SplitN(out.String(), "\n", 2)
	assert.Equal(t, "transaction code 800042, 136 bytes", lines[0])

	template := config.OrderTemplate()
	assert.Equal(t, hex.Dump(template.Encode(41, "UserID123", now)), lines[1])

	assert.Error(t, dumpOrder(&out, config, -1, now))
}

func TestOverrideRun(t *testing.T) {
	config := configs.Defaults()

	require.NoError(t, runCmd.Flags().Set("port", "9100"))
	require.NoError(t, runCmd.Flags().Set("users", "8"))
	t.Cleanup(func() {
		runCmd.Flags().Set("port", "0")
		runCmd.Flags().Set("users", "0")
	})

	overrideRun(runCmd, config)

	assert.Equal(t, 9100, config.Target.Port)
	assert.Equal(t, 8, config.Load.Users)
	assert.Equal(t, "127.0.0.1", config.Target.Host, "unchanged flags keep the value")
	assert.Equal(t, int32(protocol.DefaultOrderTemplate.Quantity), config.Order.Quantity)
}
