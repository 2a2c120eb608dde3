package validators

import (
	"errors"
	"fmt"

	"oms-loadtest/core/configs"
	"oms-loadtest/util"
)

// Validates all fields of the load test configuration
// Determines the validity and returns a boolean whether it is
// valid or invalid.
func ValidateConfig(c *configs.Config) (bool, error) {
	// A target is mandatory.
	if len(c.Target.Host) == 0 {
		return false, errors.New("missing target host")
	}

	if c.Target.Port < 1 || c.Target.Port > 65535 {
		return false, fmt.Errorf("target port %d out of range", c.Target.Port)
	}

	if c.Target.ConnectTimeout < 0 || c.Target.Timeout < 0 {
		return false, errors.New("timeouts cannot be negative")
	}

	if c.Load.Users < 0 {
		return false, fmt.Errorf("user count %d cannot be negative", c.Load.Users)
	}

	// No user is legal, but the run does nothing.
	if c.Load.Users == 0 {
		util.Warnf("no user configured")
	}

	if c.Load.SpawnRate < 0 {
		return false, fmt.Errorf("spawn rate %g cannot be negative", c.Load.SpawnRate)
	}

	if c.Load.Requests < 0 {
		return false, fmt.Errorf("request count %d cannot be negative", c.Load.Requests)
	}

	if c.Load.Wait < 0 || c.Load.Duration < 0 {
		return false, errors.New("durations cannot be negative")
	}

	if len(c.Order.StockCode) == 0 {
		return false, errors.New("missing stock code")
	}

	if len(c.Order.UserId) == 0 {
		return false, errors.New("missing user id")
	}

	if c.Order.OrderType == 0 {
		return false, errors.New("missing order type")
	}

	if c.Order.Quantity < 0 || c.Order.Price < 0 {
		return false, errors.New(
			fmt.Sprintf("quantity %d and price %d cannot be negative",
				c.Order.Quantity, c.Order.Price))
	}

	// Values too long for their field are cut on the wire.
	if len(c.Order.StockCode) > 7 || len(c.Order.OriginalOrder) > 7 {
		util.Warnf("stock code or original order longer than 7 bytes")
	}

	if len(c.Log.Level) > 0 {
		if _, err := util.ParseLogLevel(c.Log.Level); err != nil {
			return false, err
		}
	}

	return true, nil
}
