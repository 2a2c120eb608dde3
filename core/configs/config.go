// Package configs holds the configuration of a load test run, as read from
// the YAML file and the environment.
package configs

import (
	"errors"
	"time"

	"oms-loadtest/protocol"
)

// Order side, one character on the wire
type OrderType byte

func (ot *OrderType) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var unmarshaled string

	err := unmarshal(&unmarshaled)

	if err != nil {
		return err
	}

	if len(unmarshaled) != 1 {
		return errors.New("order type must be a single character")
	}

	*ot = OrderType(unmarshaled[0])

	return nil
}

func (ot OrderType) MarshalYAML() (interface{}, error) {
	return string([]byte{byte(ot)}), nil
}

// Load test configuration, one section per concern.
type Config struct {
	Target  TargetConfig  `yaml:"target"`            // Order management server
	Load    LoadConfig    `yaml:"load"`              // Simulated users
	Order   OrderConfig   `yaml:"order"`             // Content of the orders
	Metrics MetricsConfig `yaml:"metrics,omitempty"` // Result outputs
	Log     LogConfig     `yaml:"log,omitempty"`     // Console logging
	Path    string        `yaml:"-"`                 // File the config was read from
}

type TargetConfig struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	ConnectTimeout time.Duration `yaml:"connect-timeout,omitempty"`
	Timeout        time.Duration `yaml:"timeout,omitempty"` // Zero waits for the reply
}

type LoadConfig struct {
	Users     int           `yaml:"users"`
	SpawnRate float64       `yaml:"spawn-rate"` // Users started per second
	Requests  int           `yaml:"requests"`   // Requests per user
	Wait      time.Duration `yaml:"wait,omitempty"`
	Duration  time.Duration `yaml:"duration,omitempty"` // Zero runs until every user is done
}

type OrderConfig struct {
	StockCode     string    `yaml:"stock-code"`
	StockName     string    `yaml:"stock-name"`
	UserId        string    `yaml:"user-id"`
	OrderType     OrderType `yaml:"order-type"`
	Quantity      int32     `yaml:"quantity"`
	Price         int32     `yaml:"price"`
	OriginalOrder string    `yaml:"original-order"`
}

type MetricsConfig struct {
	Listen      string `yaml:"listen,omitempty"`       // Address of the prometheus endpoint
	Namespace   string `yaml:"namespace,omitempty"`    // Prefix of the metric names
	NatsUrl     string `yaml:"nats-url,omitempty"`     // Samples are published when set
	NatsSubject string `yaml:"nats-subject,omitempty"` // Subject of the samples
	ResultsDir  string `yaml:"results-dir,omitempty"`  // Summary written there when set
}

type LogConfig struct {
	Level string `yaml:"level,omitempty"`
	Color bool   `yaml:"color"`
}

// Default configuration: one user sending 1000 buy orders to the local
// exchange.
func Defaults() *Config {
	return &Config{
		Target: TargetConfig{
			Host:           "127.0.0.1",
			Port:           8080,
			ConnectTimeout: 10 * time.Second,
		},
		Load: LoadConfig{
			Users:     1,
			SpawnRate: 1,
			Requests:  1000,
		},
		Order: OrderConfig{
			StockCode:     protocol.DefaultOrderTemplate.StockCode,
			StockName:     protocol.DefaultOrderTemplate.StockName,
			UserId:        "UserID123",
			OrderType:     OrderType(protocol.DefaultOrderTemplate.OrderType),
			Quantity:      protocol.DefaultOrderTemplate.Quantity,
			Price:         protocol.DefaultOrderTemplate.Price,
			OriginalOrder: protocol.DefaultOrderTemplate.OriginalOrder,
		},
		Metrics: MetricsConfig{
			Namespace:   "omsload",
			NatsSubject: "omsload.samples",
		},
		Log: LogConfig{
			Level: "info",
			Color: true,
		},
	}
}

// Template of the orders sent by every user.
func (c *Config) OrderTemplate() protocol.OrderTemplate {
	return protocol.OrderTemplate{
		StockCode:     c.Order.StockCode,
		StockName:     c.Order.StockName,
		OrderType:     byte(c.Order.OrderType),
		Quantity:      c.Order.Quantity,
		Price:         c.Order.Price,
		OriginalOrder: c.Order.OriginalOrder,
	}
}
