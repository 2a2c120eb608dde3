// Package parsers presents the parsing of configuration files, which will
// parse and generate the configuration of the load test from YAML and
// from the environment
package parsers

import (
	"os"

	"gopkg.in/yaml.v3"

	"oms-loadtest/core/configs"
	"oms-loadtest/core/configs/validators"
)

// ParseConfig parses the load test configuration file from YAML.
// Reads the filepath to see if we can extract the YAML. Values missing from
// the file keep their default. An empty path gives the defaults.
func ParseConfig(filepath string) (*configs.Config, error) {
	if len(filepath) == 0 {
		return configs.Defaults(), nil
	}

	// Get the configuration information from the filepath
	configFileBytes, err := os.ReadFile(filepath)

	if err != nil {
		return nil, err
	}

	return parseConfigYaml(configFileBytes, filepath)
}

// parseConfigYaml provides the full unmarshal of the YAML over the defaults
// and checks the result.
func parseConfigYaml(content []byte, path string) (*configs.Config, error) {
	// Try to read the YAML.
	config := configs.Defaults()

	err := yaml.Unmarshal(content, config)

	if err != nil {
		return nil, err
	}

	// Check validity
	if ok, err := validators.ValidateConfig(config); !ok {
		return nil, err
	}

	config.Path = path

	return config, nil
}
