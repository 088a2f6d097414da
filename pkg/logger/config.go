/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package logger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrInvalidOutput is returned for an output other than stdout or stderr.
var ErrInvalidOutput = errors.New("log output must be stdout or stderr")

// envPrefix scopes the logging variables to the crawler. Prefixed variables
// win over the bare names.
const envPrefix = "BROTHERI_"

// Config selects the level, destination and timestamp layout of the logs.
type Config struct {
	Level      string `json:"level" yaml:"level"`
	Debug      bool   `json:"debug" yaml:"debug"`
	Output     string `json:"output" yaml:"output"`
	TimeFormat string `json:"time_format" yaml:"time_format"`
}

// DefaultConfig reads LOG_LEVEL, DEBUG, LOG_OUTPUT and LOG_TIME_FORMAT.
func DefaultConfig() *Config {
	return &Config{
		Level:      envString("LOG_LEVEL", "info"),
		Debug:      envBool("DEBUG", false),
		Output:     envString("LOG_OUTPUT", "stdout"),
		TimeFormat: envString("LOG_TIME_FORMAT", ""),
	}
}

func (c *Config) writer() (io.Writer, error) {
	switch strings.ToLower(c.Output) {
	case "", "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidOutput, c.Output)
	}
}

func lookupEnv(key string) string {
	if value := os.Getenv(envPrefix + key); value != "" {
		return value
	}

	return os.Getenv(key)
}

func envString(key, fallback string) string {
	if value := lookupEnv(key); value != "" {
		return value
	}

	return fallback
}

func envBool(key string, fallback bool) bool {
	switch strings.ToLower(lookupEnv(key)) {
	case "":
		return fallback
	case "true", "1", "yes", "on":
		return true
	default:
		return false
	}
}
