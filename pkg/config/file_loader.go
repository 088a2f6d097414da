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

package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

var (
	// ErrConfigFileRead is returned when the configuration file cannot be read.
	ErrConfigFileRead = errors.New("failed to read config file")
	// ErrConfigFileDecode is returned when the configuration file is not valid JSON.
	ErrConfigFileDecode = errors.New("failed to unmarshal JSON config")
)

// FileConfigLoader loads the crawler configuration from a local JSON file.
type FileConfigLoader struct{}

// Load reads path and decodes it into dst. Syntax errors report the byte
// offset at which decoding stopped.
func (*FileConfigLoader) Load(_ context.Context, path string, dst interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w '%s': %w", ErrConfigFileRead, path, err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return fmt.Errorf("%w '%s' at offset %d: %w", ErrConfigFileDecode, path, syntaxErr.Offset, err)
		}

		return fmt.Errorf("%w '%s': %w", ErrConfigFileDecode, path, err)
	}

	return nil
}
