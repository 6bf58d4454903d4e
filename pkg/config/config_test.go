/*
 * MIT License
 *
 * Copyright (c) 2024 EASL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package config

import (
	"math"
	"os"
	"path/filepath"
	"reactive_autoscaler/internal/autoscaler/core"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	readConfigError  string = "Failed to read configuration"
	parseConfigError string = "Failed to parse configuration"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "autoscaler.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	return path
}

func TestReadAutoscalerConfiguration(t *testing.T) {
	config, err := ReadAutoscalerConfiguration("../../cmd/autoscaler/config.yaml")
	assert.NoError(t, err, readConfigError)

	assert.True(t, len(config.Verbosity) > 0, parseConfigError)
	assert.Equal(t, 30*time.Second, config.PollIntervalDuration(), parseConfigError)
	assert.Equal(t, 60*time.Second, config.CooldownDuration(), parseConfigError)
	assert.Equal(t, 0.7, config.EmaAlpha, parseConfigError)

	table, err := config.ThresholdTable()
	require.NoError(t, err)

	assert.Equal(t, 1, table.MinReplicas())
	assert.Equal(t, 5, table.MaxReplicas())
	assert.Equal(t, core.Thresholds{Up: 30, Down: 8}, table.Get(2))
	assert.True(t, math.IsInf(table.Get(5).Up, 1), "top level must never scale up")
}

func TestDefaultConfiguration(t *testing.T) {
	config, err := ReadAutoscalerConfiguration("")
	require.NoError(t, err)

	assert.Equal(t, "default", config.Namespace)
	assert.Equal(t, 10*time.Second, config.MetricsQueryTimeoutDuration())
	assert.Equal(t, 5*time.Second, config.ErrorPauseDuration())
	assert.Equal(t, "item", config.Replay.EntityColumn)

	table, err := config.ThresholdTable()
	require.NoError(t, err)
	assert.Equal(t, core.Thresholds{Up: 100, Down: 50}, table.Get(4))
	assert.True(t, math.IsInf(table.Get(5).Up, 1))
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("PROMETHEUS_URL", "http://localhost:9999")

	config, err := ReadAutoscalerConfiguration("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9999", config.PrometheusURL)
}

func TestInvalidConfigurations(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "alpha zero",
			content: "emaAlpha: 0\n",
		},
		{
			name:    "alpha above one",
			content: "emaAlpha: 1.5\n",
		},
		{
			name:    "non positive interval",
			content: "pollInterval: 0\n",
		},
		{
			name:    "zero error pause",
			content: "errorPause: 0\n",
		},
		{
			name:    "negative error pause",
			content: "errorPause: -1\n",
		},
		{
			name:    "max beyond table",
			content: "maxReplicas: 10\n",
		},
		{
			name: "up below down",
			content: `minReplicas: 1
maxReplicas: 2
thresholds:
  - {replicas: 1, up: 10, down: 0}
  - {replicas: 2, up: 5, down: 8}
`,
		},
		{
			name: "non monotonic table",
			content: `minReplicas: 1
maxReplicas: 3
thresholds:
  - {replicas: 1, up: 10, down: 0}
  - {replicas: 2, up: 40, down: 8}
  - {replicas: 3, up: 30, down: 25}
`,
		},
		{
			name: "duplicated level",
			content: `minReplicas: 1
maxReplicas: 2
thresholds:
  - {replicas: 1, up: 10, down: 0}
  - {replicas: 1, up: 10, down: 0}
  - {replicas: 2, down: 8}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadAutoscalerConfiguration(writeConfig(t, tt.content))
			assert.Error(t, err, "configuration should have been rejected")
		})
	}
}

func TestOverrideBeforeValidation(t *testing.T) {
	path := writeConfig(t, "replay:\n  interval: 0\n")

	_, err := ReadAutoscalerConfiguration(path)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	config, err := ParseAutoscalerConfiguration(path)
	require.NoError(t, err)
	assert.ErrorIs(t, config.Validate(), ErrInvalidConfiguration)

	config.Replay.Interval = 15
	assert.NoError(t, config.Validate())
}

func TestMissingConfigurationFile(t *testing.T) {
	_, err := ReadAutoscalerConfiguration(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestGetReaderFromPath(t *testing.T) {
	type want struct {
		configFolder string
		configName   string
		configType   string
	}

	tests := []struct {
		name     string
		input    string
		expected want
	}{
		{
			name:  "Simple smoke input",
			input: "test/test.yaml",
			expected: want{
				configFolder: "test/",
				configName:   "test",
				configType:   "yaml",
			},
		},
		{
			name:  "Test with no folder",
			input: "autoscaler.json",
			expected: want{
				configFolder: "./",
				configName:   "autoscaler",
				configType:   "json",
			},
		},
		{
			name:  "Test with nested folder",
			input: "cmd/autoscaler/config.yaml",
			expected: want{
				configFolder: "cmd/autoscaler/",
				configName:   "config",
				configType:   "yaml",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configFolder, configName, configType := parseConfigPath(tt.input)

			assert.Equal(t, tt.expected.configFolder, configFolder, "Not the correct config folder.")
			assert.Equal(t, tt.expected.configName, configName, "Not the correct config name.")
			assert.Equal(t, tt.expected.configType, configType, "Not the correct config type.")
		})
	}
}
