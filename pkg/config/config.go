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
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"reactive_autoscaler/internal/autoscaler/core"
	"reactive_autoscaler/pkg/utils"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var ErrInvalidConfiguration = errors.New("invalid configuration")

type AutoscalerConfig struct {
	Verbosity string `mapstructure:"verbosity"`

	PrometheusURL       string  `mapstructure:"prometheusUrl"`
	MetricsQueryTimeout float64 `mapstructure:"metricsQueryTimeout"`
	RateQuery           string  `mapstructure:"rateQuery"`

	Namespace           string  `mapstructure:"namespace"`
	LabelSelector       string  `mapstructure:"labelSelector"`
	Kubeconfig          string  `mapstructure:"kubeconfig"`
	ControlPlaneTimeout float64 `mapstructure:"controlPlaneTimeout"`

	PollInterval   float64 `mapstructure:"pollInterval"`
	ErrorPause     float64 `mapstructure:"errorPause"`
	CooldownPeriod float64 `mapstructure:"cooldownPeriod"`
	EmaAlpha       float64 `mapstructure:"emaAlpha"`

	MinReplicas int               `mapstructure:"minReplicas"`
	MaxReplicas int               `mapstructure:"maxReplicas"`
	Thresholds  []ThresholdConfig `mapstructure:"thresholds"`

	TraceOutputFolder string `mapstructure:"traceOutputFolder"`
	MetricsAddress    string `mapstructure:"metricsAddress"`

	Persistence bool           `mapstructure:"persistence"`
	Reconstruct bool           `mapstructure:"reconstruct"`
	RedisConf   RedisConf      `mapstructure:"redis"`
	Profiler    ProfilerConfig `mapstructure:"profiler"`

	Replay ReplayConfig `mapstructure:"replay"`
}

// ThresholdConfig is one row of the threshold table. A missing Up means the
// level never scales up.
type ThresholdConfig struct {
	Replicas int      `mapstructure:"replicas"`
	Up       *float64 `mapstructure:"up"`
	Down     float64  `mapstructure:"down"`
}

type ReplayConfig struct {
	Input           string  `mapstructure:"input"`
	Output          string  `mapstructure:"output"`
	Interval        float64 `mapstructure:"interval"`
	EntityColumn    string  `mapstructure:"entityColumn"`
	TimestampColumn string  `mapstructure:"timestampColumn"`
	RateColumn      string  `mapstructure:"rateColumn"`
}

type ProfilerConfig struct {
	Enable  bool   `mapstructure:"enable"`
	Mutex   bool   `mapstructure:"mutex"`
	Address string `mapstructure:"address"`
}

type RedisConf struct {
	Address         string   `mapstructure:"address"`
	Password        string   `mapstructure:"password"`
	Replicas        []string `mapstructure:"replicas"`
	Db              int      `mapstructure:"db"`
	FullPersistence bool     `mapstructure:"fullPersistence"`
}

func parseConfigPath(configPath string) (string, string, string) {
	configFolder, configName := filepath.Split(configPath)
	configName = strings.TrimSuffix(configName, filepath.Ext(configName))
	configType := strings.ReplaceAll(filepath.Ext(configPath), ".", "")

	if configFolder == "" {
		configFolder = "./"
	}

	return configFolder, configName, configType
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("verbosity", "info")
	v.SetDefault("prometheusUrl", "http://prometheus-server:9090")
	v.SetDefault("metricsQueryTimeout", utils.MetricsQueryTimeout.Seconds())
	v.SetDefault("rateQuery", `sum(rate(http_requests_total{service="{{ .Service }}"}[1m]))`)
	v.SetDefault("namespace", "default")
	v.SetDefault("controlPlaneTimeout", utils.ControlPlaneTimeout.Seconds())
	v.SetDefault("pollInterval", 30)
	v.SetDefault("errorPause", utils.ErrorPause.Seconds())
	v.SetDefault("cooldownPeriod", 60)
	v.SetDefault("emaAlpha", 0.7)
	v.SetDefault("minReplicas", 1)
	v.SetDefault("maxReplicas", 5)
	v.SetDefault("thresholds", []map[string]interface{}{
		{"replicas": 1, "up": 10.0, "down": 0.0},
		{"replicas": 2, "up": 30.0, "down": 8.0},
		{"replicas": 3, "up": 60.0, "down": 25.0},
		{"replicas": 4, "up": 100.0, "down": 50.0},
		{"replicas": 5, "down": 90.0},
	})
	v.SetDefault("profiler.address", "localhost:6060")
	v.SetDefault("replay.output", "reactive_output.csv")
	v.SetDefault("replay.interval", 30)
	v.SetDefault("replay.entityColumn", "item")
	v.SetDefault("replay.timestampColumn", "timestamp")
	v.SetDefault("replay.rateColumn", "request_rate")
}

func setupViper(configPath string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	v.AutomaticEnv()
	_ = v.BindEnv("prometheusUrl", "PROMETHEUS_URL")
	_ = v.BindEnv("namespace", "KUBERNETES_NAMESPACE")

	if configPath == "" {
		return v, nil
	}

	configFolder, configName, configType := parseConfigPath(configPath)

	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(configFolder)

	return v, v.ReadInConfig()
}

// ReadAutoscalerConfiguration reads and validates the configuration. An empty
// path yields the built-in defaults.
func ReadAutoscalerConfiguration(configPath string) (AutoscalerConfig, error) {
	autoscalerConfig, err := ParseAutoscalerConfiguration(configPath)
	if err != nil {
		return AutoscalerConfig{}, err
	}

	if err = autoscalerConfig.Validate(); err != nil {
		return AutoscalerConfig{}, err
	}

	return autoscalerConfig, nil
}

// ParseAutoscalerConfiguration reads the configuration without validating it,
// so that callers can apply overrides first and call Validate afterwards.
func ParseAutoscalerConfiguration(configPath string) (AutoscalerConfig, error) {
	v, err := setupViper(configPath)
	if err != nil {
		return AutoscalerConfig{}, fmt.Errorf("reading configuration %s: %w", configPath, err)
	}

	autoscalerConfig := AutoscalerConfig{}

	err = v.Unmarshal(&autoscalerConfig)
	if err != nil {
		return AutoscalerConfig{}, fmt.Errorf("parsing configuration %s: %w", configPath, err)
	}

	return autoscalerConfig, nil
}

func (c *AutoscalerConfig) Validate() error {
	if c.EmaAlpha <= 0 || c.EmaAlpha > 1 || math.IsNaN(c.EmaAlpha) {
		return fmt.Errorf("%w: emaAlpha must be in (0, 1], got %v", ErrInvalidConfiguration, c.EmaAlpha)
	}

	if c.PollInterval <= 0 {
		return fmt.Errorf("%w: pollInterval must be positive, got %v", ErrInvalidConfiguration, c.PollInterval)
	}

	if c.ErrorPause <= 0 {
		return fmt.Errorf("%w: errorPause must be positive, got %v", ErrInvalidConfiguration, c.ErrorPause)
	}

	if c.CooldownPeriod < 0 {
		return fmt.Errorf("%w: cooldownPeriod must not be negative, got %v", ErrInvalidConfiguration, c.CooldownPeriod)
	}

	if c.MetricsQueryTimeout <= 0 || c.ControlPlaneTimeout <= 0 {
		return fmt.Errorf("%w: collaborator timeouts must be positive", ErrInvalidConfiguration)
	}

	if c.Replay.Interval <= 0 {
		return fmt.Errorf("%w: replay.interval must be positive, got %v", ErrInvalidConfiguration, c.Replay.Interval)
	}

	if _, err := c.ThresholdTable(); err != nil {
		return err
	}

	return nil
}

// ThresholdTable builds the validated, immutable table from the configured levels.
func (c *AutoscalerConfig) ThresholdTable() (*core.ThresholdTable, error) {
	levels := make(map[int]core.Thresholds, len(c.Thresholds))

	for _, threshold := range c.Thresholds {
		if _, ok := levels[threshold.Replicas]; ok {
			return nil, fmt.Errorf("%w: level %d defined twice", core.ErrInvalidThresholdTable, threshold.Replicas)
		}

		up := math.Inf(1)
		if threshold.Up != nil {
			up = *threshold.Up
		}

		levels[threshold.Replicas] = core.Thresholds{Up: up, Down: threshold.Down}
	}

	return core.NewThresholdTable(c.MinReplicas, c.MaxReplicas, levels)
}

func (c *AutoscalerConfig) PollIntervalDuration() time.Duration {
	return utils.DurationFromSeconds(c.PollInterval)
}

func (c *AutoscalerConfig) ErrorPauseDuration() time.Duration {
	return utils.DurationFromSeconds(c.ErrorPause)
}

func (c *AutoscalerConfig) CooldownDuration() time.Duration {
	return utils.DurationFromSeconds(c.CooldownPeriod)
}

func (c *AutoscalerConfig) MetricsQueryTimeoutDuration() time.Duration {
	return utils.DurationFromSeconds(c.MetricsQueryTimeout)
}

func (c *AutoscalerConfig) ControlPlaneTimeoutDuration() time.Duration {
	return utils.DurationFromSeconds(c.ControlPlaneTimeout)
}
