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

package main

import (
	"reactive_autoscaler/pkg/config"
	"reactive_autoscaler/pkg/logger"
	"reactive_autoscaler/pkg/utils"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbosity  string
)

var rootCmd = &cobra.Command{
	Use:           "autoscaler",
	Short:         "Reactive threshold-based autoscaler",
	Long:          `Scales workloads between a minimum and a maximum replica count using a smoothed traffic rate, hysteresis thresholds and a cooldown period.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", utils.DefaultConfigPath, "Path to the configuration file")
	rootCmd.PersistentFlags().StringVar(&verbosity, "verbosity", "", "Logging verbosity - choose from [info, debug, trace]")

	rootCmd.AddCommand(liveCmd)
	rootCmd.AddCommand(replayCmd)
}

// loadConfiguration reads the configuration file and applies the flags shared
// by all commands. Commands validate after applying their own flags.
func loadConfiguration(cmd *cobra.Command) (config.AutoscalerConfig, error) {
	logrus.Debugf("Configuration path is : %s", configPath)

	cfg, err := config.ParseAutoscalerConfiguration(configPath)
	if err != nil {
		return config.AutoscalerConfig{}, err
	}

	if cmd.Flags().Changed("verbosity") {
		cfg.Verbosity = verbosity
	}

	logger.SetupLogger(cfg.Verbosity)

	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Fatalf("Autoscaler failed - %v", err)
	}
}
