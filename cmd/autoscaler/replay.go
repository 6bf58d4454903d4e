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
	"errors"
	"reactive_autoscaler/internal/autoscaler/reactive_autoscaler"
	"reactive_autoscaler/internal/autoscaler/replay"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	replayInput    string
	replayOutput   string
	replayInterval float64
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a historical time series through the scaling engine",
	RunE:  runReplay,
}

func init() {
	replayCmd.Flags().StringVar(&replayInput, "input", "", "CSV time series to replay")
	replayCmd.Flags().StringVar(&replayOutput, "output", "", "Where to write the result table")
	replayCmd.Flags().Float64Var(&replayInterval, "interval", 0, "Bucket width in seconds")
}

func runReplay(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfiguration(cmd)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("input") {
		cfg.Replay.Input = replayInput
	}
	if cmd.Flags().Changed("output") {
		cfg.Replay.Output = replayOutput
	}
	if cmd.Flags().Changed("interval") {
		cfg.Replay.Interval = replayInterval
	}

	if err = cfg.Validate(); err != nil {
		return err
	}

	if cfg.Replay.Input == "" {
		return errors.New("no input time series given, use --input or replay.input")
	}

	table, err := cfg.ThresholdTable()
	if err != nil {
		return err
	}

	logrus.Infof("Replaying %s (interval: %vs, alpha: %v, cooldown: %vs, replicas: [%d, %d])",
		cfg.Replay.Input, cfg.Replay.Interval, cfg.EmaAlpha, cfg.CooldownPeriod, cfg.MinReplicas, cfg.MaxReplicas)

	engine := reactive_autoscaler.NewReactiveAutoscaler(table, cfg.EmaAlpha, cfg.CooldownDuration())
	columns := replay.Columns{
		Entity:    cfg.Replay.EntityColumn,
		Timestamp: cfg.Replay.TimestampColumn,
		Rate:      cfg.Replay.RateColumn,
	}

	summary, err := replay.ReplayFile(engine, cfg.Replay.Input, cfg.Replay.Output, cfg.Replay.Interval, columns)
	if err != nil {
		return err
	}

	summary.Log()
	logrus.Infof("Results written to %s", cfg.Replay.Output)

	return nil
}
