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

package replay

import (
	"fmt"
	"math"
	"os"
	"reactive_autoscaler/internal/autoscaler/core"
	"reactive_autoscaler/internal/autoscaler/reactive_autoscaler"
	"reactive_autoscaler/internal/autoscaler/service_state"
	_map "reactive_autoscaler/pkg/map"
	"reactive_autoscaler/pkg/tracing"
	"sort"
	"strconv"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/sirupsen/logrus"
)

var resultHeader = []string{"time_bucket", "entity", "raw_rate", "smoothed_rate", "prev_replicas", "new_replicas", "action", "reason"}

type Result struct {
	Bucket      float64
	Decision    core.Decision
	NewReplicas int
}

type Summary struct {
	TotalEvents int
	TotalScales int
	Upscales    int
	Downscales  int
	Blocked     int

	DroppedRows   int
	FinalReplicas map[string]int

	MeanSmoothedRate float64
	MeanReplicas     float64
	MaxReplicas      float64
}

// Replay feeds the samples to the engine in order. Without a control plane the
// replica count tracked in the store is authoritative, so every permitted
// decision is applied immediately.
func Replay(engine *reactive_autoscaler.ReactiveAutoscaler, store *service_state.Store, samples []Sample) ([]Result, Summary) {
	results := make([]Result, 0, len(samples))
	summary := Summary{FinalReplicas: make(map[string]int)}

	smoothedRates := make(stats.Float64Data, 0, len(samples))
	replicas := make(stats.Float64Data, 0, len(samples))

	for _, sample := range samples {
		state, _ := store.GetOrCreate(sample.Entity)

		decision := engine.Evaluate(state, sample.Rate, bucketTime(sample.Bucket))
		if decision.IsScaling() {
			engine.RecordScaling(state, decision)
		}

		results = append(results, Result{
			Bucket:      sample.Bucket,
			Decision:    decision,
			NewReplicas: state.CurrentReplicas,
		})

		switch decision.Action {
		case core.ActionUpscale:
			summary.Upscales++
		case core.ActionDownscale:
			summary.Downscales++
		case core.ActionBlocked:
			summary.Blocked++
		}

		smoothedRates = append(smoothedRates, decision.SmoothedRate)
		replicas = append(replicas, float64(state.CurrentReplicas))
		summary.FinalReplicas[sample.Entity] = state.CurrentReplicas
	}

	summary.TotalEvents = len(results)
	summary.TotalScales = summary.Upscales + summary.Downscales

	if len(results) > 0 {
		summary.MeanSmoothedRate, _ = stats.Mean(smoothedRates)
		summary.MeanReplicas, _ = stats.Mean(replicas)
		summary.MaxReplicas, _ = stats.Max(replicas)
	}

	return results, summary
}

// bucketTime converts bucket seconds to an instant. Seconds and fraction are
// split so that epoch-millisecond buckets do not overflow a time.Duration.
func bucketTime(bucket float64) time.Time {
	seconds, fraction := math.Modf(bucket)
	return time.Unix(int64(seconds), int64(math.Round(fraction*1e9))).UTC()
}

// ReplayFile runs the whole batch: read, aggregate, replay and write the result table.
func ReplayFile(engine *reactive_autoscaler.ReactiveAutoscaler, input string, output string, interval float64, columns Columns) (Summary, error) {
	f, err := os.Open(input)
	if err != nil {
		return Summary{}, fmt.Errorf("opening time series: %w", err)
	}
	defer f.Close()

	rows, dropped, err := ReadRows(f, columns)
	if err != nil {
		return Summary{}, fmt.Errorf("parsing %s: %w", input, err)
	}

	if dropped > 0 {
		logrus.Warnf("Dropped %d malformed rows from %s", dropped, input)
	}

	samples := Aggregate(rows, interval)
	logrus.Infof("Aggregated %d rows into %d samples with %vs buckets", len(rows), len(samples), interval)

	store := service_state.NewStore(engine.Table().MinReplicas())
	results, summary := Replay(engine, store, samples)
	summary.DroppedRows = dropped

	if err = WriteResults(output, results); err != nil {
		return Summary{}, err
	}

	return summary, nil
}

func WriteResults(output string, results []Result) error {
	ts := tracing.NewTracingService(output, resultHeader, resultRecordFunction)
	if err := ts.StartTracingService(); err != nil {
		return err
	}

	for _, result := range results {
		ts.InputChannel <- result
	}

	if err := ts.Stop(); err != nil {
		return fmt.Errorf("writing results to %s: %w", output, err)
	}

	return nil
}

func resultRecordFunction(result Result) []string {
	return []string{
		strconv.FormatFloat(result.Bucket, 'f', -1, 64),
		result.Decision.ServiceName,
		tracing.FormatFloat(result.Decision.RawRate),
		tracing.FormatFloat(result.Decision.SmoothedRate),
		strconv.Itoa(result.Decision.PreviousReplicas),
		strconv.Itoa(result.NewReplicas),
		string(result.Decision.Action),
		result.Decision.Reason,
	}
}

func (s Summary) Log() {
	logrus.Infof("Total events: %d", s.TotalEvents)
	logrus.Infof("Total scaling actions: %d (upscales: %d, downscales: %d)", s.TotalScales, s.Upscales, s.Downscales)
	logrus.Infof("Blocked by cooldown: %d", s.Blocked)
	logrus.Infof("Mean smoothed rate: %.2f, mean replicas: %.2f, max replicas: %.0f", s.MeanSmoothedRate, s.MeanReplicas, s.MaxReplicas)

	for _, entity := range sortedEntities(s.FinalReplicas) {
		logrus.Infof("Final replicas of %s: %d", entity, s.FinalReplicas[entity])
	}
}

func sortedEntities(replicas map[string]int) []string {
	entities := _map.Keys(replicas)
	sort.Strings(entities)

	return entities
}
