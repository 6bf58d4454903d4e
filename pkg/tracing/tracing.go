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

package tracing

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"reactive_autoscaler/internal/autoscaler/core"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

var decisionLogHeader = []string{"time", "service", "raw_rate", "smoothed_rate", "prev_replicas", "new_replicas", "desired_replicas", "action", "reason"}

// TracingService writes records sent to InputChannel as CSV rows. Stop must be
// called to flush and close the output file.
type TracingService[T any] struct {
	OutputFile   string
	InputChannel chan T

	Header         []string
	RecordFunction func(T) []string

	done chan struct{}
	err  error
}

func NewTracingService[T any](outputFile string, header []string, recordFunction func(T) []string) *TracingService[T] {
	return &TracingService[T]{
		OutputFile:     outputFile,
		InputChannel:   make(chan T, 100),
		Header:         header,
		RecordFunction: recordFunction,
		done:           make(chan struct{}),
	}
}

// DecisionRecord is a decision together with the replica count in effect after
// it was handled, which differs from the desired count when actuation failed.
type DecisionRecord struct {
	core.Decision
	NewReplicas int
}

// NewDecisionTracingService traces every live decision, including no-ops and cooldown blocks.
func NewDecisionTracingService(outputFile string) *TracingService[DecisionRecord] {
	return NewTracingService(outputFile, decisionLogHeader, decisionRecordFunction)
}

// StartTracingService creates the output file and consumes InputChannel in the background.
func (ts *TracingService[T]) StartTracingService() error {
	f, err := CreateFileIfNotExist(ts.OutputFile)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(f)
	if err = writer.Write(ts.Header); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing header of %s: %w", ts.OutputFile, err)
	}

	go ts.consume(f, writer)

	return nil
}

func (ts *TracingService[T]) consume(f *os.File, writer *csv.Writer) {
	defer close(ts.done)

	for msg := range ts.InputChannel {
		if err := writer.Write(ts.RecordFunction(msg)); err != nil && ts.err == nil {
			ts.err = err
			logrus.Errorf("Failed to write trace record to %s - %v", ts.OutputFile, err)
		}

		if len(ts.InputChannel) == 0 {
			writer.Flush()
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil && ts.err == nil {
		ts.err = err
	}

	if err := f.Close(); err != nil && ts.err == nil {
		ts.err = err
	}
}

// Stop drains the pending records and returns the first write error, if any.
func (ts *TracingService[T]) Stop() error {
	close(ts.InputChannel)
	<-ts.done

	return ts.err
}

func CreateFileIfNotExist(path string) (*os.File, error) {
	directory := filepath.Dir(path)
	if _, err := os.Stat(directory); os.IsNotExist(err) {
		if err = os.MkdirAll(directory, 0700); err != nil {
			return nil, fmt.Errorf("creating trace folder %s: %w", directory, err)
		}
	}

	_ = os.Remove(path) // We don't want previous values
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open output file %s: %w", path, err)
	}

	return f, nil
}

func FormatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', 4, 64)
}

func decisionRecordFunction(decision DecisionRecord) []string {
	return []string{
		decision.Timestamp.Format(time.RFC3339Nano),
		decision.ServiceName,
		FormatFloat(decision.RawRate),
		FormatFloat(decision.SmoothedRate),
		strconv.Itoa(decision.PreviousReplicas),
		strconv.Itoa(decision.NewReplicas),
		strconv.Itoa(decision.DesiredReplicas),
		string(decision.Action),
		decision.Reason,
	}
}
