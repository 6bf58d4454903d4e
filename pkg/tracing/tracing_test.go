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
	"os"
	"path/filepath"
	"reactive_autoscaler/internal/autoscaler/core"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	return records
}

func TestDecisionTracingService(t *testing.T) {
	output := filepath.Join(t.TempDir(), "nested", "decisions.csv")

	ts := NewDecisionTracingService(output)
	require.NoError(t, ts.StartTracingService())

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	ts.InputChannel <- DecisionRecord{
		Decision: core.Decision{
			ServiceName:      "frontend",
			Timestamp:        now,
			RawRate:          15,
			SmoothedRate:     15,
			PreviousReplicas: 1,
			DesiredReplicas:  2,
			Action:           core.ActionUpscale,
			Reason:           "rate 15.0 >= 10.0 (scale-up threshold)",
		},
		NewReplicas: 2,
	}
	ts.InputChannel <- DecisionRecord{
		Decision: core.Decision{
			ServiceName:      "frontend",
			Timestamp:        now.Add(10 * time.Second),
			RawRate:          5,
			SmoothedRate:     8,
			PreviousReplicas: 2,
			DesiredReplicas:  2,
			Action:           core.ActionNoChange,
			Reason:           "rate 8.0 within stable range [8.0, 30.0)",
		},
		NewReplicas: 2,
	}

	require.NoError(t, ts.Stop())

	records := readCSV(t, output)
	require.Len(t, records, 3)

	assert.Equal(t, decisionLogHeader, records[0])
	assert.Equal(t, []string{"2024-01-01T12:00:00Z", "frontend", "15.0000", "15.0000", "1", "2", "2", "UPSCALE", "rate 15.0 >= 10.0 (scale-up threshold)"}, records[1])
	assert.Equal(t, "rate 8.0 within stable range [8.0, 30.0)", records[2][8], "reasons with commas must survive quoting")
	assert.Equal(t, "2", records[2][5])
}

func TestCreateFileTruncates(t *testing.T) {
	output := filepath.Join(t.TempDir(), "trace.csv")
	require.NoError(t, os.WriteFile(output, []byte("stale"), 0644))

	f, err := CreateFileIfNotExist(output)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	content, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Empty(t, content)
}
