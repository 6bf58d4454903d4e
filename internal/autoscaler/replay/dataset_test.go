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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaultColumns = Columns{Entity: "item", Timestamp: "timestamp", Rate: "request_rate"}

func TestReadRows(t *testing.T) {
	input := `item,timestamp,request_rate
frontend,0,1.5
frontend,abc,2
frontend,10,
backend,20,NaN
backend,25,-3
backend,30,4
short
`

	rows, dropped, err := ReadRows(strings.NewReader(input), defaultColumns)
	require.NoError(t, err)

	assert.Equal(t, 5, dropped)
	assert.Equal(t, []Row{
		{Entity: "frontend", Timestamp: 0, Rate: 1.5},
		{Entity: "backend", Timestamp: 30, Rate: 4},
	}, rows)
}

func TestReadRowsColumnOrder(t *testing.T) {
	input := "rate,svc,ts\n3,backend,12\n"

	rows, dropped, err := ReadRows(strings.NewReader(input), Columns{Entity: "svc", Timestamp: "ts", Rate: "rate"})
	require.NoError(t, err)

	assert.Zero(t, dropped)
	assert.Equal(t, []Row{{Entity: "backend", Timestamp: 12, Rate: 3}}, rows)
}

func TestReadRowsMissingColumn(t *testing.T) {
	_, _, err := ReadRows(strings.NewReader("item,timestamp\nfrontend,0\n"), defaultColumns)

	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestBucket(t *testing.T) {
	tests := []struct {
		timestamp float64
		interval  float64
		expected  float64
	}{
		{timestamp: 0, interval: 30, expected: 0},
		{timestamp: 29.9, interval: 30, expected: 0},
		{timestamp: 30, interval: 30, expected: 30},
		{timestamp: 95, interval: 30, expected: 90},
		{timestamp: 7.5, interval: 2.5, expected: 7.5},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, Bucket(test.timestamp, test.interval), "bucket of %v", test.timestamp)
	}
}

func TestAggregateSumsPerBucketAndEntity(t *testing.T) {
	rows := []Row{
		{Entity: "frontend", Timestamp: 31, Rate: 2},
		{Entity: "backend", Timestamp: 5, Rate: 1},
		{Entity: "frontend", Timestamp: 3, Rate: 4},
		{Entity: "frontend", Timestamp: 12, Rate: 6},
		{Entity: "backend", Timestamp: 40, Rate: 7},
	}

	assert.Equal(t, []Sample{
		{Bucket: 0, Entity: "backend", Rate: 1},
		{Bucket: 0, Entity: "frontend", Rate: 10},
		{Bucket: 30, Entity: "backend", Rate: 7},
		{Bucket: 30, Entity: "frontend", Rate: 2},
	}, Aggregate(rows, 30))
}
