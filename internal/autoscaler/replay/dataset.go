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
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
)

var ErrMissingColumn = errors.New("missing column")

type Columns struct {
	Entity    string
	Timestamp string
	Rate      string
}

// Row is one parsed line of the input time series. Timestamps are in seconds.
type Row struct {
	Entity    string
	Timestamp float64
	Rate      float64
}

// Sample is the summed rate of one entity within one time bucket.
type Sample struct {
	Bucket float64
	Entity string
	Rate   float64
}

// ReadRows parses the time series and returns the usable rows together with
// the number of dropped rows. Rows whose timestamp or rate is not a finite
// number, or whose rate is negative, are dropped.
func ReadRows(r io.Reader, columns Columns) ([]Row, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("reading header: %w", err)
	}

	entityIdx, err := columnIndex(header, columns.Entity)
	if err != nil {
		return nil, 0, err
	}
	timestampIdx, err := columnIndex(header, columns.Timestamp)
	if err != nil {
		return nil, 0, err
	}
	rateIdx, err := columnIndex(header, columns.Rate)
	if err != nil {
		return nil, 0, err
	}

	var rows []Row
	dropped := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, 0, fmt.Errorf("reading time series: %w", err)
		}

		if len(record) <= entityIdx || len(record) <= timestampIdx || len(record) <= rateIdx {
			dropped++
			continue
		}

		timestamp, ok := parseNumber(record[timestampIdx])
		if !ok {
			dropped++
			continue
		}

		rate, ok := parseNumber(record[rateIdx])
		if !ok || rate < 0 {
			dropped++
			continue
		}

		rows = append(rows, Row{
			Entity:    record[entityIdx],
			Timestamp: timestamp,
			Rate:      rate,
		})
	}

	return rows, dropped, nil
}

func columnIndex(header []string, column string) (int, error) {
	for i, name := range header {
		if strings.TrimSpace(name) == column {
			return i, nil
		}
	}

	return -1, fmt.Errorf("%w %q in header %v", ErrMissingColumn, column, header)
}

func parseNumber(value string) (float64, bool) {
	number, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(number) || math.IsInf(number, 0) {
		return 0, false
	}

	return number, true
}

func Bucket(timestamp float64, interval float64) float64 {
	return math.Floor(timestamp/interval) * interval
}

// Aggregate sums the rate per (bucket, entity) and returns the samples in
// ascending bucket order, ties broken by entity.
func Aggregate(rows []Row, interval float64) []Sample {
	type key struct {
		bucket float64
		entity string
	}

	sums := make(map[key]float64)
	for _, row := range rows {
		sums[key{bucket: Bucket(row.Timestamp, interval), entity: row.Entity}] += row.Rate
	}

	samples := make([]Sample, 0, len(sums))
	for k, rate := range sums {
		samples = append(samples, Sample{Bucket: k.bucket, Entity: k.entity, Rate: rate})
	}

	sort.Slice(samples, func(i, j int) bool {
		if samples[i].Bucket != samples[j].Bucket {
			return samples[i].Bucket < samples[j].Bucket
		}

		return samples[i].Entity < samples[j].Entity
	})

	return samples
}
