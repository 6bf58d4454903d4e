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

package utils

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExponentialMovingAverage(t *testing.T) {
	tests := []struct {
		name      string
		alpha     float64
		today     float64
		yesterday float64
		expected  float64
	}{
		{name: "today weighted", alpha: 0.8, today: 1.0, yesterday: 0.0, expected: 0.8},
		{name: "alpha one keeps today", alpha: 1.0, today: 42.0, yesterday: 7.0, expected: 42.0},
		{name: "half and half", alpha: 0.5, today: 10.0, yesterday: 20.0, expected: 15.0},
		{name: "falling signal", alpha: 0.7, today: 5.0, yesterday: 15.0, expected: 8.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ExponentialMovingAverage(tt.alpha, tt.today, tt.yesterday)
			assert.True(t, math.Abs(result-tt.expected) < 0.001, "unexpected moving average %f", result)
		})
	}
}

func TestDurationFromSeconds(t *testing.T) {
	assert.Equal(t, 30*time.Second, DurationFromSeconds(30))
	assert.Equal(t, 1500*time.Millisecond, DurationFromSeconds(1.5))
}
