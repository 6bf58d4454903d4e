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

package instrumentation

import (
	"reactive_autoscaler/internal/autoscaler/core"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordDecision(t *testing.T) {
	decision := core.Decision{
		ServiceName:  "instrumented",
		SmoothedRate: 15,
		Action:       core.ActionUpscale,
	}

	RecordDecision(decision, 2)
	RecordDecision(decision, 2)

	assert.Equal(t, 2.0, testutil.ToFloat64(decisionCounter.WithLabelValues("instrumented", "UPSCALE")))
	assert.Equal(t, 2.0, testutil.ToFloat64(replicasGauge.WithLabelValues("instrumented")))
	assert.Equal(t, 15.0, testutil.ToFloat64(smoothedRateGauge.WithLabelValues("instrumented")))
}

func TestRecordFailure(t *testing.T) {
	RecordFailure("instrumented-failure", "actuation")

	assert.Equal(t, 1.0, testutil.ToFloat64(failureCounter.WithLabelValues("instrumented-failure", "actuation")))
}

func TestDisabledMetricsServer(t *testing.T) {
	assert.Nil(t, StartMetricsServer(""))
}
