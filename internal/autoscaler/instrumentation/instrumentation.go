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
	"errors"
	"net/http"
	"reactive_autoscaler/internal/autoscaler/core"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

var (
	decisionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reactive_autoscaler_decisions_total",
			Help: "Total number of scaling decisions per service and action",
		},
		[]string{"service", "action"},
	)
	replicasGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "reactive_autoscaler_replicas",
			Help: "Replica count of the service after the last decision",
		},
		[]string{"service"},
	)
	smoothedRateGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "reactive_autoscaler_smoothed_rate",
			Help: "Exponentially smoothed traffic rate of the service",
		},
		[]string{"service"},
	)
	failureCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reactive_autoscaler_failures_total",
			Help: "Collaborator failures per service and stage",
		},
		[]string{"service", "stage"},
	)
)

func init() {
	prometheus.MustRegister(decisionCounter)
	prometheus.MustRegister(replicasGauge)
	prometheus.MustRegister(smoothedRateGauge)
	prometheus.MustRegister(failureCounter)
}

// RecordDecision exports a decision together with the replica count that is in effect after it.
func RecordDecision(decision core.Decision, replicas int) {
	decisionCounter.WithLabelValues(decision.ServiceName, string(decision.Action)).Inc()
	replicasGauge.WithLabelValues(decision.ServiceName).Set(float64(replicas))
	smoothedRateGauge.WithLabelValues(decision.ServiceName).Set(decision.SmoothedRate)
}

func RecordFailure(serviceName string, stage string) {
	failureCounter.WithLabelValues(serviceName, stage).Inc()
}

// StartMetricsServer serves /metrics on the given address until the server fails.
// An empty address disables the server.
func StartMetricsServer(address string) *http.Server {
	if address == "" {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{Addr: address, Handler: mux}

	go func() {
		logrus.Infof("Serving autoscaler metrics on %s", address)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Errorf("Metrics server failed - %v", err)
		}
	}()

	return server
}
