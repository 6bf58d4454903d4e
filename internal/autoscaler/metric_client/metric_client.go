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

package metric_client

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strconv"
	"text/template"
	"time"

	"github.com/prometheus/client_golang/api"
	v1 "github.com/prometheus/client_golang/api/prometheus/v1"
	"github.com/prometheus/common/model"
	"github.com/sirupsen/logrus"
)

type queryParameters struct {
	Service string
}

// PrometheusClient is a pull-based metrics source. Every failure, including
// timeouts and empty results, is reported as an absent measurement.
type PrometheusClient struct {
	api           v1.API
	queryTemplate *template.Template
	timeout       time.Duration
}

func NewPrometheusClient(address string, queryTemplate string, timeout time.Duration) (*PrometheusClient, error) {
	client, err := api.NewClient(api.Config{Address: address})
	if err != nil {
		return nil, fmt.Errorf("creating Prometheus client for %s: %w", address, err)
	}

	return newPrometheusClient(v1.NewAPI(client), queryTemplate, timeout)
}

func newPrometheusClient(prometheusAPI v1.API, queryTemplate string, timeout time.Duration) (*PrometheusClient, error) {
	parsed, err := template.New("rateQuery").Option("missingkey=error").Parse(queryTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing rate query template: %w", err)
	}

	return &PrometheusClient{
		api:           prometheusAPI,
		queryTemplate: parsed,
		timeout:       timeout,
	}, nil
}

func (c *PrometheusClient) RateQuery(service string) (string, error) {
	var query bytes.Buffer

	if err := c.queryTemplate.Execute(&query, queryParameters{Service: service}); err != nil {
		return "", err
	}

	return query.String(), nil
}

func (c *PrometheusClient) Query(ctx context.Context, expression string) (float64, bool) {
	queryContext, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result, warnings, err := c.api.Query(queryContext, expression, time.Now())
	if err != nil {
		logrus.Errorf("Prometheus query error for %s - %v", expression, err)
		return 0, false
	}

	for _, warning := range warnings {
		logrus.Warnf("Prometheus query warning for %s - %s", expression, warning)
	}

	value, ok := extractScalar(result)
	if !ok {
		logrus.Debugf("Prometheus query %s returned no usable sample", expression)
		return 0, false
	}

	return value, true
}

func (c *PrometheusClient) GetRate(ctx context.Context, service string) (float64, bool) {
	query, err := c.RateQuery(service)
	if err != nil {
		logrus.Errorf("Failed to build rate query for %s - %v", service, err)
		return 0, false
	}

	return c.Query(ctx, query)
}

// Probe checks that the Prometheus API answers at all.
func (c *PrometheusClient) Probe(ctx context.Context) error {
	queryContext, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	_, err := c.api.Buildinfo(queryContext)

	return err
}

func extractScalar(value model.Value) (float64, bool) {
	var sample float64

	switch result := value.(type) {
	case model.Vector:
		if len(result) == 0 {
			return 0, false
		}
		sample = float64(result[0].Value)
	case *model.Scalar:
		sample = float64(result.Value)
	case *model.String:
		parsed, err := strconv.ParseFloat(result.Value, 64)
		if err != nil {
			return 0, false
		}
		sample = parsed
	default:
		return 0, false
	}

	if math.IsNaN(sample) || math.IsInf(sample, 0) || sample < 0 {
		return 0, false
	}

	return sample, true
}
