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
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rateQueryTemplate = `sum(rate(http_requests_total{service="{{ .Service }}"}[1m]))`

func vectorResponse(value string) string {
	return fmt.Sprintf(`{"status":"success","data":{"resultType":"vector","result":[{"metric":{},"value":[1700000000,"%s"]}]}}`, value)
}

type queryLog struct {
	sync.Mutex
	queries []string
}

func (l *queryLog) Queries() []string {
	l.Lock()
	defer l.Unlock()

	return append([]string(nil), l.queries...)
}

func createPrometheusServer(t *testing.T, responses map[string]string) (*httptest.Server, *queryLog) {
	queries := &queryLog{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/query":
			assert.NoError(t, r.ParseForm())

			query := r.Form.Get("query")
			queries.Lock()
			queries.queries = append(queries.queries, query)
			queries.Unlock()

			response, ok := responses[query]
			if !ok {
				response = `{"status":"success","data":{"resultType":"vector","result":[]}}`
			}

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(response))
		case "/api/v1/status/buildinfo":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"status":"success","data":{"version":"2.45.0"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)

	return server, queries
}

func TestRateQuery(t *testing.T) {
	client, err := NewPrometheusClient("http://localhost:9090", rateQueryTemplate, time.Second)
	require.NoError(t, err)

	query, err := client.RateQuery("frontend")
	assert.NoError(t, err)
	assert.Equal(t, `sum(rate(http_requests_total{service="frontend"}[1m]))`, query)
}

func TestInvalidQueryTemplate(t *testing.T) {
	_, err := NewPrometheusClient("http://localhost:9090", `sum(rate({{ .Service `, time.Second)
	assert.Error(t, err)
}

func TestGetRate(t *testing.T) {
	server, queries := createPrometheusServer(t, map[string]string{
		`sum(rate(http_requests_total{service="frontend"}[1m]))`: vectorResponse("15.5"),
		`sum(rate(http_requests_total{service="idle"}[1m]))`:     vectorResponse("0"),
		`sum(rate(http_requests_total{service="broken"}[1m]))`:   vectorResponse("NaN"),
		`sum(rate(http_requests_total{service="failing"}[1m]))`:  `{"status":"error","errorType":"bad_data","error":"parse error"}`,
	})

	client, err := NewPrometheusClient(server.URL, rateQueryTemplate, 2*time.Second)
	require.NoError(t, err)

	tests := []struct {
		service  string
		expected float64
		present  bool
	}{
		{service: "frontend", expected: 15.5, present: true},
		{service: "idle", expected: 0, present: true},
		{service: "broken", present: false},
		{service: "failing", present: false},
		{service: "unknown", present: false},
	}

	for _, tt := range tests {
		t.Run(tt.service, func(t *testing.T) {
			value, ok := client.GetRate(context.Background(), tt.service)

			assert.Equal(t, tt.present, ok)
			if tt.present {
				assert.Equal(t, tt.expected, value)
			}
		})
	}

	assert.Contains(t, queries.Queries(), `sum(rate(http_requests_total{service="frontend"}[1m]))`)
}

func TestQueryScalar(t *testing.T) {
	server, _ := createPrometheusServer(t, map[string]string{
		"vector(1) * 3": `{"status":"success","data":{"resultType":"scalar","result":[1700000000,"3"]}}`,
	})

	client, err := NewPrometheusClient(server.URL, rateQueryTemplate, 2*time.Second)
	require.NoError(t, err)

	value, ok := client.Query(context.Background(), "vector(1) * 3")
	assert.True(t, ok)
	assert.Equal(t, 3.0, value)
}

func TestQueryTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(server.Close)

	client, err := NewPrometheusClient(server.URL, rateQueryTemplate, 50*time.Millisecond)
	require.NoError(t, err)

	start := time.Now()
	_, ok := client.GetRate(context.Background(), "frontend")

	assert.False(t, ok, "a timed out query is an absent measurement")
	assert.Less(t, time.Since(start), time.Second)
}

func TestProbe(t *testing.T) {
	server, _ := createPrometheusServer(t, nil)

	client, err := NewPrometheusClient(server.URL, rateQueryTemplate, time.Second)
	require.NoError(t, err)

	assert.NoError(t, client.Probe(context.Background()))
}
