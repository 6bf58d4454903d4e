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

package main

import (
	"context"
	"path"
	"reactive_autoscaler/internal/autoscaler/instrumentation"
	"reactive_autoscaler/internal/autoscaler/k8s_scaler"
	"reactive_autoscaler/internal/autoscaler/live"
	"reactive_autoscaler/internal/autoscaler/metric_client"
	"reactive_autoscaler/internal/autoscaler/persistence"
	"reactive_autoscaler/internal/autoscaler/reactive_autoscaler"
	"reactive_autoscaler/internal/autoscaler/service_state"
	"reactive_autoscaler/pkg/config"
	"reactive_autoscaler/pkg/profiler"
	"reactive_autoscaler/pkg/tracing"
	"reactive_autoscaler/pkg/utils"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"k8s.io/utils/clock"
)

var liveCmd = &cobra.Command{
	Use:   "live",
	Short: "Run the control loop against Prometheus and Kubernetes",
	RunE:  runLive,
}

func runLive(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfiguration(cmd)
	if err != nil {
		return err
	}

	if err = cfg.Validate(); err != nil {
		return err
	}

	table, err := cfg.ThresholdTable()
	if err != nil {
		return err
	}

	engine := reactive_autoscaler.NewReactiveAutoscaler(table, cfg.EmaAlpha, cfg.CooldownDuration())

	prometheusClient, err := metric_client.NewPrometheusClient(cfg.PrometheusURL, cfg.RateQuery, cfg.MetricsQueryTimeoutDuration())
	if err != nil {
		return err
	}

	clientset, err := k8s_scaler.NewClientset(cfg.Kubeconfig)
	if err != nil {
		return err
	}
	scaler := k8s_scaler.NewKubernetesScaler(clientset, cfg.Namespace, cfg.LabelSelector, cfg.ControlPlaneTimeoutDuration())

	ctx, cancel := utils.TerminationContext(context.Background())
	defer cancel()

	err = live.WaitForCollaborators(ctx, utils.CollaboratorProbeInterval, utils.CollaboratorProbeTimeout,
		live.Collaborator{Name: "Prometheus at " + cfg.PrometheusURL, Probe: prometheusClient.Probe},
		live.Collaborator{Name: "Kubernetes API", Probe: scaler.Probe},
	)
	if err != nil {
		return err
	}

	history, closeHistory, err := createHistoryStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeHistory()

	store := service_state.NewStore(table.MinReplicas())
	if cfg.Reconstruct {
		if err = live.ReconstructState(ctx, history, store); err != nil {
			return err
		}
	}

	var tracer *tracing.TracingService[tracing.DecisionRecord]
	if cfg.TraceOutputFolder != "" {
		tracer = tracing.NewDecisionTracingService(path.Join(cfg.TraceOutputFolder, utils.DecisionTraceFile))
		if err = tracer.StartTracingService(); err != nil {
			return err
		}

		defer func() {
			if err := tracer.Stop(); err != nil {
				logrus.Errorf("Failed to flush the decision trace - %v", err)
			}
		}()
	}

	metricsServer := instrumentation.StartMetricsServer(cfg.MetricsAddress)
	if metricsServer != nil {
		defer metricsServer.Close()
	}

	go profiler.SetupProfilerServer(cfg.Profiler)

	autoscaler := live.NewAutoscaler(engine, store, prometheusClient, scaler, history, tracer, clock.RealClock{}, cfg.PollIntervalDuration(), cfg.ErrorPauseDuration())
	autoscaler.Run(ctx)

	return nil
}

func createHistoryStore(ctx context.Context, cfg config.AutoscalerConfig) (persistence.HistoryStore, func(), error) {
	if !cfg.Persistence {
		return persistence.NewEmptyPersistenceLayer(), func() {}, nil
	}

	redisClient, err := persistence.CreateRedisClient(ctx, cfg.RedisConf)
	if err != nil {
		return nil, nil, err
	}

	logrus.Infof("Persisting scaling history in redis at %s", cfg.RedisConf.Address)

	return redisClient, func() {
		if err := redisClient.Close(); err != nil {
			logrus.Warnf("Failed to close redis connection - %v", err)
		}
	}, nil
}
