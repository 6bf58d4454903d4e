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

package live

import (
	"context"
	"fmt"
	"reactive_autoscaler/internal/autoscaler/core"
	"reactive_autoscaler/internal/autoscaler/instrumentation"
	"reactive_autoscaler/internal/autoscaler/persistence"
	"reactive_autoscaler/internal/autoscaler/reactive_autoscaler"
	"reactive_autoscaler/internal/autoscaler/service_state"
	_map "reactive_autoscaler/pkg/map"
	"reactive_autoscaler/pkg/tracing"
	"time"

	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"
)

// Autoscaler drives the scaling engine against the metrics source and the
// control plane. All services are processed sequentially by a single loop.
type Autoscaler struct {
	engine       *reactive_autoscaler.ReactiveAutoscaler
	store        *service_state.Store
	metrics      core.MetricsSource
	controlPlane core.ControlPlane
	history      persistence.HistoryStore
	tracer       *tracing.TracingService[tracing.DecisionRecord]

	clock        clock.Clock
	pollInterval time.Duration
	errorPause   time.Duration

	previousListing []string
}

// NewAutoscaler creates the live driver. history and tracer may be nil.
func NewAutoscaler(
	engine *reactive_autoscaler.ReactiveAutoscaler,
	store *service_state.Store,
	metrics core.MetricsSource,
	controlPlane core.ControlPlane,
	history persistence.HistoryStore,
	tracer *tracing.TracingService[tracing.DecisionRecord],
	clk clock.Clock,
	pollInterval time.Duration,
	errorPause time.Duration,
) *Autoscaler {
	if history == nil {
		history = persistence.NewEmptyPersistenceLayer()
	}

	if clk == nil {
		clk = clock.RealClock{}
	}

	return &Autoscaler{
		engine:       engine,
		store:        store,
		metrics:      metrics,
		controlPlane: controlPlane,
		history:      history,
		tracer:       tracer,
		clock:        clk,
		pollInterval: pollInterval,
		errorPause:   errorPause,
	}
}

// Run executes iterations on a fixed cadence until ctx is cancelled. The time
// spent in an iteration is subtracted from the wait before the next one.
func (a *Autoscaler) Run(ctx context.Context) {
	logrus.Infof("Reactive autoscaler started (interval: %v, cooldown: %v, replicas: [%d, %d])",
		a.pollInterval, a.engine.Cooldown(), a.engine.Table().MinReplicas(), a.engine.Table().MaxReplicas())

	for {
		start := a.clock.Now()

		var pause time.Duration
		if err := a.RunIteration(ctx); err != nil {
			logrus.Errorf("Autoscaling iteration failed - %v", err)
			pause = a.errorPause
		} else {
			pause = a.pollInterval - a.clock.Since(start)
		}

		if pause <= 0 {
			select {
			case <-ctx.Done():
				logrus.Info("Reactive autoscaler stopped")
				return
			default:
				continue
			}
		}

		select {
		case <-ctx.Done():
			logrus.Info("Reactive autoscaler stopped")
			return
		case <-a.clock.After(pause):
		}
	}
}

// RunIteration handles every monitored resource once. Only a failed listing
// fails the iteration; failures of a single resource are logged and skipped.
func (a *Autoscaler) RunIteration(ctx context.Context) error {
	resources, err := a.controlPlane.ListResources(ctx)
	if err != nil {
		return fmt.Errorf("listing monitored resources: %w", err)
	}

	if len(resources) == 0 {
		logrus.Warn("No monitored resources found")
	}

	a.logListingChanges(resources)

	for _, name := range resources {
		a.processService(ctx, name)
	}

	return nil
}

func (a *Autoscaler) logListingChanges(resources []string) {
	if a.previousListing != nil {
		for _, name := range _map.Difference(resources, a.previousListing) {
			logrus.Infof("Service %s appeared in the listing", name)
		}

		for _, name := range _map.Difference(a.previousListing, resources) {
			logrus.Infof("Service %s disappeared from the listing", name)
		}
	}

	a.previousListing = resources
}

func (a *Autoscaler) processService(ctx context.Context, name string) {
	sample, ok := a.metrics.GetRate(ctx, name)
	if !ok {
		logrus.Warnf("No rate measurement for %s, skipping this iteration", name)
		instrumentation.RecordFailure(name, "metrics")
		return
	}

	state, created := a.store.GetOrCreate(name)
	if created {
		logrus.Debugf("Tracking new service %s", name)
	}

	a.engine.UpdateSmoothedRate(state, sample)

	replicas, err := a.controlPlane.GetReplicaCount(ctx, name)
	if err != nil {
		logrus.Errorf("Failed to read the replica count of %s - %v", name, err)
		instrumentation.RecordFailure(name, "lookup")
		return
	}

	if !created && replicas != state.CurrentReplicas {
		logrus.Debugf("Replica count of %s changed externally (%d -> %d)", name, state.CurrentReplicas, replicas)
	}
	state.CurrentReplicas = replicas

	now := a.clock.Now()
	decision := a.engine.Decide(state, now)

	switch {
	case decision.IsScaling():
		if err = a.controlPlane.SetReplicaCount(ctx, name, decision.DesiredReplicas); err != nil {
			logrus.Errorf("Failed to scale %s to %d replicas - %v", name, decision.DesiredReplicas, err)
			instrumentation.RecordFailure(name, "actuation")

			decision.Action = core.ActionFailed
			decision.Reason = fmt.Sprintf("actuation failed: %v", err)
			break
		}

		event := a.engine.RecordScaling(state, decision)
		logrus.Infof("%s: %s %d -> %d | %s", decision.Action, name, decision.PreviousReplicas, decision.DesiredReplicas, decision.Reason)

		if err = a.history.StoreScalingEvent(ctx, event); err != nil {
			logrus.Warnf("Failed to persist scaling event of %s - %v", name, err)
		}
	case decision.Action == core.ActionBlocked:
		logrus.Infof("%s: %s wants %d -> %d | %s (gate %s)", decision.Action, name, decision.PreviousReplicas, decision.DesiredReplicas, decision.Reason, a.engine.GateState(state, now))
	default:
		logrus.Debugf("%s stable at %d replicas | %s", name, state.CurrentReplicas, decision.Reason)
	}

	instrumentation.RecordDecision(decision, state.CurrentReplicas)

	if a.tracer != nil {
		a.tracer.InputChannel <- tracing.DecisionRecord{Decision: decision, NewReplicas: state.CurrentReplicas}
	}
}

// State exposes the tracked state of a service.
func (a *Autoscaler) State(name string) (*core.ServiceState, bool) {
	return a.store.Get(name)
}
