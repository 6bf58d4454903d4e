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

package reactive_autoscaler

import (
	"fmt"
	"reactive_autoscaler/internal/autoscaler/core"
	"reactive_autoscaler/pkg/utils"
	"time"

	"github.com/cznic/mathutil"
	"github.com/sirupsen/logrus"
)

type GateState string

const (
	GateIdle    GateState = "idle"
	GateCooling GateState = "cooling"
)

// ReactiveAutoscaler holds no per-service state. Every call operates on the
// ServiceState handed in by the driver and reads time only from its arguments.
type ReactiveAutoscaler struct {
	table    *core.ThresholdTable
	alpha    float64
	cooldown time.Duration
}

func NewReactiveAutoscaler(table *core.ThresholdTable, alpha float64, cooldown time.Duration) *ReactiveAutoscaler {
	return &ReactiveAutoscaler{
		table:    table,
		alpha:    alpha,
		cooldown: cooldown,
	}
}

func (a *ReactiveAutoscaler) Table() *core.ThresholdTable {
	return a.table
}

func (a *ReactiveAutoscaler) Cooldown() time.Duration {
	return a.cooldown
}

// UpdateSmoothedRate folds a new sample into the exponential moving average.
// The first sample of a service initializes the average exactly.
func (a *ReactiveAutoscaler) UpdateSmoothedRate(state *core.ServiceState, sample float64) float64 {
	if !state.Initialized {
		state.SmoothedRate = sample
		state.Initialized = true
	} else {
		state.SmoothedRate = utils.ExponentialMovingAverage(a.alpha, sample, state.SmoothedRate)
	}

	state.RawRate = sample

	return state.SmoothedRate
}

// DesiredReplicas applies the hysteresis step function. Reaching a scale-up
// threshold is inclusive, crossing a scale-down threshold is strict. A single
// call may move several levels at once.
func (a *ReactiveAutoscaler) DesiredReplicas(currentReplicas int, smoothedRate float64) (int, string) {
	minReplicas, maxReplicas := a.table.MinReplicas(), a.table.MaxReplicas()

	// counts reported outside of the table are looked up at the nearest bound
	level := mathutil.Clamp(currentReplicas, minReplicas, maxReplicas)
	thresholds := a.table.Get(level)

	if smoothedRate >= thresholds.Up && level < maxReplicas {
		for replicas := level + 1; replicas <= maxReplicas; replicas++ {
			if smoothedRate < a.table.Get(replicas).Up {
				return replicas, fmt.Sprintf("rate %.1f >= %.1f (scale-up threshold)", smoothedRate, thresholds.Up)
			}
		}

		return maxReplicas, fmt.Sprintf("rate %.1f exceeds all thresholds", smoothedRate)
	}

	if smoothedRate < thresholds.Down && level > minReplicas {
		for replicas := level - 1; replicas >= minReplicas; replicas-- {
			if smoothedRate >= a.table.Get(replicas).Down || replicas == minReplicas {
				return replicas, fmt.Sprintf("rate %.1f < %.1f (scale-down threshold)", smoothedRate, thresholds.Down)
			}
		}
	}

	if level != currentReplicas {
		return level, fmt.Sprintf("replica count %d outside [%d, %d]", currentReplicas, minReplicas, maxReplicas)
	}

	return currentReplicas, fmt.Sprintf("rate %.1f within stable range [%.1f, %.1f)", smoothedRate, thresholds.Down, thresholds.Up)
}

func (a *ReactiveAutoscaler) GateState(state *core.ServiceState, now time.Time) GateState {
	if state.LastScaleTime.IsZero() || now.Sub(state.LastScaleTime) >= a.cooldown {
		return GateIdle
	}

	return GateCooling
}

// CanScale is the cooldown gate. It never modifies the state; the timestamp
// is moved only by RecordScaling once a change has actually been applied.
func (a *ReactiveAutoscaler) CanScale(state *core.ServiceState, desired int, now time.Time) (bool, string) {
	if desired == state.CurrentReplicas {
		return true, "no change needed"
	}

	if state.LastScaleTime.IsZero() {
		return true, "no previous scaling action"
	}

	sinceLastScale := now.Sub(state.LastScaleTime)
	if sinceLastScale < a.cooldown {
		return false, fmt.Sprintf("in cooldown (wait %ds)", int((a.cooldown - sinceLastScale).Seconds()))
	}

	return true, "cooldown expired"
}

// Decide computes the target for the already smoothed state and runs it
// through the cooldown gate. The state is left untouched.
func (a *ReactiveAutoscaler) Decide(state *core.ServiceState, now time.Time) core.Decision {
	desired, reason := a.DesiredReplicas(state.CurrentReplicas, state.SmoothedRate)

	decision := core.Decision{
		ServiceName:      state.ServiceName,
		Timestamp:        now,
		RawRate:          state.RawRate,
		SmoothedRate:     state.SmoothedRate,
		PreviousReplicas: state.CurrentReplicas,
		DesiredReplicas:  desired,
		Reason:           reason,
		Permitted:        true,
	}

	permitted, gateReason := a.CanScale(state, desired, now)

	switch {
	case desired == state.CurrentReplicas:
		decision.Action = core.ActionNoChange
	case !permitted:
		decision.Action = core.ActionBlocked
		decision.Reason = gateReason
		decision.Permitted = false
	case desired > state.CurrentReplicas:
		decision.Action = core.ActionUpscale
	default:
		decision.Action = core.ActionDownscale
	}

	return decision
}

// Evaluate is UpdateSmoothedRate followed by Decide.
func (a *ReactiveAutoscaler) Evaluate(state *core.ServiceState, sample float64, now time.Time) core.Decision {
	a.UpdateSmoothedRate(state, sample)

	return a.Decide(state, now)
}

// RecordScaling commits an applied scaling decision to the state and returns
// the appended history entry.
func (a *ReactiveAutoscaler) RecordScaling(state *core.ServiceState, decision core.Decision) core.ScalingEvent {
	if !decision.IsScaling() {
		logrus.Errorf("Refusing to record %s decision for %s as a scaling event", decision.Action, decision.ServiceName)
		return core.ScalingEvent{}
	}

	event := core.NewScalingEvent(decision)

	state.CurrentReplicas = decision.DesiredReplicas
	state.LastScaleTime = decision.Timestamp
	state.History = append(state.History, event)

	return event
}
