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

package core

import (
	"time"

	"github.com/google/uuid"
)

type Action string

const (
	ActionNoChange  Action = "NO_CHANGE"
	ActionUpscale   Action = "UPSCALE"
	ActionDownscale Action = "DOWNSCALE"
	ActionBlocked   Action = "BLOCKED"
	// ActionFailed marks a permitted change the control plane did not apply.
	ActionFailed    Action = "FAILED"
)

// ServiceState is owned by exactly one driver loop and is never shared between goroutines.
type ServiceState struct {
	ServiceName     string
	CurrentReplicas int

	RawRate      float64
	SmoothedRate float64
	// Initialized is set by the first smoothing update. A smoothed rate of zero
	// is a legitimate value and does not mean "no history".
	Initialized bool

	// LastScaleTime is the zero time until the first applied scaling action.
	LastScaleTime time.Time

	History []ScalingEvent
}

func NewServiceState(serviceName string, initialReplicas int) *ServiceState {
	return &ServiceState{
		ServiceName:     serviceName,
		CurrentReplicas: initialReplicas,
	}
}

// ScalingEvent is an applied scaling action. It is never modified after being appended.
type ScalingEvent struct {
	ID           string    `json:"id"`
	ServiceName  string    `json:"service"`
	Timestamp    time.Time `json:"timestamp"`
	Action       Action    `json:"action"`
	FromReplicas int       `json:"from"`
	ToReplicas   int       `json:"to"`
	SmoothedRate float64   `json:"rate"`
	Reason       string    `json:"reason"`
}

func NewScalingEvent(decision Decision) ScalingEvent {
	return ScalingEvent{
		ID:           uuid.New().String(),
		ServiceName:  decision.ServiceName,
		Timestamp:    decision.Timestamp,
		Action:       decision.Action,
		FromReplicas: decision.PreviousReplicas,
		ToReplicas:   decision.DesiredReplicas,
		SmoothedRate: decision.SmoothedRate,
		Reason:       decision.Reason,
	}
}

// Decision is the outcome of one engine evaluation for one service.
type Decision struct {
	ServiceName string
	Timestamp   time.Time

	RawRate      float64
	SmoothedRate float64

	PreviousReplicas int
	DesiredReplicas  int

	Action Action
	Reason string
	// Permitted is false only when the cooldown gate blocked a change.
	Permitted bool
}

func (d Decision) IsScaling() bool {
	return d.Action == ActionUpscale || d.Action == ActionDownscale
}
