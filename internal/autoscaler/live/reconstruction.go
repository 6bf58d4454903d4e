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
	"reactive_autoscaler/internal/autoscaler/persistence"
	"reactive_autoscaler/internal/autoscaler/service_state"
	"time"

	"github.com/sirupsen/logrus"
	"k8s.io/apimachinery/pkg/util/wait"
)

// ReconstructState seeds the store with the persisted history of every known
// service. The last applied event determines the replica count and the start
// of the cooldown.
func ReconstructState(ctx context.Context, history persistence.HistoryStore, store *service_state.Store) error {
	start := time.Now()

	services, err := history.GetServices(ctx)
	if err != nil {
		return fmt.Errorf("listing persisted services: %w", err)
	}

	for _, name := range services {
		events, err := history.GetScalingEvents(ctx, name)
		if err != nil {
			return fmt.Errorf("reading scaling history of %s: %w", name, err)
		}

		if len(events) == 0 {
			continue
		}

		last := events[len(events)-1]

		state := core.NewServiceState(name, last.ToReplicas)
		state.LastScaleTime = last.Timestamp
		state.History = events

		store.Seed(state)
	}

	logrus.Infof("Reconstructed the scaling history of %d services in %v", store.Len(), time.Since(start))

	return nil
}

type Collaborator struct {
	Name  string
	Probe func(ctx context.Context) error
}

// WaitForCollaborators polls every collaborator until it answers or the timeout expires.
func WaitForCollaborators(ctx context.Context, interval time.Duration, timeout time.Duration, collaborators ...Collaborator) error {
	for _, c := range collaborators {
		err := wait.PollUntilContextTimeout(ctx, interval, timeout, true, func(ctx context.Context) (bool, error) {
			if err := c.Probe(ctx); err != nil {
				logrus.Warnf("%s is not reachable yet - %v", c.Name, err)
				return false, nil
			}

			return true, nil
		})
		if err != nil {
			return fmt.Errorf("%s unreachable: %w", c.Name, err)
		}

		logrus.Infof("%s is reachable", c.Name)
	}

	return nil
}
