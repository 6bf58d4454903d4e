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

package service_state

import "reactive_autoscaler/internal/autoscaler/core"

// Store owns the ServiceState of every service observed by a driver. It is
// not safe for concurrent use; a single driver loop is its only user.
type Store struct {
	states          map[string]*core.ServiceState
	initialReplicas int
}

func NewStore(initialReplicas int) *Store {
	return &Store{
		states:          make(map[string]*core.ServiceState),
		initialReplicas: initialReplicas,
	}
}

// GetOrCreate returns the state of the service, creating it on first use.
// The second return value reports whether the state has just been created.
func (s *Store) GetOrCreate(serviceName string) (*core.ServiceState, bool) {
	if state, ok := s.states[serviceName]; ok {
		return state, false
	}

	state := core.NewServiceState(serviceName, s.initialReplicas)
	s.states[serviceName] = state

	return state, true
}

func (s *Store) Get(serviceName string) (*core.ServiceState, bool) {
	state, ok := s.states[serviceName]
	return state, ok
}

// Seed replaces the state of a service, e.g. with one reconstructed from persisted history.
func (s *Store) Seed(state *core.ServiceState) {
	s.states[state.ServiceName] = state
}

func (s *Store) Len() int {
	return len(s.states)
}
