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
	"errors"
	"fmt"
	"math"
)

var ErrInvalidThresholdTable = errors.New("invalid threshold table")

// Thresholds is the (scale-up, scale-down) pair of a single replica level.
// [Down, Up) is the stable band of the level.
type Thresholds struct {
	Up   float64
	Down float64
}

// ThresholdTable maps every replica count in [min, max] to its thresholds.
// It is immutable once built.
type ThresholdTable struct {
	minReplicas int
	maxReplicas int
	levels      []Thresholds
}

func NewThresholdTable(minReplicas, maxReplicas int, levels map[int]Thresholds) (*ThresholdTable, error) {
	if minReplicas < 0 || maxReplicas < minReplicas {
		return nil, fmt.Errorf("%w: replica bounds [%d, %d]", ErrInvalidThresholdTable, minReplicas, maxReplicas)
	}

	table := &ThresholdTable{
		minReplicas: minReplicas,
		maxReplicas: maxReplicas,
		levels:      make([]Thresholds, maxReplicas-minReplicas+1),
	}

	for r := range levels {
		if r < minReplicas || r > maxReplicas {
			return nil, fmt.Errorf("%w: level %d outside [%d, %d]", ErrInvalidThresholdTable, r, minReplicas, maxReplicas)
		}
	}

	for r := minReplicas; r <= maxReplicas; r++ {
		level, ok := levels[r]
		if !ok {
			return nil, fmt.Errorf("%w: missing level %d", ErrInvalidThresholdTable, r)
		}

		if math.IsNaN(level.Up) || math.IsNaN(level.Down) {
			return nil, fmt.Errorf("%w: level %d has NaN threshold", ErrInvalidThresholdTable, r)
		}

		if level.Up < level.Down {
			return nil, fmt.Errorf("%w: level %d has up %.2f < down %.2f", ErrInvalidThresholdTable, r, level.Up, level.Down)
		}

		if r > minReplicas {
			previous := levels[r-1]
			if level.Up < previous.Up || level.Down < previous.Down {
				return nil, fmt.Errorf("%w: level %d thresholds decrease relative to level %d", ErrInvalidThresholdTable, r, r-1)
			}
		}

		table.levels[r-minReplicas] = level
	}

	return table, nil
}

func (t *ThresholdTable) MinReplicas() int {
	return t.minReplicas
}

func (t *ThresholdTable) MaxReplicas() int {
	return t.maxReplicas
}

// Get panics for replica counts outside of [MinReplicas, MaxReplicas]; callers clamp first.
func (t *ThresholdTable) Get(replicas int) Thresholds {
	return t.levels[replicas-t.minReplicas]
}
