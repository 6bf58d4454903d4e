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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplayIntervalFlagOverridesInvalidConfiguration(t *testing.T) {
	dir := t.TempDir()

	configFile := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("replay:\n  interval: 0\n"), 0644))

	input := filepath.Join(dir, "input.csv")
	require.NoError(t, os.WriteFile(input, []byte("item,timestamp,request_rate\nfrontend,0,15\n"), 0644))

	output := filepath.Join(dir, "result.csv")

	rootCmd.SetArgs([]string{"replay", "--config", configFile, "--input", input, "--output", output})
	assert.Error(t, rootCmd.Execute(), "an invalid interval without override must be rejected")

	rootCmd.SetArgs([]string{"replay", "--config", configFile, "--input", input, "--output", output, "--interval", "10"})
	require.NoError(t, rootCmd.Execute())

	_, err := os.Stat(output)
	assert.NoError(t, err)
}
