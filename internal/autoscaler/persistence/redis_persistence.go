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

package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"reactive_autoscaler/internal/autoscaler/core"
	"reactive_autoscaler/pkg/config"
	"reactive_autoscaler/pkg/redis_helpers"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const historyPrefix string = "scaling_history"

type RedisClient struct {
	RedisClient  *redis.Client
	OtherClients []*redis.Client
}

func CreateRedisClient(ctx context.Context, redisLogin config.RedisConf) (*RedisClient, error) {
	redisClient, otherClients, err := redis_helpers.CreateRedisConnector(ctx, redisLogin)
	if err != nil {
		return nil, fmt.Errorf("connecting to redis at %s: %w", redisLogin.Address, err)
	}

	return &RedisClient{
		RedisClient:  redisClient,
		OtherClients: otherClients,
	}, nil
}

func historyKey(serviceName string) string {
	return fmt.Sprintf("%s:%s", historyPrefix, serviceName)
}

func serviceFromKey(key string) string {
	return strings.TrimPrefix(key, historyPrefix+":")
}

func (driver *RedisClient) waitForQuorumWrite(ctx context.Context) error {
	if len(driver.OtherClients) == 0 {
		return nil
	}

	return driver.RedisClient.Wait(ctx, len(driver.OtherClients), 0).Err()
}

func (driver *RedisClient) StoreScalingEvent(ctx context.Context, event core.ScalingEvent) error {
	logrus.Trace("store scaling event in the database")

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = driver.RedisClient.RPush(ctx, historyKey(event.ServiceName), data).Err()
	if err != nil {
		return err
	}

	return driver.waitForQuorumWrite(ctx)
}

func (driver *RedisClient) GetScalingEvents(ctx context.Context, serviceName string) ([]core.ScalingEvent, error) {
	logrus.Trace("get scaling events from the database")

	entries, err := driver.RedisClient.LRange(ctx, historyKey(serviceName), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	events := make([]core.ScalingEvent, 0, len(entries))
	for _, entry := range entries {
		event := core.ScalingEvent{}

		if err = json.Unmarshal([]byte(entry), &event); err != nil {
			return nil, fmt.Errorf("decoding scaling event of %s: %w", serviceName, err)
		}

		events = append(events, event)
	}

	return events, nil
}

func (driver *RedisClient) GetServices(ctx context.Context) ([]string, error) {
	keys, err := redis_helpers.ScanKeys(ctx, driver.RedisClient, historyPrefix+":")
	if err != nil {
		return nil, err
	}

	services := make([]string, 0, len(keys))
	for _, key := range keys {
		services = append(services, serviceFromKey(key))
	}

	return services, nil
}

func (driver *RedisClient) Close() error {
	for _, client := range driver.OtherClients {
		_ = client.Close()
	}

	return driver.RedisClient.Close()
}
