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

package redis_helpers

import (
	"context"
	"fmt"
	"reactive_autoscaler/pkg/config"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func CreateRedisConnector(ctx context.Context, redisLogin config.RedisConf) (*redis.Client, []*redis.Client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     redisLogin.Address,
		Password: redisLogin.Password,
		DB:       redisLogin.Db,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, nil, err
	}

	appendOnly, appendFsync := "no", "everysec"
	if redisLogin.FullPersistence {
		appendOnly, appendFsync = "yes", "always"
	}

	if err := redisClient.ConfigSet(ctx, "appendonly", appendOnly).Err(); err != nil {
		return nil, nil, err
	}

	if err := redisClient.ConfigSet(ctx, "appendfsync", appendFsync).Err(); err != nil {
		return nil, nil, err
	}

	otherClients := make([]*redis.Client, 0)
	for _, addressReplica := range redisLogin.Replicas {
		otherClients = append(otherClients, redis.NewClient(&redis.Options{
			Addr:     addressReplica,
			Password: redisLogin.Password,
			DB:       redisLogin.Db,
		}))
	}

	logrus.Infof("Connect to redis server %s", redisLogin.Address)

	return redisClient, otherClients, nil
}

func ScanKeys(ctx context.Context, client *redis.Client, prefix string) ([]string, error) {
	var cursor uint64

	output := make([]string, 0)

	for {
		var (
			keys []string
			err  error
		)

		keys, cursor, err = client.Scan(ctx, cursor, fmt.Sprintf("%s*", prefix), 10).Result()
		if err != nil {
			return nil, err
		}

		output = append(output, keys...)

		if cursor == 0 {
			break
		}
	}

	return output, nil
}
