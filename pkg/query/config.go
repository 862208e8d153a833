package query

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/dchouse/nanodash/pkg/common"
	"github.com/levenlabs/go-lflag"
)

// Configured sets up the query Source based on flags. When a Redis address
// is given, queries are cached there.
func Configured() Source {
	influxURL := lflag.String("influx-url", "http://localhost:8086", "InfluxDB v2 server URL")
	token := lflag.RequiredString("influx-token", "InfluxDB API token")
	org := lflag.String("influx-org", "dchouse", "InfluxDB organization")
	sensorBucket := lflag.String("influx-sensor-bucket", DefaultBuckets().Sensors, "Bucket holding temperature and humidity readings")
	electricalBucket := lflag.String("influx-electrical-bucket", DefaultBuckets().Electrical, "Bucket holding per-circuit power readings")
	timeout := lflag.Duration("influx-timeout", 30*time.Second, "Timeout for a single InfluxDB query")
	redisAddr := lflag.String("query-cache-redis-addr", "", "Redis address for caching query results (empty disables caching)")
	redisPassword := lflag.String("query-cache-redis-password", "", "Redis password for the query cache")
	cacheTTL := lflag.Duration("query-cache-ttl", time.Minute, "How long cached query results are kept")

	var p struct{ Source }

	lflag.Do(func() {
		if _, err := url.Parse(*influxURL); err != nil {
			panic(fmt.Sprintf("failed to parse influx url (%s): %v", *influxURL, err))
		}
		buckets := Buckets{Sensors: *sensorBucket, Electrical: *electricalBucket}
		var src Source = NewInfluxSource(*influxURL, *token, *org, buckets, common.HTTPClient(*timeout))

		if *redisAddr != "" {
			cache, err := NewRedisCache(context.Background(), *redisAddr, *redisPassword)
			if err != nil {
				panic(fmt.Sprintf("query cache init failed: %v", err))
			}
			src = NewCachedSource(src, cache, *cacheTTL)
		}
		p.Source = src
	})

	return &p
}
