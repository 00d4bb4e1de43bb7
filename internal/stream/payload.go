package stream

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// Channel presets. The mixed channel reproduces the demo's event mix:
// every 3rd tick an update, every 4th a sensor reading, every 5th a
// heartbeat, every 8th a notification, anything else a plain message.

// Mixed is the configuration behind the /stream endpoint.
func Mixed(interval time.Duration) Config {
	return Config{
		Interval: interval,
		Rules: []Rule{
			{Every: 3, Kind: "update", Payload: updatePayload},
			{Every: 4, Kind: "sensor", Payload: sensorPayload},
			{Every: 5, Kind: "heartbeat", Payload: heartbeatPayload},
			{Every: 8, Kind: "notification", Payload: notificationPayload},
		},
		Default: messagePayload,
	}
}

// Metrics is the configuration behind the /metrics endpoint: default-kind
// events whose payload carries a metrics object.
func Metrics(interval time.Duration) Config {
	return Config{
		Interval: interval,
		Default:  metricsPayload,
	}
}

// Channel is the configuration behind /realtime/{channel}: plain messages
// tagged with the channel name.
func Channel(name string, interval time.Duration) Config {
	return Config{
		Interval: interval,
		Default: func(seq int) (map[string]any, error) {
			return map[string]any{
				"channel":   name,
				"message":   fmt.Sprintf("Update %d on channel %s", seq, name),
				"sequence":  seq,
				"timestamp": now(),
			}, nil
		},
	}
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func messagePayload(seq int) (map[string]any, error) {
	return map[string]any{
		"message":   fmt.Sprintf("Event %d from stream", seq),
		"sequence":  seq,
		"timestamp": now(),
	}, nil
}

func updatePayload(seq int) (map[string]any, error) {
	statuses := []string{"ok", "degraded", "syncing"}
	return map[string]any{
		"message":   fmt.Sprintf("System update #%d", seq),
		"status":    statuses[rand.IntN(len(statuses))],
		"sequence":  seq,
		"timestamp": now(),
	}, nil
}

func sensorPayload(seq int) (map[string]any, error) {
	return map[string]any{
		"sensor_data": map[string]any{
			"temperature": round1(15 + rand.Float64()*15),
			"humidity":    round1(30 + rand.Float64()*40),
			"pressure":    round1(990 + rand.Float64()*40),
		},
		"sequence":  seq,
		"timestamp": now(),
	}, nil
}

func heartbeatPayload(seq int) (map[string]any, error) {
	return map[string]any{
		"cpu_usage":    round1(rand.Float64() * 100),
		"memory_usage": round1(rand.Float64() * 100),
		"sequence":     seq,
		"timestamp":    now(),
	}, nil
}

func notificationPayload(seq int) (map[string]any, error) {
	levels := []string{"info", "warning", "success", "error"}
	level := levels[rand.IntN(len(levels))]
	return map[string]any{
		"level":     level,
		"title":     "Notification",
		"message":   fmt.Sprintf("Notification %d (%s)", seq, level),
		"sequence":  seq,
		"timestamp": now(),
	}, nil
}

func metricsPayload(seq int) (map[string]any, error) {
	return map[string]any{
		"metrics": map[string]any{
			"requests_per_second": rand.IntN(500),
			"cpu_usage_percent":   round1(rand.Float64() * 100),
			"memory_usage_mb":     128 + rand.IntN(1920),
			"active_connections":  rand.IntN(200),
		},
		"sequence":  seq,
		"timestamp": now(),
	}, nil
}

func round1(f float64) float64 {
	return float64(int(f*10)) / 10
}
