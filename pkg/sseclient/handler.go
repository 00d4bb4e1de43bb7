package sseclient

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

var levelIcons = map[string]string{
	"info":    "[i]",
	"warning": "[!]",
	"success": "[+]",
	"error":   "[x]",
}

// DefaultHandler formats events to w (stdout when nil) by best-effort
// shape sniffing, in this priority order: heartbeat, notification, sensor,
// payload with a metrics key, generic message field, raw text. A payload
// that fails to decode as JSON is reported raw and never stops the loop.
func DefaultHandler(w io.Writer) Handler {
	if w == nil {
		w = os.Stdout
	}
	return func(endpoint string, ev Event) {
		ts := time.Now().Format("15:04:05")

		var data map[string]any
		if err := json.Unmarshal([]byte(ev.Data), &data); err != nil {
			fmt.Fprintf(w, "[%s] %s - raw: %s\n", ts, endpoint, ev.Data)
			return
		}

		switch {
		case ev.Kind == "heartbeat":
			fmt.Fprintf(w, "[%s] heartbeat - CPU: %v, Memory: %v\n",
				ts, field(data, "cpu_usage"), field(data, "memory_usage"))

		case ev.Kind == "notification":
			level, _ := data["level"].(string)
			icon, ok := levelIcons[level]
			if !ok {
				icon = levelIcons["info"]
			}
			title := field(data, "title")
			if title == "N/A" {
				title = "Notification"
			}
			fmt.Fprintf(w, "[%s] %s %v: %v\n", ts, icon, title, field(data, "message"))

		case ev.Kind == "sensor":
			sensor, _ := data["sensor_data"].(map[string]any)
			fmt.Fprintf(w, "[%s] sensor - temp: %v°C, humidity: %v%%\n",
				ts, field(sensor, "temperature"), field(sensor, "humidity"))

		default:
			if metrics, ok := data["metrics"].(map[string]any); ok {
				fmt.Fprintf(w, "[%s] metrics - RPS: %v, CPU: %v%%, Mem: %vMB\n",
					ts, field(metrics, "requests_per_second"),
					field(metrics, "cpu_usage_percent"),
					field(metrics, "memory_usage_mb"))
				return
			}
			if msg, ok := data["message"]; ok {
				fmt.Fprintf(w, "[%s] %s - %v\n", ts, endpoint, msg)
				return
			}
			fmt.Fprintf(w, "[%s] %s - %s\n", ts, endpoint, ev.Data)
		}
	}
}

func field(m map[string]any, key string) any {
	if m == nil {
		return "N/A"
	}
	if v, ok := m[key]; ok {
		return v
	}
	return "N/A"
}
