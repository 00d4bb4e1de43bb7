package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// apiClient is the short-request HTTP helper used by everything except
// the stream commands. Requests are bounded by a 5 second timeout.
var apiClient = &http.Client{Timeout: 5 * time.Second}

func getJSON(path string, out *map[string]any) error {
	resp, err := apiClient.Get(baseURL + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeResponse(resp, out)
}

func postJSON(path string, body any, out *map[string]any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	resp, err := apiClient.Post(baseURL+path, "application/json", bytes.NewReader(raw))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeResponse(resp, out)
}

func decodeResponse(resp *http.Response, out *map[string]any) error {
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode >= 400 {
		msg, _ := (*out)["message"].(string)
		if msg == "" {
			msg = resp.Status
		}
		return fmt.Errorf("server error (%d): %s", resp.StatusCode, msg)
	}
	return nil
}

func printResult(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(data))
}
