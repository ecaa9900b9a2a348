package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/m2tx/city_agent/internal/agent"
	"github.com/m2tx/city_agent/internal/model"
)

const defaultSmokeMessage = "What's the weather in Toronto?"

// runAsk posts one prompt to a running server and writes every returned
// content as a JSON line.
func runAsk(ctx context.Context, client *http.Client, baseURL, sessionID, message string, out io.Writer) error {
	body, err := json.Marshal(map[string]string{
		"session_id": sessionID,
		"prompt":     message,
	})
	if err != nil {
		return fmt.Errorf("ask: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(baseURL, "/")+"/prompt", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("ask: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("ask: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("ask: %s: %s", resp.Status, strings.TrimSpace(string(msg)))
	}

	var contents []model.Content
	if err := json.NewDecoder(resp.Body).Decode(&contents); err != nil {
		return fmt.Errorf("ask: decode response: %w", err)
	}

	fmt.Fprintf(out, "session: %s\n", sessionID)
	enc := json.NewEncoder(out)
	for _, c := range contents {
		if err := enc.Encode(c); err != nil {
			return fmt.Errorf("ask: write: %w", err)
		}
	}
	if n := len(contents); n > 0 && contents[n-1].Role == model.RoleModel {
		fmt.Fprintf(out, "answer: %s\n", contents[n-1].Text())
	}

	return nil
}

// runCall invokes a tool on the agent directly and prints its result.
func runCall(ctx context.Context, a *agent.Agent, toolName, city string, out io.Writer) error {
	resp, err := a.Call(ctx, toolName, map[string]any{"city": city})
	if err != nil {
		return fmt.Errorf("call: %w (available: %s)", err, strings.Join(a.Tools(), ", "))
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
