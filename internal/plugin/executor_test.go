package plugin

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// scriptPlugin writes a shell script plugin into dir and returns it.
func scriptPlugin(t *testing.T, dir, name, script string, events ...string) *Plugin {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	pluginDir := filepath.Join(dir, name)
	if err := os.MkdirAll(pluginDir, 0755); err != nil {
		t.Fatalf("failed to create plugin dir: %v", err)
	}

	scriptPath := filepath.Join(pluginDir, name+".sh")
	if err := os.WriteFile(scriptPath, []byte("#!/bin/sh\n"+script), 0755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}

	manifest := Manifest{
		Name:       name,
		Version:    "1.0.0",
		Executable: name + ".sh",
		Events:     events,
	}
	data, _ := json.Marshal(manifest)
	if err := os.WriteFile(filepath.Join(pluginDir, "plugin.json"), data, 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	return &Plugin{Manifest: manifest, Path: pluginDir, Executable: scriptPath}
}

func TestExecutor_Execute(t *testing.T) {
	plugin := scriptPlugin(t, t.TempDir(), "hello",
		`echo '{"success":true,"data":{"message":"hello world"}}'`+"\n", EventSaved)

	response, err := NewExecutor(5*time.Second).Execute(context.Background(), plugin, &Request{Event: EventSaved})
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	if !response.Success {
		t.Errorf("expected success=true, got false")
	}

	var data map[string]string
	if err := json.Unmarshal(response.Data, &data); err != nil {
		t.Fatalf("failed to unmarshal response data: %v", err)
	}
	if data["message"] != "hello world" {
		t.Errorf("expected message 'hello world', got %v", data["message"])
	}
}

func TestExecutor_Execute_ReadsStdin(t *testing.T) {
	plugin := scriptPlugin(t, t.TempDir(), "echo",
		"INPUT=$(cat)\necho \"{\\\"success\\\":true,\\\"data\\\":{\\\"received\\\":$INPUT}}\"\n", EventSaved)
	plugin.Manifest.Config = json.RawMessage(`{"dir":"archive"}`)

	request := &Request{
		Event:     EventSaved,
		Path:      "saved_drawings/drawing.png",
		DrawingID: "abc",
		Width:     800,
		Height:    600,
	}

	response, err := NewExecutor(5*time.Second).Execute(context.Background(), plugin, request)
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	var data struct {
		Received Request `json:"received"`
	}
	if err := json.Unmarshal(response.Data, &data); err != nil {
		t.Fatalf("failed to unmarshal response data: %v", err)
	}

	got := data.Received
	if got.Event != EventSaved || got.Path != request.Path || got.DrawingID != "abc" || got.Width != 800 {
		t.Errorf("unexpected request received: %+v", got)
	}
	if string(got.Config) != `{"dir":"archive"}` {
		t.Errorf("expected manifest config to be sent, got %s", got.Config)
	}
	if len(request.Config) != 0 {
		t.Error("caller's request should not be modified")
	}
}

func TestExecutor_Timeout(t *testing.T) {
	plugin := scriptPlugin(t, t.TempDir(), "slow", "sleep 10\necho '{\"success\":true}'\n")

	_, err := NewExecutor(100*time.Millisecond).Execute(context.Background(), plugin, &Request{Event: EventSaved})
	if err == nil {
		t.Fatal("expected timeout error, got nil")
	}
	if !strings.Contains(err.Error(), "timeout") {
		t.Errorf("expected timeout error, got: %v", err)
	}
}

func TestExecutor_Execute_Failures(t *testing.T) {
	tests := []struct {
		name   string
		script string
	}{
		{"invalid json", "echo 'not valid json'\n"},
		{"non-zero exit", "echo 'Error: something failed' >&2\nexit 1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plugin := scriptPlugin(t, t.TempDir(), "bad", tt.script)

			if _, err := NewExecutor(5*time.Second).Execute(context.Background(), plugin, &Request{Event: EventSaved}); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestExecutor_Execute_ErrorResponse(t *testing.T) {
	plugin := scriptPlugin(t, t.TempDir(), "err", `echo '{"success":false,"error":"something went wrong"}'`+"\n")

	response, err := NewExecutor(5*time.Second).Execute(context.Background(), plugin, &Request{Event: EventSaved})
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	if response.Success || response.Error != "something went wrong" {
		t.Errorf("unexpected response: %+v", response)
	}
}

func TestExecutor_Dispatch(t *testing.T) {
	dir := t.TempDir()
	scriptPlugin(t, dir, "b-saver", `echo '{"success":true}'`+"\n", EventSaved)
	scriptPlugin(t, dir, "a-saver", `echo '{"success":false,"error":"disk full"}'`+"\n", EventSaved, EventCleared)
	scriptPlugin(t, dir, "clearer", `echo '{"success":true}'`+"\n", EventCleared)

	m := NewManager(dir)
	if err := m.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	outcomes := NewExecutor(5*time.Second).Dispatch(context.Background(), m, &Request{Event: EventSaved})
	if len(outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(outcomes))
	}
	if outcomes[0].Plugin != "a-saver" || outcomes[1].Plugin != "b-saver" {
		t.Errorf("expected name order, got %s, %s", outcomes[0].Plugin, outcomes[1].Plugin)
	}
	if outcomes[0].Response.Success {
		t.Error("expected a-saver to report failure")
	}
	if outcomes[1].Err != nil || !outcomes[1].Response.Success {
		t.Errorf("expected b-saver to succeed, got %+v", outcomes[1])
	}
}

func TestNewExecutor(t *testing.T) {
	if got := NewExecutor(3 * time.Second).Timeout(); got != 3*time.Second {
		t.Errorf("expected 3s, got %s", got)
	}
	if got := NewExecutor(0).Timeout(); got != DefaultTimeout {
		t.Errorf("expected default timeout, got %s", got)
	}
}
