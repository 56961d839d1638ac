package server

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/celerix-dev/phonebook/internal/config"
)

func TestServer_RunAndShutdown(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "PONG")
	})
	srv := New(mux, "127.0.0.1:0", config.HTTPConfig{ShutdownTimeout: time.Second}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	var addr string
	for i := 0; i < 20; i++ {
		time.Sleep(25 * time.Millisecond)
		if a := srv.Addr(); a != nil {
			addr = a.String()
			break
		}
	}
	if addr == "" {
		t.Fatalf("Server did not start in time")
	}

	resp, err := http.Get("http://" + addr + "/ping")
	if err != nil {
		t.Fatalf("Failed to reach server: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "PONG" {
		t.Errorf("Expected PONG, got %q", body)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected clean shutdown, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Server did not shut down")
	}

	if _, err := http.Get("http://" + addr + "/ping"); err == nil {
		t.Error("Expected connection failure after shutdown")
	}
}

func TestServer_ListenError(t *testing.T) {
	srv := New(http.NotFoundHandler(), "256.0.0.1:bad", config.HTTPConfig{}, nil)
	if err := srv.Run(context.Background()); err == nil {
		t.Error("Expected error for invalid address")
	}
}
