package adapthttp

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLoggingMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		handler    http.HandlerFunc
		wantStatus int
	}{
		{
			name:   "explicit status",
			method: http.MethodPost,
			path:   "/api/meals",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusTeapot)
			},
			wantStatus: http.StatusTeapot,
		},
		{
			name:   "implicit ok",
			method: http.MethodGet,
			path:   "/api/tracker",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("{}"))
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			s := &Server{logger: slog.New(slog.NewJSONHandler(&buf, nil))}

			w := httptest.NewRecorder()
			s.loggingMiddleware(tt.handler).ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}

			var entry map[string]any
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("log line is not json: %v (%q)", err, buf.String())
			}
			if entry["method"] != tt.method || entry["path"] != tt.path {
				t.Errorf("logged method/path = %v %v, want %s %s", entry["method"], entry["path"], tt.method, tt.path)
			}
			if got, _ := entry["status"].(float64); int(got) != tt.wantStatus {
				t.Errorf("logged status = %v, want %d", entry["status"], tt.wantStatus)
			}
			if _, ok := entry["duration"]; !ok {
				t.Errorf("duration missing from log entry: %v", entry)
			}
		})
	}
}

func TestNoCacheHeader(t *testing.T) {
	h := withNoCache(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if got := w.Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("Cache-Control = %q, want no-store", got)
	}
}
