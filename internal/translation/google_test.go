package translation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newGoogleTestServer(t *testing.T, handler http.HandlerFunc) *GoogleTranslator {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := DefaultConfig()
	cfg.GoogleBaseURL = srv.URL
	g := NewGoogleTranslator(cfg)
	g.SetHTTPClient(srv.Client())
	return g
}

func TestGoogleTranslator_Translate(t *testing.T) {
	g := newGoogleTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("client") != "gtx" || q.Get("sl") != "en" || q.Get("tl") != "vi" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		if q.Get("q") != "A small animal. It purrs." {
			t.Errorf("unexpected text: %s", q.Get("q"))
		}
		w.Write([]byte(`[[["Một con vật nhỏ. ","A small animal. ",null,null,10],["Nó kêu rừ rừ.","It purrs.",null,null,10]],null,"en"]`))
	})

	got, err := g.Translate(context.Background(), "A small animal. It purrs.")
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if want := "Một con vật nhỏ. Nó kêu rừ rừ."; got != want {
		t.Errorf("Translate() = %q, want %q", got, want)
	}
}

func TestGoogleTranslator_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusTooManyRequests, "slow down"},
		{"malformed json", http.StatusOK, "<html>"},
		{"empty array", http.StatusOK, "[]"},
		{"no segments", http.StatusOK, `[null,null,"en"]`},
		{"empty segments", http.StatusOK, `[[],null,"en"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGoogleTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			if _, err := g.Translate(context.Background(), "cat"); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestGoogleTranslator_ThroughService(t *testing.T) {
	g := newGoogleTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	})

	res := NewService(g).Translate(context.Background(), "dog")
	if !res.Fallback() || res.Text != "dog" {
		t.Errorf("Expected fallback to 'dog', got %+v", res)
	}
}
