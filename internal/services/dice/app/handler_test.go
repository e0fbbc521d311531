package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/louisbranch/diceroll/internal/services/dice/client"
	"github.com/louisbranch/diceroll/internal/services/dice/die"
	"github.com/louisbranch/diceroll/internal/services/dice/routepath"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func fixedRoller(face int) die.Roller {
	return func() int { return face }
}

func TestHandlerRoutes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		method       string
		path         string
		wantCode     int
		wantLocation string
		wantBody     string
		wantAllow    string
	}{
		{
			name:         "root redirects to roll",
			method:       http.MethodGet,
			path:         "/",
			wantCode:     http.StatusTemporaryRedirect,
			wantLocation: routepath.DiceRoll,
		},
		{
			name:     "roll returns face",
			method:   http.MethodGet,
			path:     "/dice/roll",
			wantCode: http.StatusOK,
			wantBody: "4\n",
		},
		{
			name:     "roll accepts head",
			method:   http.MethodHead,
			path:     "/dice/roll",
			wantCode: http.StatusOK,
		},
		{
			name:     "liveness",
			method:   http.MethodGet,
			path:     "/up",
			wantCode: http.StatusOK,
			wantBody: "OK",
		},
		{
			name:     "unknown path",
			method:   http.MethodGet,
			path:     "/nonexistent",
			wantCode: http.StatusNotFound,
		},
		{
			name:     "unknown nested path",
			method:   http.MethodGet,
			path:     "/dice/roll/extra",
			wantCode: http.StatusNotFound,
		},
		{
			name:      "post to roll",
			method:    http.MethodPost,
			path:      "/dice/roll",
			wantCode:  http.StatusMethodNotAllowed,
			wantAllow: http.MethodGet,
		},
		{
			name:      "delete root",
			method:    http.MethodDelete,
			path:      "/",
			wantCode:  http.StatusMethodNotAllowed,
			wantAllow: http.MethodGet,
		},
	}

	h := NewHandler(fixedRoller(4))
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(tc.method, tc.path, nil))

			if rr.Code != tc.wantCode {
				t.Fatalf("status = %d, want %d", rr.Code, tc.wantCode)
			}
			if tc.wantLocation != "" {
				if got := rr.Header().Get("Location"); got != tc.wantLocation {
					t.Fatalf("Location = %q, want %q", got, tc.wantLocation)
				}
			}
			if tc.wantBody != "" {
				if got := rr.Body.String(); got != tc.wantBody {
					t.Fatalf("body = %q, want %q", got, tc.wantBody)
				}
			}
			if tc.wantAllow != "" {
				if got := rr.Header().Get("Allow"); !strings.Contains(got, tc.wantAllow) {
					t.Fatalf("Allow = %q, want it to contain %q", got, tc.wantAllow)
				}
			}
		})
	}
}

func TestRollRespondsWithJSONFace(t *testing.T) {
	t.Parallel()

	h := NewHandler(nil)
	for i := 0; i < 100; i++ {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, routepath.DiceRoll, nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
		}
		if got := rr.Header().Get("Content-Type"); got != "application/json" {
			t.Fatalf("Content-Type = %q, want application/json", got)
		}
		face, err := strconv.Atoi(strings.TrimSpace(rr.Body.String()))
		if err != nil {
			t.Fatalf("parse body %q: %v", rr.Body.String(), err)
		}
		if !die.Valid(face) {
			t.Fatalf("face = %d, want value in [1, 6]", face)
		}
		if rr.Header().Get("X-Request-ID") == "" {
			t.Fatal("expected X-Request-ID response header")
		}
	}
}

func TestRollDrawsOncePerRequest(t *testing.T) {
	t.Parallel()

	calls := 0
	h := NewHandler(func() int {
		calls++
		return 2
	})
	for i := 0; i < 3; i++ {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, routepath.DiceRoll, nil))
	}
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, routepath.Root, nil))
	if calls != 3 {
		t.Fatalf("roller calls = %d, want 3", calls)
	}
}

func TestRollRejectsInvalidFace(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	NewHandler(fixedRoller(7)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, routepath.DiceRoll, nil))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusInternalServerError)
	}
}

func TestRollRecoversFromPanickingRoller(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	NewHandler(func() int { panic("entropy exhausted") }).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, routepath.DiceRoll, nil))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusInternalServerError)
	}
}

func TestRollRecordsFaceOnSpan(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	h := newHandler(fixedRoller(6), tp)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, routepath.DiceRoll, nil))

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("ended spans = %d, want 1", len(spans))
	}
	var face attribute.Value
	for _, kv := range spans[0].Attributes() {
		if kv.Key == "dice.face" {
			face = kv.Value
		}
	}
	if face.AsInt64() != 6 {
		t.Fatalf("dice.face attribute = %v, want 6", face.Emit())
	}
}

// TestRollOverHTTP exercises the real server stack: 1000 sequential rolls stay
// in range and, with overwhelming probability, cover every face.
func TestRollOverHTTP(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(NewHandler(nil))
	defer srv.Close()

	c, err := client.New(srv.URL, srv.Client())
	if err != nil {
		t.Fatalf("client.New() error = %v", err)
	}
	seen := make(map[int]int, die.Faces)
	for i := 0; i < 1000; i++ {
		face, err := c.Roll(context.Background())
		if err != nil {
			t.Fatalf("roll %d: %v", i, err)
		}
		seen[face]++
	}
	if len(seen) != die.Faces {
		t.Fatalf("distinct faces = %d, want %d (counts %v)", len(seen), die.Faces, seen)
	}

	face, err := c.RollFromRoot(context.Background())
	if err != nil {
		t.Fatalf("RollFromRoot() error = %v", err)
	}
	if !die.Valid(face) {
		t.Fatalf("RollFromRoot() = %d, want value in [1, 6]", face)
	}
}
