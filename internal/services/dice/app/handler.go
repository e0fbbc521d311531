package app

import (
	"log"
	"net/http"

	"github.com/louisbranch/diceroll/internal/platform/httpx"
	"github.com/louisbranch/diceroll/internal/services/dice/die"
	"github.com/louisbranch/diceroll/internal/services/dice/routepath"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/louisbranch/diceroll/internal/services/dice/app"

// NewHandler creates the dice routes. A nil roll uses die.Roll.
func NewHandler(roll die.Roller) http.Handler {
	return newHandler(roll, nil)
}

func newHandler(roll die.Roller, tp trace.TracerProvider) http.Handler {
	if roll == nil {
		roll = die.Roll
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+routepath.Root+"{$}", handleRoot)
	mux.HandleFunc("GET "+routepath.DiceRoll, rollHandler(roll))
	mux.HandleFunc("GET "+routepath.Up, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	return httpx.Chain(mux,
		httpx.RequestID(),
		httpx.LogRequests(),
		httpx.Trace(tp, tracerName),
		httpx.RecoverPanic(),
	)
}

// handleRoot sends clients to the roll endpoint.
func handleRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, routepath.DiceRoll, http.StatusTemporaryRedirect)
}

func rollHandler(roll die.Roller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		face := roll()
		if !die.Valid(face) {
			log.Printf("dice: roller produced invalid face %d", face)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		trace.SpanFromContext(r.Context()).SetAttributes(attribute.Int("dice.face", face))
		if err := httpx.WriteJSON(w, http.StatusOK, face); err != nil {
			log.Printf("dice: write roll response: %v", err)
		}
	}
}
