// Package health wires go-sundheit the way cmd/dex/serve.go does: a
// checker with one registered check and an HTTP handler serving its JSON
// result, generalized from dex's storage-ping check to a ping against this
// core's session store (the one stateful dependency the process owns at
// runtime).
package health

import (
	"context"
	"net/http"
	"time"

	gosundheit "github.com/AppsFlyer/go-sundheit"
	"github.com/AppsFlyer/go-sundheit/checks"
	gosundheithttp "github.com/AppsFlyer/go-sundheit/http"
)

// Pinger is satisfied by a sessionstore.Store[T]'s Exists method against a
// sentinel key, used here only to prove connectivity.
type Pinger interface {
	Exists(ctx context.Context, id string) (bool, error)
}

const pingKey = "__health__"

// New builds a go-sundheit checker with a "session_store" check registered
// against pinger, mirroring serve.go's
// healthChecker.RegisterCheck(&gosundheit.Config{Check: ..., ExecutionPeriod: 15s}).
func New(pinger Pinger) gosundheit.Health {
	checker := gosundheit.New()
	checker.RegisterCheck(&gosundheit.Config{
		Check: &checks.CustomCheck{
			CheckName: "session_store",
			CheckFunc: func(ctx context.Context) (interface{}, error) {
				_, err := pinger.Exists(ctx, pingKey)
				return nil, err
			},
		},
		ExecutionPeriod:  15 * time.Second,
		InitiallyPassing: true,
	})
	return checker
}

// Handler returns the /healthz JSON handler (spec.md's enclosing process
// is expected to mount this; the core itself never imports net/http for
// anything other than this status surface).
func Handler(checker gosundheit.Health) http.Handler {
	return gosundheithttp.HandleHealthJSON(checker)
}
