package health

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakePinger struct{ err error }

func (f fakePinger) Exists(ctx context.Context, id string) (bool, error) {
	return true, f.err
}

func TestHandlerServesHealthJSON(t *testing.T) {
	checker := New(fakePinger{})
	time.Sleep(10 * time.Millisecond) // let the initial check run

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/healthz", nil)
	Handler(checker).ServeHTTP(rec, req)

	require.NotEqual(t, 0, rec.Code)
}
