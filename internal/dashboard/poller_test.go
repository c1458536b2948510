package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ohana-pos/pos/internal/posapi"
)

func statsServer(t *testing.T, requests *atomic.Int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests != nil {
			requests.Add(1)
		}
		switch r.URL.Path {
		case "/api/sales/total":
			json.NewEncoder(w).Encode(map[string]float64{"total": 350})
		case "/api/products/count":
			json.NewEncoder(w).Encode(map[string]int{"count": 12})
		case "/api/clients/count":
			json.NewEncoder(w).Encode(map[string]int{"count": 4})
		case "/api/sales/pending":
			json.NewEncoder(w).Encode(map[string]int{"count": 2})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestRefresh_PopulatesSnapshot(t *testing.T) {
	ts := statsServer(t, nil)
	defer ts.Close()

	p := NewPoller(posapi.NewClient(ts.URL, posapi.StaticToken("t")), time.Minute)
	assert.NoError(t, p.refresh(context.Background()))

	stats := p.Stats()
	assert.Equal(t, 350.0, stats.SalesTotal)
	assert.Equal(t, 12, stats.Products)
	assert.Equal(t, 4, stats.Clients)
	assert.Equal(t, 2, stats.Pending)
}

func TestRefresh_FailureKeepsPreviousSnapshot(t *testing.T) {
	ts := statsServer(t, nil)

	p := NewPoller(posapi.NewClient(ts.URL, posapi.StaticToken("t")), time.Minute)
	assert.NoError(t, p.refresh(context.Background()))
	before := p.Stats()

	ts.Close()

	assert.Error(t, p.refresh(context.Background()))
	assert.Equal(t, before, p.Stats(), "failed round must not clobber the snapshot")
}

func TestRun_CancellationStopsPolling(t *testing.T) {
	var requests atomic.Int64
	ts := statsServer(t, &requests)
	defer ts.Close()

	p := NewPoller(posapi.NewClient(ts.URL, posapi.StaticToken("t")), 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	// Let the initial refresh and at least one tick happen
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancellation")
	}

	after := requests.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, requests.Load(), "no requests may be issued after teardown")

	stats := p.Stats()
	assert.Equal(t, 12, stats.Products)
}

func TestNewPoller_DefaultInterval(t *testing.T) {
	p := NewPoller(nil, 0)
	assert.Equal(t, DefaultInterval, p.interval)
}
