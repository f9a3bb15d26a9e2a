package devproxy

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// slowAgency answers every request only after release is closed.
type slowAgency struct {
	onRequestStart chan bool
	release        chan struct{}
	served         atomic.Int32
}

func (a *slowAgency) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.onRequestStart <- true
	<-a.release
	a.served.Add(1)
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`[]`))
}

func TestGracefulShutdown(t *testing.T) {
	agency := &slowAgency{onRequestStart: make(chan bool, 2), release: make(chan struct{})}
	upstream := httptest.NewServer(agency)
	defer upstream.Close()

	proxy := newProxy(t, upstream.URL, 0)
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	proxyURL := "http://" + listener.Addr().String()

	serveErr := make(chan error, 1)
	go func() { serveErr <- proxy.Serve(listener) }()

	t.Run("active requests complete", func(t *testing.T) {
		var wg sync.WaitGroup
		codes := make([]int, 2)
		for i := range 2 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				resp, err := http.Get(proxyURL + "/api/cats/")
				if err != nil {
					return
				}
				codes[i] = resp.StatusCode
				resp.Body.Close()
			}()
		}
		<-agency.onRequestStart
		<-agency.onRequestStart

		shutdownDone := make(chan error, 1)
		go func() { shutdownDone <- proxy.Shutdown(context.Background()) }()
		time.Sleep(50 * time.Millisecond)
		close(agency.release)

		require.NoError(t, <-shutdownDone)
		wg.Wait()
		assert.Equal(t, int32(2), agency.served.Load())
		assert.Equal(t, []int{http.StatusOK, http.StatusOK}, codes)
		assert.NoError(t, <-serveErr)
	})

	t.Run("new requests are rejected", func(t *testing.T) {
		_, err := http.Get(proxyURL + "/api/cats/")
		assert.Error(t, err)
	})
}
