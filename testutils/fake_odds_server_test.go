package testutils

import (
	"fmt"
	"net/http"
	"sync"
	"testing"
)

func TestFakeOddsServerCountsConcurrentRequests(t *testing.T) {
	f := NewFakeOddsServer()
	defer f.Close()

	// Handlers run on the server's goroutines; the count must hold up
	// under parallel lookups.
	const n = 8
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			resp, err := http.Get(fmt.Sprintf("%s/v4/sports/americanfootball_nfl/odds", f.URL()))
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			resp.Body.Close()
		}()
	}
	wg.Wait()

	if got := f.Requests(); got != n {
		t.Errorf("expected %d requests, got %d", n, got)
	}
}
