package testutils

import (
	"log"
	"os"

	"github.com/itbasis/go-clock"
)

// TestController bundles everything a controller needs in tests: one fake
// server per upstream platform, a mock clock, and a scratch directory for
// the odds file tier. It deliberately does not construct the controller
// itself so tests can swap in whatever clients they need.
type TestController struct {
	Clock       *clock.Mock
	OddsDataDir string
	fakeSleeper *FakeSleeperServer
	fakeESPN    *FakeESPNServer
	fakeOdds    *FakeOddsServer
}

func NewTestController() *TestController {
	dir, err := os.MkdirTemp("", "oddscache")
	if err != nil {
		log.Fatalf("error creating odds data dir: %v", err)
	}

	return &TestController{
		Clock:       clock.NewMock(),
		OddsDataDir: dir,
		fakeSleeper: NewFakeSleeperServer(),
		fakeESPN:    NewFakeESPNServer(),
		fakeOdds:    NewFakeOddsServer(),
	}
}

func (c *TestController) Close() {
	c.fakeSleeper.Close()
	c.fakeESPN.Close()
	c.fakeOdds.Close()
	os.RemoveAll(c.OddsDataDir)
}

func (c *TestController) SleeperURL() string {
	return c.fakeSleeper.URL()
}

func (c *TestController) ESPNURL() string {
	return c.fakeESPN.URL()
}

func (c *TestController) OddsURL() string {
	return c.fakeOdds.URL()
}

func (c *TestController) OddsRequests() int {
	return c.fakeOdds.Requests()
}
