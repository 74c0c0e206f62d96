package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"time"

	"github.com/itbasis/go-clock"
	"github.com/joho/godotenv"
	"github.com/mww/survivor_manager/controller"
	"github.com/mww/survivor_manager/db"
	"github.com/mww/survivor_manager/platforms/espn"
	"github.com/mww/survivor_manager/platforms/oddsapi"
	"github.com/mww/survivor_manager/platforms/sleeper"
	"github.com/mww/survivor_manager/web"
)

func main() {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		log.Fatalf("Error loading .env file: %v", err)
	}
	connString := os.Getenv("POSTGRES_CONN_STR")

	portNum := 3000 // 3000 is the default
	port := os.Getenv("PORT")
	if port != "" {
		portNum, err = strconv.Atoi(port)
		if err != nil {
			log.Fatalf("error parsing port number: %v", err)
		}
	}

	oddsDataDir := os.Getenv("ODDS_DATA_DIR")
	if oddsDataDir == "" {
		oddsDataDir = os.TempDir()
	}
	adminPass := os.Getenv("ADMIN_PASSWORD")
	if adminPass == "" {
		log.Fatalf("ADMIN_PASSWORD must be set")
	}

	clock := clock.New()
	db, err := db.New(context.Background(), connString, clock)
	if err != nil {
		log.Fatalf("cannot connect to DB: %v", err)
	}

	sleeperClient, err := sleeper.New()
	if err != nil {
		log.Fatalf("error creating sleeper client: %v", err)
	}

	// The cookies are only needed for private ESPN leagues.
	espnClient, err := espn.New(os.Getenv("ESPN_S2"), os.Getenv("ESPN_SWID"))
	if err != nil {
		log.Fatalf("error creating espn client: %v", err)
	}

	oddsClient, err := oddsapi.New(os.Getenv("ODDS_API_KEY"))
	if err != nil {
		log.Fatalf("error creating odds client: %v", err)
	}

	ctrl, err := controller.New(clock, db, sleeperClient, espnClient, oddsClient, oddsDataDir)
	if err != nil {
		log.Fatalf("error creating a new controller: %v", err)
	}

	server, err := web.NewServer(portNum, ctrl, adminPass)
	if err != nil {
		log.Fatalf("error creating new web server: %v", err)
	}

	shutdown := make(chan bool)
	wg := &sync.WaitGroup{}

	// Setup a handler to catch ctrl-c signals and properly shutdown everything.
	intChannel := make(chan os.Signal, 2)
	signal.Notify(intChannel, os.Interrupt)
	go func() {
		<-intChannel
		close(shutdown)

		if err := waitTimeout(wg, 10*time.Second); err != nil {
			log.Printf("timed out waiting for proper shutdown")
			os.Exit(255)
		}
	}()

	// Setup a job that updates the player identity table from sleeper every 24-hours
	wg.Add(1)
	go ctrl.RunPeriodicPlayerUpdates(24*time.Hour, shutdown, wg)

	// Keep the current week's odds warm in the background.
	wg.Add(1)
	go ctrl.RunPeriodicOddsUpdates(15*time.Minute, currentWeek(clock), shutdown, wg)

	// Start the web server
	wg.Add(1)
	go server.ListenAndServe(shutdown, wg)

	// Wait for everything to stop.
	wg.Wait()
	log.Printf("server shutdown")
}

// currentWeek estimates the NFL week from the calendar. Week 1 starts the
// Thursday after Labor Day; close enough for a background refresh cadence.
func currentWeek(c clock.Clock) func() int {
	return func() int {
		now := c.Now()
		seasonStart := time.Date(now.Year(), time.September, 4, 0, 0, 0, 0, time.UTC)
		if now.Before(seasonStart) {
			seasonStart = seasonStart.AddDate(-1, 0, 0)
		}
		week := int(now.Sub(seasonStart)/(7*24*time.Hour)) + 1
		if week > 18 {
			week = 18
		}
		return week
	}
}

func waitTimeout(wg *sync.WaitGroup, timeout time.Duration) error {
	c := make(chan any)
	go func() {
		defer close(c)
		wg.Wait()
	}()

	select {
	case <-c:
		return nil // completed normally
	case <-time.After(timeout):
		return errors.New("timed out waiting")
	}
}
