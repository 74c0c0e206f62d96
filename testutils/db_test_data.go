package testutils

import (
	"context"
	"log"
	"time"

	"github.com/itbasis/go-clock"
	"github.com/mww/survivor_manager/containers"
	"github.com/mww/survivor_manager/db"
	"github.com/mww/survivor_manager/model"
)

var (
	TylerLockett = &model.CanonicalPlayer{
		ID:        "2374",
		SleeperID: "2374",
		ESPNID:    "2577327",
		FirstName: "Tyler",
		LastName:  "Lockett",
		Position:  model.POS_WR,
		Team:      model.TEAM_SEA,
		Jersey:    16,
	}
	JalenHurts = &model.CanonicalPlayer{
		ID:        "6904",
		SleeperID: "6904",
		ESPNID:    "4040715",
		FirstName: "Jalen",
		LastName:  "Hurts",
		Position:  model.POS_QB,
		Team:      model.TEAM_PHI,
		Jersey:    1,
	}
	CeeDeeLamb = &model.CanonicalPlayer{
		ID:        "6786",
		SleeperID: "6786",
		ESPNID:    "4241389",
		FirstName: "CeeDee",
		LastName:  "Lamb",
		Position:  model.POS_WR,
		Team:      model.TEAM_DAL,
		Jersey:    88,
	}
	TJHockenson = &model.CanonicalPlayer{
		ID:        "5844",
		SleeperID: "5844",
		ESPNID:    "4036133",
		FirstName: "T.J.",
		LastName:  "Hockenson",
		Position:  model.POS_TE,
		Team:      model.TEAM_MIN,
		Jersey:    87,
	}
	BreeceHall = &model.CanonicalPlayer{
		ID:        "8155",
		SleeperID: "8155",
		ESPNID:    "4427366",
		FirstName: "Breece",
		LastName:  "Hall",
		Position:  model.POS_RB,
		Team:      model.TEAM_NYJ,
		Jersey:    20,
	}
)

type TestDB struct {
	container *containers.DBContainer
	DB        db.DB
	Clock     clock.Clock
}

func NewTestDB() *TestDB {
	container := containers.NewDBContainer()
	clock := clock.New()

	db, err := db.New(context.Background(), container.ConnectionString(), clock)
	if err != nil {
		log.Fatalf("error connecting to db in test container: %v", err)
	}

	if err := InsertTestPlayers(db); err != nil {
		log.Fatalf("error populating db in test container: %v", err)
	}

	return &TestDB{
		container: container,
		DB:        db,
		Clock:     clock,
	}
}

func (db *TestDB) Shutdown() {
	db.container.Shutdown()
}

func InsertTestPlayers(db db.DB) error {
	players := []*model.CanonicalPlayer{
		TylerLockett,
		JalenHurts,
		CeeDeeLamb,
		TJHockenson,
		BreeceHall,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, p := range players {
		err := db.SavePlayerMapping(ctx, p)
		if err != nil {
			return err
		}
	}

	return nil
}
