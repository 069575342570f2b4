package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/semaphore"

	"azurea_hotel/internal/adapters/observability"
	"azurea_hotel/internal/domain"
	"azurea_hotel/internal/shared"
	mysqlrepo "azurea_hotel/internal/storage/mysql"
)

// seedFile is the fixture format: amenities first, then properties that may
// reference them by list index.
type seedFile struct {
	Amenities  []string       `json:"amenities"`
	Properties []seedProperty `json:"properties"`
}

type seedProperty struct {
	Kind        string  `json:"kind"` // "room" | "area"
	Name        string  `json:"name"`
	RoomType    *string `json:"room_type"`
	Capacity    int     `json:"capacity"`
	Price       string  `json:"price"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
	Amenities   []int   `json:"amenities"` // indexes into the amenities list
}

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("file", cfg.SeedFile).
		Int("workers", cfg.SeedWorkers).
		Msg("seeder starting")

	raw, err := os.ReadFile(cfg.SeedFile)
	if err != nil {
		log.Fatal().Err(err).Msg("read seed file failed")
	}
	var fixture seedFile
	if err := json.Unmarshal(raw, &fixture); err != nil {
		log.Fatal().Err(err).Msg("parse seed file failed")
	}

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)

	// Amenities go in serially so the id mapping is stable before the
	// property workers need it.
	amenityIDs := make([]int64, len(fixture.Amenities))
	for i, desc := range fixture.Amenities {
		id, err := repo.CreateAmenity(ctx, desc)
		if err != nil {
			log.Fatal().Err(err).Str("amenity", desc).Msg("seed amenity failed")
		}
		amenityIDs[i] = id
	}
	log.Info().Int("count", len(amenityIDs)).Msg("amenities seeded")

	sem := semaphore.NewWeighted(int64(cfg.SeedWorkers))
	var wg sync.WaitGroup

	for _, p := range fixture.Properties {
		p := p

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, int64(1)); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(sp seedProperty) {
			defer wg.Done()
			defer sem.Release(int64(1))

			res, err := toResource(sp, amenityIDs)
			if err != nil {
				log.Warn().Str("name", sp.Name).Err(err).Msg("seed skipped")
				return
			}
			id, err := repo.CreateResource(ctx, res)
			if err != nil {
				log.Warn().Str("name", sp.Name).Err(err).Msg("seed failed")
				return
			}
			log.Info().Int64("id", id).Str("kind", string(res.Kind)).Str("name", res.Name).Msg("seed ok")
		}(p)
	}

	wg.Wait()
	log.Info().Msg("seeding completed")
}

func toResource(sp seedProperty, amenityIDs []int64) (domain.Resource, error) {
	price, err := decimal.NewFromString(sp.Price)
	if err != nil {
		return domain.Resource{}, err
	}
	kind := domain.KindRoom
	if sp.Kind == string(domain.KindArea) {
		kind = domain.KindArea
	}
	res := domain.Resource{
		Kind:        kind,
		Name:        sp.Name,
		RoomType:    sp.RoomType,
		Capacity:    sp.Capacity,
		Price:       price,
		Status:      domain.ResourceAvailable,
		Description: sp.Description,
		ImageURL:    sp.ImageURL,
	}
	if kind == domain.KindRoom {
		for _, idx := range sp.Amenities {
			if idx >= 0 && idx < len(amenityIDs) {
				res.AmenityIDs = append(res.AmenityIDs, amenityIDs[idx])
			}
		}
	}
	return res, nil
}
