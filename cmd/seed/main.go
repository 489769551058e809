// Command seed loads a JSON catalog file and upserts it into the
// database. It is the only writer of catalog data; the API itself never
// mutates movies, platforms, regions or availability. Seeding is
// idempotent: rows are keyed by their ids and re-running the same file
// converges to the same state.
//
// Usage: seed -file catalog.json
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/kazetani/ghibli-watch-api/internal/config"
	"github.com/kazetani/ghibli-watch-api/internal/database"
	"github.com/kazetani/ghibli-watch-api/internal/repository"
)

// catalogFile mirrors the JSON layout of the seed file. Every section is
// optional; absent sections are skipped.
type catalogFile struct {
	Movies []struct {
		ID          string   `json:"id"`
		TitleEn     string   `json:"titleEn"`
		TitleJa     string   `json:"titleJa"`
		TitleZh     *string  `json:"titleZh"`
		Year        int      `json:"year"`
		Director    string   `json:"director"`
		Duration    int      `json:"duration"`
		Synopsis    string   `json:"synopsis"`
		PosterURL   string   `json:"posterUrl"`
		BackdropURL *string  `json:"backdropUrl"`
		Rating      *float64 `json:"rating"`
	} `json:"movies"`
	Characters []struct {
		ID       string  `json:"id"`
		Name     string  `json:"name"`
		NameJa   *string `json:"nameJa"`
		Desc     *string `json:"description"`
		ImageURL *string `json:"imageUrl"`
		IsMain   bool    `json:"isMainCharacter"`
		Roles    []struct {
			MovieID      string  `json:"movieId"`
			VoiceActor   *string `json:"voiceActor"`
			VoiceActorJa *string `json:"voiceActorJa"`
			Importance   *int    `json:"importance"`
		} `json:"roles"`
	} `json:"characters"`
	Platforms []struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		LogoURL  string `json:"logoUrl"`
		Category string `json:"category"`
	} `json:"platforms"`
	Regions []struct {
		ID   string `json:"id"`
		Code string `json:"code"`
		Name string `json:"name"`
	} `json:"regions"`
	Availability []struct {
		ID          string          `json:"id"`
		MovieID     string          `json:"movieId"`
		PlatformID  string          `json:"platformId"`
		RegionID    string          `json:"regionId"`
		Type        string          `json:"type"`
		URL         *string         `json:"url"`
		PriceInfo   json.RawMessage `json:"priceInfo"`
		Notes       *string         `json:"notes"`
		LastChecked *time.Time      `json:"lastChecked"`
	} `json:"availability"`
	Guides []struct {
		ID          string `json:"id"`
		Title       string `json:"title"`
		Description string `json:"description"`
		GuideType   string `json:"guideType"`
		IsPublished bool   `json:"isPublished"`
		SortOrder   int    `json:"order"`
		Movies      []struct {
			MovieID   string  `json:"movieId"`
			SortOrder int     `json:"order"`
			Notes     *string `json:"notes"`
		} `json:"movies"`
	} `json:"guides"`
}

func main() {
	_ = godotenv.Load()
	file := flag.String("file", "catalog.json", "path to the JSON catalog file")
	flag.Parse()

	cfg := config.Load()
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connect: %v", err)
	}
	defer db.Close()

	raw, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("read %s: %v", *file, err)
	}
	var cat catalogFile
	if err := json.Unmarshal(raw, &cat); err != nil {
		log.Fatalf("parse %s: %v", *file, err)
	}

	ctx := context.Background()
	if err := seed(ctx, db, cat); err != nil {
		log.Fatalf("seed: %v", err)
	}
	log.Printf("seeded %d movies, %d characters, %d platforms, %d regions, %d availability rows, %d guides",
		len(cat.Movies), len(cat.Characters), len(cat.Platforms), len(cat.Regions), len(cat.Availability), len(cat.Guides))
}

func seed(ctx context.Context, db *sql.DB, cat catalogFile) error {
	for _, m := range cat.Movies {
		const q = `INSERT INTO movies (id, title_en, title_ja, title_zh, year, director, duration_min,
		                               synopsis, poster_url, backdrop_url, rating)
		           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		           ON DUPLICATE KEY UPDATE
		               title_en = VALUES(title_en), title_ja = VALUES(title_ja), title_zh = VALUES(title_zh),
		               year = VALUES(year), director = VALUES(director), duration_min = VALUES(duration_min),
		               synopsis = VALUES(synopsis), poster_url = VALUES(poster_url),
		               backdrop_url = VALUES(backdrop_url), rating = VALUES(rating)`
		if _, err := db.ExecContext(ctx, q, m.ID, m.TitleEn, m.TitleJa, m.TitleZh, m.Year, m.Director,
			m.Duration, m.Synopsis, m.PosterURL, m.BackdropURL, m.Rating); err != nil {
			return err
		}
	}

	for _, c := range cat.Characters {
		const q = `INSERT INTO characters (id, name, name_ja, description, image_url, is_main_character)
		           VALUES (?, ?, ?, ?, ?, ?)
		           ON DUPLICATE KEY UPDATE
		               name = VALUES(name), name_ja = VALUES(name_ja), description = VALUES(description),
		               image_url = VALUES(image_url), is_main_character = VALUES(is_main_character)`
		if _, err := db.ExecContext(ctx, q, c.ID, c.Name, c.NameJa, c.Desc, c.ImageURL, c.IsMain); err != nil {
			return err
		}
		for _, role := range c.Roles {
			const qr = `INSERT INTO movie_characters (movie_id, character_id, voice_actor, voice_actor_ja, importance)
			            VALUES (?, ?, ?, ?, ?)
			            ON DUPLICATE KEY UPDATE
			                voice_actor = VALUES(voice_actor), voice_actor_ja = VALUES(voice_actor_ja),
			                importance = VALUES(importance)`
			if _, err := db.ExecContext(ctx, qr, role.MovieID, c.ID, role.VoiceActor, role.VoiceActorJa, role.Importance); err != nil {
				return err
			}
		}
	}

	// Availability reference data may not be migrated yet; skip those
	// sections rather than failing the whole run.
	gate := repository.NewSchemaGate(db)
	ready, err := gate.Ready(ctx, "availability", "platforms", "regions")
	if err != nil {
		return err
	}
	if !ready {
		log.Printf("availability tables not migrated yet; skipping platforms/regions/availability sections")
	} else {
		for _, p := range cat.Platforms {
			const q = `INSERT INTO platforms (id, name, logo_url, category) VALUES (?, ?, ?, ?)
			           ON DUPLICATE KEY UPDATE name = VALUES(name), logo_url = VALUES(logo_url), category = VALUES(category)`
			if _, err := db.ExecContext(ctx, q, p.ID, p.Name, p.LogoURL, p.Category); err != nil {
				return err
			}
		}
		for _, r := range cat.Regions {
			const q = `INSERT INTO regions (id, code, name) VALUES (?, ?, ?)
			           ON DUPLICATE KEY UPDATE code = VALUES(code), name = VALUES(name)`
			if _, err := db.ExecContext(ctx, q, r.ID, r.Code, r.Name); err != nil {
				return err
			}
		}
		for _, a := range cat.Availability {
			lastChecked := time.Now().UTC()
			if a.LastChecked != nil {
				lastChecked = *a.LastChecked
			}
			var priceInfo *string
			if len(a.PriceInfo) > 0 {
				s := string(a.PriceInfo)
				priceInfo = &s
			}
			const q = `INSERT INTO availability (id, movie_id, platform_id, region_id, type, url, price_info, notes, last_checked)
			           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			           ON DUPLICATE KEY UPDATE
			               movie_id = VALUES(movie_id), platform_id = VALUES(platform_id), region_id = VALUES(region_id),
			               type = VALUES(type), url = VALUES(url), price_info = VALUES(price_info),
			               notes = VALUES(notes), last_checked = VALUES(last_checked)`
			if _, err := db.ExecContext(ctx, q, a.ID, a.MovieID, a.PlatformID, a.RegionID, a.Type,
				a.URL, priceInfo, a.Notes, lastChecked); err != nil {
				return err
			}
		}
	}

	for _, g := range cat.Guides {
		const q = `INSERT INTO watch_guides (id, title, description, guide_type, is_published, sort_order)
		           VALUES (?, ?, ?, ?, ?, ?)
		           ON DUPLICATE KEY UPDATE
		               title = VALUES(title), description = VALUES(description), guide_type = VALUES(guide_type),
		               is_published = VALUES(is_published), sort_order = VALUES(sort_order)`
		if _, err := db.ExecContext(ctx, q, g.ID, g.Title, g.Description, g.GuideType, g.IsPublished, g.SortOrder); err != nil {
			return err
		}
		for _, gm := range g.Movies {
			const qm = `INSERT INTO watch_guide_movies (guide_id, movie_id, sort_order, notes)
			            VALUES (?, ?, ?, ?)
			            ON DUPLICATE KEY UPDATE sort_order = VALUES(sort_order), notes = VALUES(notes)`
			if _, err := db.ExecContext(ctx, qm, g.ID, gm.MovieID, gm.SortOrder, gm.Notes); err != nil {
				return err
			}
		}
	}
	return nil
}
