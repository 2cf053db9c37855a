package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/chi157/Exchange-Platform-sub000/internal/config"
	"github.com/chi157/Exchange-Platform-sub000/internal/db"
	"github.com/chi157/Exchange-Platform-sub000/internal/model"
)

type seedListing struct {
	OwnerUID    string
	Title       string
	Description string
	Slug        string
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	gdb, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	if err := gdb.AutoMigrate(&model.Listing{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	canSeed, err := shouldSeed(gdb)
	if err != nil {
		return err
	}
	if !canSeed {
		log.Printf("listings already exist; skipping seed (set FORCE_SEED=true to override)")
		return nil
	}

	seeds := buildSeedListings()
	err = gdb.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM listings`).Error; err != nil {
			return fmt.Errorf("clear listings: %w", err)
		}
		for idx, s := range seeds {
			imageURL := picsumURL(s.Slug, idx+1)
			l := model.Listing{
				OwnerUID:    s.OwnerUID,
				Title:       strings.TrimSpace(s.Title),
				Description: strings.TrimSpace(s.Description),
				ImageURL:    &imageURL,
				Status:      model.ListingStatusAvailable,
			}
			if err := tx.Create(&l).Error; err != nil {
				return fmt.Errorf("insert listing %q: %w", s.Title, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("seeded %d listings", len(seeds))
	return nil
}

func buildSeedListings() []seedListing {
	type group struct {
		Slug   string
		Owner  string
		Titles []string
	}
	groups := []group{
		{Slug: "books", Owner: "seed-user-a", Titles: []string{"SF anthology paperback set", "Travel magazine back numbers", "Intro statistics textbook"}},
		{Slug: "gaming", Owner: "seed-user-a", Titles: []string{"Wireless gamepad", "RGB mechanical keyboard", "Oversized mouse pad"}},
		{Slug: "kitchen", Owner: "seed-user-b", Titles: []string{"Ceramic frying pan", "Double-wall glass mugs", "Wooden cutting board"}},
		{Slug: "outdoor", Owner: "seed-user-b", Titles: []string{"Compact camp chair", "Titanium mug set", "28L backpack"}},
		{Slug: "music", Owner: "seed-user-c", Titles: []string{"Wireless earbuds", "Entry audio interface", "Studio monitor headphones"}},
		{Slug: "crafts", Owner: "seed-user-c", Titles: []string{"Acrylic paint set", "Calligraphy pen set", "Watercolor sketchbook"}},
	}

	var seeds []seedListing
	for _, g := range groups {
		for _, t := range g.Titles {
			seeds = append(seeds, seedListing{
				OwnerUID:    g.Owner,
				Title:       t,
				Description: fmt.Sprintf("%s in good condition, kept at home. Open to most trade offers.", t),
				Slug:        g.Slug,
			})
		}
	}
	return seeds
}

func shouldSeed(gdb *gorm.DB) (bool, error) {
	var cnt int64
	if err := gdb.Model(&model.Listing{}).Count(&cnt).Error; err != nil {
		return false, fmt.Errorf("count listings: %w", err)
	}
	if cnt == 0 {
		return true, nil
	}
	return strings.EqualFold(os.Getenv("FORCE_SEED"), "true"), nil
}

func picsumURL(slug string, idx int) string {
	return fmt.Sprintf("https://picsum.photos/seed/%s-%d/600/600", slug, idx)
}
