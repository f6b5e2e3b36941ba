package main

import (
	"fmt"
	"log"

	"dently/internal/catalog"
	"dently/internal/shared/config"
	"dently/internal/shared/database"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("Starting Dently database seeder...")

	cfg := config.Load()

	// Seeding does not need Redis; InitDB migrates the schema.
	cfg.Redis.Enabled = false

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("Seeding service catalog...")
	if err := seeder.SeedServices(); err != nil {
		log.Fatalf("Failed to seed services: %v", err)
	}

	fmt.Println("Seeding completed.")
}

// SeedServices upserts the clinic's bookable services. Prices and deposits
// are in halers.
func (s *Seeder) SeedServices() error {
	services := []catalog.Service{
		{
			Name:            "Dentální hygiena",
			Slug:            "dentalni-hygiena",
			Description:     "Kompletní dentální hygiena včetně odstranění zubního kamene a instruktáže.",
			Price:           190000,
			DepositAmount:   50000,
			DurationMinutes: 60,
			Active:          true,
		},
		{
			Name:            "Dentální hygiena pro děti",
			Slug:            "dentalni-hygiena-deti",
			Description:     "Šetrná dentální hygiena pro děti do 15 let.",
			Price:           120000,
			DepositAmount:   30000,
			DurationMinutes: 45,
			Active:          true,
		},
		{
			Name:            "Air Flow",
			Slug:            "air-flow",
			Description:     "Odstranění pigmentací metodou Air Flow.",
			Price:           90000,
			DepositAmount:   30000,
			DurationMinutes: 30,
			Active:          true,
		},
		{
			Name:            "Bělení zubů",
			Slug:            "beleni-zubu",
			Description:     "Ordinační bělení zubů včetně vstupní konzultace.",
			Price:           450000,
			DepositAmount:   100000,
			DurationMinutes: 90,
			Active:          true,
		},
		{
			Name:            "Recall - kontrolní hygiena",
			Slug:            "recall",
			Description:     "Pravidelná kontrolní dentální hygiena pro stávající klienty.",
			Price:           150000,
			DepositAmount:   50000,
			DurationMinutes: 45,
			Active:          true,
		},
	}

	gormDB := s.db.GetPostgreSQL()
	for i := range services {
		svc := &services[i]

		var existing catalog.Service
		err := gormDB.Where("slug = ?", svc.Slug).First(&existing).Error
		if err == nil {
			svc.ID = existing.ID
			if err := gormDB.Model(&existing).Updates(svc).Error; err != nil {
				return fmt.Errorf("failed to update service %s: %w", svc.Slug, err)
			}
			fmt.Printf("  updated %s\n", svc.Slug)
			continue
		}

		if err := gormDB.Create(svc).Error; err != nil {
			return fmt.Errorf("failed to create service %s: %w", svc.Slug, err)
		}
		fmt.Printf("  created %s\n", svc.Slug)
	}

	return nil
}
