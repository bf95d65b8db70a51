package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SeedReferenceData fills the lookup tables the importer validates against.
func SeedReferenceData(db *pgxpool.Pool) {
	ctx := context.Background()
	log.Println("seeding reference data...")

	if err := seedNamed(ctx, db, "user_types", userTypesData); err != nil {
		log.Fatalf("user types: %v", err)
	}
	if err := seedNamed(ctx, db, "termination_reasons", terminationReasonsData); err != nil {
		log.Fatalf("termination reasons: %v", err)
	}
	if err := seedNamed(ctx, db, "job_titles", jobTitlesData); err != nil {
		log.Fatalf("job titles: %v", err)
	}
	log.Println("reference data done")
}

// SeedSampleHierarchy creates a small market/region/district tree.
func SeedSampleHierarchy(db *pgxpool.Pool) {
	log.Println("seeding sample hierarchy...")
	if err := seedSampleHierarchy(context.Background(), db); err != nil {
		log.Fatalf("sample hierarchy: %v", err)
	}
	log.Println("sample hierarchy done")
}
