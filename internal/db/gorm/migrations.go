package gorm

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// runMigrations runs all database migrations using gormigrate.
func runMigrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		// Migration 001: Core tables (Survey, Response)
		{
			ID: "001_core_tables",
			Migrate: func(tx *gorm.DB) error {
				if err := tx.AutoMigrate(&Survey{}); err != nil {
					return err
				}
				return tx.AutoMigrate(&Response{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("surveys", "responses")
			},
		},

		// Migration 002: Groupings table (one result document per survey)
		{
			ID: "002_groupings",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&Grouping{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("groupings")
			},
		},

		// Migration 003: Processing jobs table
		{
			ID: "003_jobs",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&Job{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("jobs")
			},
		},
	})

	return m.Migrate()
}
