package dbhelper

import (
	"fmt"
	"os"
	"time"

	"aistylist/models"
	"aistylist/services"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func dialector() gorm.Dialector {
	switch services.GetEnv("DB_DRIVER", "postgres") {
	case "sqlite":
		return sqlite.Open(services.GetEnv("SQLITE_PATH", "aistylist.db"))
	default:
		return postgres.Open(
			fmt.Sprintf(
				"postgres://%s:%s@%s:%s/%s",
				services.GetEnv("DB_USERNAME", ""),
				services.GetEnv("DB_PASSWORD", ""),
				services.GetEnv("DB_HOST", ""),
				services.GetEnv("DB_PORT", ""),
				services.GetEnv("DB_NAME", ""),
			),
		)
	}
}

func SetupDB() *gorm.DB {
	db, err := gorm.Open(dialector(), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		panic(err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	if db.Dialector.Name() == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(300)
		sqlDB.SetConnMaxLifetime(time.Minute * 5)
	}
	MigrateAll(db)
	return db
}

func MigrateAll(db *gorm.DB) {
	Migrate(db, &models.UserAccount{})
	Migrate(db, &models.Clothing{})
	Migrate(db, &models.OutfitBatch{})
	Migrate(db, &models.OutfitGeneration{})
	Migrate(db, &models.Collection{})
}

// SetupTestDB opens a private in-memory sqlite database.
func SetupTestDB() *gorm.DB {
	os.Setenv("DB_DRIVER", "sqlite")
	os.Setenv("SQLITE_PATH", fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	return SetupDB()
}
