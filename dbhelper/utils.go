package dbhelper

import (
	"log"

	"aistylist/models"

	"gorm.io/gorm"
)

func SetupCleaner(db *gorm.DB) func() {

	return func() {

		db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.OutfitGeneration{})
		db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.OutfitBatch{})
		db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Collection{})
		db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Clothing{})
		db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.UserAccount{})

	}
}

func Migrate(db *gorm.DB, model interface{}) {
	err := db.AutoMigrate(model)
	if err != nil {
		log.Printf("Error while migrating %T", model)
		log.Fatal(err)
	}
}
