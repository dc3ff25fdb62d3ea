package models

type UserAccount struct {
	JsonModel
	Name   string `json:"name"`
	Email  string `json:"email" gorm:"unique"`
	Banned bool   `gorm:"default:false" json:"-"`
	// city used for the weather lookup, WEATHER_LOCATION when empty
	Location            string     `json:"location"`
	DailyOutfitsEnabled bool       `gorm:"default:true" json:"daily_outfits_enabled"`
	Clothes             []Clothing `gorm:"foreignKey:OwnerID" json:"-"`
}
