package models

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
)

const (
	BatchPending  = "pending"
	BatchComposed = "composed"
	BatchEmpty    = "empty"
	BatchFailed   = "failed"

	OutfitTypeDaily    = "daily"
	OutfitTypeOnDemand = "on_demand"

	OutfitComposed = "composed"
	OutfitRendered = "rendered"
)

// OutfitBatch is one run of the composer for a user.
type OutfitBatch struct {
	JsonModel
	BatchKey   string      `gorm:"uniqueIndex;size:36" json:"batch_key"`
	OwnerID    uint        `gorm:"index" json:"-"`
	Owner      UserAccount `json:"-"`
	OutfitType string      `json:"outfit_type"` // daily, on_demand
	// local calendar day, YYYY-MM-DD
	Day              string             `gorm:"index" json:"day"`
	Weather          string             `json:"weather"`
	WeatherCondition *string            `json:"weather_condition"`
	Temperature      *float64           `json:"temperature"`
	RequestedCount   int                `json:"requested_count"`
	Status           string             `json:"status"` // pending, composed, empty, failed
	RetryTimes       int                `json:"retry_times"`
	ErrorMessage     *string            `json:"error_message"`
	ManifestKey      *string            `json:"manifest_key"`
	Outfits          []OutfitGeneration `gorm:"foreignKey:BatchID" json:"outfits"`
}

type OutfitGeneration struct {
	JsonModel
	BatchID   uint           `gorm:"index" json:"-"`
	OwnerID   uint           `gorm:"index" json:"-"`
	Position  int            `json:"position"`
	ItemIDs   datatypes.JSON `json:"item_ids"`
	OutfitKey string         `gorm:"index" json:"outfit_key"`
	Occasion  string         `json:"occasion"`
	Weather   string         `json:"weather"`
	// written by an external renderer, or copied from an earlier outfit
	// or a saved collection
	ImageURL     *string `json:"image_url"`
	CollectionID *uint   `json:"collection_id"`

	Status string `json:"status"` // composed, rendered
}

// Collection is an outfit the user chose to keep.
type Collection struct {
	JsonModel
	OwnerID     uint           `gorm:"index" json:"-"`
	Name        string         `json:"name"`
	Occasion    string         `json:"occasion"`
	Description string         `gorm:"type:text" json:"description"`
	ItemIDs     datatypes.JSON `json:"item_ids"`
	OutfitKey   string         `gorm:"index" json:"outfit_key"`
	ImageURL    *string        `json:"image_url"`
}

func EncodeItemIDs(ids []uint) datatypes.JSON {
	if ids == nil {
		ids = []uint{}
	}
	raw, _ := json.Marshal(ids)
	return datatypes.JSON(raw)
}

func DecodeItemIDs(raw datatypes.JSON) ([]uint, error) {
	if len(raw) == 0 {
		return []uint{}, nil
	}
	var ids []uint
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, fmt.Errorf("decode item ids: %w", err)
	}
	return ids, nil
}

func (o *OutfitGeneration) ClothingIDs() ([]uint, error) {
	return DecodeItemIDs(o.ItemIDs)
}

func (c *Collection) ClothingIDs() ([]uint, error) {
	return DecodeItemIDs(c.ItemIDs)
}
