package models

const (
	ProcessingPending   = "pending"
	ProcessingCompleted = "completed"
	ProcessingFailed    = "failed"
)

type Clothing struct {
	JsonModel
	Name        string      `json:"name"`
	Description *string     `gorm:"type:text" json:"description"`
	Owner       UserAccount `json:"-"`
	OwnerID     uint        `gorm:"uniqueIndex:idx_owner_image_hash" json:"-"`
	// md5 of the uploaded image, one item per image and owner
	ImageHash *string `gorm:"uniqueIndex:idx_owner_image_hash" json:"-"`
	ImageURL  *string `json:"image_url"`

	// derived from Description
	ClothingType string `json:"clothing_type"`
	Color        string `json:"color"`
	Material     string `json:"material"`
	Style        string `json:"style"`

	ProcessingStatus    string  `json:"processing_status"` // pending, completed, failed
	ProcessRetryTimes   int     `json:"process_retry_times"`
	ProcessErrorMessage *string `json:"process_error_message"`
}
