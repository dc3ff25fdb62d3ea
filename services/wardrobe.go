package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"aistylist/models"
	"aistylist/styling"

	"gorm.io/gorm"
)

var (
	ErrDuplicateItem = errors.New("clothing item already uploaded")
	ErrItemNotFound  = errors.New("clothing item not found")
)

type NewClothingIn struct {
	Name        string
	Description string
	ImageBytes  []byte
	ImageURL    string
}

// WardrobeService persists clothing items, composed batches and saved
// collections for each user.
type WardrobeService struct {
	db        *gorm.DB
	taxonomy  *styling.Taxonomy
	extractor styling.AttributeExtractor
}

func NewWardrobeService(db *gorm.DB, taxonomy *styling.Taxonomy, extractor styling.AttributeExtractor) *WardrobeService {
	if taxonomy == nil {
		taxonomy = styling.DefaultTaxonomy()
	}
	if extractor == nil {
		extractor = styling.NewExtractor(taxonomy)
	}
	return &WardrobeService{db: db, taxonomy: taxonomy, extractor: extractor}
}

func (w *WardrobeService) applyDescription(item *models.Clothing, description string) {
	description = strings.TrimSpace(description)
	if description == "" {
		item.Description = nil
		item.ClothingType = string(styling.CategoryPending)
		item.Color, item.Material, item.Style = "", "", ""
		item.ProcessingStatus = models.ProcessingPending
		return
	}
	attrs := w.extractor.Extract(description)
	item.Description = &description
	item.ClothingType = string(attrs.Category)
	item.Color = attrs.Color
	item.Material = attrs.Material
	item.Style = attrs.Style
	item.ProcessingStatus = models.ProcessingCompleted
}

// AddItem stores a new item. The same image bytes can only be uploaded once
// per owner.
func (w *WardrobeService) AddItem(ctx context.Context, ownerID uint, in NewClothingIn) (*models.Clothing, error) {
	item := models.Clothing{
		Name:     in.Name,
		OwnerID:  ownerID,
		ImageURL: StrPointer(in.ImageURL),
	}
	if len(in.ImageBytes) > 0 {
		hash := HashBytes(in.ImageBytes)
		var count int64
		if err := w.db.WithContext(ctx).Model(&models.Clothing{}).
			Where("owner_id = ? AND image_hash = ?", ownerID, hash).
			Count(&count).Error; err != nil {
			return nil, fmt.Errorf("check duplicate: %w", err)
		}
		if count > 0 {
			return nil, ErrDuplicateItem
		}
		item.ImageHash = &hash
	}
	w.applyDescription(&item, in.Description)

	if err := w.db.WithContext(ctx).Create(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateItem
		}
		return nil, fmt.Errorf("create clothing: %w", err)
	}
	return &item, nil
}

func (w *WardrobeService) GetItem(ctx context.Context, ownerID, id uint) (*models.Clothing, error) {
	var item models.Clothing
	err := w.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// DescribeItem sets the description and refreshes the derived attributes.
func (w *WardrobeService) DescribeItem(ctx context.Context, ownerID, id uint, description string) (*models.Clothing, error) {
	item, err := w.GetItem(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	w.applyDescription(item, description)
	item.ProcessErrorMessage = nil
	if err := w.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, fmt.Errorf("update clothing %d: %w", id, err)
	}
	return item, nil
}

// MarkDescribeFailed records a failed description attempt; after three the
// item is marked failed and stays pending for the composer.
func (w *WardrobeService) MarkDescribeFailed(ctx context.Context, ownerID, id uint, cause error) (*models.Clothing, error) {
	item, err := w.GetItem(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	item.ProcessRetryTimes++
	item.ProcessErrorMessage = StrPointer(cause.Error())
	if item.ProcessRetryTimes >= 3 {
		item.ProcessingStatus = models.ProcessingFailed
	}
	if err := w.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, fmt.Errorf("update clothing %d: %w", id, err)
	}
	return item, nil
}

func (w *WardrobeService) DeleteItem(ctx context.Context, ownerID, id uint) error {
	res := w.db.WithContext(ctx).Where("owner_id = ?", ownerID).Delete(&models.Clothing{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete clothing %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (w *WardrobeService) ListItems(ctx context.Context, ownerID uint) ([]models.Clothing, error) {
	items := []models.Clothing{}
	err := w.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("id").Find(&items).Error
	return items, err
}

func (w *WardrobeService) ItemsByIDs(ctx context.Context, ownerID uint, ids []uint) ([]models.Clothing, error) {
	items := []models.Clothing{}
	if len(ids) == 0 {
		return items, nil
	}
	if err := w.db.WithContext(ctx).Where("owner_id = ? AND id IN ?", ownerID, ids).Find(&items).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Clothing, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	ordered := make([]models.Clothing, 0, len(items))
	for _, id := range ids {
		if item, ok := byID[id]; ok {
			ordered = append(ordered, item)
		}
	}
	return ordered, nil
}

// Snapshot is the composer's read-only view of a wardrobe. Items without a
// description come back Pending.
func (w *WardrobeService) Snapshot(ctx context.Context, ownerID uint) ([]styling.WardrobeItem, error) {
	items, err := w.ListItems(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("load wardrobe of %d: %w", ownerID, err)
	}
	out := make([]styling.WardrobeItem, 0, len(items))
	for _, item := range items {
		wi := styling.WardrobeItem{ID: FormatItemID(item.ID)}
		if item.Description == nil || strings.TrimSpace(*item.Description) == "" {
			wi.Pending = true
		} else {
			wi.Description = *item.Description
		}
		out = append(out, wi)
	}
	return out, nil
}

func FormatItemID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func ParseItemIDs(ids []string) ([]uint, error) {
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		v, err := strconv.ParseUint(id, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("item id %q: %w", id, err)
		}
		out = append(out, uint(v))
	}
	return out, nil
}

func (w *WardrobeService) SaveBatch(ctx context.Context, batch *models.OutfitBatch) error {
	if err := w.db.WithContext(ctx).Save(batch).Error; err != nil {
		return fmt.Errorf("save batch %s: %w", batch.BatchKey, err)
	}
	return nil
}

func (w *WardrobeService) ListBatches(ctx context.Context, ownerID uint, limit int) ([]models.OutfitBatch, error) {
	batches := []models.OutfitBatch{}
	q := w.db.WithContext(ctx).
		Preload("Outfits", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Where("owner_id = ?", ownerID).
		Order("id desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&batches).Error
	return batches, err
}

// LatestBatch returns the newest batch of a type for a day, or nil.
func (w *WardrobeService) LatestBatch(ctx context.Context, ownerID uint, day, outfitType string) (*models.OutfitBatch, error) {
	var batch models.OutfitBatch
	err := w.db.WithContext(ctx).
		Preload("Outfits", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Where("owner_id = ? AND day = ? AND outfit_type = ?", ownerID, day, outfitType).
		Order("id desc").
		First(&batch).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &batch, nil
}

func (w *WardrobeService) GetBatch(ctx context.Context, batchKey string) (*models.OutfitBatch, error) {
	var batch models.OutfitBatch
	err := w.db.WithContext(ctx).
		Preload("Outfits", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Where("batch_key = ?", batchKey).
		First(&batch).Error
	if err != nil {
		return nil, err
	}
	return &batch, nil
}

// FindOutfitByKey finds an earlier outfit with the same item combination
// that already has an image.
func (w *WardrobeService) FindOutfitByKey(ctx context.Context, ownerID uint, outfitKey string) (*models.OutfitGeneration, error) {
	var outfit models.OutfitGeneration
	err := w.db.WithContext(ctx).
		Where("owner_id = ? AND outfit_key = ? AND image_url IS NOT NULL", ownerID, outfitKey).
		Order("id desc").
		First(&outfit).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &outfit, nil
}

// SaveCollection keeps an outfit under a name. imageURL may be empty; when
// set, later outfits naming the same garments reuse it.
func (w *WardrobeService) SaveCollection(ctx context.Context, ownerID uint, name, occasion string, itemIDs []uint, imageURL string) (*models.Collection, error) {
	items, err := w.ItemsByIDs(ctx, ownerID, itemIDs)
	if err != nil {
		return nil, err
	}
	if len(items) != len(itemIDs) {
		return nil, ErrItemNotFound
	}
	descriptions := make([]string, 0, len(items))
	keys := make([]string, 0, len(items))
	for _, item := range items {
		if item.Description != nil {
			descriptions = append(descriptions, *item.Description)
		}
		keys = append(keys, FormatItemID(item.ID))
	}
	collection := models.Collection{
		OwnerID:     ownerID,
		Name:        name,
		Occasion:    occasion,
		Description: strings.Join(descriptions, "; "),
		ItemIDs:     models.EncodeItemIDs(itemIDs),
		OutfitKey:   styling.OutfitKey(keys),
		ImageURL:    StrPointer(imageURL),
	}
	if err := w.db.WithContext(ctx).Create(&collection).Error; err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	return &collection, nil
}

func (w *WardrobeService) ListCollections(ctx context.Context, ownerID uint) ([]models.Collection, error) {
	collections := []models.Collection{}
	err := w.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("id").Find(&collections).Error
	return collections, err
}

// FindSimilarCollection returns the first saved collection whose description
// names the same kinds of garments as itemTexts, or nil.
func (w *WardrobeService) FindSimilarCollection(ctx context.Context, ownerID uint, itemTexts []string) (*models.Collection, error) {
	collections, err := w.ListCollections(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	for i := range collections {
		if w.taxonomy.SimilarOutfit(collections[i].Description, itemTexts) {
			return &collections[i], nil
		}
	}
	return nil, nil
}
