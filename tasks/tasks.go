package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	_ "time/tzdata"

	"aistylist/languageutil"
	"aistylist/logger"
	"aistylist/models"
	"aistylist/services"
	"aistylist/styling"

	"github.com/getsentry/sentry-go"
	"github.com/go-playground/validator"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

const (
	TypeComposeOutfits = "outfits:compose"
	TypeDailyOutfits   = "outfits:daily"

	QueueOutfits     = "outfits"
	DailyOutfitCount = 4

	maxBatchRetries = 3
)

type ComposeOutfitsPayload struct {
	OwnerID    uint   `json:"owner_id" validate:"required"`
	Count      int    `json:"count" validate:"min=0,max=12"`
	Weather    string `json:"weather" validate:"weather_label"`
	OutfitType string `json:"outfit_type" validate:"required,oneof=daily on_demand"`
	// BatchKey is fixed at enqueue time so asynq retries land on the same batch.
	BatchKey string `json:"batch_key" validate:"required"`
	Day      string `json:"day"`
	Seed     *int64 `json:"seed,omitempty"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("weather_label", models.ValidateWeatherLabel); err != nil {
		panic(err)
	}
	return v
}

// Enqueuer is the part of *asynq.Client the scheduler needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

func NewClient() *asynq.Client {
	return asynq.NewClient(asynq.RedisClientOpt{Addr: services.GetEnv("ASYNC_BROKER_ADDRESS", "localhost:6379")})
}

// Location is the timezone that decides what "today" means for daily batches.
func Location() *time.Location {
	loc, err := time.LoadLocation(services.GetEnv("WEATHER_TIMEZONE", "America/Vancouver"))
	if err != nil {
		return time.UTC
	}
	return loc
}

func Today(now time.Time) string {
	return now.In(Location()).Format(time.DateOnly)
}

func NewComposeOutfitsTask(ownerID uint, count int, weather, outfitType string) (*asynq.Task, error) {
	return newComposeTask(ComposeOutfitsPayload{
		OwnerID:    ownerID,
		Count:      count,
		Weather:    weather,
		OutfitType: outfitType,
		BatchKey:   uuid.NewString(),
		Day:        Today(time.Now()),
	})
}

// NewDailyComposeTask builds the daily compose task for one user and day.
// Its batch key is derived from both, so enqueueing it twice can only ever
// produce one batch.
func NewDailyComposeTask(ownerID uint, day string) (*asynq.Task, error) {
	return newComposeTask(ComposeOutfitsPayload{
		OwnerID:    ownerID,
		Count:      DailyOutfitCount,
		OutfitType: models.OutfitTypeDaily,
		BatchKey:   DailyBatchKey(ownerID, day),
		Day:        day,
	})
}

func DailyTaskID(ownerID uint, day string) string {
	return fmt.Sprintf("daily:%d:%s", ownerID, day)
}

func DailyBatchKey(ownerID uint, day string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(DailyTaskID(ownerID, day))).String()
}

func newComposeTask(payload ComposeOutfitsPayload) (*asynq.Task, error) {
	if err := validate.Struct(payload); err != nil {
		return nil, fmt.Errorf("compose payload: %w", err)
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeComposeOutfits, raw), nil
}

func NewDailyOutfitsTask() *asynq.Task {
	return asynq.NewTask(TypeDailyOutfits, []byte{})
}

type manifestOutfit struct {
	Position   int      `json:"position"`
	ItemIDs    []uint   `json:"item_ids"`
	Items      []string `json:"items"`
	OutfitKey  string   `json:"outfit_key"`
	Occasion   string   `json:"occasion"`
	ImageURL   *string  `json:"image_url"`
	Collection string   `json:"collection,omitempty"`
}

type lookbookManifest struct {
	BatchKey    string           `json:"batch_key"`
	Day         string           `json:"day"`
	Weather     string           `json:"weather"`
	Temperature *float64         `json:"temperature,omitempty"`
	Outfits     []manifestOutfit `json:"outfits"`
}

// HandleComposeOutfitsTask composes a batch of outfits for one user, stores
// it and uploads the lookbook manifest. storage and weather may be nil.
func HandleComposeOutfitsTask(
	ctx context.Context,
	t *asynq.Task,
	db *gorm.DB,
	composer *styling.Composer,
	weather services.WeatherServiceProvider,
	storage services.AWSServiceProvider,
	log *logger.Logger,
) error {
	if log == nil {
		log = logger.NewNop()
	}
	var payload ComposeOutfitsPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("decode compose payload: %v: %w", err, asynq.SkipRetry)
	}
	if err := validate.Struct(payload); err != nil {
		sentry.CaptureException(fmt.Errorf("[Batch: %s] invalid payload: %w", payload.BatchKey, err))
		return fmt.Errorf("invalid compose payload: %v: %w", err, asynq.SkipRetry)
	}
	log = log.Component("tasks").Batch(payload.BatchKey, payload.OwnerID)
	log.Info("[Batch] Composing outfits", "count", payload.Count, "type", payload.OutfitType)

	var user models.UserAccount
	if err := db.WithContext(ctx).First(&user, payload.OwnerID).Error; err != nil {
		sentry.CaptureException(fmt.Errorf("[Batch: %s] Error on retrieving user %d: %w", payload.BatchKey, payload.OwnerID, err))
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user %d: %v: %w", payload.OwnerID, err, asynq.SkipRetry)
		}
		return err
	}

	wardrobe := services.NewWardrobeService(db, composer.Taxonomy(), composer.Extractor())
	batch, err := wardrobe.GetBatch(ctx, payload.BatchKey)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		day := payload.Day
		if day == "" {
			day = Today(time.Now())
		}
		batch = &models.OutfitBatch{
			BatchKey:       payload.BatchKey,
			OwnerID:        user.ID,
			OutfitType:     payload.OutfitType,
			Day:            day,
			RequestedCount: payload.Count,
			Status:         models.BatchPending,
		}
	case err != nil:
		return err
	case batch.Status != models.BatchPending:
		log.Info("[Batch] Already handled", "status", batch.Status)
		return nil
	}

	if payload.OutfitType == models.OutfitTypeDaily {
		latest, err := wardrobe.LatestBatch(ctx, user.ID, batch.Day, models.OutfitTypeDaily)
		if err != nil {
			return err
		}
		if latest != nil && latest.BatchKey != batch.BatchKey && latest.Status == models.BatchComposed {
			log.Info("[Batch] Daily outfits already composed", "day", batch.Day, "existing", latest.BatchKey)
			return nil
		}
	}

	if err := composeBatch(ctx, wardrobe, composer, weather, storage, &user, batch, payload); err != nil {
		log.Error("[Batch] Compose failed", "attempt", batch.RetryTimes+1, "error", err)
		return saveBatchFail(ctx, db, batch, err)
	}
	log.Info("[Batch] Done", "status", batch.Status, "outfits", len(batch.Outfits))
	return nil
}

func composeBatch(
	ctx context.Context,
	wardrobe *services.WardrobeService,
	composer *styling.Composer,
	weather services.WeatherServiceProvider,
	storage services.AWSServiceProvider,
	user *models.UserAccount,
	batch *models.OutfitBatch,
	payload ComposeOutfitsPayload,
) error {
	label := payload.Weather
	if label == "" && weather != nil {
		report, err := weather.Current(ctx, user.Location)
		if err != nil {
			return fmt.Errorf("weather for %q: %w", user.Location, err)
		}
		label = services.LabelFor(report)
		condition, temperature := report.Condition, report.Temperature
		batch.WeatherCondition = &condition
		batch.Temperature = &temperature
	}
	batch.Weather = label

	items, err := wardrobe.Snapshot(ctx, user.ID)
	if err != nil {
		return err
	}
	descriptions := make(map[string]string, len(items))
	for _, item := range items {
		descriptions[item.ID] = item.Description
	}

	seed := time.Now().UnixNano()
	if payload.Seed != nil {
		seed = *payload.Seed
	}
	rnd := styling.NewSeededRand(seed)
	candidates, err := composer.Compose(styling.Request{Items: items, Count: payload.Count, Weather: label, Rand: rnd})
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		batch.Status = models.BatchEmpty
		batch.ErrorMessage = nil
		return wardrobe.SaveBatch(ctx, batch)
	}

	occasions := languageutil.PickOccasions(rnd, len(candidates))
	manifest := lookbookManifest{
		BatchKey:    batch.BatchKey,
		Day:         batch.Day,
		Weather:     label,
		Temperature: batch.Temperature,
		Outfits:     make([]manifestOutfit, 0, len(candidates)),
	}
	outfits := make([]models.OutfitGeneration, 0, len(candidates))
	for i, candidate := range candidates {
		ids, err := services.ParseItemIDs(candidate)
		if err != nil {
			return err
		}
		key := styling.OutfitKey(candidate)
		outfit := models.OutfitGeneration{
			OwnerID:   user.ID,
			Position:  i,
			ItemIDs:   models.EncodeItemIDs(ids),
			OutfitKey: key,
			Occasion:  occasions[i],
			Weather:   label,
			Status:    models.OutfitComposed,
		}
		texts := make([]string, 0, len(candidate))
		for _, id := range candidate {
			texts = append(texts, descriptions[id])
		}
		collection, err := reuseImage(ctx, wardrobe, user.ID, &outfit, texts)
		if err != nil {
			return err
		}
		outfits = append(outfits, outfit)

		manifest.Outfits = append(manifest.Outfits, manifestOutfit{
			Position:   i,
			ItemIDs:    ids,
			Items:      texts,
			OutfitKey:  key,
			Occasion:   outfit.Occasion,
			ImageURL:   outfit.ImageURL,
			Collection: collection,
		})
	}

	if storage != nil {
		body, err := json.Marshal(manifest)
		if err != nil {
			return err
		}
		manifestKey := services.LookbookManifestKey(user.ID, batch.BatchKey)
		bucket := services.GetEnv("R2_BUCKET_NAME", "")
		if err := storage.PutObject(ctx, bucket, manifestKey, body, "application/json"); err != nil {
			return fmt.Errorf("upload manifest: %w", err)
		}
		batch.ManifestKey = &manifestKey
	}

	batch.Outfits = outfits
	batch.Status = models.BatchComposed
	batch.ErrorMessage = nil
	return wardrobe.SaveBatch(ctx, batch)
}

// reuseImage gives a fresh outfit an image it already has: first from an
// earlier outfit with the same items, then from a saved collection naming the
// same garments. Images themselves come from an external renderer. It
// returns the name of the collection used, if any.
func reuseImage(ctx context.Context, wardrobe *services.WardrobeService, ownerID uint, outfit *models.OutfitGeneration, texts []string) (string, error) {
	previous, err := wardrobe.FindOutfitByKey(ctx, ownerID, outfit.OutfitKey)
	if err != nil {
		return "", err
	}
	if previous != nil {
		outfit.ImageURL = previous.ImageURL
		outfit.Status = models.OutfitRendered
		return "", nil
	}
	collection, err := wardrobe.FindSimilarCollection(ctx, ownerID, texts)
	if err != nil {
		return "", err
	}
	if collection == nil || collection.ImageURL == nil {
		return "", nil
	}
	outfit.ImageURL = collection.ImageURL
	outfit.CollectionID = &collection.ID
	outfit.Status = models.OutfitRendered
	return collection.Name, nil
}

// saveBatchFail records a failed attempt. After maxBatchRetries the batch is
// marked failed and asynq stops retrying.
func saveBatchFail(ctx context.Context, db *gorm.DB, batch *models.OutfitBatch, cause error) error {
	batch.RetryTimes++
	batch.ErrorMessage = services.StrPointer(cause.Error())
	batch.Outfits = nil
	if batch.RetryTimes >= maxBatchRetries {
		batch.Status = models.BatchFailed
	} else {
		batch.Status = models.BatchPending
	}
	sentry.CaptureException(fmt.Errorf("[Batch: %s] attempt %d: %w", batch.BatchKey, batch.RetryTimes, cause))
	if err := db.WithContext(ctx).Omit("Outfits").Save(batch).Error; err != nil {
		sentry.CaptureException(fmt.Errorf("[Batch: %s] Error on saving failed status: %w", batch.BatchKey, err))
		return err
	}
	if batch.Status == models.BatchFailed {
		return fmt.Errorf("%v: %w", cause, asynq.SkipRetry)
	}
	return cause
}

// HandleDailyOutfitsTask enqueues a daily compose task for every active user
// that has no daily batch for today yet.
func HandleDailyOutfitsTask(ctx context.Context, t *asynq.Task, db *gorm.DB, client Enqueuer, log *logger.Logger) error {
	if log == nil {
		log = logger.NewNop()
	}
	log = log.Component("scheduler")
	day := Today(time.Now())
	var users []models.UserAccount
	done := db.Model(&models.OutfitBatch{}).
		Select("owner_id").
		Where("day = ? AND outfit_type = ?", day, models.OutfitTypeDaily)
	err := db.WithContext(ctx).
		Where("banned = ? AND daily_outfits_enabled = ?", false, true).
		Where("id NOT IN (?)", done).
		Order("id").
		Find(&users).Error
	if err != nil {
		sentry.CaptureException(fmt.Errorf("[Daily: %s] Error on listing users: %w", day, err))
		return err
	}

	var failed int
	for _, user := range users {
		task, err := NewDailyComposeTask(user.ID, day)
		if err == nil {
			_, err = client.EnqueueContext(ctx, task,
				asynq.TaskID(DailyTaskID(user.ID, day)),
				asynq.MaxRetry(maxBatchRetries),
				asynq.Queue(QueueOutfits),
			)
		}
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			log.Debug("[Daily] Already queued", "user", user.ID)
			continue
		}
		if err != nil {
			failed++
			log.Error("[Daily] Error on enqueueing", "user", user.ID, "error", err)
			sentry.CaptureException(fmt.Errorf("[Daily: %s] enqueue for user %d: %w", day, user.ID, err))
		}
	}
	log.Info("[Daily] Enqueued compose tasks", "day", day, "users", len(users), "failed", failed)
	if failed > 0 {
		return fmt.Errorf("daily outfits: %d of %d enqueues failed", failed, len(users))
	}
	return nil
}
