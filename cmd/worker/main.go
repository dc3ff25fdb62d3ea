package main

import (
	"context"
	"time"

	"aistylist/dbhelper"
	"aistylist/logger"
	"aistylist/services"
	"aistylist/styling"
	"aistylist/tasks"

	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
)

func runScheduler(redis asynq.RedisClientOpt, log *logger.Logger) {
	scheduler := asynq.NewScheduler(redis, &asynq.SchedulerOpts{
		Location: tasks.Location(),
		LogLevel: asynq.InfoLevel,
	})

	entries := []struct {
		cron string
		task *asynq.Task
		desc string
	}{
		{
			cron: "0 5 * * *", // 05:00 local, before people get dressed
			task: tasks.NewDailyOutfitsTask(),
			desc: "Daily outfits",
		},
	}

	for _, e := range entries {
		entryID, err := scheduler.Register(e.cron, e.task, asynq.Queue(tasks.QueueOutfits))
		if err != nil {
			log.Fatal("Failed to register task", "task", e.desc, "error", err)
		}
		log.Info("Registered task", "task", e.desc, "id", entryID, "cron", e.cron)
	}

	log.Info("Starting scheduler...")
	if err := scheduler.Run(); err != nil {
		log.Fatal("Scheduler failed", "error", err)
	}
}

func main() {
	_ = godotenv.Load(".env.local", ".env")
	log, err := logger.New(services.GetEnv("LOG_MODE", "dev"))
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := services.InitSentry("aistylist-worker@1.0.0"); err != nil {
		log.Fatal("sentry.Init", "error", err)
	}
	defer sentry.Flush(2 * time.Second)

	redis := asynq.RedisClientOpt{Addr: services.GetEnv("ASYNC_BROKER_ADDRESS", "localhost:6379")}
	srv := asynq.NewServer(redis, asynq.Config{
		Concurrency: 10,
		Queues: map[string]int{
			tasks.QueueOutfits: 7,
			"default":          3,
		},
	})

	taxonomy, err := services.LoadStylingTaxonomy()
	if err != nil {
		log.Fatal("[Queue] Failed to load styling taxonomy", "error", err)
	}
	extractor, err := styling.NewCachedExtractor(styling.NewExtractor(taxonomy), 4096)
	if err != nil {
		log.Fatal("[Queue] Failed to create attribute cache", "error", err)
	}
	composer := styling.NewComposer(taxonomy, extractor)

	weather, err := services.NewWeatherServiceFromEnv(log)
	if err != nil {
		log.Fatal("[Queue] Failed to initialize weather service", "error", err)
	}
	var storage services.AWSServiceProvider
	awsService := &services.AWSService{}
	if err := awsService.InitClient(context.Background()); err != nil {
		log.Warn("[Queue] R2 storage disabled, manifests will not be uploaded", "error", err)
	} else {
		storage = awsService
	}

	db := dbhelper.SetupDB()
	client := asynq.NewClient(redis)
	defer client.Close()

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeComposeOutfits, func(ctx context.Context, t *asynq.Task) error {
		return tasks.HandleComposeOutfitsTask(ctx, t, db, composer, weather, storage, log)
	})
	mux.HandleFunc(tasks.TypeDailyOutfits, func(ctx context.Context, t *asynq.Task) error {
		return tasks.HandleDailyOutfitsTask(ctx, t, db, client, log)
	})

	go runScheduler(redis, log)
	if err := srv.Run(mux); err != nil {
		log.Fatal("Worker stopped", "error", err)
	}
}
