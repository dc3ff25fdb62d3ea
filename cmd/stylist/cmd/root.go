package cmd

import (
	"fmt"
	"os"
	"time"

	"aistylist/dbhelper"
	"aistylist/logger"
	"aistylist/models"
	"aistylist/services"
	"aistylist/styling"

	"github.com/getsentry/sentry-go"
	"github.com/go-playground/validator"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// app holds what every sub-command shares once PersistentPreRunE ran.
type app struct {
	log      *logger.Logger
	taxonomy *styling.Taxonomy
	composer *styling.Composer
	validate *validator.Validate
	db       *gorm.DB
}

// database opens the store on first use; commands that never touch it do
// not need DB settings.
func (a *app) database() *gorm.DB {
	if a.db == nil {
		a.db = dbhelper.SetupDB()
	}
	return a.db
}

func (a *app) wardrobe() *services.WardrobeService {
	return services.NewWardrobeService(a.database(), a.taxonomy, a.composer.Extractor())
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "help" || cmd.Name() == "completion" {
		return nil
	}
	_ = godotenv.Load(".env.local", ".env")

	log, err := logger.New(services.GetEnv("LOG_MODE", "dev"))
	if err != nil {
		return err
	}
	a.log = log
	if err := services.InitSentry("aistylist-cli@1.0.0"); err != nil {
		a.log.Warn("sentry disabled", "error", err)
	}

	a.taxonomy, err = services.LoadStylingTaxonomy()
	if err != nil {
		return fmt.Errorf("load taxonomy: %w", err)
	}
	extractor, err := styling.NewCachedExtractor(styling.NewExtractor(a.taxonomy), 0)
	if err != nil {
		return err
	}
	a.composer = styling.NewComposer(a.taxonomy, extractor)

	a.validate = validator.New()
	return a.validate.RegisterValidation("weather_label", models.ValidateWeatherLabel)
}

func (a *app) teardown(cmd *cobra.Command, args []string) {
	sentry.Flush(2 * time.Second)
	if a.log != nil {
		a.log.Sync()
	}
}

func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "stylist",
		Short: "Compose outfits from a wardrobe",
		Long: `stylist picks coordinated outfits out of a wardrobe, either a folder of
photos with .txt descriptions or a user's stored wardrobe.

It can also show the attributes read from a description, the current
weather and the lookbooks composed by the worker.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: a.teardown,
	}
	root.AddCommand(
		newComposeCmd(a),
		newDescribeCmd(a),
		newWeatherCmd(a),
		newLookbookCmd(a),
		newClosetCmd(a),
		newItemCmd(a),
		newCollectionCmd(a),
	)
	return root
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
