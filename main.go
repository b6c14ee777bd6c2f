package main

import (
	"context"
	"fmt"
	"os"

	"lunchvote-backend/config"
	"lunchvote-backend/controllers"
	"lunchvote-backend/models"
	"lunchvote-backend/routes"
	"lunchvote-backend/services"
	"lunchvote-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	envFile := pflag.String("env-file", "", "load environment from this file instead of ./.env")
	promoteStaff := pflag.String("promote-staff", "", "grant the restaurant staff role to the user with this email and exit")
	migrateOnly := pflag.Bool("migrate-only", false, "run database migrations and exit")
	printRoutesFlag := pflag.Bool("print-routes", false, "print the registered routes on startup")
	pflag.Parse()

	var envFiles []string
	if *envFile != "" {
		envFiles = append(envFiles, *envFile)
	}
	cfg, err := config.Load(envFiles...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := config.NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	log.Info(cfg.String())

	db, err := config.ConnectDB(cfg)
	if err != nil {
		log.Fatalw("database connection failed", "error", err)
	}
	if err := models.Migrate(db); err != nil {
		log.Fatalw("migration failed", "error", err)
	}
	if *migrateOnly {
		log.Info("migrations applied")
		return
	}

	store := services.NewGormStore(db)

	if *promoteStaff != "" {
		if err := promote(context.Background(), store, *promoteStaff); err != nil {
			log.Fatalw("promotion failed", "email", *promoteStaff, "error", err)
		}
		log.Infow("user promoted to restaurant staff", "email", *promoteStaff)
		return
	}

	comparator, err := services.NewVersionComparator(cfg.VersionComparison)
	if err != nil {
		log.Fatalw("invalid version comparison", "error", err)
	}
	voting, err := services.NewVotingGuard(store, cfg.MinAppVersion, comparator, log.Named("voting"))
	if err != nil {
		log.Fatalw("invalid voting configuration", "error", err)
	}

	env := &controllers.Env{
		Store:                      store,
		Access:                     services.NewAccessControl(store),
		Voting:                     voting,
		Ranker:                     services.NewRanker(store),
		Tokens:                     utils.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
		Log:                        log,
		Location:                   cfg.Location,
		SingleRestaurantPerManager: cfg.SingleRestaurantPerManager,
	}

	if cfg.DigestEnabled {
		var notifier services.Notifier
		if cfg.TwilioConfigured() {
			notifier = services.NewTwilioNotifier(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioPhoneNumber)
		} else {
			log.Warn("digest enabled without Twilio credentials, winners are only recorded")
		}
		digest := services.NewDigestService(store, notifier, cfg.Location, log.Named("digest"))
		if err := digest.Start(cfg.DigestCron); err != nil {
			log.Fatalw("digest scheduler failed", "error", err)
		}
		defer digest.Stop()
	}

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := routes.SetupRouter(env, cfg.CORSOrigins)
	if *printRoutesFlag {
		printRoutes(r, log)
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalw("server stopped", "error", err)
	}
}

func promote(ctx context.Context, store *services.GormStore, email string) error {
	user, err := store.GetUserByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		return err
	}
	user.IsRestaurantStaff = true
	return store.SaveUser(ctx, user)
}

func printRoutes(r *gin.Engine, log *zap.SugaredLogger) {
	for _, route := range r.Routes() {
		log.Infof("%-6s %s", route.Method, route.Path)
	}
}
