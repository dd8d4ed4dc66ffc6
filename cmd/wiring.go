package cmd

import (
	"context"
	"fmt"

	"date-journal-backend/internal/config"
	"date-journal-backend/internal/media"
	"date-journal-backend/internal/notify"
	"date-journal-backend/internal/push"
	"date-journal-backend/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// newPushSender builds the configured push provider client
func newPushSender(ctx context.Context, cfg *config.Config) (push.Sender, error) {
	switch cfg.Push.Provider {
	case "fcm":
		return push.NewFCMSender(ctx, cfg.Firebase.CredentialsFile, cfg.Firebase.ProjectID)
	case "apns":
		return push.NewAPNsSender(push.APNsOptions{
			KeyFile:    cfg.APNs.KeyFile,
			KeyID:      cfg.APNs.KeyID,
			TeamID:     cfg.APNs.TeamID,
			Topic:      cfg.APNs.Topic,
			Production: cfg.APNs.Production,
		})
	case "expo":
		return push.NewExpoSender(), nil
	}
	return nil, fmt.Errorf("unknown push provider %q", cfg.Push.Provider)
}

// newMediaStore builds the configured object store
func newMediaStore(ctx context.Context, cfg *config.Config) (media.Store, error) {
	switch cfg.Media.Provider {
	case "s3":
		return media.NewS3Store(ctx, media.S3Options{
			Region:    cfg.AWS.Region,
			Bucket:    cfg.AWS.S3Bucket,
			AccessKey: cfg.AWS.AccessKey,
			SecretKey: cfg.AWS.SecretKey,
			Endpoint:  cfg.AWS.Endpoint,
			PublicURL: cfg.AWS.PublicURL,
		})
	case "cloudinary":
		return media.NewCloudinaryStore(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret, cfg.Cloudinary.Folder)
	}
	return nil, fmt.Errorf("unknown media provider %q", cfg.Media.Provider)
}

// newEngine builds the notification engine on top of db
func newEngine(ctx context.Context, cfg *config.Config, db *pgxpool.Pool) (*notify.Engine, error) {
	anniversary, err := cfg.Relationship.AnniversaryDate()
	if err != nil {
		return nil, err
	}

	sender, err := newPushSender(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create push sender: %w", err)
	}
	log.Info().Str("provider", cfg.Push.Provider).Msg("Push sender ready")

	tokenRepo := repository.NewTokenRepository(db)

	var pruner notify.TokenPruner
	if cfg.Push.PruneUnregistered {
		pruner = tokenRepo
	}

	return notify.NewEngine(
		repository.NewDateRepository(db),
		repository.NewSentNotificationRepository(db),
		repository.NewMilestoneRepository(db),
		notify.NewResolver(tokenRepo),
		notify.NewDispatcher(sender, pruner),
		notify.Options{
			Anniversary:  anniversary,
			ReminderLead: cfg.Schedule.ReminderLead,
			Retention:    cfg.Schedule.Retention,
		},
	), nil
}
