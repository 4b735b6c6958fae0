package main

import (
	"context"
	"fmt"
	"io"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"sevasetu/internal/auth"
	"sevasetu/internal/certificates"
	"sevasetu/internal/config"
	"sevasetu/internal/logger"
	"sevasetu/internal/services"
)

// app holds the pieces every command shares.
type app struct {
	cfg       *config.Config
	db        *gorm.DB
	logWriter io.Writer
}

func bootstrap() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	w := logger.Setup(cfg)

	db, err := config.OpenDB(cfg, logger.GormLogger())
	if err != nil {
		return nil, err
	}
	logrus.WithField("driver", cfg.DBDriver).Info("Database connection established")

	return &app{cfg: cfg, db: db, logWriter: w}, nil
}

func (a *app) close() {
	if sqlDB, err := a.db.DB(); err == nil {
		sqlDB.Close()
	}
}

func (a *app) certificateStorage(ctx context.Context) (certificates.Storage, error) {
	switch a.cfg.CertificateStorage {
	case "s3":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load aws config: %w", err)
		}
		return certificates.NewS3Storage(s3.NewFromConfig(awsCfg), a.cfg.CertificateBucket, a.cfg.CertificateDir), nil
	default:
		return certificates.NewDiskStorage(a.cfg.CertificateDir)
	}
}

func (a *app) service(ctx context.Context, publisher services.LeaderboardPublisher) (*services.Service, *auth.TokenService, error) {
	storage, err := a.certificateStorage(ctx)
	if err != nil {
		return nil, nil, err
	}

	tokens := auth.NewTokenService(a.cfg.JWTSecret, a.cfg.TokenTTL)
	issuer := certificates.NewIssuer(certificates.NewPDFRenderer(), storage, logrus.StandardLogger())

	svc := services.New(a.db, tokens, issuer, services.Options{
		AllowAdminSignup: a.cfg.AllowAdminSignup,
		Publisher:        publisher,
		Logger:           logrus.StandardLogger(),
	})
	return svc, tokens, nil
}
