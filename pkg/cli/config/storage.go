package config

import (
	"context"

	"github.com/fieldline-hq/fieldline/pkg/domain/interfaces"
	"github.com/fieldline-hq/fieldline/pkg/service/storage"
	"github.com/fieldline-hq/fieldline/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Storage holds CLI flags for signature image storage
type Storage struct {
	gcsBucket string
	gcsPrefix string
	localDir  string
}

// Flags returns CLI flags for storage configuration
func (s *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "signature-gcs-bucket",
			Usage:       "GCS bucket for signature images",
			Sources:     cli.EnvVars("FIELDLINE_SIGNATURE_GCS_BUCKET"),
			Destination: &s.gcsBucket,
		},
		&cli.StringFlag{
			Name:        "signature-gcs-prefix",
			Usage:       "Object name prefix within the GCS bucket",
			Sources:     cli.EnvVars("FIELDLINE_SIGNATURE_GCS_PREFIX"),
			Destination: &s.gcsPrefix,
		},
		&cli.StringFlag{
			Name:        "signature-local-dir",
			Usage:       "Local directory for signature images (development only)",
			Sources:     cli.EnvVars("FIELDLINE_SIGNATURE_LOCAL_DIR"),
			Destination: &s.localDir,
		},
	}
}

// Configure builds the signature store. Returns nil when not configured.
func (s *Storage) Configure(ctx context.Context) (interfaces.SignatureStore, error) {
	if s.gcsBucket != "" && s.localDir != "" {
		return nil, goerr.New("signature-gcs-bucket and signature-local-dir are mutually exclusive")
	}

	if s.gcsBucket != "" {
		store, err := storage.NewGCS(ctx, s.gcsBucket, s.gcsPrefix)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize GCS signature store")
		}
		logging.Default().Info("GCS signature storage enabled", "bucket", s.gcsBucket)
		return store, nil
	}

	if s.localDir != "" {
		store, err := storage.NewLocal(s.localDir)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize local signature store")
		}
		logging.Default().Info("Local signature storage enabled", "dir", s.localDir)
		return store, nil
	}

	return nil, nil
}
