package config

import (
	"context"

	"github.com/urfave/cli/v3"
	"github.com/ytclip/ytclip/pkg/domain/interfaces"
	"github.com/ytclip/ytclip/pkg/infra/gcs"
)

// Storage holds Cloud Storage configuration
type Storage struct {
	ProjectID       string
	CredentialsFile string
	Endpoint        string
}

// Flags returns CLI flags for Cloud Storage configuration
func (c *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gcp-project-id",
			Usage:       "Google Cloud project billed for storage requests",
			Destination: &c.ProjectID,
			Sources:     cli.EnvVars("YTCLIP_GCP_PROJECT_ID"),
		},
		&cli.StringFlag{
			Name:        "gcs-credentials-file",
			Usage:       "Service account key file (default: application default credentials)",
			Destination: &c.CredentialsFile,
			Sources:     cli.EnvVars("YTCLIP_GCS_CREDENTIALS_FILE"),
		},
		&cli.StringFlag{
			Name:        "gcs-endpoint",
			Usage:       "Cloud Storage endpoint override, e.g. an emulator",
			Destination: &c.Endpoint,
			Sources:     cli.EnvVars("YTCLIP_GCS_ENDPOINT"),
		},
	}
}

// Configure creates the Cloud Storage client
func (c *Storage) Configure(ctx context.Context) (interfaces.ObjectStorage, error) {
	var opts []gcs.Option
	if c.ProjectID != "" {
		opts = append(opts, gcs.WithProjectID(c.ProjectID))
	}
	if c.CredentialsFile != "" {
		opts = append(opts, gcs.WithCredentialsFile(c.CredentialsFile))
	}
	if c.Endpoint != "" {
		opts = append(opts, gcs.WithEndpoint(c.Endpoint))
	}
	return gcs.NewClient(ctx, opts...)
}
