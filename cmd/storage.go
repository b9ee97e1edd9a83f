package cmd

import (
	"context"
	"fmt"
	"time"

	"transfer-relay/core/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for storage add
	backendRecord  storage.BackendRecord
	backendDisable bool
)

// storageCmd is the parent command for object store administration.
var storageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Manage object storage backends",
	Long: `Inspect and edit the object stores transfers are presigned against.
Rows in storage_backends are picked up by a running server on its next resolve.`,
}

var storageListCmd = &cobra.Command{
	Use:   "list",
	Short: "List backends stored in the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := bootstrap()
		if err != nil {
			return err
		}
		rows, err := d.backends.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			d.logger.Info("No backends stored in the database")
		}
		for _, row := range rows {
			d.logger.Info("Storage backend",
				zap.String("name", row.Name),
				zap.String("kind", row.Kind),
				zap.Int("priority", row.Priority),
				zap.Bool("enabled", row.Enabled),
				zap.String("endpoint", row.Endpoint),
				zap.String("bucket", row.Bucket))
		}
		return nil
	},
}

var storageProbeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Probe every configured backend and show which one is selected",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := bootstrap()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		statuses, err := d.registry.Report(ctx)
		if err != nil {
			return err
		}
		if len(statuses) == 0 {
			d.logger.Warn("No object storage configured, transfers use local storage",
				zap.String("local_path", d.local.BasePath()))
			return nil
		}
		for _, s := range statuses {
			d.logger.Info("Probed backend",
				zap.String("name", s.Name),
				zap.String("kind", string(s.Kind)),
				zap.Int("priority", s.Priority),
				zap.Bool("enabled", s.Enabled),
				zap.Bool("reachable", s.Reachable),
				zap.Bool("selected", s.Selected),
				zap.String("error", s.Error))
		}
		return nil
	},
}

var storageAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add or update a backend in the database",
	Long: `Adds a backend to storage_backends, or updates the row with the same name.

Examples:
  storage add --name minio --kind s3 --endpoint localhost:9000 --bucket transfers \
    --access-key minioadmin --secret-key minioadmin --path-style
  storage add --name oss-hz --kind oss --endpoint oss-cn-hangzhou.aliyuncs.com \
    --bucket replays --access-key AK --secret-key SK --use-ssl --priority 10`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := bootstrap()
		if err != nil {
			return err
		}
		record := backendRecord
		record.Enabled = !backendDisable

		// build the handle first so a typo never lands in the table
		if _, err := storage.New(record.Config()); err != nil {
			return fmt.Errorf("invalid backend: %w", err)
		}
		if err := d.backends.Save(cmd.Context(), &record); err != nil {
			return err
		}
		d.logger.Info("Storage backend saved", zap.String("name", record.Name), zap.Uint("id", record.ID))
		return nil
	},
}

func init() {
	f := storageAddCmd.Flags()
	f.StringVar(&backendRecord.Name, "name", "", "Unique backend name")
	f.StringVar(&backendRecord.Kind, "kind", "s3", "Backend kind (s3, oss, obs)")
	f.StringVar(&backendRecord.Driver, "driver", storage.DriverAWS, "S3 client implementation (aws, minio)")
	f.StringVar(&backendRecord.Endpoint, "endpoint", "", "Service endpoint")
	f.StringVar(&backendRecord.Region, "region", "", "Bucket region")
	f.StringVar(&backendRecord.Bucket, "bucket", "", "Bucket name")
	f.StringVar(&backendRecord.AccessKey, "access-key", "", "Access key ID")
	f.StringVar(&backendRecord.SecretKey, "secret-key", "", "Secret access key")
	f.BoolVar(&backendRecord.UseSSL, "use-ssl", false, "Use HTTPS")
	f.BoolVar(&backendRecord.PathStyle, "path-style", false, "Force path-style addressing")
	f.IntVar(&backendRecord.Priority, "priority", 0, "Lower values are tried first")
	f.IntVar(&backendRecord.TimeoutSeconds, "timeout", 30, "Connection timeout in seconds")
	f.BoolVar(&backendDisable, "disabled", false, "Store the backend disabled")
	_ = storageAddCmd.MarkFlagRequired("name")
	_ = storageAddCmd.MarkFlagRequired("bucket")

	storageCmd.AddCommand(storageListCmd, storageProbeCmd, storageAddCmd)
	RootCmd.AddCommand(storageCmd)
}
