package commands

import (
	"context"
	"fmt"

	"github.com/printpath/printpath/internal/config"
	"github.com/printpath/printpath/pkg/errors"
	"github.com/printpath/printpath/pkg/storage"
	"github.com/spf13/cobra"
)

var remotePrefix string

var remoteCmd = &cobra.Command{
	Use:   "remote",
	Short: "List G-code files available in the configured S3 bucket",
	RunE:  runRemote,
}

func init() {
	rootCmd.AddCommand(remoteCmd)
	remoteCmd.Flags().StringVar(&remotePrefix, "prefix", "", "Only list keys under this prefix")
}

func runRemote(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "config load failed")
	}
	if cfg.S3Bucket == "" {
		return fmt.Errorf("s3-bucket must be set")
	}

	s3Client, err := storage.NewClient(ctx, cfg.S3Bucket, cfg.S3Region)
	if err != nil {
		return errors.Wrap(err, "S3 client failed")
	}

	keys, err := s3Client.ListGcode(ctx, remotePrefix)
	if err != nil {
		return errors.Wrap(err, "list failed")
	}

	if len(keys) == 0 {
		fmt.Println("No G-code files found")
		return nil
	}

	for _, key := range keys {
		fmt.Println(key)
	}

	return nil
}
