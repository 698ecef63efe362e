package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/go-video-drop/internal/config"
	s3infra "github.com/go-video-drop/internal/infrastructure/s3"
	"github.com/go-video-drop/internal/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "setup-cors",
	Short: "Apply the browser upload CORS rule to the configured bucket",
	Long: `setup-cors writes a CORS rule to S3_BUCKET_NAME that lets browsers PUT
directly to presigned URLs, then prints the rule now stored on the bucket.

Origins come from --origin or STORAGE_CORS_ORIGINS.`,
	SilenceUsage: true,
	RunE:         runSetupCORS,
}

func init() {
	rootCmd.Flags().StringSlice("origin", nil, "allowed origin (repeatable)")
	rootCmd.Flags().Bool("dry-run", false, "print the rule without applying it")
}

func runSetupCORS(cmd *cobra.Command, _ []string) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New("setup-cors", cfg.LogLevel)

	origins, _ := cmd.Flags().GetStringSlice("origin")
	if len(origins) == 0 {
		origins = cfg.StorageCORSOrigins
	}
	if len(origins) == 0 {
		return errors.New("no origins given")
	}
	rule := s3infra.UploadCORSRule(origins)

	if dry, _ := cmd.Flags().GetBool("dry-run"); dry {
		return printRules(cmd, []s3infra.CORSRule{rule})
	}
	if !cfg.StorageConfigured() {
		return errors.New("S3_BUCKET_NAME, AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set")
	}

	ctx := cmd.Context()
	client, err := s3infra.NewClient(ctx, cfg)
	if err != nil {
		return err
	}
	store := s3infra.NewStore(client, cfg.S3BucketName)
	if err := store.ApplyCORS(ctx, rule); err != nil {
		return err
	}
	log.Info().Str("bucket", cfg.S3BucketName).Strs("origins", origins).Msg("CORS configuration applied")

	current, err := store.CORS(ctx)
	if err != nil {
		return err
	}
	return printRules(cmd, current)
}

func printRules(cmd *cobra.Command, rules []s3infra.CORSRule) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(rules)
}
