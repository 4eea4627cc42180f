package main

import (
	"fmt"
	"path/filepath"

	"github.com/aellingwood/darkroom/internal/config"
	"github.com/aellingwood/darkroom/internal/deploy"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Sync the gallery site to S3",
	Long: "Deploy uploads the gallery page and published photos to the " +
		"configured S3 bucket and invalidates CloudFront when a distribution " +
		"is set. Only changed files are transferred.",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Root().PersistentFlags().GetString("config")
		verbose, _ := cmd.Root().PersistentFlags().GetBool("verbose")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if cfg.Deploy.S3.Bucket == "" {
			return fmt.Errorf("deploy: no S3 bucket configured (set deploy.s3.bucket in %s)", configPath)
		}

		ctx := cmd.Context()

		var loadOpts []func(*awsconfig.LoadOptions) error
		if cfg.Deploy.S3.Region != "" {
			loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Deploy.S3.Region))
		}
		if cfg.Deploy.Profile != "" {
			loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(cfg.Deploy.Profile))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return fmt.Errorf("loading AWS config: %w", err)
		}

		s3Client := deploy.NewAWSS3Client(s3.NewFromConfig(awsCfg), cfg.Deploy.S3.Bucket)
		cfClient := deploy.NewAWSCloudFrontClient(cloudfront.NewFromConfig(awsCfg))

		// The input directory and the config file stay local.
		exclude := []string{cfg.Input, filepath.Base(configPath)}

		result, err := deploy.Sync(ctx, deploy.Config{
			Bucket:       cfg.Deploy.S3.Bucket,
			Region:       cfg.Deploy.S3.Region,
			Distribution: cfg.Deploy.CloudFront.DistributionID,
			DryRun:       dryRun,
			Verbose:      verbose,
		}, ".", exclude, s3Client, cfClient)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Deploy complete: %d uploaded, %d deleted, %d unchanged.\n",
			result.Uploaded, result.Deleted, result.Skipped)
		for _, e := range result.Errors {
			fmt.Fprintf(out, "error: %v\n", e)
		}
		if len(result.Errors) > 0 {
			return fmt.Errorf("deploy finished with %d error(s)", len(result.Errors))
		}
		return nil
	},
}

func init() {
	deployCmd.Flags().Bool("dry-run", false, "show what would be deployed without deploying")

	rootCmd.AddCommand(deployCmd)
}
