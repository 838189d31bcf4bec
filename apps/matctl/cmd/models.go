package cmd

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsight/matsight/apps/matctl/internal/cliconfig"
	"github.com/matsight/matsight/pkg/artifact"
)

// storeFromConfig builds the object-store client from the CLI config.
func storeFromConfig(cmd *cobra.Command) (*artifact.S3Store, error) {
	cfg, err := GetConfig(cmd)
	if err != nil {
		return nil, err
	}

	if cfg.S3.AccessKey == "" || cfg.S3.SecretKey == "" {
		return nil, fmt.Errorf("s3.accessKey and s3.secretKey must be set (config file or %s_S3_ACCESSKEY / %s_S3_SECRETKEY)", cliconfig.EnvPrefix, cliconfig.EnvPrefix)
	}

	return artifact.NewS3Store(artifact.S3Config{
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		Bucket:    cfg.S3.Bucket,
		Region:    cfg.S3.Region,
		UseSSL:    cfg.S3.UseSSL,
	})
}

func contentTypeFor(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

var uploadModelsCmd = &cobra.Command{
	Use:   "upload-models <dir>",
	Short: "Upload model weights from a local directory to the object store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		store, err := storeFromConfig(cmd)
		if err != nil {
			return err
		}
		if err := store.CheckBucket(ctx); err != nil {
			return fmt.Errorf("bucket not accessible: %w", err)
		}

		dir := args[0]
		entries, err := os.ReadDir(dir)
		if err != nil {
			return fmt.Errorf("reading model directory: %w", err)
		}

		uploaded := 0
		for _, entry := range entries {
			if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
				continue
			}

			path := filepath.Join(dir, entry.Name())
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("opening %s: %w", path, err)
			}
			info, err := f.Stat()
			if err != nil {
				f.Close()
				return fmt.Errorf("stat %s: %w", path, err)
			}

			key := artifact.ModelKey(entry.Name())
			art, err := store.Upload(ctx, key, f, info.Size(), contentTypeFor(entry.Name()))
			f.Close()
			if err != nil {
				return fmt.Errorf("uploading %s: %w", entry.Name(), err)
			}

			cmd.Printf("⬆ %s (%d bytes) -> %s\n", entry.Name(), art.Size, art.Key)
			uploaded++
		}

		if uploaded == 0 {
			return fmt.Errorf("no model files found in %s", dir)
		}
		cmd.Printf("✓ uploaded %d model file(s)\n", uploaded)
		return nil
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "List the model files deployed in the object store",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		store, err := storeFromConfig(cmd)
		if err != nil {
			return err
		}
		if err := store.CheckBucket(ctx); err != nil {
			return fmt.Errorf("bucket not accessible: %w", err)
		}

		models, err := store.List(ctx, artifact.ModelPrefix)
		if err != nil {
			return fmt.Errorf("listing models: %w", err)
		}
		if len(models) == 0 {
			return fmt.Errorf("no model files under %s", artifact.ModelPrefix)
		}

		for _, m := range models {
			cmd.Printf("  %s  %d bytes  %s\n", m.Key, m.Size, m.LastModified.Format("2006-01-02 15:04:05"))
		}
		cmd.Printf("✓ %d model file(s) deployed\n", len(models))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(uploadModelsCmd)
	rootCmd.AddCommand(verifyCmd)
}
