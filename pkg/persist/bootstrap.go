package persist

import (
	"context"

	"github.com/matsight/matsight/pkg/artifact"
	"github.com/matsight/matsight/pkg/config"
	"github.com/matsight/matsight/pkg/kv"
	"github.com/matsight/matsight/pkg/mlog"
	"github.com/matsight/matsight/pkg/record"
)

// Bootstrap builds the storage clients once at process start. Any
// backend failure is logged and yields a degraded (unavailable)
// pipeline instead of refusing to start: domain endpoints keep working
// without persistence.
func Bootstrap(ctx context.Context, cfg *config.EnvConfig, log *mlog.Logger) *Pipeline {
	if log == nil {
		log = mlog.NewDefault()
	}

	store, err := artifact.NewS3Store(artifact.S3Config{
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Bucket:    cfg.S3BucketName,
		Region:    cfg.S3Region,
		UseSSL:    cfg.S3UseSSL,
	})
	if err != nil {
		log.Warn("object store unavailable, persistence disabled", "error", err)
		return New(nil, nil, log)
	}

	if err := store.EnsureBucket(ctx); err != nil {
		log.Warn("bucket not accessible, persistence disabled", "bucket", cfg.S3BucketName, "error", err)
		return New(nil, nil, log)
	}

	kvStore, err := kv.NewValkeyStore(kv.ValkeyConfig{
		Addr:     cfg.ValkeyAddr,
		Password: cfg.ValkeyPassword,
		DB:       cfg.ValkeyDB,
	})
	if err != nil {
		log.Warn("key-value table unavailable, persistence disabled", "addr", cfg.ValkeyAddr, "error", err)
		return New(nil, nil, log)
	}

	log.Info("storage backends ready", "bucket", cfg.S3BucketName, "table", cfg.TableName)
	return New(store, record.NewRecorder(kvStore, cfg.TableName), log)
}
