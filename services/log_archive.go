package services

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"commitrack_go/config"
	"commitrack_go/database"
	"commitrack_go/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// LogArchiveService flushes Redis-cached activity logs to the database and
// moves old activity and sweep logs out to S3 as zip archives.
type LogArchiveService struct {
	redisClient *redis.Client
	awsConfig   aws.Config
}

// archiveEntry is the exported representation stored inside archives.
type archiveEntry struct {
	Kind      string          `json:"kind"` // activity, sweep
	CreatedAt time.Time       `json:"created_at"`
	Record    json.RawMessage `json:"record"`
}

// NewLogArchiveService creates a new service instance.
func NewLogArchiveService() *LogArchiveService {
	cfg, err := awscfg.LoadDefaultConfig(context.Background(),
		awscfg.WithRegion(config.AppConfig.AWSRegion))
	if err != nil {
		logrus.WithError(err).Warn("Failed to load AWS config; S3 operations will fail until configured")
	}

	return &LogArchiveService{
		redisClient: database.GetRedisClient(),
		awsConfig:   cfg,
	}
}

// FlushCachedLogsToDatabase moves activity logs from the Redis write-behind
// cache into the database.
func (las *LogArchiveService) FlushCachedLogsToDatabase() error {
	if las.redisClient == nil {
		return fmt.Errorf("redis client not available")
	}

	ctx := context.Background()
	cutoff := time.Now().Add(-1 * time.Hour)

	keys, err := las.redisClient.ZRangeByScore(ctx, "activity:queue", &redis.ZRangeBy{
		Min: "0",
		Max: fmt.Sprintf("%d", cutoff.Unix()),
	}).Result()
	if err != nil {
		return fmt.Errorf("failed to read activity queue: %v", err)
	}

	var flushed, failed int
	for _, key := range keys {
		payload, err := las.redisClient.Get(ctx, key).Result()
		if err != nil {
			if err != redis.Nil {
				logrus.WithError(err).Errorf("Failed to read cached activity log %s", key)
				failed++
			}
			continue
		}

		var entry models.ActivityLog
		if err := json.Unmarshal([]byte(payload), &entry); err != nil {
			logrus.WithError(err).Errorf("Failed to decode cached activity log %s", key)
			failed++
			continue
		}

		if err := database.DB.Create(&entry).Error; err != nil {
			logrus.WithError(err).Error("Failed to persist cached activity log")
			failed++
			continue
		}

		pipe := las.redisClient.Pipeline()
		pipe.Del(ctx, key)
		pipe.ZRem(ctx, "activity:queue", key)
		if _, err := pipe.Exec(ctx); err != nil {
			logrus.WithError(err).Errorf("Failed to remove flushed log %s from cache", key)
		}
		flushed++
	}

	if flushed > 0 || failed > 0 {
		logrus.Infof("Flushed %d cached activity logs to database, %d errors", flushed, failed)
	}
	return nil
}

// ArchiveOldLogs zips activity logs and sweep logs older than daysOld, uploads
// the archive to S3 and deletes the archived rows.
func (las *LogArchiveService) ArchiveOldLogs(daysOld int) error {
	if daysOld < 7 {
		return fmt.Errorf("minimum archive age is 7 days for safety")
	}

	cutoff := time.Now().AddDate(0, 0, -daysOld)
	var entries []archiveEntry

	var activity []models.ActivityLog
	if err := database.DB.Where("created_at < ?", cutoff).Find(&activity).Error; err != nil {
		return fmt.Errorf("failed to fetch activity logs for archiving: %v", err)
	}
	for _, a := range activity {
		raw, err := json.Marshal(a)
		if err != nil {
			continue
		}
		entries = append(entries, archiveEntry{Kind: "activity", CreatedAt: a.CreatedAt, Record: raw})
	}

	var sweeps []models.SweepLog
	if err := database.DB.Where("created_at < ?", cutoff).Find(&sweeps).Error; err != nil {
		return fmt.Errorf("failed to fetch sweep logs for archiving: %v", err)
	}
	for _, s := range sweeps {
		raw, err := json.Marshal(s)
		if err != nil {
			continue
		}
		entries = append(entries, archiveEntry{Kind: "sweep", CreatedAt: s.CreatedAt, Record: raw})
	}

	if len(entries) == 0 {
		logrus.Info("No logs to archive")
		return nil
	}
	logrus.Infof("Archiving %d log entries older than %s", len(entries), cutoff.Format("2006-01-02"))

	fileName := fmt.Sprintf("logs_%s.zip", cutoff.Format("2006-01-02"))
	buf, err := las.buildArchive(entries, fileName)
	if err != nil {
		return fmt.Errorf("failed to build archive: %v", err)
	}

	s3Key := fmt.Sprintf("logs/archived/%d/%02d/%s", cutoff.Year(), cutoff.Month(), fileName)
	if err := las.uploadToS3(s3Key, buf); err != nil {
		return fmt.Errorf("failed to upload archive to S3: %v", err)
	}
	logrus.Infof("Uploaded archive to S3: %s", s3Key)

	if err := database.DB.Unscoped().Where("created_at < ?", cutoff).Delete(&models.ActivityLog{}).Error; err != nil {
		return fmt.Errorf("failed to delete archived activity logs: %v", err)
	}
	if err := database.DB.Unscoped().Where("created_at < ?", cutoff).Delete(&models.SweepLog{}).Error; err != nil {
		return fmt.Errorf("failed to delete archived sweep logs: %v", err)
	}

	meta := models.LogArchive{
		FileName:    fileName,
		S3Key:       s3Key,
		StartDate:   entries[0].CreatedAt,
		EndDate:     cutoff,
		RecordCount: len(entries),
		FileSize:    int64(buf.Len()),
		Status:      "completed",
	}
	if err := database.DB.Create(&meta).Error; err != nil {
		logrus.WithError(err).Error("Failed to save archive metadata")
	}

	return nil
}

// buildArchive writes the entries into a zip with a JSON payload plus metadata.
func (las *LogArchiveService) buildArchive(entries []archiveEntry, fileName string) (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)

	payload, err := zw.Create("logs.json")
	if err != nil {
		return nil, err
	}
	enc := json.NewEncoder(payload)
	enc.SetIndent("", "  ")
	if err := enc.Encode(map[string]any{
		"export_date":  time.Now().UTC(),
		"record_count": len(entries),
		"entries":      entries,
	}); err != nil {
		return nil, err
	}

	metaFile, err := zw.Create("metadata.json")
	if err != nil {
		return nil, err
	}
	if err := json.NewEncoder(metaFile).Encode(map[string]any{
		"file_name":    fileName,
		"created_at":   time.Now().UTC(),
		"record_count": len(entries),
		"description":  "CommiTrack activity and sweep log archive",
	}); err != nil {
		return nil, err
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf, nil
}

// uploadToS3 uploads data to the configured archive bucket.
func (las *LogArchiveService) uploadToS3(key string, data *bytes.Buffer) error {
	if las.awsConfig.Region == "" {
		return fmt.Errorf("AWS not configured")
	}

	client := s3.NewFromConfig(las.awsConfig)
	bucket := config.AppConfig.S3BucketName

	_, err := client.PutObject(context.Background(), &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(data.Bytes()),
		ContentType: aws.String("application/zip"),
	})
	return err
}

// GetArchives lists recorded archive files, newest first.
func (las *LogArchiveService) GetArchives() ([]models.LogArchive, error) {
	var archives []models.LogArchive
	if err := database.DB.Order("created_at DESC").Find(&archives).Error; err != nil {
		return nil, fmt.Errorf("failed to list archives: %v", err)
	}
	return archives, nil
}

// StartLogMaintenanceScheduler runs flush and archive on an hourly cycle.
func (las *LogArchiveService) StartLogMaintenanceScheduler() {
	go func() {
		if err := las.FlushCachedLogsToDatabase(); err != nil {
			logrus.WithError(err).Warn("initial FlushCachedLogsToDatabase failed")
		}
		if err := las.ArchiveOldLogs(30); err != nil {
			logrus.WithError(err).Warn("initial ArchiveOldLogs failed")
		}

		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if err := las.FlushCachedLogsToDatabase(); err != nil {
				logrus.WithError(err).Warn("periodic FlushCachedLogsToDatabase failed")
			}
			if err := las.ArchiveOldLogs(30); err != nil {
				logrus.WithError(err).Warn("periodic ArchiveOldLogs failed")
			}
		}
	}()
}
