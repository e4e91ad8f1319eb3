// Package backup uploads the flat-file collections to S3-compatible
// storage. The store rewrites whole files with no journal, so periodic
// offsite copies are the only recovery path for a lost data directory.
package backup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// collectionFiles are the flat files a backup run covers. A file that
// does not exist yet is simply skipped.
var collectionFiles = []string{"users.json", "notes.json"}

// s3Client is the slice of the S3 API the manager uses, as an interface
// for testability.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Config holds S3-compatible storage configuration.
type S3Config struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
}

// Config holds backup manager configuration.
type Config struct {
	S3       S3Config
	DataDir  string
	Interval time.Duration
}

type State string

const (
	StateIdle     State = "idle"
	StateRunning  State = "running"
	StateDisabled State = "disabled"
	StateError    State = "error"
)

// Status is the manager's last known state.
type Status struct {
	State      State      `json:"state"`
	LastBackup *time.Time `json:"last_backup,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// Manager runs interval and on-demand backups of the data directory.
type Manager struct {
	mu     sync.RWMutex
	cfg    Config
	status Status
	client s3Client
	logger *slog.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

// NewManager creates a manager. It stays disabled unless a bucket and
// credentials are configured.
func NewManager(cfg Config, logger *slog.Logger) *Manager {
	m := &Manager{
		cfg:    cfg,
		status: Status{State: StateDisabled},
		logger: logger,
	}
	if cfg.S3.Bucket != "" && cfg.S3.AccessKey != "" && cfg.S3.SecretKey != "" {
		m.client = newS3Client(cfg.S3)
		m.status.State = StateIdle
	}
	return m
}

func newS3Client(cfg S3Config) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

// Enabled reports whether the manager has a configured destination.
func (m *Manager) Enabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.client != nil
}

// Status returns the current status snapshot.
func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// Start launches the interval loop. It is a no-op when the manager is
// disabled or no interval is configured.
func (m *Manager) Start(ctx context.Context) {
	if !m.Enabled() || m.cfg.Interval <= 0 {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.done = make(chan struct{})

	go func() {
		defer close(m.done)
		ticker := time.NewTicker(m.cfg.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := m.BackupNow(ctx); err != nil {
					m.logger.Error("scheduled backup", "error", err)
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop cancels the interval loop and waits for it to exit.
func (m *Manager) Stop() {
	if m.cancel != nil {
		m.cancel()
		<-m.done
	}
}

// BackupNow uploads every collection file under a timestamped prefix.
func (m *Manager) BackupNow(ctx context.Context) error {
	m.mu.Lock()
	if m.client == nil {
		m.mu.Unlock()
		return errors.New("backup is not configured")
	}
	if m.status.State == StateRunning {
		m.mu.Unlock()
		return errors.New("backup already in progress")
	}
	m.status.State = StateRunning
	client := m.client
	m.mu.Unlock()

	prefix := "flatnote/" + time.Now().UTC().Format("20060102T150405Z")
	err := m.upload(ctx, client, prefix)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.status.State = StateError
		m.status.Error = err.Error()
		return err
	}
	now := time.Now().UTC()
	m.status = Status{State: StateIdle, LastBackup: &now}
	m.logger.Info("backup complete", "prefix", prefix)
	return nil
}

func (m *Manager) upload(ctx context.Context, client s3Client, prefix string) error {
	for _, name := range collectionFiles {
		data, err := os.ReadFile(filepath.Join(m.cfg.DataDir, name))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}

		key := path.Join(prefix, name)
		_, err = client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(m.cfg.S3.Bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(data),
			ContentType: aws.String("application/json"),
		})
		if err != nil {
			return fmt.Errorf("upload %s: %w", key, err)
		}
	}
	return nil
}
