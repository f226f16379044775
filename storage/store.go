package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"

	"github.com/joliciel-informatique/talismane-sub002/util/logger"
)

const (
	STORE_FILE  = "file"
	STORE_S3    = "s3"
	STORE_REDIS = "redis"
)

var ErrNotFound = errors.New("key not found in store")

var storeLogger = logger.NewLogger("Storage")

// Store keeps opaque model blobs (constrainers, weight vectors) by key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
}

type Config struct {
	Kind string `envconfig:"PARSER_STORE" default:"file"`
	Dir  string `envconfig:"PARSER_STORE_DIR" default:"."`
}

func ReadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func NewStore(cfg *Config) (Store, error) {
	switch cfg.Kind {
	case STORE_FILE, "":
		return NewFileStore(cfg.Dir), nil
	case STORE_S3:
		return NewS3Store()
	case STORE_REDIS:
		return NewRedisStore()
	}
	return nil, fmt.Errorf("unknown store kind %q", cfg.Kind)
}

// FileStore keeps each key as a file under Dir.
type FileStore struct {
	Dir string
}

var _ Store = &FileStore{}

func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.Dir, filepath.FromSlash(key))
}

func (s *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return data, err
}

// Put writes through a temporary file so readers never see a partial blob.
func (s *FileStore) Put(ctx context.Context, key string, data []byte) error {
	path := s.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	storeLogger.Debug().Str("key", key).Int("bytes", len(data)).Msg("Stored blob")
	return nil
}
