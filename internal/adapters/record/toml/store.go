package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	"github.com/walink/whatsapp-link-cli/internal/domain"
	"github.com/walink/whatsapp-link-cli/internal/ports"
)

const (
	configName          = "config"
	configType          = "toml"
	instancesPathKey    = "instances.path"
	instancesFileMode   = 0o600
	instancesDirMode    = 0o700
	instancesConfigDir  = ".walink"
	instancesConfigFile = "instances.toml"
	tempFilePattern     = ".instances-*.toml.tmp"
)

// Store persists per-instance pairing records to a TOML file. It doubles as
// the controller's status sink and as the read model for `wl status` when the
// process holding the live session is gone.
type Store struct {
	instancesPath string
	mu            *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.StatusSink = (*Store)(nil)

func NewStore(cfg *viper.Viper) (*Store, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	defaultPath := filepath.Join(homeDir, instancesConfigDir, instancesConfigFile)

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(filepath.Join(homeDir, instancesConfigDir))
	cfg.SetDefault(instancesPathKey, defaultPath)

	err = cfg.ReadInConfig()
	if err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	instancesPath := cfg.GetString(instancesPathKey)
	if instancesPath == "" {
		return nil, errors.New("instances path is empty")
	}
	instancesPath, err = normalizeInstancesPath(instancesPath)
	if err != nil {
		return nil, err
	}

	return &Store{instancesPath: instancesPath, mu: lockForPath(instancesPath)}, nil
}

func (s *Store) RecordPhase(ctx context.Context, update ports.StatusUpdate) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.readSchema()
	if err != nil {
		return err
	}
	file.applyDefaults()

	encoded := toSchema(update)
	updated := false
	for i := range file.Instances {
		if file.Instances[i].ID == encoded.ID {
			file.Instances[i] = encoded
			updated = true
			break
		}
	}

	if !updated {
		file.Instances = append(file.Instances, encoded)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return s.writeSchema(file)
}

func (s *Store) Clear(ctx context.Context, id domain.InstanceID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.readSchema()
	if err != nil {
		return err
	}
	file.applyDefaults()

	kept := file.Instances[:0]
	for _, entry := range file.Instances {
		if entry.ID != string(id) {
			kept = append(kept, entry)
		}
	}
	if len(kept) == len(file.Instances) {
		return nil
	}
	file.Instances = kept

	return s.writeSchema(file)
}

// GetByID returns the last recorded state for an instance as a session
// snapshot. It carries no poll handle; the record is a trace of a past
// attempt, not a live one.
func (s *Store) GetByID(ctx context.Context, id domain.InstanceID) (domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return domain.Session{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	file, err := s.readSchema()
	if err != nil {
		return domain.Session{}, err
	}
	file.applyDefaults()

	for _, entry := range file.Instances {
		if entry.ID == string(id) {
			return fromSchema(entry), nil
		}
	}

	return domain.Session{}, domain.ErrRecordNotFound
}

func (s *Store) List(ctx context.Context) ([]domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	file, err := s.readSchema()
	if err != nil {
		return nil, err
	}
	file.applyDefaults()

	sessions := make([]domain.Session, 0, len(file.Instances))
	for _, entry := range file.Instances {
		sessions = append(sessions, fromSchema(entry))
	}

	return sessions, nil
}

func (s *Store) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(s.instancesPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileSchema{}, nil
		}
		return fileSchema{}, fmt.Errorf("read instances file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode instances file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func (s *Store) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(s.instancesPath), instancesDirMode); err != nil {
		return fmt.Errorf("create instances directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode instances file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(s.instancesPath), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp instances file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp instances file: %w", err)
	}

	if err := tempFile.Chmod(instancesFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp instances file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp instances file: %w", err)
	}

	if err := os.Rename(tempName, s.instancesPath); err != nil {
		return fmt.Errorf("replace instances file: %w", err)
	}

	cleanup = false

	if err := os.Chmod(s.instancesPath, instancesFileMode); err != nil {
		return fmt.Errorf("chmod instances file: %w", err)
	}

	return nil
}

func normalizeInstancesPath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve instances path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func toSchema(update ports.StatusUpdate) instanceSchema {
	entry := instanceSchema{
		ID:        string(update.InstanceID),
		Phase:     string(update.Phase),
		UpdatedAt: formatTime(update.At),
	}
	if update.Artifact != nil {
		entry.ArtifactType = string(update.Artifact.Type)
		entry.PairingCode = update.Artifact.PairingCode
	}
	if update.Identity != nil {
		entry.AccountNumber = update.Identity.AccountNumber
		entry.DisplayName = update.Identity.DisplayName
	}
	if update.Err != nil {
		entry.ErrorKind = string(update.Err.Kind)
		entry.ErrorMessage = update.Err.Message
	}
	return entry
}

func fromSchema(entry instanceSchema) domain.Session {
	session := domain.Session{
		InstanceID:   domain.InstanceID(entry.ID),
		Phase:        domain.Phase(entry.Phase),
		LastPolledAt: parseTime(entry.UpdatedAt),
	}
	if entry.ArtifactType != "" || entry.PairingCode != "" {
		artifactType := domain.ArtifactType(entry.ArtifactType)
		if artifactType == "" {
			artifactType = domain.ArtifactTypeCode
		}
		session.Artifact = &domain.Artifact{
			Type:        artifactType,
			PairingCode: entry.PairingCode,
		}
	}
	if entry.AccountNumber != "" || entry.DisplayName != "" {
		session.Identity = &domain.LinkedIdentity{
			AccountNumber: entry.AccountNumber,
			DisplayName:   entry.DisplayName,
		}
	}
	if entry.ErrorKind != "" || entry.ErrorMessage != "" {
		session.LastError = &domain.SessionError{
			Kind:    domain.ErrorKind(entry.ErrorKind),
			Message: entry.ErrorMessage,
		}
	}
	return session
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}

	return parsed
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}

	return value.Format(time.RFC3339)
}
