package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version   int              `toml:"version"`
	Instances []instanceSchema `toml:"instances"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported instances schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

// instanceSchema records the last observed phase per instance. The qr image
// payload is deliberately absent: it is large, short-lived, and useless after
// the attempt ends, so only the human-readable pairing code survives.
type instanceSchema struct {
	ID            string `toml:"id"`
	Phase         string `toml:"phase"`
	ArtifactType  string `toml:"artifact_type,omitempty"`
	PairingCode   string `toml:"pairing_code,omitempty"`
	AccountNumber string `toml:"account_number,omitempty"`
	DisplayName   string `toml:"display_name,omitempty"`
	ErrorKind     string `toml:"error_kind,omitempty"`
	ErrorMessage  string `toml:"error_message,omitempty"`
	UpdatedAt     string `toml:"updated_at,omitempty"`
}
