// Package secret keeps the daemon's RPC bearer token in the OS keyring,
// falling back to an owner-only file when no keyring is available.
package secret

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/warpdl/warpremind/common"
	"github.com/zalando/go-keyring"
)

const (
	service      = "warpremind"
	account      = "rpc"
	fileName     = "rpc.secret"
	fileMode     = 0600
	secretLength = 32
)

// ErrNotFound is returned by Load when no secret exists anywhere.
var ErrNotFound = errors.New("rpc secret not found")

var (
	keyringSet    = keyring.Set
	keyringGet    = keyring.Get
	keyringDelete = keyring.Delete
	randRead      = rand.Read
)

// Store resolves the RPC secret. The environment variable wins over the
// keyring, which wins over the fallback file.
type Store struct {
	dir string
}

// New creates a Store whose fallback file lives in dir.
func New(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) path() string {
	return filepath.Join(s.dir, fileName)
}

// Load returns the existing secret.
func (s *Store) Load() (string, error) {
	if v := os.Getenv(common.RPCSecretEnv); v != "" {
		return v, nil
	}
	if v, err := keyringGet(service, account); err == nil && v != "" {
		return v, nil
	}
	data, err := os.ReadFile(s.path())
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("read secret file: %w", err)
	}
	v := strings.TrimSpace(string(data))
	if v == "" {
		return "", ErrNotFound
	}
	return v, nil
}

// LoadOrCreate returns the existing secret or generates a new one, stored
// in the keyring if possible and in the fallback file otherwise.
func (s *Store) LoadOrCreate() (string, error) {
	v, err := s.Load()
	if err == nil || !errors.Is(err, ErrNotFound) {
		return v, err
	}
	b := make([]byte, secretLength)
	if _, err := randRead(b); err != nil {
		return "", fmt.Errorf("generate secret: %w", err)
	}
	v = hex.EncodeToString(b)
	if err := keyringSet(service, account, v); err == nil {
		return v, nil
	}
	if err := s.writeFile(v); err != nil {
		return "", err
	}
	return v, nil
}

// Delete removes the secret from the keyring and the fallback file.
func (s *Store) Delete() error {
	var errs []error
	if err := keyringDelete(service, account); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		errs = append(errs, err)
	}
	if err := os.Remove(s.path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// writeFile stores v atomically: temp file, chmod, rename.
func (s *Store) writeFile(v string) error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	tmp, err := os.CreateTemp(s.dir, ".rpc.secret.tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.WriteString(v); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write secret: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, fileMode); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, s.path()); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename secret file: %w", err)
	}
	return nil
}
