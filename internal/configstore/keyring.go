package configstore

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// Keyring stores values in the OS credential store under one service
// name. Values are capped by backend secret-size limits, which is fine
// for a small JSON config but makes this unsuitable as a general store.
type Keyring struct {
	service string
}

// NewKeyring creates a keyring-backed store.
func NewKeyring(service string) *Keyring {
	return &Keyring{service: service}
}

// Available probes whether an OS credential store is usable by performing
// a throwaway lookup.
func (k *Keyring) Available() bool {
	_, err := keyring.Get(k.service, "availability-probe")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}

func (k *Keyring) Get(key string) (string, error) {
	value, err := keyring.Get(k.service, key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrKeyNotFound
		}
		return "", fmt.Errorf("keyring get: %w", err)
	}
	return value, nil
}

func (k *Keyring) Put(key, value string) error {
	if err := keyring.Set(k.service, key, value); err != nil {
		return fmt.Errorf("keyring set: %w", err)
	}
	return nil
}

func (k *Keyring) Delete(key string) error {
	if err := keyring.Delete(k.service, key); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrKeyNotFound
		}
		return fmt.Errorf("keyring delete: %w", err)
	}
	return nil
}
