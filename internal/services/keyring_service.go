package services

import (
	"errors"
	"strings"

	"github.com/zalando/go-keyring"
)

const keyringServiceName = "termlens"

// Keyring slots for the two endpoint credentials.
const (
	QueryKeySlot    = "query-api"
	CategoryKeySlot = "category-api"
)

type KeyringService struct {
}

func NewKeyringService() *KeyringService {
	return &KeyringService{}
}

// StoreAPIKey writes the key for a slot. An empty key clears the slot.
func (s *KeyringService) StoreAPIKey(slot string, apiKey string) error {
	if strings.TrimSpace(slot) == "" {
		return errors.New("slot is required")
	}
	if apiKey == "" {
		if err := keyring.Delete(keyringServiceName, slot); err != nil && !errors.Is(err, keyring.ErrNotFound) {
			return err
		}
		return nil
	}
	return keyring.Set(keyringServiceName, slot, apiKey)
}

// GetAPIKey returns the stored key for a slot, or empty when none is stored.
func (s *KeyringService) GetAPIKey(slot string) (string, error) {
	if strings.TrimSpace(slot) == "" {
		return "", errors.New("slot is required")
	}
	secret, err := keyring.Get(keyringServiceName, slot)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return secret, nil
}

func (s *KeyringService) DeleteAPIKey(slot string) error {
	if strings.TrimSpace(slot) == "" {
		return errors.New("slot is required")
	}
	err := keyring.Delete(keyringServiceName, slot)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
