// Package settings loads user settings from the key-value store and normalizes legacy shapes.
package settings

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/umputun/bookmarker/pkg/domain"
)

// ErrInvalid is returned by Save for settings which can't be stored
var ErrInvalid = errors.New("invalid settings")

// DefaultLanguage is used when nothing is stored
const DefaultLanguage = "zh_CN"

// Store is the key-value settings storage
type Store interface {
	GetSettings(ctx context.Context) (map[string]string, error)
	ReplaceSettings(ctx context.Context, values map[string]string, deleteKeys []string) error
}

// Loader reads and writes normalized settings
type Loader struct {
	store Store
}

// NewLoader makes a loader on top of store
func NewLoader(store Store) *Loader {
	return &Loader{store: store}
}

// Load reads settings fresh from the store, callers must not cache the result
func (l *Loader) Load(ctx context.Context) (domain.Settings, error) {
	kv, err := l.store.GetSettings(ctx)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("load settings: %w", err)
	}

	res := domain.Settings{
		Provider: domain.ProviderConfig{
			ID:     domain.ProviderID(strings.TrimSpace(kv[domain.SettingProvider])),
			APIKey: strings.TrimSpace(kv[domain.SettingAPIKey]),
			Model:  strings.TrimSpace(kv[domain.SettingModel]),
		},
		FolderPolicy: NormalizePolicy(kv),
		Language:     strings.TrimSpace(kv[domain.SettingLanguage]),
	}
	if res.Provider.ID == "" {
		res.Provider.ID = domain.ProviderDefault
	}
	if key := endpointKey(res.Provider.ID); key != "" {
		res.Provider.Endpoint = strings.TrimSpace(kv[key])
	}
	if res.Language == "" {
		res.Language = DefaultLanguage
	}
	if v, err := strconv.ParseBool(kv[domain.SettingSmartRename]); err == nil {
		res.RenameEnabled = v
	}
	return res, nil
}

// Save validates and stores s in the current shape, legacy folder keys are removed
func (l *Loader) Save(ctx context.Context, s domain.Settings) error {
	if s.Provider.ID == "" {
		s.Provider.ID = domain.ProviderDefault
	}
	if !s.Provider.ID.Valid() {
		return fmt.Errorf("%w: unknown provider %q", ErrInvalid, s.Provider.ID)
	}
	if s.FolderPolicy == "" {
		s.FolderPolicy = domain.FolderPolicyWeak
	}
	if !s.FolderPolicy.Valid() {
		return fmt.Errorf("%w: unknown folder policy %q", ErrInvalid, s.FolderPolicy)
	}
	if s.Language == "" {
		s.Language = DefaultLanguage
	}

	values := map[string]string{
		domain.SettingProvider:     string(s.Provider.ID),
		domain.SettingAPIKey:       s.Provider.APIKey,
		domain.SettingModel:        s.Provider.Model,
		domain.SettingFolderPolicy: string(s.FolderPolicy),
		domain.SettingSmartRename:  strconv.FormatBool(s.RenameEnabled),
		domain.SettingLanguage:     s.Language,
	}
	if key := endpointKey(s.Provider.ID); key != "" {
		values[key] = s.Provider.Endpoint
	}

	legacy := []string{domain.SettingAllowNewFolders, domain.SettingFolderCreationLevel}
	if err := l.store.ReplaceSettings(ctx, values, legacy); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// NormalizePolicy maps every stored folder policy shape to the policy enum:
// explicit folder_policy, legacy allow_new_folders holding a policy name,
// legacy boolean allow_new_folders with optional folder_creation_level, or nothing (weak).
func NormalizePolicy(kv map[string]string) domain.FolderPolicy {
	if p := domain.FolderPolicy(strings.TrimSpace(kv[domain.SettingFolderPolicy])); p.Valid() {
		return p
	}

	legacy, ok := kv[domain.SettingAllowNewFolders]
	if !ok {
		return domain.FolderPolicyWeak
	}
	legacy = strings.ToLower(strings.TrimSpace(legacy))
	if p := domain.FolderPolicy(legacy); p.Valid() {
		return p
	}
	allow, err := strconv.ParseBool(legacy)
	if err != nil {
		return domain.FolderPolicyWeak
	}
	if !allow {
		return domain.FolderPolicyOff
	}
	level := domain.FolderPolicy(strings.TrimSpace(kv[domain.SettingFolderCreationLevel]))
	if level.Valid() && level != domain.FolderPolicyOff {
		return level
	}
	return domain.FolderPolicyWeak
}

// endpointKey returns the settings key holding the endpoint override of id, if it has one
func endpointKey(id domain.ProviderID) string {
	switch id {
	case domain.ProviderChatGPT:
		return domain.SettingBaseURL
	case domain.ProviderOllama:
		return domain.SettingOllamaHost
	default:
		return ""
	}
}
