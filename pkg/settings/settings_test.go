package settings_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/bookmarker/pkg/domain"
	"github.com/umputun/bookmarker/pkg/repository"
	"github.com/umputun/bookmarker/pkg/settings"
)

func setupRepo(t *testing.T) *repository.Repositories {
	t.Helper()
	repos, err := repository.NewRepositories(context.Background(), repository.Config{DSN: ":memory:", MaxOpenConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })
	return repos
}

func TestNormalizePolicy(t *testing.T) {
	tbl := []struct {
		name string
		kv   map[string]string
		want domain.FolderPolicy
	}{
		{"nothing stored", map[string]string{}, domain.FolderPolicyWeak},
		{"explicit policy", map[string]string{"folder_policy": "strong", "allow_new_folders": "false"}, domain.FolderPolicyStrong},
		{"invalid explicit falls through", map[string]string{"folder_policy": "bogus", "allow_new_folders": "medium"}, domain.FolderPolicyMedium},
		{"legacy string off", map[string]string{"allow_new_folders": "off"}, domain.FolderPolicyOff},
		{"legacy string strong", map[string]string{"allow_new_folders": "strong"}, domain.FolderPolicyStrong},
		{"legacy bool false", map[string]string{"allow_new_folders": "false", "folder_creation_level": "strong"}, domain.FolderPolicyOff},
		{"legacy bool true with level", map[string]string{"allow_new_folders": "true", "folder_creation_level": "medium"}, domain.FolderPolicyMedium},
		{"legacy bool true without level", map[string]string{"allow_new_folders": "true"}, domain.FolderPolicyWeak},
		{"legacy bool true with off level", map[string]string{"allow_new_folders": "true", "folder_creation_level": "off"}, domain.FolderPolicyWeak},
		{"legacy garbage", map[string]string{"allow_new_folders": "maybe"}, domain.FolderPolicyWeak},
	}
	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, settings.NormalizePolicy(tt.kv))
		})
	}
}

func TestLoader_LoadDefaults(t *testing.T) {
	l := settings.NewLoader(setupRepo(t).Setting)

	s, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Settings{
		Provider:      domain.ProviderConfig{ID: domain.ProviderDefault},
		FolderPolicy:  domain.FolderPolicyWeak,
		RenameEnabled: false,
		Language:      "zh_CN",
	}, s)
}

func TestLoader_LoadEndpointPerProvider(t *testing.T) {
	repos := setupRepo(t)
	ctx := context.Background()
	require.NoError(t, repos.Setting.ReplaceSettings(ctx, map[string]string{
		"llm_provider": "ollama", "model": "qwen2", "base_url": "https://proxy", "ollama_host": "http://box:11434",
		"enable_smart_rename": "true", "language": "en", "allow_new_folders": "false",
	}, nil))
	l := settings.NewLoader(repos.Setting)

	s, err := l.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ProviderConfig{ID: domain.ProviderOllama, Model: "qwen2", Endpoint: "http://box:11434"}, s.Provider)
	assert.True(t, s.RenameEnabled)
	assert.Equal(t, "en", s.Language)
	assert.Equal(t, domain.FolderPolicyOff, s.FolderPolicy)

	require.NoError(t, repos.Setting.SetSetting(ctx, "llm_provider", "chatgpt"))
	s, err = l.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://proxy", s.Provider.Endpoint)

	require.NoError(t, repos.Setting.SetSetting(ctx, "llm_provider", "deepseek"))
	s, err = l.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, s.Provider.Endpoint, "deepseek has no endpoint override")
}

func TestLoader_SaveRemovesLegacy(t *testing.T) {
	repos := setupRepo(t)
	ctx := context.Background()
	require.NoError(t, repos.Setting.ReplaceSettings(ctx, map[string]string{
		"allow_new_folders": "true", "folder_creation_level": "strong",
	}, nil))
	l := settings.NewLoader(repos.Setting)

	s, err := l.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.FolderPolicyStrong, s.FolderPolicy)

	s.Provider = domain.ProviderConfig{ID: domain.ProviderChatGPT, APIKey: "k", Endpoint: "https://api.example.com/v1"}
	require.NoError(t, l.Save(ctx, s))

	kv, err := repos.Setting.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "strong", kv["folder_policy"])
	assert.Equal(t, "https://api.example.com/v1", kv["base_url"])
	assert.NotContains(t, kv, "allow_new_folders")
	assert.NotContains(t, kv, "folder_creation_level")

	loaded, err := l.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, s, loaded)
}

func TestLoader_SaveValidation(t *testing.T) {
	l := settings.NewLoader(setupRepo(t).Setting)
	ctx := context.Background()

	err := l.Save(ctx, domain.Settings{Provider: domain.ProviderConfig{ID: "chrome-ai"}})
	assert.ErrorIs(t, err, settings.ErrInvalid)

	err = l.Save(ctx, domain.Settings{FolderPolicy: "aggressive"})
	assert.ErrorIs(t, err, settings.ErrInvalid)

	require.NoError(t, l.Save(ctx, domain.Settings{}))
	s, err := l.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ProviderDefault, s.Provider.ID)
	assert.Equal(t, domain.FolderPolicyWeak, s.FolderPolicy)
}

func TestLoader_StoreFailure(t *testing.T) {
	repos := setupRepo(t)
	require.NoError(t, repos.Close())
	_, err := settings.NewLoader(repos.Setting).Load(context.Background())
	require.Error(t, err)
}
