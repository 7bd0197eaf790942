package domain

// setting keys of the user-editable key-value store
const (
	SettingProvider            = "llm_provider"
	SettingAPIKey              = "api_key"
	SettingModel               = "model"
	SettingBaseURL             = "base_url"
	SettingOllamaHost          = "ollama_host"
	SettingFolderPolicy        = "folder_policy"
	SettingAllowNewFolders     = "allow_new_folders"     // legacy, bool or policy string
	SettingFolderCreationLevel = "folder_creation_level" // legacy, paired with allow_new_folders
	SettingSmartRename         = "enable_smart_rename"
	SettingLanguage            = "language"
)

// ProviderID identifies a classification backend
type ProviderID string

// supported providers
const (
	ProviderDefault   ProviderID = "default"
	ProviderDeepSeek  ProviderID = "deepseek"
	ProviderChatGPT   ProviderID = "chatgpt"
	ProviderGemini    ProviderID = "gemini"
	ProviderOllama    ProviderID = "ollama"
	ProviderDoubao    ProviderID = "doubao"
	ProviderAnthropic ProviderID = "anthropic"
)

// Valid checks id is one of supported providers
func (id ProviderID) Valid() bool {
	switch id {
	case ProviderDefault, ProviderDeepSeek, ProviderChatGPT, ProviderGemini, ProviderOllama, ProviderDoubao, ProviderAnthropic:
		return true
	}
	return false
}

// ProviderConfig selects and parametrizes a classification backend
type ProviderConfig struct {
	ID       ProviderID `json:"provider"`
	APIKey   string     `json:"api_key,omitempty"`
	Model    string     `json:"model,omitempty"`
	Endpoint string     `json:"endpoint,omitempty"`
}

// FolderPolicy controls how eagerly new folders are created
type FolderPolicy string

// folder policies, from "never create" to "prefer new specific folders"
const (
	FolderPolicyOff    FolderPolicy = "off"
	FolderPolicyWeak   FolderPolicy = "weak"
	FolderPolicyMedium FolderPolicy = "medium"
	FolderPolicyStrong FolderPolicy = "strong"
)

// Valid checks policy is one of known values
func (p FolderPolicy) Valid() bool {
	switch p {
	case FolderPolicyOff, FolderPolicyWeak, FolderPolicyMedium, FolderPolicyStrong:
		return true
	}
	return false
}

// AllowNew returns true if the policy permits creating folders
func (p FolderPolicy) AllowNew() bool {
	return p != FolderPolicyOff
}

// Settings is the normalized view of user settings, loaded fresh for each classification
type Settings struct {
	Provider      ProviderConfig `json:"provider"`
	FolderPolicy  FolderPolicy   `json:"folder_policy"`
	RenameEnabled bool           `json:"rename_enabled"`
	Language      string         `json:"language"`
}
