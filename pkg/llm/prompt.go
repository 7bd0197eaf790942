package llm

import (
	"fmt"
	"strings"

	"github.com/umputun/bookmarker/pkg/domain"
)

// promptText holds localized fragments of the classification prompt
type promptText struct {
	intro, existing, none, allowNew, yes, no, pageInfo                 string
	title, url, description, keywords, content, rules, ruleExisting  string
	ruleNoMatch, ruleCreate, ruleForce, ruleRename, ruleJSON, jsonFmt string
	noMarkdown, ruleNameOnly, separator                               string
	policy                                                            map[domain.FolderPolicy]string
	defaultCategory                                                   string
}

var enPrompt = promptText{
	intro:        "Please analyze the following web page information and return a suitable bookmark folder name according to the rules.",
	existing:     "Existing folders",
	none:         "None",
	allowNew:     "Allow new folders",
	yes:          "Yes",
	no:           "No",
	pageInfo:     "Page Info:",
	title:        "Title",
	url:          "URL",
	description:  "Description",
	keywords:     "Keywords",
	content:      "Content",
	rules:        "Rules:",
	ruleExisting: "Prioritize choosing the best match from the \"Existing folders\" list.",
	ruleNoMatch:  "If no existing folder matches:",
	ruleCreate:   "If allowed to create new folders: return a new, short (1-3 words) English category name (e.g., Tech Docs, News).",
	ruleForce:    "If not allowed: choose the closest one from the existing list; if absolutely no match, return %q.",
	ruleRename:   "Also generate a simplified page title (remove irrelevant suffixes, keep core content).",
	ruleJSON:     "Must return JSON format:",
	jsonFmt:      `{"category": "Category Name", "title": "Simplified Title"}`,
	noMarkdown:   "Do not include markdown blocks, just raw JSON string.",
	ruleNameOnly: "Return only the folder name, no explanations or other text.",
	separator:    ", ",
	policy: map[domain.FolderPolicy]string{
		domain.FolderPolicyWeak:   "Create a new folder only when none of the existing folders is even loosely related.",
		domain.FolderPolicyMedium: "Create a new folder when existing folders fit only vaguely.",
		domain.FolderPolicyStrong: "Prefer a new specific folder unless an existing folder is a clear match.",
	},
	defaultCategory: "Default",
}

var zhPrompt = promptText{
	intro:        "请分析以下网页信息，并根据规则返回一个合适的书签分类文件夹名称。",
	existing:     "现有文件夹列表",
	none:         "无",
	allowNew:     "允许创建新文件夹",
	yes:          "是",
	no:           "否",
	pageInfo:     "网页信息：",
	title:        "标题",
	url:          "URL",
	description:  "内容摘要",
	keywords:     "关键词",
	content:      "正文片段",
	rules:        "规则：",
	ruleExisting: "优先从“现有文件夹列表”中选择最匹配的名称。",
	ruleNoMatch:  "如果现有文件夹都不匹配：",
	ruleCreate:   "如果允许创建新文件夹：请返回一个新的、简短的（2-4字）中文分类名称（如：技术文档、新闻资讯）。",
	ruleForce:    "如果不允许创建新文件夹：请强制从现有列表中选一个最接近的；如果实在无法关联，返回“%s”。",
	ruleRename:   "请同时生成一个简化的网页标题（去除无关后缀，保留核心内容）。",
	ruleJSON:     "请务必返回 JSON 格式，格式如下：",
	jsonFmt:      `{"category": "分类名称", "title": "简化后的标题"}`,
	noMarkdown:   "不要包含 markdown 代码块标记，只返回纯 JSON 字符串。",
	ruleNameOnly: "只返回文件夹名称，不要包含任何解释或其他文字。",
	separator:    "、",
	policy: map[domain.FolderPolicy]string{
		domain.FolderPolicyWeak:   "只有当现有文件夹都毫不相关时才创建新文件夹。",
		domain.FolderPolicyMedium: "当现有文件夹只是勉强相关时，可以创建新文件夹。",
		domain.FolderPolicyStrong: "除非现有文件夹明显匹配，否则优先创建更具体的新文件夹。",
	},
	defaultCategory: "默认收藏",
}

// BuildPrompt makes a single-message classification prompt. English languages ("en", "en_US") select english,
// anything else falls back to chinese.
func BuildPrompt(req domain.ClassificationRequest) string {
	t := zhPrompt
	if strings.HasPrefix(strings.ToLower(req.Language), "en") {
		t = enPrompt
	}
	defaultCategory := req.DefaultCategory
	if defaultCategory == "" {
		defaultCategory = t.defaultCategory
	}
	policy := req.FolderPolicy
	if !policy.Valid() {
		policy = domain.FolderPolicyWeak
	}

	folders := t.none
	if len(req.ExistingCategories) > 0 {
		folders = strings.Join(req.ExistingCategories, t.separator)
	}
	allow := t.no
	if policy.AllowNew() {
		allow = t.yes
	}

	var sb strings.Builder
	sb.WriteString(t.intro + "\n\n")
	sb.WriteString(fmt.Sprintf("%s: %s\n", t.existing, folders))
	sb.WriteString(fmt.Sprintf("%s: %s\n\n", t.allowNew, allow))

	sb.WriteString(t.pageInfo + "\n")
	sb.WriteString(fmt.Sprintf("%s: %s\n", t.title, req.Title))
	sb.WriteString(fmt.Sprintf("%s: %s\n", t.url, req.ResourceKey))
	sb.WriteString(fmt.Sprintf("%s: %s\n", t.description, req.Digest.Description))
	sb.WriteString(fmt.Sprintf("%s: %s\n", t.keywords, req.Digest.Keywords))
	if req.Digest.BodyExcerpt != "" {
		sb.WriteString(fmt.Sprintf("%s: %s\n", t.content, req.Digest.BodyExcerpt))
	}

	sb.WriteString("\n" + t.rules + "\n")
	sb.WriteString("1. " + t.ruleExisting + "\n")
	sb.WriteString("2. " + t.ruleNoMatch + "\n")
	sb.WriteString("   - " + t.ruleCreate + "\n")
	if hint, ok := t.policy[policy]; ok {
		sb.WriteString("     " + hint + "\n")
	}
	sb.WriteString("   - " + fmt.Sprintf(t.ruleForce, defaultCategory))

	if req.RenameEnabled {
		sb.WriteString("\n3. " + t.ruleRename + "\n")
		sb.WriteString("4. " + t.ruleJSON + "\n")
		sb.WriteString(t.jsonFmt + "\n")
		sb.WriteString(t.noMarkdown)
		return sb.String()
	}
	sb.WriteString("\n3. " + t.ruleNameOnly)
	return sb.String()
}
