package domain

// ContentDigest is a bounded summary of a page used as classification input.
// Zero value is the valid "nothing extracted" digest.
type ContentDigest struct {
	Description string `json:"description"`
	Keywords    string `json:"keywords"`
	BodyExcerpt string `json:"body_excerpt"`
}

// IsEmpty returns true if nothing was extracted
func (d ContentDigest) IsEmpty() bool {
	return d.Description == "" && d.Keywords == "" && d.BodyExcerpt == ""
}

// ClassificationRequest contains everything needed to build a classification prompt
type ClassificationRequest struct {
	ResourceKey        string
	Title              string
	Digest             ContentDigest
	ExistingCategories []string
	FolderPolicy       FolderPolicy
	RenameEnabled      bool
	Language           string
	DefaultCategory    string // localized label used when nothing fits
}

// ClassificationResult is the parsed answer of a provider
type ClassificationResult struct {
	Category string `json:"category"`
	Title    string `json:"title,omitempty"`
}
