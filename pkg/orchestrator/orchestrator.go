// Package orchestrator runs a single classification attempt: it gates duplicate triggers, extracts page content,
// asks the provider for a category, places the bookmark, records history and notifies the triggering surface.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/bookmarker/pkg/domain"
	"github.com/umputun/bookmarker/pkg/llm"
	"github.com/umputun/bookmarker/pkg/notify"
)

//go:generate moq -out mocks/settings.go -pkg mocks -skip-ensure -fmt goimports . SettingsLoader
//go:generate moq -out mocks/extractor.go -pkg mocks -skip-ensure -fmt goimports . Extractor
//go:generate moq -out mocks/classifier.go -pkg mocks -skip-ensure -fmt goimports . Classifier
//go:generate moq -out mocks/placer.go -pkg mocks -skip-ensure -fmt goimports . Placer
//go:generate moq -out mocks/recorder.go -pkg mocks -skip-ensure -fmt goimports . Recorder
//go:generate moq -out mocks/notifier.go -pkg mocks -skip-ensure -fmt goimports . Notifier

// SettingsLoader returns normalized user settings, fresh on every call
type SettingsLoader interface {
	Load(ctx context.Context) (domain.Settings, error)
}

// Extractor makes a content digest of a page, never fails
type Extractor interface {
	Extract(ctx context.Context, pageRef string) domain.ContentDigest
}

// Classifier sends the prompt to the configured provider and returns the raw answer
type Classifier interface {
	Classify(ctx context.Context, prompt string, pc domain.ProviderConfig) (string, error)
}

// Placer puts bookmarks into category folders
type Placer interface {
	Place(ctx context.Context, category, url, title, existingID string) (domain.PlacementOutcome, error)
	FolderNames(ctx context.Context) ([]string, error)
	ConsumeSelfCreated(url string) bool
}

// Recorder appends successful outcomes to history, best-effort
type Recorder interface {
	Record(ctx context.Context, title, url, category string)
}

// Notifier delivers a notification to a surface
type Notifier interface {
	Notify(surface string, n domain.Notification) error
}

// Trigger is a request to classify a resource.
// Manual triggers come from an explicit user action and are never skipped.
type Trigger struct {
	URL        string `json:"url"`
	Title      string `json:"title"`
	PageRef    string `json:"page_ref,omitempty"` // page to extract content from, url if empty
	Surface    string `json:"surface,omitempty"`  // where notification goes
	BookmarkID string `json:"bookmark_id,omitempty"`
	Manual     bool   `json:"manual"`
}

// Result of an attempt. Skipped is set for a duplicate automatic trigger.
type Result struct {
	Success  bool   `json:"success"`
	Skipped  bool   `json:"skipped,omitempty"`
	Category string `json:"category,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Params holds orchestrator dependencies
type Params struct {
	Settings   SettingsLoader
	Extractor  Extractor
	Classifier Classifier
	Placer     Placer
	Recorder   Recorder
	Notifier   Notifier
	Metrics    *Metrics // optional
}

// Orchestrator coordinates classification attempts
type Orchestrator struct {
	Params

	mu       sync.Mutex
	inflight map[string]int // resource key -> number of attempts holding it

	wg sync.WaitGroup // background attempts started by BookmarkCreated
}

// New makes an orchestrator
func New(p Params) *Orchestrator {
	if p.Metrics == nil {
		p.Metrics = NewMetrics(nil)
	}
	return &Orchestrator{Params: p, inflight: make(map[string]int)}
}

// Process runs one attempt for the trigger. The attempt is not canceled with ctx once admitted.
// Exactly one notification is sent for every admitted attempt.
func (o *Orchestrator) Process(ctx context.Context, t Trigger) Result {
	ctx = context.WithoutCancel(ctx)

	if !o.acquire(t.URL, t.Manual) {
		lgr.Printf("[DEBUG] skip %s, already in progress", t.URL)
		o.Metrics.outcome(outcomeSkipped)
		return Result{Skipped: true}
	}
	defer o.release(t.URL)

	st := time.Now()
	res, n := o.run(ctx, t)
	o.Metrics.observe(stageTotal, time.Since(st))

	if err := o.Notifier.Notify(t.Surface, n); err != nil {
		lgr.Printf("[DEBUG] notification for %s not delivered: %v", t.URL, err)
	}
	return res
}

// BookmarkCreated reacts on bookmarks created outside of the orchestrator and classifies them in background.
// Bookmarks created by placement itself are ignored.
func (o *Orchestrator) BookmarkCreated(node domain.Node) {
	if node.IsFolder() {
		return
	}
	if o.Placer.ConsumeSelfCreated(node.URL) {
		lgr.Printf("[DEBUG] ignore self-created bookmark %s", node.URL)
		return
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		res := o.Process(context.Background(), Trigger{URL: node.URL, Title: node.Title, BookmarkID: node.ID})
		if res.Error != "" {
			lgr.Printf("[WARN] auto classification of %s failed: %s", node.URL, res.Error)
		}
	}()
}

// Wait blocks until background attempts are finished
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// InFlight returns number of resources currently processed
func (o *Orchestrator) InFlight() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.inflight)
}

// run executes the pipeline and makes the notification for its outcome
func (o *Orchestrator) run(ctx context.Context, t Trigger) (Result, domain.Notification) {
	if t.URL == "" {
		msgs := notify.For("")
		return o.fail(msgs, errors.New("empty url"))
	}

	settings, err := o.Settings.Load(ctx)
	if err != nil {
		return o.fail(notify.For(""), fmt.Errorf("load settings: %w", err))
	}
	msgs := notify.For(settings.Language)
	defaultCategory := msgs.DefaultCategory()

	folders, err := o.Placer.FolderNames(ctx)
	if err != nil {
		lgr.Printf("[WARN] can't list folders, classify without them: %v", err)
		folders = nil
	}

	pageRef := t.PageRef
	if pageRef == "" {
		pageRef = t.URL
	}
	st := time.Now()
	digest := o.Extractor.Extract(ctx, pageRef)
	o.Metrics.observe(stageExtract, time.Since(st))

	req := domain.ClassificationRequest{
		ResourceKey:        t.URL,
		Title:              t.Title,
		Digest:             digest,
		ExistingCategories: folders,
		FolderPolicy:       settings.FolderPolicy,
		RenameEnabled:      settings.RenameEnabled,
		Language:           settings.Language,
		DefaultCategory:    defaultCategory,
	}

	st = time.Now()
	raw, err := o.Classifier.Classify(ctx, llm.BuildPrompt(req), settings.Provider)
	o.Metrics.observe(stageClassify, time.Since(st))

	result := domain.ClassificationResult{Category: defaultCategory, Title: t.Title}
	fallback := false
	switch {
	case errors.Is(err, llm.ErrTimeout):
		o.Metrics.outcome(outcomeTimeout)
		lgr.Printf("[WARN] classification of %s timed out: %v", t.URL, err)
		return o.failWith(msgs, msgs.Timeout(), false)
	case err != nil:
		lgr.Printf("[WARN] classification of %s failed, use %q: %v", t.URL, defaultCategory, err)
		fallback = true
	default:
		result = llm.ParseResponse(raw, t.Title, settings.RenameEnabled)
	}

	if result.Category == "" {
		result.Category = defaultCategory
		fallback = true
	}
	if !settings.FolderPolicy.AllowNew() && len(folders) > 0 && !slices.Contains(folders, result.Category) {
		lgr.Printf("[INFO] new folder %q not allowed for %s, use %q", result.Category, t.URL, defaultCategory)
		result.Category = defaultCategory
		fallback = true
	}
	title := result.Title
	if title == "" {
		title = t.Title
	}

	st = time.Now()
	outcome, err := o.Placer.Place(ctx, result.Category, t.URL, title, t.BookmarkID)
	o.Metrics.observe(stagePlace, time.Since(st))
	if err != nil {
		return o.fail(msgs, err)
	}
	lgr.Printf("[INFO] placed %s into %q, bookmark %s, created %v", t.URL, result.Category, outcome.BookmarkID, outcome.Created)

	o.Recorder.Record(ctx, title, t.URL, result.Category)

	if fallback {
		o.Metrics.outcome(outcomeFallback)
	} else {
		o.Metrics.outcome(outcomeSuccess)
	}

	msg := msgs.AutoSuccess(result.Category)
	if t.Manual {
		msg = msgs.Success(result.Category)
	}
	return Result{Success: true, Category: result.Category},
		domain.Notification{Type: domain.NotificationToast, Message: msg, Status: domain.StatusSuccess}
}

func (o *Orchestrator) fail(msgs notify.Messages, err error) (Result, domain.Notification) {
	lgr.Printf("[WARN] classification attempt failed: %v", err)
	return o.failWith(msgs, err.Error(), true)
}

func (o *Orchestrator) failWith(msgs notify.Messages, reason string, count bool) (Result, domain.Notification) {
	if count {
		o.Metrics.outcome(outcomeFailed)
	}
	return Result{Error: reason},
		domain.Notification{Type: domain.NotificationToast, Message: msgs.Failure(reason), Status: domain.StatusError}
}

// acquire adds key to the in-flight set. Automatic triggers are refused while the key is held.
func (o *Orchestrator) acquire(key string, manual bool) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.inflight[key] > 0 && !manual {
		return false
	}
	o.inflight[key]++
	o.Metrics.inflight.Set(float64(len(o.inflight)))
	return true
}

func (o *Orchestrator) release(key string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.inflight[key]--
	if o.inflight[key] <= 0 {
		delete(o.inflight, key)
	}
	o.Metrics.inflight.Set(float64(len(o.inflight)))
}
