package orchestrator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/bookmarker/pkg/domain"
	"github.com/umputun/bookmarker/pkg/llm"
	"github.com/umputun/bookmarker/pkg/orchestrator/mocks"
)

type fixture struct {
	settings   *mocks.SettingsLoaderMock
	extractor  *mocks.ExtractorMock
	classifier *mocks.ClassifierMock
	placer     *mocks.PlacerMock
	recorder   *mocks.RecorderMock
	notifier   *mocks.NotifierMock
	metrics    *Metrics
}

func newFixture() *fixture {
	return &fixture{
		settings: &mocks.SettingsLoaderMock{LoadFunc: func(context.Context) (domain.Settings, error) {
			return domain.Settings{
				Provider:     domain.ProviderConfig{ID: domain.ProviderDeepSeek, APIKey: "key"},
				FolderPolicy: domain.FolderPolicyWeak,
				Language:     "en",
			}, nil
		}},
		extractor: &mocks.ExtractorMock{ExtractFunc: func(context.Context, string) domain.ContentDigest {
			return domain.ContentDigest{Description: "a guide to go"}
		}},
		classifier: &mocks.ClassifierMock{ClassifyFunc: func(context.Context, string, domain.ProviderConfig) (string, error) {
			return "Go", nil
		}},
		placer: &mocks.PlacerMock{
			PlaceFunc: func(_ context.Context, category, _, _, _ string) (domain.PlacementOutcome, error) {
				return domain.PlacementOutcome{FolderID: "10", BookmarkID: "11", Created: true}, nil
			},
			FolderNamesFunc:        func(context.Context) ([]string, error) { return []string{"News", "Go"}, nil },
			ConsumeSelfCreatedFunc: func(string) bool { return false },
		},
		recorder: &mocks.RecorderMock{RecordFunc: func(context.Context, string, string, string) {}},
		notifier: &mocks.NotifierMock{NotifyFunc: func(string, domain.Notification) error { return nil }},
		metrics:  NewMetrics(prometheus.NewRegistry()),
	}
}

func (f *fixture) orchestrator() *Orchestrator {
	return New(Params{Settings: f.settings, Extractor: f.extractor, Classifier: f.classifier,
		Placer: f.placer, Recorder: f.recorder, Notifier: f.notifier, Metrics: f.metrics})
}

func TestOrchestrator_ProcessManual(t *testing.T) {
	f := newFixture()
	o := f.orchestrator()

	res := o.Process(context.Background(), Trigger{URL: "https://go.dev", Title: "The Go Programming Language",
		Surface: "tab-1", Manual: true})
	assert.Equal(t, Result{Success: true, Category: "Go"}, res)

	require.Len(t, f.extractor.ExtractCalls(), 1)
	assert.Equal(t, "https://go.dev", f.extractor.ExtractCalls()[0].PageRef, "url used as page ref")

	require.Len(t, f.classifier.ClassifyCalls(), 1)
	call := f.classifier.ClassifyCalls()[0]
	assert.Equal(t, domain.ProviderDeepSeek, call.Pc.ID)
	assert.Contains(t, call.Prompt, "The Go Programming Language")
	assert.Contains(t, call.Prompt, "News, Go")
	assert.Contains(t, call.Prompt, "a guide to go")

	require.Len(t, f.placer.PlaceCalls(), 1)
	place := f.placer.PlaceCalls()[0]
	assert.Equal(t, "Go", place.Category)
	assert.Equal(t, "https://go.dev", place.URL)
	assert.Equal(t, "The Go Programming Language", place.Title)
	assert.Empty(t, place.ExistingID)

	require.Len(t, f.recorder.RecordCalls(), 1)
	assert.Equal(t, "Go", f.recorder.RecordCalls()[0].Category)

	require.Len(t, f.notifier.NotifyCalls(), 1)
	assert.Equal(t, "tab-1", f.notifier.NotifyCalls()[0].Surface)
	assert.Equal(t, domain.Notification{Type: domain.NotificationToast, Message: "Bookmarked to Go",
		Status: domain.StatusSuccess}, f.notifier.NotifyCalls()[0].N)

	assert.Equal(t, 0, o.InFlight())
	assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.outcomes.WithLabelValues(outcomeSuccess)), 0.001)
}

func TestOrchestrator_ProcessRename(t *testing.T) {
	f := newFixture()
	f.settings.LoadFunc = func(context.Context) (domain.Settings, error) {
		return domain.Settings{FolderPolicy: domain.FolderPolicyStrong, RenameEnabled: true, Language: "zh_CN"}, nil
	}
	f.classifier.ClassifyFunc = func(context.Context, string, domain.ProviderConfig) (string, error) {
		return "```json\n{\"category\": \"编程\", \"title\": \"Go 官网\"}\n```", nil
	}
	o := f.orchestrator()

	res := o.Process(context.Background(), Trigger{URL: "https://go.dev", Title: "The Go Programming Language", Manual: true})
	assert.Equal(t, Result{Success: true, Category: "编程"}, res)
	assert.Equal(t, "Go 官网", f.placer.PlaceCalls()[0].Title)
	assert.Equal(t, "Go 官网", f.recorder.RecordCalls()[0].Title)
	assert.Equal(t, "已收藏到 编程", f.notifier.NotifyCalls()[0].N.Message)
}

func TestOrchestrator_ProcessAutomatic(t *testing.T) {
	f := newFixture()
	o := f.orchestrator()

	res := o.Process(context.Background(), Trigger{URL: "https://go.dev", Title: "Go", PageRef: "https://go.dev/doc",
		BookmarkID: "42"})
	assert.True(t, res.Success)
	assert.Equal(t, "https://go.dev/doc", f.extractor.ExtractCalls()[0].PageRef)
	assert.Equal(t, "42", f.placer.PlaceCalls()[0].ExistingID)
	require.Len(t, f.notifier.NotifyCalls(), 1)
	assert.Equal(t, "Auto-bookmarked to Go", f.notifier.NotifyCalls()[0].N.Message)
	assert.Empty(t, f.notifier.NotifyCalls()[0].Surface)
}

func TestOrchestrator_DuplicateSuppression(t *testing.T) {
	f := newFixture()
	started, unblock := make(chan struct{}), make(chan struct{})
	var once sync.Once
	f.classifier.ClassifyFunc = func(context.Context, string, domain.ProviderConfig) (string, error) {
		once.Do(func() { close(started) })
		<-unblock
		return "Go", nil
	}
	o := f.orchestrator()

	done := make(chan Result)
	go func() { done <- o.Process(context.Background(), Trigger{URL: "https://go.dev", Title: "Go"}) }()
	<-started

	res := o.Process(context.Background(), Trigger{URL: "https://go.dev", Title: "Go"})
	assert.Equal(t, Result{Skipped: true}, res)
	assert.Empty(t, f.placer.PlaceCalls(), "skip makes no store mutation")
	assert.Empty(t, f.notifier.NotifyCalls(), "skip sends no notification")
	assert.Equal(t, 1, o.InFlight())

	close(unblock)
	first := <-done
	assert.True(t, first.Success)
	assert.Len(t, f.placer.PlaceCalls(), 1)
	assert.Len(t, f.notifier.NotifyCalls(), 1)
	assert.Equal(t, 0, o.InFlight())
	assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.outcomes.WithLabelValues(outcomeSkipped)), 0.001)

	// key released, next automatic trigger is admitted
	res = o.Process(context.Background(), Trigger{URL: "https://go.dev", Title: "Go"})
	assert.True(t, res.Success)
}

func TestOrchestrator_ManualOverride(t *testing.T) {
	f := newFixture()
	started, unblock := make(chan struct{}), make(chan struct{})
	var calls sync.Mutex
	n := 0
	f.classifier.ClassifyFunc = func(context.Context, string, domain.ProviderConfig) (string, error) {
		calls.Lock()
		n++
		first := n == 1
		calls.Unlock()
		if first {
			close(started)
			<-unblock
		}
		return "Go", nil
	}
	o := f.orchestrator()

	done := make(chan Result)
	go func() { done <- o.Process(context.Background(), Trigger{URL: "https://go.dev", Title: "Go"}) }()
	<-started

	res := o.Process(context.Background(), Trigger{URL: "https://go.dev", Title: "Go", Surface: "popup", Manual: true})
	assert.Equal(t, Result{Success: true, Category: "Go"}, res)
	require.Len(t, f.notifier.NotifyCalls(), 1)
	assert.Equal(t, "popup", f.notifier.NotifyCalls()[0].Surface)
	assert.Equal(t, 1, o.InFlight(), "automatic attempt still holds the key")

	close(unblock)
	assert.True(t, (<-done).Success)
	assert.Len(t, f.notifier.NotifyCalls(), 2)
	assert.Equal(t, 0, o.InFlight())
}

func TestOrchestrator_TimeoutIsTerminal(t *testing.T) {
	f := newFixture()
	f.classifier.ClassifyFunc = func(context.Context, string, domain.ProviderConfig) (string, error) {
		return "", &llm.ProviderError{Kind: llm.KindTimeout, Provider: domain.ProviderDeepSeek, Message: "deadline"}
	}
	o := f.orchestrator()

	res := o.Process(context.Background(), Trigger{URL: "https://go.dev", Title: "Go", Manual: true})
	assert.False(t, res.Success)
	assert.Equal(t, "Provider did not respond in time", res.Error)
	assert.Empty(t, f.placer.PlaceCalls())
	assert.Empty(t, f.recorder.RecordCalls())
	require.Len(t, f.notifier.NotifyCalls(), 1)
	assert.Equal(t, domain.StatusError, f.notifier.NotifyCalls()[0].N.Status)
	assert.Equal(t, "Failed: Provider did not respond in time", f.notifier.NotifyCalls()[0].N.Message)
	assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.outcomes.WithLabelValues(outcomeTimeout)), 0.001)
}

func TestOrchestrator_ProviderErrorFallsBackToDefault(t *testing.T) {
	tests := []struct {
		name     string
		lang     string
		err      error
		expected string
	}{
		{name: "http error en", lang: "en", err: &llm.ProviderError{Kind: llm.KindHTTP, StatusCode: 500}, expected: "Default"},
		{name: "config error zh", lang: "zh_CN", err: &llm.ProviderError{Kind: llm.KindConfiguration}, expected: "默认收藏"},
		{name: "malformed unknown lang", lang: "de", err: &llm.ProviderError{Kind: llm.KindMalformed}, expected: "默认收藏"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.settings.LoadFunc = func(context.Context) (domain.Settings, error) {
				return domain.Settings{FolderPolicy: domain.FolderPolicyWeak, Language: tt.lang}, nil
			}
			f.classifier.ClassifyFunc = func(context.Context, string, domain.ProviderConfig) (string, error) {
				return "", tt.err
			}
			o := f.orchestrator()

			res := o.Process(context.Background(), Trigger{URL: "https://go.dev", Title: "Go", Manual: true})
			assert.Equal(t, Result{Success: true, Category: tt.expected}, res)
			assert.Equal(t, tt.expected, f.placer.PlaceCalls()[0].Category)
			assert.Equal(t, "Go", f.placer.PlaceCalls()[0].Title)
			assert.Len(t, f.recorder.RecordCalls(), 1)
			assert.Equal(t, domain.StatusSuccess, f.notifier.NotifyCalls()[0].N.Status)
			assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.outcomes.WithLabelValues(outcomeFallback)), 0.001)
		})
	}
}

func TestOrchestrator_PolicyOffKeepsExistingFolders(t *testing.T) {
	f := newFixture()
	f.settings.LoadFunc = func(context.Context) (domain.Settings, error) {
		return domain.Settings{FolderPolicy: domain.FolderPolicyOff, Language: "en"}, nil
	}
	f.classifier.ClassifyFunc = func(context.Context, string, domain.ProviderConfig) (string, error) {
		return "Brand New", nil
	}
	o := f.orchestrator()

	res := o.Process(context.Background(), Trigger{URL: "https://go.dev", Title: "Go", Manual: true})
	assert.Equal(t, "Default", res.Category)
	assert.Contains(t, f.classifier.ClassifyCalls()[0].Prompt, "Allow new folders: No")

	f.classifier.ClassifyFunc = func(context.Context, string, domain.ProviderConfig) (string, error) {
		return "News", nil
	}
	res = o.Process(context.Background(), Trigger{URL: "https://go.dev", Title: "Go", Manual: true})
	assert.Equal(t, "News", res.Category)
}

func TestOrchestrator_PlacementFailure(t *testing.T) {
	f := newFixture()
	f.placer.PlaceFunc = func(context.Context, string, string, string, string) (domain.PlacementOutcome, error) {
		return domain.PlacementOutcome{}, errors.New("placement failed: store is read-only")
	}
	o := f.orchestrator()

	res := o.Process(context.Background(), Trigger{URL: "https://go.dev", Title: "Go", Surface: "tab-1", Manual: true})
	assert.Equal(t, Result{Error: "placement failed: store is read-only"}, res)
	assert.Empty(t, f.recorder.RecordCalls(), "failed placement is not recorded")
	require.Len(t, f.notifier.NotifyCalls(), 1)
	assert.Equal(t, domain.Notification{Type: domain.NotificationToast, Status: domain.StatusError,
		Message: "Failed: placement failed: store is read-only"}, f.notifier.NotifyCalls()[0].N)
	assert.Equal(t, 0, o.InFlight())
}

func TestOrchestrator_SettingsFailure(t *testing.T) {
	f := newFixture()
	f.settings.LoadFunc = func(context.Context) (domain.Settings, error) {
		return domain.Settings{}, errors.New("db closed")
	}
	o := f.orchestrator()

	res := o.Process(context.Background(), Trigger{URL: "https://go.dev", Title: "Go", Manual: true})
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "db closed")
	assert.Empty(t, f.classifier.ClassifyCalls())
	require.Len(t, f.notifier.NotifyCalls(), 1)
	assert.Equal(t, domain.StatusError, f.notifier.NotifyCalls()[0].N.Status)
}

func TestOrchestrator_DegradedInputs(t *testing.T) {
	f := newFixture()
	f.placer.FolderNamesFunc = func(context.Context) ([]string, error) { return nil, errors.New("tree unavailable") }
	f.extractor.ExtractFunc = func(context.Context, string) domain.ContentDigest { return domain.ContentDigest{} }
	f.notifier.NotifyFunc = func(string, domain.Notification) error { return errors.New("surface gone") }
	o := f.orchestrator()

	res := o.Process(context.Background(), Trigger{URL: "https://go.dev", Title: "Go", Surface: "closed-tab", Manual: true})
	assert.Equal(t, Result{Success: true, Category: "Go"}, res)
	assert.NotContains(t, f.classifier.ClassifyCalls()[0].Prompt, "Content:")
}

func TestOrchestrator_EmptyURL(t *testing.T) {
	f := newFixture()
	o := f.orchestrator()

	res := o.Process(context.Background(), Trigger{Title: "nothing", Manual: true})
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Error)
	assert.Empty(t, f.settings.LoadCalls())
	assert.Len(t, f.notifier.NotifyCalls(), 1)
}

func TestOrchestrator_NotCanceledAfterAdmission(t *testing.T) {
	f := newFixture()
	f.classifier.ClassifyFunc = func(ctx context.Context, _ string, _ domain.ProviderConfig) (string, error) {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "Go", nil
	}
	o := f.orchestrator()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := o.Process(ctx, Trigger{URL: "https://go.dev", Title: "Go", Manual: true})
	assert.Equal(t, Result{Success: true, Category: "Go"}, res)
}

func TestOrchestrator_BookmarkCreated(t *testing.T) {
	f := newFixture()
	f.placer.ConsumeSelfCreatedFunc = func(url string) bool { return url == "https://self.example.com" }
	o := f.orchestrator()

	o.BookmarkCreated(domain.Node{ID: "5", Title: "folder"})
	o.BookmarkCreated(domain.Node{ID: "6", Title: "self", URL: "https://self.example.com"})
	o.BookmarkCreated(domain.Node{ID: "7", Title: "Go", URL: "https://go.dev"})
	o.Wait()

	assert.Len(t, f.placer.ConsumeSelfCreatedCalls(), 2, "folders are not checked")
	require.Len(t, f.placer.PlaceCalls(), 1)
	assert.Equal(t, "7", f.placer.PlaceCalls()[0].ExistingID)
	assert.Equal(t, "https://go.dev", f.placer.PlaceCalls()[0].URL)
	require.Len(t, f.notifier.NotifyCalls(), 1)
	assert.Equal(t, "Auto-bookmarked to Go", f.notifier.NotifyCalls()[0].N.Message)
}

func TestOrchestrator_ConcurrentDistinctKeys(t *testing.T) {
	f := newFixture()
	o := f.orchestrator()

	urls := []string{"https://a.example.com", "https://b.example.com", "https://c.example.com", "https://d.example.com"}
	var wg sync.WaitGroup
	for _, u := range urls {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res := o.Process(context.Background(), Trigger{URL: u, Title: u})
			assert.True(t, res.Success)
		}()
	}
	wg.Wait()
	assert.Len(t, f.placer.PlaceCalls(), len(urls))
	assert.Len(t, f.notifier.NotifyCalls(), len(urls))
	assert.Equal(t, 0, o.InFlight())
}

func TestNewMetrics_NilRegistry(t *testing.T) {
	m := NewMetrics(nil)
	m.outcome(outcomeSuccess)
	m.observe(stageTotal, time.Second)
	assert.InDelta(t, 1, testutil.ToFloat64(m.outcomes.WithLabelValues(outcomeSuccess)), 0.001)
}
