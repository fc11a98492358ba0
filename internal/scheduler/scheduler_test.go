package scheduler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"claimdesk/internal/fetcher"
	"claimdesk/internal/ingest"
	"claimdesk/internal/model"
	"claimdesk/internal/storage"
)

type report struct {
	Result model.IngestResult
	Failed bool
}

type mockReporter struct {
	mu      sync.Mutex
	reports []report
}

func (m *mockReporter) ReportIngest(res model.IngestResult, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports = append(m.reports, report{Result: res, Failed: err != nil})
}

func (m *mockReporter) getReports() []report {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]report, len(m.reports))
	copy(cp, m.reports)
	return cp
}

type mockRunner struct {
	mu    sync.Mutex
	res   model.IngestResult
	err   error
	calls int
}

func (m *mockRunner) Run(context.Context, []string) (model.IngestResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.res, m.err
}

func (m *mockRunner) getCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type mockHTTP struct {
	body string
}

func (m *mockHTTP) Do(_ *http.Request) (*http.Response, error) {
	return &http.Response{
		StatusCode: 200,
		Body:       io.NopCloser(bytes.NewBufferString(m.body)),
	}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSchedulerIngestsFeeds(t *testing.T) {
	ctx := context.Background()
	data, err := os.ReadFile("../../testdata/sample.xml")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}

	store, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	svc := ingest.New(store, fetcher.New(&mockHTTP{body: string(data)}), discardLogger())
	reporter := &mockReporter{}

	sched := New(svc, []string{"https://news.example.com/rss"}, reporter, discardLogger())
	sched.runOnce(ctx)

	n, err := store.CountArticles(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if diff := cmp.Diff(2, n); diff != "" {
		t.Errorf("article count mismatch (-want +got):\n%s", diff)
	}

	want := []report{{Result: model.IngestResult{Scanned: 3, Inserted: 2}}}
	if diff := cmp.Diff(want, reporter.getReports()); diff != "" {
		t.Errorf("reports mismatch (-want +got):\n%s", diff)
	}
}

func TestSchedulerReportsFailure(t *testing.T) {
	runner := &mockRunner{res: model.IngestResult{Scanned: 4, Inserted: 4}, err: errors.New("fetch feed: status 503")}
	reporter := &mockReporter{}

	sched := New(runner, []string{"https://a.example/rss"}, reporter, discardLogger())
	sched.runOnce(context.Background())

	want := []report{{Result: model.IngestResult{Scanned: 4, Inserted: 4}, Failed: true}}
	if diff := cmp.Diff(want, reporter.getReports()); diff != "" {
		t.Errorf("reports mismatch (-want +got):\n%s", diff)
	}
}

func TestSchedulerNilReporter(t *testing.T) {
	runner := &mockRunner{}
	sched := New(runner, nil, nil, discardLogger())
	sched.runOnce(context.Background())

	if diff := cmp.Diff(1, runner.getCalls()); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestSchedulerCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := &mockRunner{}
	sched := New(runner, nil, &mockReporter{}, discardLogger())
	sched.runOnce(ctx)

	if diff := cmp.Diff(0, runner.getCalls()); diff != "" {
		t.Errorf("expected no run when context cancelled (-want +got):\n%s", diff)
	}
}

func TestSchedulerRunStopsOnCancel(t *testing.T) {
	runner := &mockRunner{}
	sched := New(runner, nil, nil, discardLogger())
	sched.SetTickInterval(10 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		sched.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after context cancellation")
	}

	if runner.getCalls() < 2 {
		t.Errorf("expected repeated runs, got %d", runner.getCalls())
	}
}
