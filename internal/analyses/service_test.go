package analyses

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"analysis-backend/internal/files"
	"analysis-backend/internal/llm"
	localstore "analysis-backend/internal/shared/storage/object/local"
)

type fakeLLM struct {
	mu     sync.Mutex
	out    string
	err    error
	block  bool
	inputs []llm.Input
}

func (f *fakeLLM) AnalyzeDocument(ctx context.Context, input llm.Input) (string, error) {
	f.mu.Lock()
	f.inputs = append(f.inputs, input)
	f.mu.Unlock()
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.out, f.err
}

func (f *fakeLLM) last() llm.Input {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inputs[len(f.inputs)-1]
}

type fixture struct {
	svc   *Service
	files *files.Service
	repo  *MemoryRepo
	llm   *fakeLLM
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fileSvc := &files.Service{
		Store:           localstore.New(t.TempDir()),
		Repo:            files.NewMemoryRepo(),
		StorageProvider: "local",
	}
	repo := NewMemoryRepo()
	model := &fakeLLM{out: `{"account_number":"A-1"}`}
	return &fixture{
		svc: &Service{
			Repo:     repo,
			Files:    fileSvc,
			LLM:      model,
			Provider: "openai",
			Model:    "gpt-4o-mini",
			Timeout:  time.Second,
			Now:      func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) },
		},
		files: fileSvc,
		repo:  repo,
		llm:   model,
	}
}

func (f *fixture) upload(t *testing.T, userID, recordID, name, body string) files.File {
	t.Helper()
	uploaded, err := f.files.Upload(context.Background(), files.UploadInput{
		UserID:   userID,
		RecordID: recordID,
		FileName: name,
		Body:     strings.NewReader(body),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	return uploaded
}

func TestAnalyzeTextFile(t *testing.T) {
	fx := newFixture(t)
	file := fx.upload(t, "u1", "rec-1", "bill.txt", "Account A-1 due 2024-01-05")

	a, err := fx.svc.Analyze(context.Background(), "u2", file.ID)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if a.Status != StatusCompleted || a.Result != `{"account_number":"A-1"}` {
		t.Fatalf("unexpected analysis %+v", a)
	}
	if a.CompletedAt == nil {
		t.Fatal("expected completedAt to be set")
	}
	in := fx.llm.last()
	if in.Text != "Account A-1 due 2024-01-05" || in.IsImage() {
		t.Fatalf("unexpected llm input %+v", in)
	}

	stored, err := fx.svc.Get(context.Background(), "u2", a.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Status != StatusCompleted || stored.Result != a.Result {
		t.Fatalf("expected persisted result, got %+v", stored)
	}
	if _, err := fx.svc.Get(context.Background(), "u1", a.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected other users to get ErrNotFound, got %v", err)
	}

	latest, err := fx.svc.Latest(context.Background(), "u1", file.ID)
	if err != nil || latest.ID != a.ID {
		t.Fatalf("expected latest analysis %s, got %+v (%v)", a.ID, latest, err)
	}
}

func TestAnalyzeImageSendsBytes(t *testing.T) {
	fx := newFixture(t)
	png := "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00"
	file := fx.upload(t, "u1", "rec-1", "bill.png", png)

	if _, err := fx.svc.Analyze(context.Background(), "u1", file.ID); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	in := fx.llm.last()
	if !in.IsImage() || string(in.Image) != png || in.MimeType != "image/png" {
		t.Fatalf("expected inline png, got mime=%q len=%d", in.MimeType, len(in.Image))
	}
}

func TestAnalyzeFailurePersisted(t *testing.T) {
	fx := newFixture(t)
	fx.llm.err = errors.New("upstream 500")
	file := fx.upload(t, "u1", "rec-1", "bill.txt", "Account A-1")

	a, err := fx.svc.Analyze(context.Background(), "u1", file.ID)
	if !errors.Is(err, ErrLLMFailed) {
		t.Fatalf("expected ErrLLMFailed, got %v", err)
	}
	if a.Status != StatusFailed || a.ErrorCode != ErrorCodeLLMFailed {
		t.Fatalf("unexpected analysis %+v", a)
	}
	stored, _ := fx.repo.GetByID(context.Background(), a.ID)
	if stored.Status != StatusFailed || !strings.Contains(stored.ErrorMessage, "upstream 500") {
		t.Fatalf("expected failure to be stored, got %+v", stored)
	}
}

func TestAnalyzeTimeout(t *testing.T) {
	fx := newFixture(t)
	fx.llm.block = true
	fx.svc.Timeout = 20 * time.Millisecond
	file := fx.upload(t, "u1", "rec-1", "bill.txt", "Account A-1")

	a, err := fx.svc.Analyze(context.Background(), "u1", file.ID)
	if !errors.Is(err, ErrLLMTimeout) {
		t.Fatalf("expected ErrLLMTimeout, got %v", err)
	}
	if a.ErrorCode != ErrorCodeLLMTimeout {
		t.Fatalf("unexpected error code %q", a.ErrorCode)
	}
}

func TestAnalyzePlaceholderIsUnavailable(t *testing.T) {
	fx := newFixture(t)
	fx.svc.LLM = llm.PlaceholderClient{}
	file := fx.upload(t, "u1", "rec-1", "bill.txt", "Account A-1")

	if _, err := fx.svc.Analyze(context.Background(), "u1", file.ID); !errors.Is(err, ErrLLMUnavailable) {
		t.Fatalf("expected ErrLLMUnavailable, got %v", err)
	}
}

func TestAnalyzeMissingFile(t *testing.T) {
	fx := newFixture(t)
	if _, err := fx.svc.Analyze(context.Background(), "u1", "missing"); !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound, got %v", err)
	}
	if _, err := fx.svc.Analyze(context.Background(), "u1", " "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if len(fx.llm.inputs) != 0 {
		t.Fatal("expected no llm calls")
	}
}

func TestAnalyzeEmptyDocument(t *testing.T) {
	fx := newFixture(t)
	file := fx.upload(t, "u1", "rec-1", "blank.txt", "   \n  ")

	a, err := fx.svc.Analyze(context.Background(), "u1", file.ID)
	if !errors.Is(err, ErrNotAnalyzable) {
		t.Fatalf("expected ErrNotAnalyzable, got %v", err)
	}
	if a.ErrorCode != ErrorCodeNotAnalyzable {
		t.Fatalf("unexpected error code %q", a.ErrorCode)
	}
	if len(fx.llm.inputs) != 0 {
		t.Fatal("expected no llm calls for empty documents")
	}
}
