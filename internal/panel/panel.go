// Package panel drives the upload → analyze → create-records workflow for a
// single context record. It holds the user-facing state, talks to the backend
// through Remote and reports toasts and detail-close signals through Notifier.
package panel

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"time"

	"analysis-backend/internal/detail"
	"analysis-backend/internal/resultview"
)

const (
	DefaultFlowAPIName   = "Process_AI_Analysis_Result"
	DefaultToastDuration = 1500 * time.Millisecond
)

var (
	ErrNoFileSelected     = errors.New("no file selected")
	ErrNoResult           = errors.New("no analysis result")
	ErrFlowNotConfigured  = errors.New("flow api name not configured")
	ErrRowNotFound        = errors.New("row not found")
	ErrClipboardUnwritten = errors.New("clipboard write failed")
)

// Level is a toast severity.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// FileOption is an existing file related to the context record.
type FileOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// UploadedFile is a file that finished uploading.
type UploadedFile struct {
	DocumentID string
	Name       string
}

// Remote is the backend the panel calls.
type Remote interface {
	Analyze(ctx context.Context, fileID string) (string, error)
	ListRelatedFiles(ctx context.Context, recordID string) ([]FileOption, error)
	GetOrgBaseURL(ctx context.Context) (string, error)
	CreateRecords(ctx context.Context, jsonText, recordID string) ([]string, error)
}

// Notifier receives the panel's outbound signals.
type Notifier interface {
	OnCloseDetail(message string)
	OnToast(level Level, title, message string)
}

// Clipboard receives copied text.
type Clipboard interface {
	WriteText(text string) error
}

// Navigator opens host URLs.
type Navigator interface {
	Open(url string) error
}

// Status is the analysis state.
type Status string

const (
	StatusIdle           Status = "idle"
	StatusFileChosen     Status = "file_chosen"
	StatusAnalyzing      Status = "analyzing"
	StatusAnalyzed       Status = "analyzed"
	StatusAnalysisFailed Status = "analysis_failed"
)

// RecordsStatus is the record-creation state.
type RecordsStatus string

const (
	RecordsNone     RecordsStatus = ""
	RecordsCreating RecordsStatus = "creating"
	RecordsCreated  RecordsStatus = "created"
	RecordsFailed   RecordsStatus = "failed"
)

// Options configures a Panel.
type Options struct {
	RecordID      string
	FlowAPIName   string
	ToastDuration time.Duration
	// Columns overrides the tabular allow-list.
	Columns []resultview.ColumnSpec
}

// Panel is safe for concurrent use. The lock is not held across Remote
// calls, so a response is applied even if the chosen file changed meanwhile.
type Panel struct {
	remote   Remote
	notifier Notifier

	recordID      string
	flowAPIName   string
	toastDuration time.Duration

	mu             sync.Mutex
	status         Status
	recordsStatus  RecordsStatus
	fileID         string
	fileName       string
	rawResult      string
	errorMessage   string
	loading        bool
	creating       bool
	disableAnalyze bool
	disableCreate  bool
	fileOptions    []FileOption
	orgBaseURL     string
	createdIDs     []string
	toast          actionToast
	memo           *resultview.Memo
	selection      detail.Selection
}

// New builds a Panel. notifier may be nil.
func New(remote Remote, notifier Notifier, opts Options) *Panel {
	if opts.FlowAPIName == "" {
		opts.FlowAPIName = DefaultFlowAPIName
	}
	if opts.ToastDuration <= 0 {
		opts.ToastDuration = DefaultToastDuration
	}
	return &Panel{
		remote:         remote,
		notifier:       notifier,
		recordID:       opts.RecordID,
		flowAPIName:    opts.FlowAPIName,
		toastDuration:  opts.ToastDuration,
		status:         StatusIdle,
		disableAnalyze: true,
		disableCreate:  true,
		memo: resultview.NewMemo(resultview.Formatter{
			Columns:    opts.Columns,
			RowActions: []resultview.RowAction{resultview.ViewDetails},
		}),
	}
}

// SetFlowAPIName changes the workflow launched by StartFlow. Empty disables it.
func (p *Panel) SetFlowAPIName(name string) {
	p.mu.Lock()
	p.flowAPIName = name
	p.mu.Unlock()
}

// resetSelection clears everything derived from the previously chosen file.
// Callers hold p.mu.
func (p *Panel) resetSelection() {
	p.rawResult = ""
	p.errorMessage = ""
	p.fileID = ""
	p.fileName = ""
	p.disableAnalyze = true
	p.disableCreate = true
	p.createdIDs = nil
	p.status = StatusIdle
	p.recordsStatus = RecordsNone
	p.memo.Reset()
	p.selection.Close()
}

// FileUploaded records the first of the freshly uploaded files.
func (p *Panel) FileUploaded(files []UploadedFile) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.resetSelection()
	if len(files) == 0 || files[0].DocumentID == "" {
		return
	}
	p.fileID = files[0].DocumentID
	p.fileName = files[0].Name
	p.disableAnalyze = false
	p.status = StatusFileChosen
}

// SelectFile records a file picked from the related-files list.
func (p *Panel) SelectFile(value string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.resetSelection()
	if value == "" {
		return
	}
	p.fileID = value
	for _, opt := range p.fileOptions {
		if opt.Value == value {
			p.fileName = opt.Label
			break
		}
	}
	p.disableAnalyze = false
	p.status = StatusFileChosen
}

// Formatted returns the display model of the current result, memoized on
// the raw result text.
func (p *Panel) Formatted() *resultview.Result {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.memo.Get(p.rawResult)
}

// IsSingleResult reports whether the result is a single object.
func (p *Panel) IsSingleResult() bool {
	res := p.Formatted()
	return res != nil && res.Kind == resultview.KindSingle
}

// IsArrayResult reports whether the result is tabular.
func (p *Panel) IsArrayResult() bool {
	res := p.Formatted()
	return res != nil && res.Kind == resultview.KindTabular
}

// ArrayItemCount is the number of rows of a tabular result.
func (p *Panel) ArrayItemCount() int {
	return p.Formatted().ItemCount()
}

// HasFiles reports whether related files were loaded.
func (p *Panel) HasFiles() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.fileOptions) > 0
}

// PluralSuffix is "s" unless exactly one record was created.
func (p *Panel) PluralSuffix() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return pluralSuffix(len(p.createdIDs))
}

func pluralSuffix(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// SelectRow opens the detail view for the row with the given id. Selecting
// the row already shown is a no-op and reports false.
func (p *Panel) SelectRow(id string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	row, ok := p.memo.Get(p.rawResult).RowByID(id)
	if !ok {
		return false, ErrRowNotFound
	}
	return p.selection.Select(row), nil
}

// CloseDetail hides the detail view and tells the host.
func (p *Panel) CloseDetail() {
	p.mu.Lock()
	p.selection.Close()
	p.mu.Unlock()

	if p.notifier != nil {
		p.notifier.OnCloseDetail(detail.ClosedMessage)
	}
}

// DetailView is what the drill-down shows.
type DetailView struct {
	Visible bool
	Title   string
	Fields  []detail.Field
}

// Detail returns the current drill-down view.
func (p *Panel) Detail() DetailView {
	p.mu.Lock()
	defer p.mu.Unlock()

	row, ok := p.selection.Selected()
	if !ok {
		return DetailView{Visible: p.selection.Visible(), Title: detail.Title(nil)}
	}
	return DetailView{
		Visible: p.selection.Visible(),
		Title:   detail.Title(&row),
		Fields:  detail.Fields(&row),
	}
}

// FlowURL builds the host URL that launches a workflow with the raw result.
func FlowURL(flowAPIName, rawResult, recordID string) string {
	return "/flow/" + flowAPIName +
		"?input_AIAnalysisResult=" + encodeURIComponent(rawResult) +
		"&recordId=" + encodeURIComponent(recordID)
}

// uriComponentUnescapes restores the characters that QueryEscape escapes
// but encodeURIComponent leaves alone.
var uriComponentUnescapes = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

func encodeURIComponent(s string) string {
	return uriComponentUnescapes.Replace(url.QueryEscape(s))
}

func (p *Panel) notify(level Level, title, message string) {
	if p.notifier != nil {
		p.notifier.OnToast(level, title, message)
	}
}
