package panel

import (
	"context"
	"errors"
	"fmt"
	"time"

	"analysis-backend/internal/shared/telemetry"
)

const (
	msgLoadFiles      = "Could not load existing files."
	msgOrgURL         = "Could not determine org URL."
	msgNoFile         = "Please select a file to analyze first."
	msgAnalyzeFailed  = "Error analyzing file. Please try again."
	msgAnalyzeDone    = "The AI-powered analysis is now ready!"
	msgNoData         = "Please analyze a file first before creating records."
	msgNoRecords      = "No valid data found to create Energy Use records."
	msgCreateFailed   = "Error creating Energy Use records. Please try again."
	msgFlowMissing    = "Flow API Name is not available."
	msgCopied         = "Copied to clipboard!"
	titleError        = "Error"
	titleNoFile       = "No File Selected"
	titleAnalyzeDone  = "AI Analysis Complete"
	titleAnalyzeError = "Analysis Error"
	titleNoData       = "No Data"
	titleSuccess      = "Success"
	titleNoRecords    = "No Records Created"
	titleCreateError  = "Creation Error"
	titleConfigError  = "Configuration Error"
)

// messager is implemented by errors that carry a user-facing message.
type messager interface {
	ErrorMessage() string
}

func userMessage(err error, fallback string) string {
	var m messager
	if errors.As(err, &m) {
		if msg := m.ErrorMessage(); msg != "" {
			return msg
		}
	}
	return fallback
}

// Load fetches the related files and the org base URL. Neither failure is
// fatal: a missing file list leaves an error message, a missing org URL only
// raises a toast.
func (p *Panel) Load(ctx context.Context) {
	files, err := p.remote.ListRelatedFiles(ctx, p.recordID)

	p.mu.Lock()
	if err != nil {
		p.errorMessage = msgLoadFiles
		p.fileOptions = []FileOption{}
	} else {
		p.fileOptions = files
		p.errorMessage = ""
	}
	p.mu.Unlock()
	if err != nil {
		telemetry.Warn("panel.files_load_failed", map[string]any{
			"record_id": p.recordID,
			"error":     err.Error(),
		})
	}

	base, err := p.remote.GetOrgBaseURL(ctx)
	if err != nil {
		telemetry.Error("panel.org_url_failed", map[string]any{
			"error": err.Error(),
		})
		p.notify(LevelError, titleError, msgOrgURL)
		return
	}
	p.mu.Lock()
	p.orgBaseURL = base
	p.mu.Unlock()
}

// Analyze runs the analysis of the chosen file.
func (p *Panel) Analyze(ctx context.Context) error {
	p.mu.Lock()
	fileID := p.fileID
	if fileID == "" {
		p.errorMessage = msgNoFile
		p.mu.Unlock()
		p.notify(LevelWarning, titleNoFile, msgNoFile)
		return ErrNoFileSelected
	}
	p.loading = true
	p.errorMessage = ""
	p.rawResult = ""
	p.status = StatusAnalyzing
	p.selection.Close()
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.loading = false
		if p.status == StatusAnalyzing {
			p.status = StatusAnalysisFailed
		}
		p.mu.Unlock()
	}()

	started := time.Now()
	result, err := p.remote.Analyze(ctx, fileID)
	if err != nil {
		msg := userMessage(err, msgAnalyzeFailed)
		p.mu.Lock()
		p.errorMessage = msg
		p.disableCreate = true
		p.status = StatusAnalysisFailed
		p.mu.Unlock()

		telemetry.Warn("panel.analyze_failed", map[string]any{
			"file_id": fileID,
			"error":   err.Error(),
		})
		p.notify(LevelError, titleAnalyzeError, msg)
		return err
	}

	p.mu.Lock()
	p.rawResult = result
	p.disableCreate = false
	p.status = StatusAnalyzed
	p.mu.Unlock()

	telemetry.Info("panel.analyzed", map[string]any{
		"file_id":     fileID,
		"duration_ms": time.Since(started).Milliseconds(),
	})
	p.notify(LevelSuccess, titleAnalyzeDone, msgAnalyzeDone)
	return nil
}

// Retry discards the current result and analyzes the chosen file again.
func (p *Panel) Retry(ctx context.Context) error {
	p.mu.Lock()
	p.rawResult = ""
	p.mu.Unlock()
	return p.Analyze(ctx)
}

// CreateRecords turns the current raw result into Energy Use records.
func (p *Panel) CreateRecords(ctx context.Context) ([]string, error) {
	p.mu.Lock()
	raw := p.rawResult
	if raw == "" {
		p.mu.Unlock()
		p.notify(LevelWarning, titleNoData, msgNoData)
		return nil, ErrNoResult
	}
	p.creating = true
	p.errorMessage = ""
	p.recordsStatus = RecordsCreating
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.creating = false
		if p.recordsStatus == RecordsCreating {
			p.recordsStatus = RecordsFailed
		}
		p.mu.Unlock()
	}()

	ids, err := p.remote.CreateRecords(ctx, raw, p.recordID)
	if err != nil {
		msg := userMessage(err, msgCreateFailed)
		p.mu.Lock()
		p.errorMessage = msg
		p.recordsStatus = RecordsFailed
		p.mu.Unlock()

		telemetry.Warn("panel.create_records_failed", map[string]any{
			"record_id": p.recordID,
			"error":     err.Error(),
		})
		p.notify(LevelError, titleCreateError, msg)
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}

	p.mu.Lock()
	p.createdIDs = ids
	p.recordsStatus = RecordsCreated
	p.mu.Unlock()

	n := len(ids)
	if n == 0 {
		p.notify(LevelWarning, titleNoRecords, msgNoRecords)
		return ids, nil
	}
	if n == 1 {
		p.notify(LevelSuccess, titleSuccess, "Successfully created 1 Energy Use record!")
	} else {
		p.notify(LevelSuccess, titleSuccess, fmt.Sprintf("Successfully created %d Energy Use records!", n))
	}
	p.showActionToast(fmt.Sprintf("%d record%s created successfully!", n, pluralSuffix(n)))
	return ids, nil
}

// CopyResult writes the raw, unformatted result to the clipboard.
func (p *Panel) CopyResult(cb Clipboard) error {
	p.mu.Lock()
	raw := p.rawResult
	p.mu.Unlock()

	if err := cb.WriteText(raw); err != nil {
		return fmt.Errorf("%w: %v", ErrClipboardUnwritten, err)
	}
	p.showActionToast(msgCopied)
	return nil
}

// StartFlow opens the configured workflow with the raw result.
func (p *Panel) StartFlow(nav Navigator) error {
	p.mu.Lock()
	name, raw := p.flowAPIName, p.rawResult
	p.mu.Unlock()

	if name == "" {
		p.notify(LevelError, titleConfigError, msgFlowMissing)
		return ErrFlowNotConfigured
	}
	return nav.Open(FlowURL(name, raw, p.recordID))
}

// Close stops the action-toast timer.
func (p *Panel) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.toast.stop()
}
