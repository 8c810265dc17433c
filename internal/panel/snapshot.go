package panel

// Snapshot is a read-only copy of the panel state for rendering.
type Snapshot struct {
	Status             Status        `json:"status"`
	RecordsStatus      RecordsStatus `json:"recordsStatus,omitempty"`
	RecordID           string        `json:"recordId"`
	FileID             string        `json:"fileId,omitempty"`
	FileName           string        `json:"fileName,omitempty"`
	RawResult          string        `json:"rawResult,omitempty"`
	ErrorMessage       string        `json:"errorMessage,omitempty"`
	Loading            bool          `json:"loading"`
	CreatingRecords    bool          `json:"creatingRecords"`
	AnalyzeDisabled    bool          `json:"analyzeDisabled"`
	CreateDisabled     bool          `json:"createDisabled"`
	FileOptions        []FileOption  `json:"fileOptions"`
	OrgBaseURL         string        `json:"orgBaseUrl,omitempty"`
	CreatedRecordIDs   []string      `json:"createdRecordIds"`
	ActionToastVisible bool          `json:"actionToastVisible"`
	ActionToastMessage string        `json:"actionToastMessage,omitempty"`
	DetailVisible      bool          `json:"detailVisible"`
	SelectedRowID      string        `json:"selectedRowId,omitempty"`
}

// Snapshot copies the current state.
func (p *Panel) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := Snapshot{
		Status:             p.status,
		RecordsStatus:      p.recordsStatus,
		RecordID:           p.recordID,
		FileID:             p.fileID,
		FileName:           p.fileName,
		RawResult:          p.rawResult,
		ErrorMessage:       p.errorMessage,
		Loading:            p.loading,
		CreatingRecords:    p.creating,
		AnalyzeDisabled:    p.disableAnalyze,
		CreateDisabled:     p.disableCreate,
		FileOptions:        append([]FileOption(nil), p.fileOptions...),
		OrgBaseURL:         p.orgBaseURL,
		CreatedRecordIDs:   append([]string{}, p.createdIDs...),
		ActionToastVisible: p.toast.visible,
		ActionToastMessage: p.toast.message,
		DetailVisible:      p.selection.Visible(),
	}
	if row, ok := p.selection.Selected(); ok {
		s.SelectedRowID = row.ID
	}
	return s
}
