package workflows

// SyncWorkflowInput is sent when triggering a sync, by hand or from a schedule
type SyncWorkflowInput struct {
	TaskID int64 `json:"task_id"`
}

// PutWorkflowInput uploads a file that is present on the worker host
type PutWorkflowInput struct {
	TaskID   int64  `json:"task_id"`
	FilePath string `json:"file_path"`
	Filename string `json:"filename,omitempty"`
	// RemoveSource deletes FilePath once the upload succeeded
	RemoveSource bool `json:"remove_source"`
}
