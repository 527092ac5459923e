package workflows

import (
	"cloudsync/internal/temporal/activities"
	"cloudsync/pkg/names"

	"go.temporal.io/sdk/workflow"
)

type PutWorkflowOutput struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	Checksum string `json:"checksum"`
}

// PutWorkflow uploads one file into a task's bucket folder
func PutWorkflow(ctx workflow.Context, input PutWorkflowInput) (*PutWorkflowOutput, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("PutWorkflow started", "taskId", input.TaskID, "filePath", input.FilePath)

	GetTaskActivityOutput := new(activities.GetTaskActivityOutput)
	err := workflow.ExecuteActivity(
		lookupOptions(ctx),
		names.ActivityNameGetTask,
		activities.GetTaskActivityInput{TaskID: input.TaskID},
	).Get(ctx, GetTaskActivityOutput)
	if err != nil {
		logger.Error("Failed to get task", "error", err)
		return nil, err
	}

	PutActivityOutput := new(activities.PutActivityOutput)
	err = workflow.ExecuteActivity(
		transferOptions(ctx),
		names.ActivityNamePut,
		activities.PutActivityInput{
			TaskID:   input.TaskID,
			FilePath: input.FilePath,
			Filename: input.Filename,
		},
	).Get(ctx, PutActivityOutput)
	if err != nil {
		logger.Error("Upload failed", "error", err)
		return nil, err
	}

	if input.RemoveSource {
		err = workflow.ExecuteActivity(
			lookupOptions(ctx),
			names.ActivityNameCleanup,
			activities.CleanupActivityInput{Paths: []string{input.FilePath}},
		).Get(ctx, nil)
		if err != nil {
			// the object is stored; a leftover source file is not a failed upload
			logger.Warn("Failed to remove source file", "filePath", input.FilePath, "error", err)
		}
	}

	logger.Info("PutWorkflow completed", "filename", PutActivityOutput.Filename, "size", PutActivityOutput.Size)
	return &PutWorkflowOutput{
		Filename: PutActivityOutput.Filename,
		Size:     PutActivityOutput.Size,
		Checksum: PutActivityOutput.Checksum,
	}, nil
}
