package names

const (
	// Workflow Names
	WorkflowNameSync          = "backup.sync"
	WorkflowNamePut           = "backup.put"
	WorkflowNameScheduledSync = "backup.scheduled-sync"

	// Activity Names
	ActivityNameGetTask        = "GetTaskActivity"
	ActivityNameSync           = "SyncActivity"
	ActivityNamePut            = "PutActivity"
	ActivityNameGet            = "GetActivity"
	ActivityNameListBuckets    = "ListBucketsActivity"
	ActivityNameBucketLocation = "BucketLocationActivity"
	ActivityNameCleanup        = "CleanupActivity"

	// Application error types
	ErrorTypeNotFound            = "NotFound"
	ErrorTypeUnsupportedProvider = "UnsupportedProvider"
	ErrorTypeSyncFailed          = "SyncFailed"
	ErrorTypeJobRunning          = "JobRunning"
)

// ScheduleID returns the id of the schedule that periodically syncs a task
func ScheduleID(lockKey string) string {
	return "schedule-" + lockKey
}
