package jobs

import "github.com/hibiken/asynq"

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskSettlementCheck is the task type for the nightly tracking-silence sweep.
	TaskSettlementCheck = "settlement:check_no_tracking"
)

// NewSettlementCheckTask constructs the sweep task. The sweep takes no
// parameters; the threshold lives in the tracking package.
func NewSettlementCheckTask() *asynq.Task {
	return asynq.NewTask(TaskSettlementCheck, nil)
}
