package approval

// DecisionRequest carries an optional approver type, matched case-insensitively by
// leave.ParseApproverType (REPORTING_MANAGER, HR_MANAGER, RM, HR).
type DecisionRequest struct {
	ApproverType string  `json:"approver_type" binding:"omitempty,max=32"`
	Comment      *string `json:"comment" binding:"omitempty,max=1000"`
}

type HistoryEntry struct {
	Action       string  `json:"action"`
	ActorID      string  `json:"actor_id"`
	ApproverType string  `json:"approver_type,omitempty"`
	Comment      *string `json:"comment,omitempty"`
	At           string  `json:"at"`
}
