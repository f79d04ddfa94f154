package domain

type edge struct {
	from   Status
	action Action
}

// Every legal status change. Anything absent is an invalid transition.
var transitions = map[edge]Status{
	{StatusDraft, ActionSubmit}:                 StatusSubmitted,
	{StatusSubmitted, ActionReview}:             StatusUnderReview,
	{StatusUnderReview, ActionRequestDocuments}: StatusPendingDocuments,
	{StatusPendingDocuments, ActionResubmit}:    StatusUnderReview,
	{StatusUnderReview, ActionApprove}:          StatusApproved,
	{StatusUnderReview, ActionReject}:           StatusRejected,
	{StatusApproved, ActionSign}:                StatusPending,
}

// Next returns the status reached by applying action in from, or a
// *TransitionError.
func Next(from Status, action Action) (Status, error) {
	to, ok := transitions[edge{from, action}]
	if !ok {
		return "", &TransitionError{From: from, Action: action}
	}
	return to, nil
}
