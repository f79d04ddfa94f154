package domain

// Action is something a principal may attempt on an application.
type Action string

const (
	ActionShow             Action = "show"
	ActionCreate           Action = "create"
	ActionUpdate           Action = "update"
	ActionDestroy          Action = "destroy"
	ActionSubmit           Action = "submit"
	ActionSign             Action = "sign"
	ActionResubmit         Action = "resubmit"
	ActionReview           Action = "review"
	ActionRequestDocuments Action = "request_documents"
	ActionApprove          Action = "approve"
	ActionReject           Action = "reject"
	ActionAddNote          Action = "add_note"
)

var Actions = []Action{
	ActionShow,
	ActionCreate,
	ActionUpdate,
	ActionDestroy,
	ActionSubmit,
	ActionSign,
	ActionResubmit,
	ActionReview,
	ActionRequestDocuments,
	ActionApprove,
	ActionReject,
	ActionAddNote,
}

func (a Action) String() string { return string(a) }
