package domain

// Action is the kind of operation an actor attempts, as seen by the access
// policy.
type Action string

const (
	ActionReadProfile      Action = "profile.read"
	ActionUpdateProfile    Action = "profile.update"
	ActionManageDepartment Action = "department.manage"
	ActionReadDepartment   Action = "department.read"
	ActionCreateHRRequest  Action = "hr_request.create"
	ActionReadHRRequest    Action = "hr_request.read"
	ActionEditHRRequest    Action = "hr_request.edit"
	ActionCloseHRRequest   Action = "hr_request.close"
	ActionManagePicture    Action = "picture.manage"
)
