// Package authz decides which actions a role may be offered. It is pure
// table lookup: adding a role or an action is a data change. Denial here
// happens before any network call; the backend enforces the same rules
// again server-side.
package authz

import "github.com/me/shelfctl/pkg/model"

// Action identifies one gated operation or view.
type Action string

const (
	ActionLogin               Action = "login"
	ActionRegister            Action = "register"
	ActionManageUsers         Action = "manage-users"
	ActionViewBookStatus      Action = "view-book-status"
	ActionAddBook             Action = "add-book"
	ActionRemoveBook          Action = "remove-book"
	ActionUpdateBook          Action = "update-book"
	ActionManageIssueRequests Action = "manage-issue-requests"
	ActionBrowseBooks         Action = "browse-books"
	ActionSubmitIssueRequest  Action = "submit-issue-request"
	ActionViewBorrowHistory   Action = "view-borrow-history"
)

// anonymousActions is what an absent session may do.
var anonymousActions = []Action{ActionLogin, ActionRegister}

// roleActions is the permission table. Order within a slice is the order
// the actions are offered in.
var roleActions = map[model.Role][]Action{
	model.RoleOwner: {
		ActionManageUsers,
		ActionViewBookStatus,
	},
	model.RoleLibraryAdmin: {
		ActionAddBook,
		ActionRemoveBook,
		ActionUpdateBook,
		ActionManageIssueRequests,
		ActionBrowseBooks,
	},
	model.RoleReader: {
		ActionBrowseBooks,
		ActionSubmitIssueRequest,
		ActionViewBorrowHistory,
	},
}

// PermittedActions returns the fixed action set for a session, which may
// be nil for the anonymous case. The returned slice must not be mutated.
func PermittedActions(sess *model.Session) []Action {
	if !sess.Valid() {
		return anonymousActions
	}
	return roleActions[sess.Role]
}

// Allowed reports whether the session may perform the action.
func Allowed(sess *model.Session, action Action) bool {
	for _, a := range PermittedActions(sess) {
		if a == action {
			return true
		}
	}
	return false
}
