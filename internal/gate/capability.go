package gate

// Capability constants name the guarded actions of the application.
const (
	// CapSend allows composing and dispatching messages to a group.
	CapSend Capability = "message.send"
	// CapManage allows editing recipients and groups of the caller's corps.
	CapManage Capability = "corps.manage"
	// CapApprove allows viewing the unapproved user queue and approving users.
	CapApprove Capability = "admin.approve"
	// CapSelectCorps allows linking the caller to a corps.
	CapSelectCorps Capability = "corps.select"
	// CapViewPending allows viewing the approval pending notice.
	CapViewPending Capability = "approval.pending"
)

// Capability is a guarded action.
type Capability string
