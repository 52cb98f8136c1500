package navigation

import "github.com/satext/satext/internal/gate"

// Page keys shared by the handlers and the menu.
const (
	PageCorps      = "corps"
	PagePending    = "pending"
	PageCompose    = "compose"
	PageHistory    = "history"
	PageRecipients = "recipients"
	PageGroups     = "groups"
	PageApprovals  = "approvals"
	PageProfile    = "profile"
)

// MenuItem is one entry of the top navigation.
type MenuItem struct {
	Title string
	URL   string
	Page  string
}

var menu = []struct {
	item MenuItem
	cap  gate.Capability
}{
	{MenuItem{"Choose corps", "/corps", PageCorps}, gate.CapSelectCorps},
	{MenuItem{"Approval", "/pending", PagePending}, gate.CapViewPending},
	{MenuItem{"Send", "/", PageCompose}, gate.CapSend},
	{MenuItem{"History", "/history", PageHistory}, gate.CapSend},
	{MenuItem{"Recipients", "/recipients", PageRecipients}, gate.CapManage},
	{MenuItem{"Groups", "/groups", PageGroups}, gate.CapManage},
	{MenuItem{"Approvals", "/admin/approvals", PageApprovals}, gate.CapApprove},
}

// Menu returns the entries the caller may open. Profile and sign-out are
// always present.
func Menu(caller gate.Caller) []MenuItem {
	items := make([]MenuItem, 0, len(menu)+2)

	for _, m := range menu {
		if caller.Can(m.cap) {
			items = append(items, m.item)
		}
	}

	return append(items,
		MenuItem{"Profile", "/profile", PageProfile},
		MenuItem{"Sign out", "/logout", ""},
	)
}
