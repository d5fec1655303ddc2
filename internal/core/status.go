package core

// Order status labels derived from the three workflow flags.
const (
	StatusNew          = "New"
	StatusDelivered    = "Delivered"
	StatusReadyPending = "Ready/Pending"
	StatusPending      = "Pending"
	StatusReady        = "Ready"
)

// OrderFlags holds the three independent workflow booleans the status
// label is derived from. The label itself is never stored authoritatively.
type OrderFlags struct {
	Ready     bool `json:"ready"`
	Pending   bool `json:"pending"`
	Delivered bool `json:"delivered"`
}

// DeriveStatus maps flags to a display label. Priority: Delivered wins
// over everything, then the Ready+Pending combination, then Pending,
// then Ready, else New.
func DeriveStatus(flags OrderFlags) string {
	switch {
	case flags.Delivered:
		return StatusDelivered
	case flags.Pending && flags.Ready:
		return StatusReadyPending
	case flags.Pending:
		return StatusPending
	case flags.Ready:
		return StatusReady
	default:
		return StatusNew
	}
}

// SetDelivered toggles the delivered flag. Marking an order delivered
// force-clears ready, pending and any pending-issue text.
func (o *Order) SetDelivered(delivered bool) {
	o.Flags.Delivered = delivered
	if delivered {
		o.Flags.Ready = false
		o.Flags.Pending = false
		o.PendingIssues = ""
	}
	o.Status = DeriveStatus(o.Flags)
}

// SetPending toggles the pending flag. Pending and delivered are mutually
// exclusive; clearing pending also clears the pending-issue text.
func (o *Order) SetPending(pending bool) {
	o.Flags.Pending = pending
	if pending {
		o.Flags.Delivered = false
	} else {
		o.PendingIssues = ""
	}
	o.Status = DeriveStatus(o.Flags)
}

// SetReady toggles the ready flag.
func (o *Order) SetReady(ready bool) {
	o.Flags.Ready = ready
	o.Status = DeriveStatus(o.Flags)
}
