package model

// VPPB is a virtual PCIe-to-PCIe bridge: a bindable slot within a VCS.
type VPPB struct {
	Vppbid     uint16
	BindStatus BindStatus
	Ppid       uint16 // bound physical port; meaningful iff BindStatus != Unbound
	Ldid       uint16 // LdidUnbound sentinel when bound to a whole port
}

// Reset clears a vPPB back to its unbound zero state, as VSC_UNBIND does:
// {UNBOUND, ppid=0, ldid=0} per the BIND;UNBIND round-trip law.
func (v *VPPB) Reset() {
	v.BindStatus = Unbound
	v.Ppid = 0
	v.Ldid = 0
}
