// Package config defines the YAML document shape a cxl-switch process is
// configured from and the loader that overlays it onto a model.Switch.
package config

// Document is the top-level YAML shape, grounded on
// internal/bundle.Metadata's yaml-tagged struct style.
type Document struct {
	Emulator Emulator `yaml:"emulator"`
	Switch   Switch   `yaml:"switch"`
	Devices  []Device `yaml:"devices"`
	Ports    []Port   `yaml:"ports"`
	VCSs     []VCS    `yaml:"vcss"`
}

// Emulator holds process-wide, non-protocol settings.
type Emulator struct {
	Name string `yaml:"name"`
	Dir  string `yaml:"dir,omitempty"`
}

// Switch holds the switch-wide identity and sizing overlay.
type Switch struct {
	VID          uint16 `yaml:"vid"`
	DID          uint16 `yaml:"did"`
	SVID         uint16 `yaml:"svid"`
	SSID         uint16 `yaml:"ssid"`
	SN           uint64 `yaml:"sn"`
	MaxMsgSizeN  uint8  `yaml:"max_msg_size_n"`
	MsgRspLimitN uint8  `yaml:"msg_rsp_limit_n"`

	NumPorts     int `yaml:"num_ports,omitempty"`
	NumVCSs      int `yaml:"num_vcss,omitempty"`
	VppbsPerVCS  int `yaml:"vppbs_per_vcs,omitempty"`
}

// Device is one device-catalog entry, connectable to a port by name.
type Device struct {
	Name     string `yaml:"name"`
	RootPort bool   `yaml:"rootport,omitempty"`
	DV       uint8  `yaml:"dv"`
	DT       uint8  `yaml:"dt"`
	CV       uint8  `yaml:"cv"`
	MLW      uint8  `yaml:"mlw"`
	MLS      uint8  `yaml:"mls"`
	MLD      *MLD   `yaml:"mld,omitempty"`
}

// MLD is a catalog device's multi-logical-device shape.
type MLD struct {
	MemorySize  uint64 `yaml:"memory_size"`
	Num         uint8  `yaml:"num"`
	Granularity uint8  `yaml:"granularity"`
	Mmap        bool   `yaml:"mmap,omitempty"`

	EPC uint8 `yaml:"epc,omitempty"`
	TTR uint8 `yaml:"ttr,omitempty"`

	EgressModPcnt  uint8 `yaml:"egress_mod_pcnt,omitempty"`
	EgressSevPcnt  uint8 `yaml:"egress_sev_pcnt,omitempty"`
	SampleInterval uint8 `yaml:"sample_interval,omitempty"`
	RCB            uint8 `yaml:"rcb,omitempty"`
	CompInterval   uint8 `yaml:"comp_interval,omitempty"`
}

// Port overlays per-port defaults and an optional device_name to connect
// at load time.
type Port struct {
	Ppid       int    `yaml:"ppid"`
	DeviceName string `yaml:"device_name,omitempty"`
	MLW        uint8  `yaml:"mlw,omitempty"`
	MLS        uint8  `yaml:"mls,omitempty"`
	State      string `yaml:"state,omitempty"`
}

// VCS overlays a VCS's upstream port and any pre-bound vPPBs.
type VCS struct {
	Vcsid uint16 `yaml:"vcsid"`
	Uspid uint16 `yaml:"uspid"`
	Num   int    `yaml:"num,omitempty"`
	VPPBs []VPPB `yaml:"vppbs,omitempty"`
}

// VPPB is one pre-bound vPPB slot.
type VPPB struct {
	Vppbid int    `yaml:"vppbid"`
	Ppid   uint16 `yaml:"ppid"`
	Ldid   uint16 `yaml:"ldid"`
}

func (d *Document) normalize() {
	if d.Emulator.Name == "" {
		d.Emulator.Name = "switch0"
	}
	if d.Switch.MaxMsgSizeN == 0 {
		d.Switch.MaxMsgSizeN = 13
	}
	if d.Switch.MsgRspLimitN == 0 {
		d.Switch.MsgRspLimitN = 9
	}
}
