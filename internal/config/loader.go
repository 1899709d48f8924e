package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cxlfabric/swemu/internal/model"
)

// Load reads a YAML configuration document from path and builds a
// model.Switch from it, following the load order: construct the Model
// with clamped port/VCS/vPPB counts, apply switch identity and per-port
// overrides via Set* operations, register the device catalog, apply vPPB
// pre-bindings, then for every port whose device_name names a catalog
// entry, Connect it. Grounded on internal/bundle.LoadMetadata's
// read-then-unmarshal-then-normalize shape.
func Load(path string) (*model.Switch, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	doc.normalize()

	sw := model.New(doc.Switch.NumPorts, doc.Switch.NumVCSs, doc.Switch.VppbsPerVCS)
	sw.SetIdentity(doc.Emulator.Name, doc.Switch.VID, doc.Switch.DID,
		doc.Switch.SVID, doc.Switch.SSID, doc.Switch.SN, doc.Switch.MaxMsgSizeN)
	sw.SetMsgRspLimitN(doc.Switch.MsgRspLimitN)
	if doc.Emulator.Dir != "" {
		sw.SetDir(doc.Emulator.Dir)
	}

	for _, pc := range doc.Ports {
		state := model.PortDisabled
		if pc.State != "" {
			s, err := parsePortState(pc.State)
			if err != nil {
				return nil, fmt.Errorf("config: port %d: %w", pc.Ppid, err)
			}
			state = s
		}
		if err := sw.SetPortOverride(pc.Ppid, pc.MLW, pc.MLS, state, pc.DeviceName); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}

	for _, vc := range doc.VCSs {
		if err := sw.SetVCS(int(vc.Vcsid), vc.Uspid, model.VCSEnabled); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		if vc.Num > 0 {
			if err := sw.SetVCSSize(int(vc.Vcsid), vc.Num); err != nil {
				return nil, fmt.Errorf("config: %w", err)
			}
		}
	}

	for _, dc := range doc.Devices {
		entry, err := buildCatalogEntry(dc)
		if err != nil {
			return nil, fmt.Errorf("config: device %s: %w", dc.Name, err)
		}
		sw.RegisterCatalogEntry(entry)
	}

	for _, vc := range doc.VCSs {
		for _, vp := range vc.VPPBs {
			if err := sw.PreBindVPPB(int(vc.Vcsid), vp.Vppbid, vp.Ppid, vp.Ldid); err != nil {
				return nil, fmt.Errorf("config: vcs %d vppb %d: %w", vc.Vcsid, vp.Vppbid, err)
			}
		}
	}

	for _, pc := range doc.Ports {
		if pc.DeviceName == "" {
			continue
		}
		entry := sw.CatalogEntryByName(pc.DeviceName)
		if entry == nil {
			return nil, fmt.Errorf("config: port %d: unknown device_name %q", pc.Ppid, pc.DeviceName)
		}
		if err := sw.Connect(pc.Ppid, entry); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}

	return sw, nil
}

func parsePortState(s string) (model.PortState, error) {
	switch s {
	case "disabled":
		return model.PortDisabled, nil
	case "binding":
		return model.PortBinding, nil
	case "unbinding":
		return model.PortUnbinding, nil
	case "dsp":
		return model.PortDSP, nil
	case "usp":
		return model.PortUSP, nil
	case "fabric":
		return model.PortFabric, nil
	default:
		return 0, fmt.Errorf("unrecognized port state %q", s)
	}
}

func buildCatalogEntry(dc Device) (*model.CatalogEntry, error) {
	entry := &model.CatalogEntry{
		Name:     dc.Name,
		RootPort: dc.RootPort,
		DV:       dc.DV,
		DT:       model.DeviceType(dc.DT),
		CV:       dc.CV,
		MLW:      dc.MLW,
		MLS:      dc.MLS,
	}
	if dc.MLD != nil {
		m := dc.MLD
		n := m.Num
		entry.MLD = &model.MLDTemplate{
			MemorySize:     m.MemorySize,
			Num:            n,
			EPC:            m.EPC,
			TTR:            m.TTR,
			Granularity:    model.Granularity(m.Granularity),
			Rng1:           make([]uint8, n),
			Rng2:           make([]uint8, n),
			AllocBW:        make([]uint8, n),
			BWLimit:        make([]uint8, n),
			EgressModPcnt:  m.EgressModPcnt,
			EgressSevPcnt:  m.EgressSevPcnt,
			SampleInterval: m.SampleInterval,
			RCB:            m.RCB,
			CompInterval:   m.CompInterval,
			Mmap:           m.Mmap,
		}
	}
	return entry, nil
}
