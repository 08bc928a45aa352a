// Package model holds the wire-adjacent NGAP value types the codec and
// engine packages share: the raw PLMN/TAC/S-NSSAI/GUAMI encodings plus the
// procedure PDU shapes built on top of them (spec.md §4.5, §4.2).
package model

// PlmnIdentity is the 3-octet PLMN Identity defined in TS 38.413 §9.3.3.5.
// internal/ngap/convert holds the conversion to/from decimal MCC/MNC
// strings; this package only carries the already-encoded bytes.
type PlmnIdentity [3]byte

// Tac is the 3-octet Tracking Area Code (TS 38.413 §9.3.3.9), carried as
// raw bytes; internal/ngap/convert handles the hex-string round trip.
type Tac [3]byte

// Snssai is Single Network Slice Selection Assistance Information
// (TS 38.413 §9.3.1.41). Sd is nil when the slice carries no
// Slice Differentiator.
type Snssai struct {
	Sst byte
	Sd  *[3]byte
}

// Guami is the Globally Unique AMF Identifier (TS 38.413 §9.3.3.3).
// AmfSetId only uses its low 10 bits, AmfPointer only its low 6 bits —
// internal/ngap/convert is responsible for packing/unpacking those widths
// against the 3GPP AMF Identifier octet layout.
type Guami struct {
	PlmnIdentity PlmnIdentity
	AmfRegionId  uint8
	AmfSetId     uint16
	AmfPointer   uint8
}

// SliceSupportItem pairs one S-NSSAI with the PLMN it is offered under, as
// carried inside a PlmnSupportItem.
type SliceSupportItem struct {
	Snssai Snssai
}

// PlmnSupportItem is one entry of a Served PLMN list (TS 38.413 §9.3.3.32).
type PlmnSupportItem struct {
	PlmnIdentity     PlmnIdentity
	SliceSupportList []SliceSupportItem
}

// ServedGuamiItem is one entry of a Served GUAMI list (TS 38.413 §9.3.3.31).
type ServedGuamiItem struct {
	Guami          Guami
	BackupAmfName  string
}

// SupportedTaItem is one entry of a Supported TA list (TS 38.413 §9.3.3.8):
// a tracking area plus the PLMNs/slices it broadcasts.
type SupportedTaItem struct {
	Tac            Tac
	BroadcastPlmns []PlmnSupportItem
}
