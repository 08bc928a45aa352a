package model

// RanUeNgapId is the UE handle assigned by the gNB (TS 38.413 §9.3.3.2),
// unique within its GnbContext's UE manager.
type RanUeNgapId uint32

// AmfUeNgapId is the UE handle assigned by the AMF (TS 38.413 §9.3.3.1),
// allocated from a per-gNB monotonic counter and never reused within that
// gNB's lifetime.
type AmfUeNgapId uint64

// GlobalRanNodeId identifies a gNB by PLMN plus gNB ID. GnbIdBits is the
// number of significant bits in GnbIdValue (TS 38.413 §9.3.1.6 allows 22
// to 32 bits); the struct stays comparable for use as a map key.
type GlobalRanNodeId struct {
	PlmnIdentity PlmnIdentity
	GnbIdBits    uint8
	GnbIdValue   uint32
}

// RrcEstablishmentCause mirrors TS 38.413 §9.3.1.61's enumerated values
// closely enough for routing/logging; the AMF never branches on its exact
// meaning today.
type RrcEstablishmentCause uint8

// PagingDrx is the UE's default paging cycle (TS 38.413 §9.3.1.31).
type PagingDrx uint8
