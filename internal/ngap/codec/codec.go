package codec

import (
	"fmt"

	"github.com/your-org/omnipath/internal/ngap/model"
)

// DecodeError wraps the underlying parse failure. It carries only that
// cause; Decode returns the synthesized ErrorIndication to send back to
// the peer separately, as its Pdu result (spec.md §4.1: "on decode failure the returned PDU is an
// ErrorIndication ... CriticalityDiagnostics populated by inspecting the
// raw bytes").
type DecodeError struct {
	Cause error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("codec: decode failed: %v", e.Cause)
}

func (e *DecodeError) Unwrap() error { return e.Cause }

// Encode serializes pdu into its wire form.
func Encode(pdu model.Pdu) ([]byte, error) {
	switch pdu.Kind {
	case model.KindNgSetupRequest:
		return encodeNgSetupRequest(pdu.NgSetupRequest), nil
	case model.KindNgSetupResponse:
		return encodeNgSetupResponse(pdu.NgSetupResponse), nil
	case model.KindNgSetupFailure:
		return encodeNgSetupFailure(pdu.NgSetupFailure), nil
	case model.KindInitialUeMessage:
		return encodeInitialUeMessage(pdu.InitialUeMessage), nil
	case model.KindDownlinkNasTransport:
		return encodeDownlinkNasTransport(pdu.DownlinkNasTransport), nil
	case model.KindErrorIndication:
		return encodeErrorIndication(pdu.ErrorIndication), nil
	default:
		return nil, fmt.Errorf("codec: unknown pdu kind %d", pdu.Kind)
	}
}

// Decode parses raw into a Pdu. On failure it returns both a non-nil
// *DecodeError and a Pdu already populated as the ErrorIndication that
// should be sent back to the peer, so callers never need to build the
// failure reply themselves (spec.md §4.1).
func Decode(raw []byte) (model.Pdu, error) {
	if len(raw) == 0 {
		return synthesizeErrorIndication(raw), &DecodeError{Cause: fmt.Errorf("empty message")}
	}

	kind := model.PduKind(raw[0])
	r := newReader(raw[1:])

	var (
		pdu model.Pdu
		err error
	)

	switch kind {
	case model.KindNgSetupRequest:
		pdu.NgSetupRequest, err = decodeNgSetupRequest(r)
		pdu.Kind = model.KindNgSetupRequest
	case model.KindNgSetupResponse:
		pdu.NgSetupResponse, err = decodeNgSetupResponse(r)
		pdu.Kind = model.KindNgSetupResponse
	case model.KindNgSetupFailure:
		pdu.NgSetupFailure, err = decodeNgSetupFailure(r)
		pdu.Kind = model.KindNgSetupFailure
	case model.KindInitialUeMessage:
		pdu.InitialUeMessage, err = decodeInitialUeMessage(r)
		pdu.Kind = model.KindInitialUeMessage
	case model.KindDownlinkNasTransport:
		pdu.DownlinkNasTransport, err = decodeDownlinkNasTransport(r)
		pdu.Kind = model.KindDownlinkNasTransport
	case model.KindErrorIndication:
		pdu.ErrorIndication, err = decodeErrorIndication(r)
		pdu.Kind = model.KindErrorIndication
	default:
		err = fmt.Errorf("unrecognized pdu kind byte %d", raw[0])
	}

	if err != nil {
		return synthesizeErrorIndication(raw), &DecodeError{Cause: err}
	}
	return pdu, nil
}

// synthesizeErrorIndication builds the ErrorIndication PDU a malformed
// message earns (spec.md §4.1): cause
// Protocol/AbstractSyntaxErrorFalselyConstructedMessage, with
// CriticalityDiagnostics' ProcedureCode/TriggeringMessage read
// best-effort from whatever header bytes did arrive.
func synthesizeErrorIndication(raw []byte) model.Pdu {
	diag := &model.CriticalityDiagnostics{}
	if len(raw) >= 1 {
		diag.TriggeringMessage = raw[0]
	}
	if len(raw) >= 2 {
		diag.ProcedureCode = raw[1]
	}
	return model.Pdu{
		Kind: model.KindErrorIndication,
		ErrorIndication: &model.ErrorIndication{
			Cause: model.Cause{
				Group: model.CauseGroupProtocol,
				Value: model.CauseProtocolAbstractSyntaxErrorFalselyConstructedMessage,
			},
			CriticalityDiagnostics: diag,
		},
	}
}

func encodePlmnIdentity(w *writer, id model.PlmnIdentity) {
	w.buf = append(w.buf, id[:]...)
}

func decodePlmnIdentity(r *reader) (model.PlmnIdentity, error) {
	var id model.PlmnIdentity
	if err := r.need(3); err != nil {
		return id, err
	}
	copy(id[:], r.buf[r.pos:r.pos+3])
	r.pos += 3
	return id, nil
}

func encodeTac(w *writer, tac model.Tac) {
	w.buf = append(w.buf, tac[:]...)
}

func decodeTac(r *reader) (model.Tac, error) {
	var tac model.Tac
	if err := r.need(3); err != nil {
		return tac, err
	}
	copy(tac[:], r.buf[r.pos:r.pos+3])
	r.pos += 3
	return tac, nil
}

func encodeSnssai(w *writer, s model.Snssai) {
	w.u8(s.Sst)
	if s.Sd == nil {
		w.u8(0)
		return
	}
	w.u8(1)
	w.buf = append(w.buf, s.Sd[:]...)
}

func decodeSnssai(r *reader) (model.Snssai, error) {
	sst, err := r.u8()
	if err != nil {
		return model.Snssai{}, err
	}
	present, err := r.u8()
	if err != nil {
		return model.Snssai{}, err
	}
	if present == 0 {
		return model.Snssai{Sst: sst}, nil
	}
	if err := r.need(3); err != nil {
		return model.Snssai{}, err
	}
	var sd [3]byte
	copy(sd[:], r.buf[r.pos:r.pos+3])
	r.pos += 3
	return model.Snssai{Sst: sst, Sd: &sd}, nil
}

func encodeSliceSupportList(w *writer, list []model.SliceSupportItem) {
	w.u16(uint16(len(list)))
	for _, item := range list {
		encodeSnssai(w, item.Snssai)
	}
}

func decodeSliceSupportList(r *reader) ([]model.SliceSupportItem, error) {
	n, err := r.u16()
	if err != nil {
		return nil, err
	}
	out := make([]model.SliceSupportItem, 0, n)
	for i := uint16(0); i < n; i++ {
		snssai, err := decodeSnssai(r)
		if err != nil {
			return nil, err
		}
		out = append(out, model.SliceSupportItem{Snssai: snssai})
	}
	return out, nil
}

func encodePlmnSupportList(w *writer, list []model.PlmnSupportItem) {
	w.u16(uint16(len(list)))
	for _, item := range list {
		encodePlmnIdentity(w, item.PlmnIdentity)
		encodeSliceSupportList(w, item.SliceSupportList)
	}
}

func decodePlmnSupportList(r *reader) ([]model.PlmnSupportItem, error) {
	n, err := r.u16()
	if err != nil {
		return nil, err
	}
	out := make([]model.PlmnSupportItem, 0, n)
	for i := uint16(0); i < n; i++ {
		plmn, err := decodePlmnIdentity(r)
		if err != nil {
			return nil, err
		}
		slices, err := decodeSliceSupportList(r)
		if err != nil {
			return nil, err
		}
		out = append(out, model.PlmnSupportItem{PlmnIdentity: plmn, SliceSupportList: slices})
	}
	return out, nil
}

func encodeGuami(w *writer, g model.Guami) {
	encodePlmnIdentity(w, g.PlmnIdentity)
	w.u8(g.AmfRegionId)
	w.u16(g.AmfSetId)
	w.u8(g.AmfPointer)
}

func decodeGuami(r *reader) (model.Guami, error) {
	plmn, err := decodePlmnIdentity(r)
	if err != nil {
		return model.Guami{}, err
	}
	region, err := r.u8()
	if err != nil {
		return model.Guami{}, err
	}
	set, err := r.u16()
	if err != nil {
		return model.Guami{}, err
	}
	pointer, err := r.u8()
	if err != nil {
		return model.Guami{}, err
	}
	return model.Guami{PlmnIdentity: plmn, AmfRegionId: region, AmfSetId: set, AmfPointer: pointer}, nil
}

func encodeServedGuamiList(w *writer, list []model.ServedGuamiItem) {
	w.u16(uint16(len(list)))
	for _, item := range list {
		encodeGuami(w, item.Guami)
		w.str(item.BackupAmfName)
	}
}

func decodeServedGuamiList(r *reader) ([]model.ServedGuamiItem, error) {
	n, err := r.u16()
	if err != nil {
		return nil, err
	}
	out := make([]model.ServedGuamiItem, 0, n)
	for i := uint16(0); i < n; i++ {
		guami, err := decodeGuami(r)
		if err != nil {
			return nil, err
		}
		name, err := r.str()
		if err != nil {
			return nil, err
		}
		out = append(out, model.ServedGuamiItem{Guami: guami, BackupAmfName: name})
	}
	return out, nil
}

func encodeSupportedTaList(w *writer, list []model.SupportedTaItem) {
	w.u16(uint16(len(list)))
	for _, item := range list {
		encodeTac(w, item.Tac)
		encodePlmnSupportList(w, item.BroadcastPlmns)
	}
}

func decodeSupportedTaList(r *reader) ([]model.SupportedTaItem, error) {
	n, err := r.u16()
	if err != nil {
		return nil, err
	}
	out := make([]model.SupportedTaItem, 0, n)
	for i := uint16(0); i < n; i++ {
		tac, err := decodeTac(r)
		if err != nil {
			return nil, err
		}
		plmns, err := decodePlmnSupportList(r)
		if err != nil {
			return nil, err
		}
		out = append(out, model.SupportedTaItem{Tac: tac, BroadcastPlmns: plmns})
	}
	return out, nil
}

func encodeGlobalRanNodeId(w *writer, id model.GlobalRanNodeId) {
	encodePlmnIdentity(w, id.PlmnIdentity)
	w.u8(id.GnbIdBits)
	w.u32(id.GnbIdValue)
}

func decodeGlobalRanNodeId(r *reader) (model.GlobalRanNodeId, error) {
	plmn, err := decodePlmnIdentity(r)
	if err != nil {
		return model.GlobalRanNodeId{}, err
	}
	bits, err := r.u8()
	if err != nil {
		return model.GlobalRanNodeId{}, err
	}
	value, err := r.u32()
	if err != nil {
		return model.GlobalRanNodeId{}, err
	}
	return model.GlobalRanNodeId{PlmnIdentity: plmn, GnbIdBits: bits, GnbIdValue: value}, nil
}

func encodeCause(w *writer, c model.Cause) {
	w.u8(uint8(c.Group))
	w.u8(c.Value)
}

func decodeCause(r *reader) (model.Cause, error) {
	group, err := r.u8()
	if err != nil {
		return model.Cause{}, err
	}
	value, err := r.u8()
	if err != nil {
		return model.Cause{}, err
	}
	return model.Cause{Group: model.CauseGroup(group), Value: value}, nil
}

func encodeCriticalityDiagnostics(w *writer, d *model.CriticalityDiagnostics) {
	if d == nil {
		w.u8(0)
		return
	}
	w.u8(1)
	w.u8(d.ProcedureCode)
	w.u8(d.TriggeringMessage)
	w.u8(d.Criticality)
}

func decodeCriticalityDiagnostics(r *reader) (*model.CriticalityDiagnostics, error) {
	present, err := r.u8()
	if err != nil {
		return nil, err
	}
	if present == 0 {
		return nil, nil
	}
	proc, err := r.u8()
	if err != nil {
		return nil, err
	}
	trig, err := r.u8()
	if err != nil {
		return nil, err
	}
	crit, err := r.u8()
	if err != nil {
		return nil, err
	}
	return &model.CriticalityDiagnostics{ProcedureCode: proc, TriggeringMessage: trig, Criticality: crit}, nil
}

func encodeNgSetupRequest(req *model.NgSetupRequest) []byte {
	w := newWriter(byte(model.KindNgSetupRequest))
	encodeGlobalRanNodeId(w, req.GlobalRanNodeId)
	w.str(req.RanNodeName)
	w.str(req.ExtendedRanNodeName)
	encodeSupportedTaList(w, req.SupportedTaList)
	w.u8(uint8(req.DefaultPagingDrx))
	return w.bytes()
}

func decodeNgSetupRequest(r *reader) (*model.NgSetupRequest, error) {
	ranID, err := decodeGlobalRanNodeId(r)
	if err != nil {
		return nil, err
	}
	name, err := r.str()
	if err != nil {
		return nil, err
	}
	extName, err := r.str()
	if err != nil {
		return nil, err
	}
	tais, err := decodeSupportedTaList(r)
	if err != nil {
		return nil, err
	}
	drx, err := r.u8()
	if err != nil {
		return nil, err
	}
	return &model.NgSetupRequest{
		GlobalRanNodeId:     ranID,
		RanNodeName:         name,
		ExtendedRanNodeName: extName,
		SupportedTaList:     tais,
		DefaultPagingDrx:    model.PagingDrx(drx),
	}, nil
}

func encodeNgSetupResponse(resp *model.NgSetupResponse) []byte {
	w := newWriter(byte(model.KindNgSetupResponse))
	w.str(resp.AmfName)
	encodeServedGuamiList(w, resp.ServedGuamiList)
	encodePlmnSupportList(w, resp.PlmnSupportList)
	w.u8(resp.RelativeAmfCapacity)
	return w.bytes()
}

func decodeNgSetupResponse(r *reader) (*model.NgSetupResponse, error) {
	name, err := r.str()
	if err != nil {
		return nil, err
	}
	guamis, err := decodeServedGuamiList(r)
	if err != nil {
		return nil, err
	}
	plmns, err := decodePlmnSupportList(r)
	if err != nil {
		return nil, err
	}
	cap, err := r.u8()
	if err != nil {
		return nil, err
	}
	return &model.NgSetupResponse{
		AmfName:             name,
		ServedGuamiList:     guamis,
		PlmnSupportList:     plmns,
		RelativeAmfCapacity: cap,
	}, nil
}

func encodeNgSetupFailure(fail *model.NgSetupFailure) []byte {
	w := newWriter(byte(model.KindNgSetupFailure))
	encodeCause(w, fail.Cause)
	return w.bytes()
}

func decodeNgSetupFailure(r *reader) (*model.NgSetupFailure, error) {
	cause, err := decodeCause(r)
	if err != nil {
		return nil, err
	}
	return &model.NgSetupFailure{Cause: cause}, nil
}

func encodeInitialUeMessage(msg *model.InitialUeMessage) []byte {
	w := newWriter(byte(model.KindInitialUeMessage))
	w.u32(uint32(msg.RanUeNgapId))
	w.blob(msg.NasPdu)
	w.u8(uint8(msg.RrcEstablishmentCause))
	w.optU32(msg.FiveGSTmsi)
	return w.bytes()
}

func decodeInitialUeMessage(r *reader) (*model.InitialUeMessage, error) {
	ranID, err := r.u32()
	if err != nil {
		return nil, err
	}
	nasPdu, err := r.blob()
	if err != nil {
		return nil, err
	}
	cause, err := r.u8()
	if err != nil {
		return nil, err
	}
	tmsi, err := r.optU32()
	if err != nil {
		return nil, err
	}
	return &model.InitialUeMessage{
		RanUeNgapId:           model.RanUeNgapId(ranID),
		NasPdu:                nasPdu,
		RrcEstablishmentCause: model.RrcEstablishmentCause(cause),
		FiveGSTmsi:            tmsi,
	}, nil
}

func encodeDownlinkNasTransport(msg *model.DownlinkNasTransport) []byte {
	w := newWriter(byte(model.KindDownlinkNasTransport))
	w.u32(uint32(msg.RanUeNgapId))
	w.u64(uint64(msg.AmfUeNgapId))
	w.blob(msg.NasPdu)
	return w.bytes()
}

func decodeDownlinkNasTransport(r *reader) (*model.DownlinkNasTransport, error) {
	ranID, err := r.u32()
	if err != nil {
		return nil, err
	}
	amfID, err := r.u64()
	if err != nil {
		return nil, err
	}
	nasPdu, err := r.blob()
	if err != nil {
		return nil, err
	}
	return &model.DownlinkNasTransport{
		RanUeNgapId: model.RanUeNgapId(ranID),
		AmfUeNgapId: model.AmfUeNgapId(amfID),
		NasPdu:      nasPdu,
	}, nil
}

func encodeErrorIndication(ind *model.ErrorIndication) []byte {
	w := newWriter(byte(model.KindErrorIndication))
	encodeCause(w, ind.Cause)
	encodeCriticalityDiagnostics(w, ind.CriticalityDiagnostics)
	return w.bytes()
}

func decodeErrorIndication(r *reader) (*model.ErrorIndication, error) {
	cause, err := decodeCause(r)
	if err != nil {
		return nil, err
	}
	diag, err := decodeCriticalityDiagnostics(r)
	if err != nil {
		return nil, err
	}
	return &model.ErrorIndication{Cause: cause, CriticalityDiagnostics: diag}, nil
}
