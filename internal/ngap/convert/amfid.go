package convert

import (
	"fmt"

	"github.com/your-org/omnipath/internal/config"
	"github.com/your-org/omnipath/internal/ngap/model"
)

// GuamiToModel converts a configured GUAMI into its NGAP wire form,
// validating that AmfSetId fits 10 bits and AmfPointer fits 6 bits per
// the AMF Identifier layout of TS 23.003 §2.10.1.
func GuamiToModel(g config.GUAMI) (model.Guami, error) {
	if g.AMFSetID > 0x3FF {
		return model.Guami{}, fmt.Errorf("convert: amf_set_id %d overflows 10 bits", g.AMFSetID)
	}
	if g.AMFPointer > 0x3F {
		return model.Guami{}, fmt.Errorf("convert: amf_pointer %d overflows 6 bits", g.AMFPointer)
	}
	plmn, err := PlmnIDToIdentity(g.PLMNID)
	if err != nil {
		return model.Guami{}, err
	}
	return model.Guami{
		PlmnIdentity: plmn,
		AmfRegionId:  g.AMFRegionID,
		AmfSetId:     g.AMFSetID,
		AmfPointer:   g.AMFPointer,
	}, nil
}

// ModelToGuami is the inverse of GuamiToModel.
func ModelToGuami(g model.Guami) (config.GUAMI, error) {
	plmn, err := IdentityToPlmnID(g.PlmnIdentity)
	if err != nil {
		return config.GUAMI{}, err
	}
	return config.GUAMI{
		PLMNID:      plmn,
		AMFRegionID: g.AmfRegionId,
		AMFSetID:    g.AmfSetId,
		AMFPointer:  g.AmfPointer,
	}, nil
}

// PlmnSupportListToModel converts the configured PLMN support list into
// its NGAP PlmnSupportItem wire form, used to build NG Setup Response.
func PlmnSupportListToModel(list []config.PLMNSupport) ([]model.PlmnSupportItem, error) {
	out := make([]model.PlmnSupportItem, 0, len(list))
	for _, entry := range list {
		plmn, err := PlmnIDToIdentity(entry.PLMNID)
		if err != nil {
			return nil, err
		}
		slices := make([]model.SliceSupportItem, 0, len(entry.SNSSAI))
		for _, s := range entry.SNSSAI {
			snssai, err := SnssaiToModel(s)
			if err != nil {
				return nil, err
			}
			slices = append(slices, model.SliceSupportItem{Snssai: snssai})
		}
		out = append(out, model.PlmnSupportItem{PlmnIdentity: plmn, SliceSupportList: slices})
	}
	return out, nil
}

// ServedGuamiListToModel converts the configured served-GUAMI list into
// its NGAP wire form.
func ServedGuamiListToModel(list []config.GUAMI) ([]model.ServedGuamiItem, error) {
	out := make([]model.ServedGuamiItem, 0, len(list))
	for _, g := range list {
		guami, err := GuamiToModel(g)
		if err != nil {
			return nil, err
		}
		out = append(out, model.ServedGuamiItem{Guami: guami})
	}
	return out, nil
}

// SupportedTaListToModel converts the configured supported-TAI list into
// its NGAP wire form: one item per configured TAI, carrying that TAI's
// own PLMN and S-NSSAI list as its single broadcast PLMN.
func SupportedTaListToModel(list []config.SupportedTAI) ([]model.SupportedTaItem, error) {
	out := make([]model.SupportedTaItem, 0, len(list))
	for _, tai := range list {
		tac, err := TacToModel(tai.TAC)
		if err != nil {
			return nil, err
		}
		plmn, err := PlmnIDToIdentity(tai.PLMNID)
		if err != nil {
			return nil, err
		}
		slices := make([]model.SliceSupportItem, 0, len(tai.SNSSAI))
		for _, s := range tai.SNSSAI {
			snssai, err := SnssaiToModel(s)
			if err != nil {
				return nil, err
			}
			slices = append(slices, model.SliceSupportItem{Snssai: snssai})
		}
		out = append(out, model.SupportedTaItem{
			Tac: tac,
			BroadcastPlmns: []model.PlmnSupportItem{{
				PlmnIdentity:     plmn,
				SliceSupportList: slices,
			}},
		})
	}
	return out, nil
}
