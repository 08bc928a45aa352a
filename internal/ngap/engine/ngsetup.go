package engine

import (
	"github.com/your-org/omnipath/internal/appctx"
	"github.com/your-org/omnipath/internal/ngap/convert"
	"github.com/your-org/omnipath/internal/ngap/gnbcontext"
	"github.com/your-org/omnipath/internal/ngap/model"
)

// tai is the (PLMN, TAC) pair the NG Setup intersection test compares,
// ignoring S-NSSAI per spec.md §4.5.3 step 4.
type tai struct {
	plmn model.PlmnIdentity
	tac  model.Tac
}

// HandleNgSetupRequest implements spec.md §4.5.3. gnb is mutated in place
// exactly once, only on success — it is not yet registered in gnbs at
// this point (spec.md §3: "Created when NG setup succeeds"), so no
// concurrent access is possible.
func HandleNgSetupRequest(app *appctx.AppContext, gnbs *GnbManager, gnb *gnbcontext.GnbContext, req *model.NgSetupRequest) (*model.NgSetupResponse, *model.NgSetupFailure) {
	if gnbs.Contains(req.GlobalRanNodeId) {
		return nil, &model.NgSetupFailure{
			Cause: model.Cause{Group: model.CauseGroupProtocol, Value: model.CauseProtocolSemanticError},
		}
	}

	name := resolveRanName(req.RanNodeName, req.ExtendedRanNodeName)

	requestedTais := flattenTais(req.SupportedTaList)

	cfg := app.GetConfig()
	configured, err := convert.SupportedTaListToModel(cfg.SupportTAI)
	if err != nil {
		return nil, &model.NgSetupFailure{
			Cause: model.Cause{Group: model.CauseGroupMisc, Value: model.CauseMiscUnknownPlmnOrSnpn},
		}
	}
	configuredTais := flattenTais(configured)

	if !intersects(requestedTais, configuredTais) {
		return nil, &model.NgSetupFailure{
			Cause: model.Cause{Group: model.CauseGroupMisc, Value: model.CauseMiscUnknownPlmnOrSnpn},
		}
	}

	servedGuamis, err := convert.ServedGuamiListToModel(cfg.ServedGUAMI)
	if err != nil {
		return nil, &model.NgSetupFailure{
			Cause: model.Cause{Group: model.CauseGroupMisc, Value: model.CauseMiscUnknownPlmnOrSnpn},
		}
	}
	plmnSupport, err := convert.PlmnSupportListToModel(cfg.PLMNSupport)
	if err != nil {
		return nil, &model.NgSetupFailure{
			Cause: model.Cause{Group: model.CauseGroupMisc, Value: model.CauseMiscUnknownPlmnOrSnpn},
		}
	}

	gnb.GlobalRanNodeId = req.GlobalRanNodeId
	gnb.Name = name
	gnb.DefaultPagingDrx = req.DefaultPagingDrx

	return &model.NgSetupResponse{
		AmfName:             cfg.AMFName,
		ServedGuamiList:     servedGuamis,
		PlmnSupportList:     plmnSupport,
		RelativeAmfCapacity: 255,
	}, nil
}

// resolveRanName implements spec.md §4.5.3 step 2's precedence; this
// model carries a single ExtendedRanNodeName string rather than
// distinguishing its UTF8String/VisibleString NGAP encodings, so the
// precedence collapses to extended > plain > empty.
func resolveRanName(plain, extended string) string {
	if extended != "" {
		return extended
	}
	return plain
}

func flattenTais(items []model.SupportedTaItem) map[tai]struct{} {
	out := make(map[tai]struct{})
	for _, item := range items {
		for _, plmn := range item.BroadcastPlmns {
			out[tai{plmn: plmn.PlmnIdentity, tac: item.Tac}] = struct{}{}
		}
	}
	return out
}

func intersects(a, b map[tai]struct{}) bool {
	for k := range a {
		if _, ok := b[k]; ok {
			return true
		}
	}
	return false
}
