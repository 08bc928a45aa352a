package convert

import (
	"encoding/hex"
	"fmt"

	"github.com/your-org/omnipath/internal/config"
	"github.com/your-org/omnipath/internal/ngap/model"
)

// SnssaiToModel converts a configured S-NSSAI (decimal SST + optional
// hex-string SD) into its NGAP wire form.
func SnssaiToModel(s config.SNSSAI) (model.Snssai, error) {
	out := model.Snssai{Sst: s.SST}
	if s.SD == "" {
		return out, nil
	}
	raw, err := hex.DecodeString(s.SD)
	if err != nil {
		return model.Snssai{}, fmt.Errorf("convert: sd %q is not valid hex: %w", s.SD, err)
	}
	if len(raw) != 3 {
		return model.Snssai{}, fmt.Errorf("convert: sd %q must decode to exactly 3 bytes, got %d", s.SD, len(raw))
	}
	var sd [3]byte
	copy(sd[:], raw)
	out.Sd = &sd
	return out, nil
}

// ModelToSnssai is the inverse of SnssaiToModel.
func ModelToSnssai(s model.Snssai) config.SNSSAI {
	out := config.SNSSAI{SST: s.Sst}
	if s.Sd != nil {
		out.SD = hex.EncodeToString(s.Sd[:])
	}
	return out
}
