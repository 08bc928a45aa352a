package convert

import (
	"encoding/hex"
	"fmt"

	"github.com/your-org/omnipath/internal/ngap/model"
)

// TacToModel decodes a 6-hex-character Tracking Area Code string (as
// carried in Configuration.SupportTAI[i].TAC) into its 3-octet wire form.
func TacToModel(tac string) (model.Tac, error) {
	var out model.Tac
	raw, err := hex.DecodeString(tac)
	if err != nil {
		return out, fmt.Errorf("convert: tac %q is not valid hex: %w", tac, err)
	}
	if len(raw) != 3 {
		return out, fmt.Errorf("convert: tac %q must decode to exactly 3 bytes, got %d", tac, len(raw))
	}
	copy(out[:], raw)
	return out, nil
}

// ModelToTac is the inverse of TacToModel: it renders a 3-octet TAC as a
// lowercase 6-hex-character string.
func ModelToTac(tac model.Tac) string {
	return hex.EncodeToString(tac[:])
}
