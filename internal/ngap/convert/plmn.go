// Package convert implements the byte-level NGAP encodings of TS 38.413
// §9.3.3.5 (PLMN Identity), its TAC, S-NSSAI, and AMF Identifier siblings.
// Grounded digit-for-digit on
// app/src/ngap/core/utils/convert/{mcc_mnc_plmnid,tac,snssai,transform}.rs
// in original_source.
package convert

import (
	"fmt"

	"github.com/your-org/omnipath/internal/config"
	"github.com/your-org/omnipath/internal/ngap/model"
)

// PlmnIDToIdentity packs an (MCC, MNC) decimal-digit pair into the 3-octet
// PLMN Identity of TS 38.413 §9.3.3.5. id.MNC must be 2 or 3 decimal
// digits; id.MCC must be exactly 3.
func PlmnIDToIdentity(id config.PLMNID) (model.PlmnIdentity, error) {
	if len(id.MCC) != 3 {
		return model.PlmnIdentity{}, fmt.Errorf("convert: mcc %q must be exactly 3 digits", id.MCC)
	}
	if len(id.MNC) != 2 && len(id.MNC) != 3 {
		return model.PlmnIdentity{}, fmt.Errorf("convert: mnc %q must be 2 or 3 digits", id.MNC)
	}

	mcc, err := digits(id.MCC)
	if err != nil {
		return model.PlmnIdentity{}, fmt.Errorf("convert: mcc: %w", err)
	}
	mnc, err := digits(id.MNC)
	if err != nil {
		return model.PlmnIdentity{}, fmt.Errorf("convert: mnc: %w", err)
	}

	var out model.PlmnIdentity
	out[0] = mcc[1]<<4 | mcc[0]
	if len(mnc) == 2 {
		out[1] = 0xF0 | mcc[2]
		out[2] = mnc[1]<<4 | mnc[0]
	} else {
		out[1] = mnc[0]<<4 | mcc[2]
		out[2] = mnc[2]<<4 | mnc[1]
	}
	return out, nil
}

// IdentityToPlmnID unpacks a 3-octet PLMN Identity back into decimal MCC
// and MNC digit strings, inverting PlmnIDToIdentity.
func IdentityToPlmnID(id model.PlmnIdentity) (config.PLMNID, error) {
	octet1, octet2, octet3 := id[0], id[1], id[2]

	mccDigit1 := octet1 & 0x0F
	mccDigit2 := octet1 >> 4
	mccDigit3 := octet2 & 0x0F
	mncDigit1 := octet3 >> 4
	mncDigit2 := octet3 & 0x0F
	mncDigit3 := octet2 >> 4

	if mccDigit1 > 9 || mccDigit2 > 9 || mccDigit3 > 9 || mncDigit1 > 9 || mncDigit2 > 9 {
		return config.PLMNID{}, fmt.Errorf("convert: invalid MCC/MNC digits in PLMN identity %x", id)
	}

	mcc := fmt.Sprintf("%d%d%d", mccDigit1, mccDigit2, mccDigit3)

	var mnc string
	if mncDigit3 >= 0xA {
		// Filler digit: this PLMN carries a 2-digit MNC.
		mnc = fmt.Sprintf("%d%d", mncDigit2, mncDigit1)
	} else {
		mnc = fmt.Sprintf("%d%d%d", mncDigit3, mncDigit2, mncDigit1)
	}
	return config.PLMNID{MCC: mcc, MNC: mnc}, nil
}

// digits converts an ASCII decimal-digit string into its numeric values.
func digits(s string) ([]byte, error) {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return nil, fmt.Errorf("non-digit character %q in %q", s[i], s)
		}
		out[i] = s[i] - '0'
	}
	return out, nil
}
