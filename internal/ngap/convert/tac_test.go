package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/omnipath/internal/ngap/model"
)

func TestTacRoundTrip(t *testing.T) {
	cases := []struct {
		hex  string
		want model.Tac
	}{
		{"123456", model.Tac{0x12, 0x34, 0x56}},
		{"000000", model.Tac{0x00, 0x00, 0x00}},
		{"ffffff", model.Tac{0xFF, 0xFF, 0xFF}},
	}

	for _, tc := range cases {
		got, err := TacToModel(tc.hex)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
		assert.Equal(t, tc.hex, ModelToTac(got))
	}
}

func TestTacToModelRejectsWrongLength(t *testing.T) {
	_, err := TacToModel("1234")
	assert.Error(t, err)

	_, err = TacToModel("zz1234")
	assert.Error(t, err)
}
