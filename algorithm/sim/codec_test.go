package sim

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/montecarlo/xerrors"
)

func TestModelCodecRoundTrip(t *testing.T) {
	specs := []ModelSpec{
		GBM{Mu: 0.05, Sigma: 0.2},
		Bootstrap{},
		JumpDiffusion{Mu: 0.05, Sigma: 0.2, Lambda: 2, MuJ: -0.02, SigmaJ: 0.05},
		GARCH{Omega: 1e-5, Alpha: 0.1, Beta: 0.85},
	}
	for _, spec := range specs {
		data, err := MarshalModel(spec)
		require.NoError(t, err)
		got, err := UnmarshalModel(data)
		require.NoError(t, err)
		assert.Equal(t, spec, got)
	}
}

func TestMarshalModelShape(t *testing.T) {
	data, err := MarshalModel(GBM{Mu: 0.1, Sigma: 0.3})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"GBM","params":{"mu":0.1,"sigma":0.3}}`, string(data))
}

func TestUnmarshalModelErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"unknown type", `{"type":"Heston","params":{}}`, xerrors.ErrUnknownModel},
		{"missing params", `{"type":"GARCH"}`, xerrors.ErrMissingModelParams},
		{"null params", `{"type":"GBM","params":null}`, xerrors.ErrMissingModelParams},
		{"empty gbm params", `{"type":"GBM","params":{}}`, xerrors.ErrMissingModelParams},
		{"gbm without sigma", `{"type":"GBM","params":{"mu":0.1}}`, xerrors.ErrMissingModelParams},
		{"jump diffusion without jumps", `{"type":"JumpDiffusion","params":{"mu":0.1,"sigma":0.2}}`, xerrors.ErrMissingModelParams},
		{"garch null beta", `{"type":"GARCH","params":{"omega":1e-5,"alpha":0.1,"beta":null}}`, xerrors.ErrMissingModelParams},
		{"unknown field", `{"type":"GBM","params":{"mu":0.1,"vol":0.2}}`, xerrors.ErrInvalidModelParams},
		{"not json", `nope`, xerrors.ErrInvalidModelParams},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalModel([]byte(tt.in))
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestUnmarshalModelNamesMissingParam(t *testing.T) {
	_, err := UnmarshalModel([]byte(`{"type":"JumpDiffusion","params":{"mu":0.1,"sigma":0.2,"lambda":1,"sigma_j":0.05}}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, xerrors.ErrMissingModelParams))
	assert.Contains(t, err.Error(), `"mu_j"`)
}

func TestUnmarshalModelAcceptsExplicitZeros(t *testing.T) {
	got, err := UnmarshalModel([]byte(`{"type":"GBM","params":{"mu":0,"sigma":0}}`))
	require.NoError(t, err)
	assert.Equal(t, GBM{}, got)
}

func TestRequireParams(t *testing.T) {
	assert.NoError(t, RequireParams(KindGARCH, []byte(`{"omega":1e-5,"alpha":0.1,"beta":0.8}`)))
	assert.True(t, errors.Is(RequireParams(KindGARCH, []byte(`{"omega":1e-5}`)), xerrors.ErrMissingModelParams))
	assert.True(t, errors.Is(RequireParams(KindGBM, []byte(`[1,2]`)), xerrors.ErrInvalidModelParams))
	assert.NoError(t, RequireParams(KindBootstrap, []byte(`{}`)))
}

func TestModelJSONField(t *testing.T) {
	type holder struct {
		Model ModelJSON `json:"model"`
	}
	var h holder
	require.NoError(t, json.Unmarshal([]byte(`{"model":{"type":"Bootstrap"}}`), &h))
	assert.Equal(t, Bootstrap{}, h.Model.Spec)

	_, err := MarshalModel(nil)
	assert.True(t, errors.Is(err, xerrors.ErrMissingModelParams))
}
