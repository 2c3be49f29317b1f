package sim

import (
	"bytes"
	"encoding/json"

	"github.com/wyfcoding/montecarlo/xerrors"
)

// paramKeys 各参数型模型的必填参数名.
var paramKeys = map[ModelKind][]string{
	KindGBM:           {"mu", "sigma"},
	KindJumpDiffusion: {"mu", "sigma", "lambda", "mu_j", "sigma_j"},
	KindGARCH:         {"omega", "alpha", "beta"},
}

// RequireParams 检查 params 对象包含 kind 的全部必填参数. 缺失或为 null 的参数返回 ErrMissingModelParams.
func RequireParams(kind ModelKind, params []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(params, &fields); err != nil {
		return xerrors.Errorf(xerrors.ErrInvalidModelParams, "decode %s params: %v", kind, err)
	}
	for _, key := range paramKeys[kind] {
		raw, ok := fields[key]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return xerrors.Errorf(xerrors.ErrMissingModelParams, "%s parameter %q not found", kind, key)
		}
	}
	return nil
}

// modelEnvelope 模型的 JSON 表示: {"type": "GBM", "params": {...}}.
type modelEnvelope struct {
	Type   ModelKind       `json:"type"`
	Params json.RawMessage `json:"params,omitempty"`
}

// MarshalModel 将 ModelSpec 编码为带类型标签的 JSON 对象.
func MarshalModel(spec ModelSpec) ([]byte, error) {
	if spec == nil {
		return nil, xerrors.Errorf(xerrors.ErrMissingModelParams, "model spec is nil")
	}

	var params any
	switch m := spec.(type) {
	case GBM, JumpDiffusion, GARCH:
		params = m
	case Bootstrap:
		params = struct{}{}
	default:
		return nil, xerrors.Errorf(xerrors.ErrUnknownModel, "unsupported model spec %T", spec)
	}

	raw, err := json.Marshal(params)
	if err != nil {
		return nil, xerrors.WrapInternal(err, "encode model params")
	}
	return json.Marshal(modelEnvelope{Type: spec.Kind(), Params: raw})
}

// UnmarshalModel 解码带类型标签的 JSON 对象. 参数型模型缺少 params 或其中任一参数时返回 ErrMissingModelParams.
func UnmarshalModel(data []byte) (ModelSpec, error) {
	var env modelEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, xerrors.Errorf(xerrors.ErrInvalidModelParams, "decode model: %v", err)
	}

	kind, err := ParseKind(string(env.Type))
	if err != nil {
		return nil, err
	}
	if kind == KindBootstrap {
		return Bootstrap{}, nil
	}

	params := bytes.TrimSpace(env.Params)
	if len(params) == 0 || bytes.Equal(params, []byte("null")) {
		return nil, xerrors.Errorf(xerrors.ErrMissingModelParams, "%s parameters not found", kind)
	}

	var spec ModelSpec
	switch kind {
	case KindGBM:
		var m GBM
		err = decodeStrict(params, &m)
		spec = m
	case KindJumpDiffusion:
		var m JumpDiffusion
		err = decodeStrict(params, &m)
		spec = m
	case KindGARCH:
		var m GARCH
		err = decodeStrict(params, &m)
		spec = m
	}
	if err != nil {
		return nil, xerrors.Errorf(xerrors.ErrInvalidModelParams, "decode %s params: %v", kind, err)
	}
	if err := RequireParams(kind, params); err != nil {
		return nil, err
	}
	return spec, nil
}

func decodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// ModelJSON 让 ModelSpec 字段以带标签的 JSON 形式出现在其它结构体中.
type ModelJSON struct {
	Spec ModelSpec
}

// MarshalJSON 实现 json.Marshaler.
func (m ModelJSON) MarshalJSON() ([]byte, error) {
	return MarshalModel(m.Spec)
}

// UnmarshalJSON 实现 json.Unmarshaler.
func (m *ModelJSON) UnmarshalJSON(data []byte) error {
	spec, err := UnmarshalModel(data)
	if err != nil {
		return err
	}
	m.Spec = spec
	return nil
}
