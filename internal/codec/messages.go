package codec

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/stub-enhancer/predictor/internal/visual"
)

// #region types

// PredictRequest asks for a single prediction.
type PredictRequest struct {
	Credential string // dataset label
	Field      string
	Years      int
}

// PredictResult holds the response from a Predict RPC call.
type PredictResult struct {
	Output       float64
	Formatted    string
	Sentence     string
	ModelVersion string
	RequestID    string
}

// NetworkRequest carries the raw dropdown values; any of them may still be a placeholder.
type NetworkRequest struct {
	Credential string
	Field      string
	Years      string
}

// NetworkResult holds the response from a Network RPC call.
type NetworkResult struct {
	ModelVersion   string
	Ready          bool
	Prompt         string
	Output         float64
	Formatted      string
	CredentialSlot int
	Elements       []visual.Element
}

// #endregion types

// #region predict-messages

// EncodePredictRequest builds the wire form of r.
func EncodePredictRequest(r PredictRequest) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"credential": structpb.NewStringValue(r.Credential),
		"field":      structpb.NewStringValue(r.Field),
		"years":      structpb.NewNumberValue(float64(r.Years)),
	}}
}

// DecodePredictRequest reads a PredictRequest. A missing or fractional years value is an error.
func DecodePredictRequest(s *structpb.Struct) (PredictRequest, error) {
	y, ok := numberField(s, "years")
	if !ok {
		return PredictRequest{}, fmt.Errorf("predict request: years is required")
	}
	if y != math.Trunc(y) || math.Abs(y) > math.MaxInt32 {
		return PredictRequest{}, fmt.Errorf("predict request: years %v is not a whole number", y)
	}
	return PredictRequest{
		Credential: stringField(s, "credential"),
		Field:      stringField(s, "field"),
		Years:      int(y),
	}, nil
}

// EncodePredictResult builds the wire form of r.
func EncodePredictResult(r PredictResult) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"output":        structpb.NewNumberValue(r.Output),
		"formatted":     structpb.NewStringValue(r.Formatted),
		"sentence":      structpb.NewStringValue(r.Sentence),
		"model_version": structpb.NewStringValue(r.ModelVersion),
		"request_id":    structpb.NewStringValue(r.RequestID),
	}}
}

// DecodePredictResult reads a PredictResult.
func DecodePredictResult(s *structpb.Struct) PredictResult {
	out, _ := numberField(s, "output")
	return PredictResult{
		Output:       out,
		Formatted:    stringField(s, "formatted"),
		Sentence:     stringField(s, "sentence"),
		ModelVersion: stringField(s, "model_version"),
		RequestID:    stringField(s, "request_id"),
	}
}

// #endregion predict-messages

// #region network-messages

// EncodeNetworkRequest builds the wire form of r.
func EncodeNetworkRequest(r NetworkRequest) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"credential": structpb.NewStringValue(r.Credential),
		"field":      structpb.NewStringValue(r.Field),
		"years":      structpb.NewStringValue(r.Years),
	}}
}

// DecodeNetworkRequest reads a NetworkRequest. Numeric years are accepted too and keep
// their exact text, so a fractional value is rejected downstream instead of truncated.
func DecodeNetworkRequest(s *structpb.Struct) NetworkRequest {
	years := stringField(s, "years")
	if y, ok := numberField(s, "years"); ok {
		years = strconv.FormatFloat(y, 'f', -1, 64)
	}
	return NetworkRequest{
		Credential: stringField(s, "credential"),
		Field:      stringField(s, "field"),
		Years:      years,
	}
}

// EncodeNetworkResult builds the wire form of r. Elements travel as a JSON-shaped list.
func EncodeNetworkResult(r NetworkResult) (*structpb.Struct, error) {
	raw, err := visual.JSON(r.Elements)
	if err != nil {
		return nil, fmt.Errorf("encode elements: %w", err)
	}
	elements := new(structpb.Value)
	if err := protojson.Unmarshal(raw, elements); err != nil {
		return nil, fmt.Errorf("encode elements: %w", err)
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"model_version":   structpb.NewStringValue(r.ModelVersion),
		"ready":           structpb.NewBoolValue(r.Ready),
		"prompt":          structpb.NewStringValue(r.Prompt),
		"output":          structpb.NewNumberValue(r.Output),
		"formatted":       structpb.NewStringValue(r.Formatted),
		"credential_slot": structpb.NewNumberValue(float64(r.CredentialSlot)),
		"elements":        elements,
	}}, nil
}

// DecodeNetworkResult reads a NetworkResult.
func DecodeNetworkResult(s *structpb.Struct) (NetworkResult, error) {
	out, _ := numberField(s, "output")
	slot, _ := numberField(s, "credential_slot")
	r := NetworkResult{
		ModelVersion:   stringField(s, "model_version"),
		Ready:          s.GetFields()["ready"].GetBoolValue(),
		Prompt:         stringField(s, "prompt"),
		Output:         out,
		Formatted:      stringField(s, "formatted"),
		CredentialSlot: int(slot),
	}
	if v, ok := s.GetFields()["elements"]; ok {
		raw, err := protojson.Marshal(v)
		if err != nil {
			return NetworkResult{}, fmt.Errorf("decode elements: %w", err)
		}
		if err := json.Unmarshal(raw, &r.Elements); err != nil {
			return NetworkResult{}, fmt.Errorf("decode elements: %w", err)
		}
	}
	return r, nil
}

// #endregion network-messages

// #region helpers
func stringField(s *structpb.Struct, key string) string {
	return s.GetFields()[key].GetStringValue()
}

func numberField(s *structpb.Struct, key string) (float64, bool) {
	v, ok := s.GetFields()[key]
	if !ok {
		return 0, false
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, false
	}
	return n.NumberValue, true
}

// #endregion helpers
