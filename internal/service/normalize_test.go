package service

import (
	"testing"

	"labelscan/internal/dto"

	"go.uber.org/zap"
)

func TestNormalizeModelResponse_ValidJSONPassthrough(t *testing.T) {
	result := normalizeModelResponse(`{"product_name":"Milk","price":"3.99"}`, zap.NewNop())

	obj, ok := result.(map[string]any)
	if !ok {
		t.Fatalf("expected parsed object got %T", result)
	}
	if obj["product_name"] != "Milk" || obj["price"] != "3.99" {
		t.Fatalf("unexpected object: %v", obj)
	}
}

func TestNormalizeModelResponse_NullFieldsPreserved(t *testing.T) {
	result := normalizeModelResponse(`{"barcode":null}`, zap.NewNop())

	obj, ok := result.(map[string]any)
	if !ok {
		t.Fatalf("expected parsed object got %T", result)
	}
	if v, present := obj["barcode"]; !present || v != nil {
		t.Fatalf("expected null barcode, got %v (present=%v)", v, present)
	}
}

func TestNormalizeModelResponse_NonJSONWrapped(t *testing.T) {
	raw := "Sorry, I cannot read this label"
	result := normalizeModelResponse(raw, zap.NewNop())

	fallback, ok := result.(dto.FallbackResponse)
	if !ok {
		t.Fatalf("expected fallback envelope got %T", result)
	}
	if fallback.AIResponse != raw {
		t.Fatalf("expected raw text %q got %q", raw, fallback.AIResponse)
	}
}

func TestNormalizeModelResponse_TruncatedJSONWrapped(t *testing.T) {
	raw := `{"product_name": "Mil`
	result := normalizeModelResponse(raw, zap.NewNop())

	if _, ok := result.(dto.FallbackResponse); !ok {
		t.Fatalf("expected fallback envelope for truncated JSON got %T", result)
	}
}

func TestNormalizeModelResponse_InvalidUTF8Stripped(t *testing.T) {
	raw := "bad byte \xff here"
	result := normalizeModelResponse(raw, zap.NewNop())

	fallback, ok := result.(dto.FallbackResponse)
	if !ok {
		t.Fatalf("expected fallback envelope got %T", result)
	}
	if fallback.AIResponse != "bad byte  here" {
		t.Fatalf("invalid bytes not stripped: %q", fallback.AIResponse)
	}
}
