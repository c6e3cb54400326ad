package live

import (
	"encoding/json"
	"testing"
)

func TestFrame_EncodeDecode(t *testing.T) {
	f := Frame{
		Type: FrameSnapshot,
		Seq:  7,
		Data: json.RawMessage(`{"count":3}`),
	}

	data, err := EncodeFrame(f)
	if err != nil {
		t.Fatalf("EncodeFrame() error: %v", err)
	}

	got, err := DecodeFrame(data)
	if err != nil {
		t.Fatalf("DecodeFrame() error: %v", err)
	}
	if got.Type != FrameSnapshot {
		t.Errorf("Type = %q, want %q", got.Type, FrameSnapshot)
	}
	if got.Seq != 7 {
		t.Errorf("Seq = %d, want 7", got.Seq)
	}
	if string(got.Data) != `{"count":3}` {
		t.Errorf("Data = %s, want {\"count\":3}", got.Data)
	}
}

func TestDecodeFrame_RejectsUnknownType(t *testing.T) {
	if _, err := DecodeFrame([]byte(`{"type":"resync"}`)); err == nil {
		t.Fatal("DecodeFrame() error=nil for unknown type, want non-nil")
	}
}

func TestDecodeFrame_RejectsMalformedJSON(t *testing.T) {
	if _, err := DecodeFrame([]byte(`{"type":`)); err == nil {
		t.Fatal("DecodeFrame() error=nil for malformed JSON, want non-nil")
	}
}

func TestErrorFrame(t *testing.T) {
	f := errorFrame(ErrInvalidPatch, "bad payload")
	if f.Type != FrameError {
		t.Errorf("Type = %q, want %q", f.Type, FrameError)
	}
	if f.Code != ErrInvalidPatch {
		t.Errorf("Code = %q, want %q", f.Code, ErrInvalidPatch)
	}
	if f.Message != "bad payload" {
		t.Errorf("Message = %q, want %q", f.Message, "bad payload")
	}
}
