package native

import (
	"strings"
	"testing"

	"ember/interpreter-go/pkg/runtime"
)

func TestGzipRoundTrip(t *testing.T) {
	m := stdModule(t, "std.gzip")
	original := strings.Repeat("ember makes small flames\n", 200)

	packed := asString(t, callOK(t, m, "compress", str(original)))
	if len(packed) >= len(original) {
		t.Fatalf("compress did not shrink %d bytes (got %d)", len(original), len(packed))
	}

	unpacked := asString(t, callOK(t, m, "decompress", str(packed)))
	if unpacked != original {
		t.Fatalf("round trip lost data: %d bytes in, %d bytes out", len(original), len(unpacked))
	}
}

func TestGzipDecompressRejectsGarbage(t *testing.T) {
	m := stdModule(t, "std.gzip")
	if _, err := call(t, m, "decompress", str("not gzip data")); err == nil {
		t.Fatalf("decompress accepted garbage")
	}
}

func TestGzipArgumentErrors(t *testing.T) {
	m := stdModule(t, "std.gzip")
	wantErr(t, m, "compress", "Expected 1 argument")
	wantErr(t, m, "compress", "Expected String", runtime.IntValue{Val: 1})
	wantErr(t, m, "decompress", "Expected 1 argument")
}
