package display

import "testing"

func TestPixelFormat_MapRGB(t *testing.T) {
	tests := []struct {
		format PixelFormat
		want   uint32
	}{
		{format: ARGB8888, want: 0xFF112233},
		{format: ABGR8888, want: 0xFF332211},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			p := tt.format.MapRGB(0x11, 0x22, 0x33)
			if p != tt.want {
				t.Fatalf("MapRGB = %#08x, want %#08x", p, tt.want)
			}
			r, g, b := tt.format.RGB(p)
			if r != 0x11 || g != 0x22 || b != 0x33 {
				t.Fatalf("RGB = %#x %#x %#x", r, g, b)
			}
		})
	}
}

func TestPixelFormat_PutRGBA(t *testing.T) {
	for _, f := range []PixelFormat{ARGB8888, ABGR8888} {
		dst := make([]byte, 8)
		f.PutRGBA(dst, []uint32{f.MapRGB(1, 2, 3), f.MapRGB(250, 251, 252)})
		want := []byte{1, 2, 3, 255, 250, 251, 252, 255}
		for i := range want {
			if dst[i] != want[i] {
				t.Fatalf("%v: PutRGBA = %v, want %v", f, dst, want)
			}
		}
	}
	ARGB8888.PutRGBA(nil, nil)
}

func TestPixelFormat_Valid(t *testing.T) {
	if !ARGB8888.Valid() || !ABGR8888.Valid() {
		t.Fatal("known formats reported invalid")
	}
	if PixelFormat(7).Valid() {
		t.Fatal("unknown format reported valid")
	}
	if got := PixelFormat(7).String(); got != "PixelFormat(7)" {
		t.Fatalf("String = %q", got)
	}
}
