package bits

import "testing"

func TestReader_ShowBits(t *testing.T) {
	// 11111111 00001111 10101011 11001101 00010010 ...
	data := []byte{0xFF, 0x0F, 0xAB, 0xCD, 0x12, 0x34, 0x56, 0x78}
	r := NewReader(data)

	tests := []struct {
		name     string
		n        uint
		expected uint32
	}{
		{"peek 0 bits", 0, 0},
		{"peek 1 bit", 1, 1},
		{"peek 4 bits", 4, 0xF},
		{"peek 12 bits", 12, 0xFF0},
		{"peek 24 bits", 24, 0xFF0FAB},
		{"peek 32 bits", 32, 0xFF0FABCD},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.ShowBits(tc.n); got != tc.expected {
				t.Errorf("ShowBits(%d) = 0x%X, want 0x%X", tc.n, got, tc.expected)
			}
		})
	}
	if r.GetProcessedBits() != 0 {
		t.Errorf("ShowBits consumed %d bits", r.GetProcessedBits())
	}
}

func TestReader_ShowBits_CrossWord(t *testing.T) {
	data := []byte{0x12, 0x34, 0x56, 0x78, 0xAB, 0xCD, 0xEF, 0x00}
	r := NewReader(data)
	r.FlushBits(16)

	if got := r.ShowBits(16); got != 0x5678 {
		t.Errorf("ShowBits(16) = 0x%X, want 0x5678", got)
	}
	// 16 bits from the first word plus the top bit of 0xAB
	if got := r.ShowBits(17); got != 0xACF1 {
		t.Errorf("ShowBits(17) = 0x%X, want 0xACF1", got)
	}
}

func TestReader_GetBits_Sequence(t *testing.T) {
	data := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xAA, 0xBB, 0xCC, 0xDD, 0x11, 0x22, 0x33, 0x44}
	r := NewReader(data)

	reads := []struct {
		n    uint
		want uint32
	}{
		{4, 0xF},
		{28, 0xFFFFFFF},
		{8, 0xAA},
		{32, 0xBBCCDD11},
		{3, 0x1},
		{13, 0x0233},
	}
	for i, rd := range reads {
		if got := r.GetBits(rd.n); got != rd.want {
			t.Errorf("read %d: GetBits(%d) = 0x%X, want 0x%X", i, rd.n, got, rd.want)
		}
	}
	if r.GetProcessedBits() != 88 {
		t.Errorf("GetProcessedBits = %d, want 88", r.GetProcessedBits())
	}
}

func TestReader_Get1Bit(t *testing.T) {
	r := NewReader([]byte{0xA5, 0x80})
	want := []uint8{1, 0, 1, 0, 0, 1, 0, 1, 1, 0}
	for i, w := range want {
		if got := r.Get1Bit(); got != w {
			t.Errorf("bit %d = %d, want %d", i, got, w)
		}
	}
}

func TestReader_Get1Bit_WordBoundary(t *testing.T) {
	r := NewReader([]byte{0x00, 0x00, 0x00, 0x01, 0x80})
	r.FlushBits(31)
	if got := r.Get1Bit(); got != 1 {
		t.Errorf("bit 31 = %d, want 1", got)
	}
	if got := r.Get1Bit(); got != 1 {
		t.Errorf("bit 32 = %d, want 1", got)
	}
	if got := r.Get1Bit(); got != 0 {
		t.Errorf("bit 33 = %d, want 0", got)
	}
}

func TestReader_ByteAlign(t *testing.T) {
	r := NewReader([]byte{0xFF, 0x5A, 0x00})
	r.FlushBits(3)
	if skipped := r.ByteAlign(); skipped != 5 {
		t.Errorf("ByteAlign skipped %d bits, want 5", skipped)
	}
	if got := r.GetBits(8); got != 0x5A {
		t.Errorf("after align GetBits(8) = 0x%X, want 0x5A", got)
	}
	if skipped := r.ByteAlign(); skipped != 0 {
		t.Errorf("aligned ByteAlign skipped %d bits, want 0", skipped)
	}
}

func TestReader_PastEndYieldsZeros(t *testing.T) {
	r := NewReader([]byte{0xFF})
	if got := r.GetBits(8); got != 0xFF {
		t.Fatalf("GetBits(8) = 0x%X, want 0xFF", got)
	}
	if r.Overrun() {
		t.Fatal("Overrun after reading exactly the buffer")
	}
	if got := r.GetBits(16); got != 0 {
		t.Errorf("GetBits past end = 0x%X, want 0", got)
	}
	if !r.Overrun() {
		t.Error("Overrun should be set after reading past end")
	}
	if r.BitsRemaining() != -16 {
		t.Errorf("BitsRemaining = %d, want -16", r.BitsRemaining())
	}
}

func TestReader_EmptyBuffer(t *testing.T) {
	r := NewReader(nil)
	if r.Overrun() {
		t.Error("fresh reader over empty buffer reports overrun")
	}
	_ = r.Get1Bit()
	if !r.Error() {
		t.Error("reading from an empty buffer should overrun")
	}
}

func TestReader_ResetBits(t *testing.T) {
	data := []byte{0x12, 0x34, 0x56, 0x78, 0x9A, 0xBC, 0xDE, 0xF0, 0x11}
	r := NewReader(data)
	r.GetBits(32)
	r.GetBits(20)

	tests := []struct {
		bit  int
		n    uint
		want uint32
	}{
		{0, 8, 0x12},
		{4, 8, 0x23},
		{36, 12, 0xABC},
		{60, 12, 0x011},
	}
	for _, tc := range tests {
		r.ResetBits(tc.bit)
		if r.GetProcessedBits() != tc.bit {
			t.Errorf("ResetBits(%d): processed = %d", tc.bit, r.GetProcessedBits())
		}
		if got := r.GetBits(tc.n); got != tc.want {
			t.Errorf("ResetBits(%d) GetBits(%d) = 0x%X, want 0x%X", tc.bit, tc.n, got, tc.want)
		}
	}
}

func TestReader_GetBitBuffer(t *testing.T) {
	r := NewReader([]byte{0xAB, 0xCD, 0xEF})
	r.FlushBits(4)
	got := r.GetBitBuffer(12)
	if len(got) != 2 || got[0] != 0xBC || got[1] != 0xD0 {
		t.Errorf("GetBitBuffer(12) = %X, want BCD0", got)
	}
}

func TestReader_SkipBits(t *testing.T) {
	data := make([]byte, 16)
	data[10] = 0x80
	r := NewReader(data)
	r.SkipBits(80)
	if got := r.Get1Bit(); got != 1 {
		t.Errorf("after SkipBits(80) bit = %d, want 1", got)
	}
	if r.BitsRemaining() != 128-81 {
		t.Errorf("BitsRemaining = %d, want %d", r.BitsRemaining(), 128-81)
	}
}

func TestReader_Reset(t *testing.T) {
	r := NewReader([]byte{0xF0})
	r.GetBits(6)
	r.Reset([]byte{0x0F, 0xAA})
	if got := r.GetBits(12); got != 0x0FA {
		t.Errorf("after Reset GetBits(12) = 0x%X, want 0x0FA", got)
	}
	if r.Len() != 2 {
		t.Errorf("Len = %d, want 2", r.Len())
	}
}
