package huffman

import "testing"

func kraftComplete(t *testing.T, lengths []int) {
	t.Helper()
	left := 1 << MaxCodeLength
	for _, l := range lengths {
		if l == 0 {
			continue
		}
		left -= 1 << (MaxCodeLength - l)
	}
	if left != 0 {
		t.Fatalf("lengths do not satisfy Kraft equality: %v", lengths)
	}
}

func TestCalcCodeLengthsEmpty(t *testing.T) {
	// No symbol has non-zero frequency, so createTree's synthetic-leaf
	// injection supplies both of symbols 0 and 1 itself, giving them a
	// complete length-1 code and leaving every other symbol at 0.
	lengths, err := CalcCodeLengths([]int{0, 0, 0})
	if err != nil {
		t.Fatal(err)
	}
	want := []int{1, 1, 0}
	for i := range want {
		if lengths[i] != want[i] {
			t.Fatalf("got %v, want %v", lengths, want)
		}
	}
	kraftComplete(t, lengths)
}

func TestCalcCodeLengthsSingleSymbol(t *testing.T) {
	// Only symbol 1 has non-zero frequency; createTree injects a
	// synthetic sibling at symbol 0 to complete the code.
	lengths, err := CalcCodeLengths([]int{0, 5, 0})
	if err != nil {
		t.Fatal(err)
	}
	if lengths[1] != 1 {
		t.Fatalf("expected length 1 for the sole symbol, got %v", lengths)
	}
	if lengths[0] != 1 {
		t.Fatalf("expected the synthetic sibling at symbol 0 to get length 1, got %v", lengths)
	}
	kraftComplete(t, lengths)
}

func TestCalcCodeLengthsProducesDecodableTable(t *testing.T) {
	freqs := []int{45, 13, 12, 16, 9, 5}
	lengths, err := CalcCodeLengths(freqs)
	if err != nil {
		t.Fatal(err)
	}
	kraftComplete(t, lengths)
	if _, err := NewEncoder(lengths); err != nil {
		t.Fatalf("lengths not encodable: %v", err)
	}
}

func TestRestrictCodeLengthsClampsAndStaysValid(t *testing.T) {
	// Fibonacci-weighted frequencies are the classic worst case for
	// Huffman trees: each merge combines the running total with the next
	// frequency, producing a maximally unbalanced, near-linear-depth
	// tree. With 25 symbols the natural max depth is well past 20,
	// genuinely exceeding the cap=7 bound below and forcing
	// RestrictCodeLengths's donor/sibling redistribution loop to run
	// many iterations, not zero.
	const n = 25
	freqs := make([]int, n)
	freqs[0], freqs[1] = 1, 1
	for i := 2; i < n; i++ {
		freqs[i] = freqs[i-1] + freqs[i-2]
	}

	lengths, err := CalcCodeLengths(freqs)
	if err != nil {
		t.Fatal(err)
	}

	const cap = 7
	maxNatural := 0
	for _, l := range lengths {
		if l > maxNatural {
			maxNatural = l
		}
	}
	if maxNatural <= cap {
		t.Fatalf("test setup is too weak: natural max length %d does not exceed cap %d", maxNatural, cap)
	}

	if err := RestrictCodeLengths(lengths, cap); err != nil {
		t.Fatal(err)
	}
	for symbol, l := range lengths {
		if l > cap {
			t.Fatalf("symbol %d still exceeds cap: length %d", symbol, l)
		}
	}
	kraftComplete(t, lengths)
	if _, err := NewEncoder(lengths); err != nil {
		t.Fatalf("restricted lengths not encodable: %v", err)
	}
}

func TestRestrictCodeLengthsNoOpWhenAlreadyWithinBound(t *testing.T) {
	lengths := []int{2, 2, 3, 3}
	before := append([]int(nil), lengths...)
	if err := RestrictCodeLengths(lengths, 15); err != nil {
		t.Fatal(err)
	}
	for i := range lengths {
		if lengths[i] != before[i] {
			t.Fatalf("expected no change, got %v from %v", lengths, before)
		}
	}
}
