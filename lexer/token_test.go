package lexer

import "testing"

func tokenize(t *testing.T, data string) []Token {
	t.Helper()
	lx := New([]byte(data))
	var out []Token
	for {
		tk, err := lx.Next()
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if tk.Kind == EOF {
			return out
		}
		out = append(out, tk)
	}
}

func TestNumbers(t *testing.T) {
	cases := []struct {
		in   string
		kind Kind
	}{
		{"1", Integer},
		{"1.", Real},
		{"+1", Integer},
		{"-0", Integer},
		{".5", Real},
		{"-3.14", Real},
	}
	for _, c := range cases {
		toks := tokenize(t, c.in)
		if len(toks) != 1 {
			t.Fatalf("%q: expected 1 token, got %d", c.in, len(toks))
		}
		if toks[0].Kind != c.kind {
			t.Errorf("%q: expected kind %s, got %s", c.in, c.kind, toks[0].Kind)
		}
	}
}

func TestNameEscape(t *testing.T) {
	toks := tokenize(t, "/Name#20With#23Hash")
	if len(toks) != 1 || toks[0].Kind != Name {
		t.Fatalf("expected single Name token, got %v", toks)
	}
	if string(toks[0].Value) != "Name With#Hash" {
		t.Errorf("got %q", toks[0].Value)
	}
}

func TestLiteralStringEscapes(t *testing.T) {
	toks := tokenize(t, `(A\n\t\(nested\)\051 octal\051)`)
	if len(toks) != 1 || toks[0].Kind != Literal {
		t.Fatalf("expected single Literal token, got %v", toks)
	}
	want := "A\n\t(nested)) octal)"
	if string(toks[0].Value) != want {
		t.Errorf("got %q want %q", toks[0].Value, want)
	}
}

func TestHexStringOddLength(t *testing.T) {
	toks := tokenize(t, "<901FA3>")
	if len(toks) != 1 || toks[0].Kind != Hex {
		t.Fatalf("expected single Hex token, got %v", toks)
	}
	toks = tokenize(t, "<901FA>")
	if len(toks[0].Value) != 3 || toks[0].Value[2] != 0xA0 {
		t.Errorf("expected odd-length hex string padded with 0, got %x", toks[0].Value)
	}
}

func TestDictAndArrayDelimiters(t *testing.T) {
	toks := tokenize(t, "<< /A [1 2] >>")
	kinds := []Kind{DictStart, Name, ArrayStart, Integer, Integer, ArrayEnd, DictEnd}
	if len(toks) != len(kinds) {
		t.Fatalf("expected %d tokens, got %d: %v", len(kinds), len(toks), toks)
	}
	for i, k := range kinds {
		if toks[i].Kind != k {
			t.Errorf("token %d: expected %s, got %s", i, k, toks[i].Kind)
		}
	}
}

func TestComments(t *testing.T) {
	toks := tokenize(t, "1 % a comment\n2")
	if len(toks) != 2 || toks[0].Kind != Integer || toks[1].Kind != Integer {
		t.Fatalf("comment not skipped: %v", toks)
	}
}

func TestPeekAndBack(t *testing.T) {
	lx := New([]byte("1 2 3"))
	peeked, _ := lx.Peek()
	first, _ := lx.Next()
	if peeked.Kind != first.Kind || string(peeked.Value) != string(first.Value) {
		t.Fatalf("Peek did not match Next: %v vs %v", peeked, first)
	}
	lx.Back()
	again, _ := lx.Next()
	if string(again.Value) != "1" {
		t.Fatalf("Back did not rewind: got %q", again.Value)
	}
	second, _ := lx.Next()
	if string(second.Value) != "2" {
		t.Fatalf("expected 2, got %q", second.Value)
	}
}

func TestSeekSubstrBack(t *testing.T) {
	data := "garbage\nstartxref\n1234\n%%EOF"
	lx := New([]byte(data))
	idx, ok := lx.SeekSubstrBack([]byte("startxref"))
	if !ok {
		t.Fatal("expected to find startxref")
	}
	if data[idx:idx+len("startxref")] != "startxref" {
		t.Fatalf("wrong offset %d", idx)
	}
}

func TestExponentFallback(t *testing.T) {
	// A writer emitting exponential notation, tolerated even though
	// 7.3.3 disallows it for conforming writers.
	toks := tokenize(t, "6.02E23")
	if len(toks) != 1 || toks[0].Kind != Real {
		t.Fatalf("expected single Real token, got %v", toks)
	}
}
