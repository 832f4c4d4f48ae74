package objects

import (
	"reflect"
	"testing"
)

func parse(t *testing.T, data string) Primitive {
	t.Helper()
	p := New([]byte(data))
	obj, err := p.ParseObject()
	if err != nil {
		t.Fatalf("parse %q: %s", data, err)
	}
	return obj
}

func TestParsePrimitives(t *testing.T) {
	cases := []struct {
		in   string
		want Primitive
	}{
		{"null", Null{}},
		{"true", Boolean(true)},
		{"false", Boolean(false)},
		{"42", Integer(42)},
		{"-17", Integer(-17)},
		{"3.14", Real(3.14)},
		{"/Type", Name("Type")},
		{"(hello)", String("hello")},
		{"<68656c6c6f>", String("hello")},
		{"[1 2 3]", Array{Integer(1), Integer(2), Integer(3)}},
	}
	for _, c := range cases {
		got := parse(t, c.in)
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("%q: got %#v want %#v", c.in, got, c.want)
		}
	}
}

func TestParseReference(t *testing.T) {
	got := parse(t, "12 0 R")
	want := Reference{Number: 12, Generation: 0}
	if got != want {
		t.Errorf("got %#v want %#v", got, want)
	}
}

func TestParseIntegerNotReference(t *testing.T) {
	p := New([]byte("12 0 13"))
	first, err := p.ParseObject()
	if err != nil {
		t.Fatal(err)
	}
	if first != Integer(12) {
		t.Fatalf("expected plain Integer(12), got %#v", first)
	}
	second, err := p.ParseObject()
	if err != nil {
		t.Fatal(err)
	}
	if second != Integer(0) {
		t.Fatalf("expected Integer(0) next, got %#v", second)
	}
}

func TestParseDict(t *testing.T) {
	got := parse(t, "<< /Type /Catalog /Count 3 /Null null >>")
	want := Dict{"Type": Name("Catalog"), "Count": Integer(3)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %#v want %#v", got, want)
	}
}

func TestParseStream(t *testing.T) {
	data := "<< /Length 5 >>\nstream\nhello\nendstream"
	got := parse(t, data)
	s, ok := got.(Stream)
	if !ok {
		t.Fatalf("expected Stream, got %#v", got)
	}
	if string(s.Content) != "hello" {
		t.Errorf("got content %q", s.Content)
	}
}

func TestParseStreamWithReferenceLength(t *testing.T) {
	lengths := map[Reference]Primitive{{Number: 9}: Integer(5)}
	resolve := func(r Reference) (Primitive, error) { return lengths[r], nil }
	p := NewWithResolver([]byte("<< /Length 9 0 R >>\nstream\nhello\nendstream"), resolve, nil)
	obj, err := p.ParseObject()
	if err != nil {
		t.Fatal(err)
	}
	s := obj.(Stream)
	if string(s.Content) != "hello" {
		t.Errorf("got %q", s.Content)
	}
}

func TestDepthExceeded(t *testing.T) {
	data := ""
	for i := 0; i < 20; i++ {
		data += "["
	}
	for i := 0; i < 20; i++ {
		data += "]"
	}
	p := New([]byte(data))
	_, err := p.ParseObject()
	if err == nil {
		t.Fatal("expected depth error")
	}
}

func TestContentStreamOperators(t *testing.T) {
	p := New([]byte("100 100 m 200 200 l S"))
	p.ContentStreamMode = true
	var toks []Primitive
	for {
		obj, err := p.ParseObject()
		if err != nil {
			t.Fatal(err)
		}
		toks = append(toks, obj)
		if len(toks) == 7 {
			break
		}
	}
	if _, ok := toks[2].(Operator); !ok || toks[2] != Operator("m") {
		t.Errorf("expected operator m, got %#v", toks[2])
	}
	if toks[6] != Operator("S") {
		t.Errorf("expected operator S, got %#v", toks[6])
	}
}
