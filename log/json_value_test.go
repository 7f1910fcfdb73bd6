package log

import (
	"encoding/hex"
	"testing"

	"github.com/valyala/fastjson"
)

func TestValueString(t *testing.T) {
	v, err := fastjson.Parse(`{"kind": "transaction"}`)
	if err != nil {
		t.Fatal(err)
	}

	if s := ValueString(v, "kind"); s != "transaction" {
		t.Fatalf("got %q", s)
	}

	if s := ValueString(v, "missing"); s != "" {
		t.Fatalf("got %q", s)
	}
}

func TestValueBase58(t *testing.T) {
	arena := &fastjson.Arena{}

	o := arena.NewObject()
	o.Set("digest", ArenaBase58(arena, [32]byte{1, 2, 3}))

	var dst [32]byte

	if err := ValueBase58(o, dst[:], "digest"); err != nil {
		t.Fatal(err)
	}

	if dst != ([32]byte{1, 2, 3}) {
		t.Fatalf("got %x", dst)
	}
}

func TestValueBase58BadLength(t *testing.T) {
	v, err := fastjson.Parse(`{"digest": "2g"}`)
	if err != nil {
		t.Fatal(err)
	}

	var dst [32]byte

	if err := ValueBase58(v, dst[:], "digest"); err == nil {
		t.Fatal("expected a length error")
	}
}

func TestValueUint64(t *testing.T) {
	v, err := fastjson.Parse(`{"seq": 42, "bad": "x"}`)
	if err != nil {
		t.Fatal(err)
	}

	u, err := ValueUint64(v, "seq")
	if err != nil {
		t.Fatal(err)
	}

	if u != 42 {
		t.Fatalf("got %d", u)
	}

	if _, err := ValueUint64(v, "bad"); err == nil {
		t.Fatal("expected an error")
	}

	if _, err := ValueUint64(v, "missing"); err == nil {
		t.Fatal("expected an error")
	}
}

func TestObjectBatch(t *testing.T) {
	arena := &fastjson.Arena{}

	buf, err := MarshalObjectBatch(arena,
		"digest", [32]byte{1},
		"digest_hex,hex", [32]byte{1},
		"seq", uint64(7),
		"note,omitempty", "",
	)
	if err != nil {
		t.Fatal(err)
	}

	v, err := fastjson.ParseBytes(buf)
	if err != nil {
		t.Fatal(err)
	}

	var dst [32]byte

	if err := ValueBase58(v, dst[:], "digest"); err != nil {
		t.Fatal(err)
	}

	if dst != ([32]byte{1}) {
		t.Fatalf("got %x", dst)
	}

	if got := ValueString(v, "digest_hex"); got != hex.EncodeToString(dst[:]) {
		t.Fatalf("got %q", got)
	}

	if seq, _ := ValueUint64(v, "seq"); seq != 7 {
		t.Fatalf("got %d", seq)
	}

	if v.Exists("note") {
		t.Fatal("omitempty field was kept")
	}
}
