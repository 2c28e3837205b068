package service

import (
	"testing"
	"time"
)

func TestParseMillis(t *testing.T) {
	got, ok := parseMillis("1700000000000")
	if !ok {
		t.Fatal("expected ok")
	}
	want := time.UnixMilli(1700000000000)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}

	for _, bad := range []string{"", "abc", "17.5e3"} {
		if _, ok := parseMillis(bad); ok {
			t.Errorf("parseMillis(%q) ok, want failure", bad)
		}
	}
}

func TestParseMillisPtr(t *testing.T) {
	if got := parseMillisPtr(nil); got != nil {
		t.Errorf("nil input: got %v", got)
	}
	s := "1700000000000"
	got := parseMillisPtr(&s)
	if got == nil || !got.Equal(time.UnixMilli(1700000000000)) {
		t.Errorf("got %v", got)
	}
	bad := "nope"
	if got := parseMillisPtr(&bad); got != nil {
		t.Errorf("bad input: got %v", got)
	}
}
