package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseStatus(t *testing.T) {
	cases := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{"online", StatusOnline, false},
		{"OFFLINE", StatusOffline, false},
		{"  degraded ", StatusDegraded, false},
		{"checking", StatusChecking, false},
		{"unknown", "", true}, // derived-only, never stored
		{"up", "", true},
		{"", "", true},
	}
	for _, c := range cases {
		got, err := ParseStatus(c.in)
		if c.wantErr {
			if err == nil {
				t.Fatalf("ParseStatus(%q): want error, got %q", c.in, got)
			}
			continue
		}
		if err != nil || got != c.want {
			t.Fatalf("ParseStatus(%q)=%q,%v want %q", c.in, got, err, c.want)
		}
	}
}

func TestParseServiceType(t *testing.T) {
	for _, ok := range []string{"http", "SSH", " ping "} {
		if _, err := ParseServiceType(ok); err != nil {
			t.Fatalf("ParseServiceType(%q): %v", ok, err)
		}
	}
	for _, bad := range []string{"icmp", "tcp", ""} {
		if got, err := ParseServiceType(bad); err == nil {
			t.Fatalf("ParseServiceType(%q): want error, got %q", bad, got)
		}
	}
}

func TestStatus_Persistable(t *testing.T) {
	if StatusUnknown.Persistable() {
		t.Fatal("unknown must never be persistable")
	}
	for _, s := range []Status{StatusOnline, StatusOffline, StatusDegraded, StatusChecking} {
		if !s.Persistable() {
			t.Fatalf("%q should be persistable", s)
		}
	}
}

func TestCheckRecord_JSONRoundTrip(t *testing.T) {
	ms := int64(123)
	want := CheckRecord{
		ServiceID:      ServiceID("web-main"),
		Status:         StatusDegraded,
		ResponseTimeMS: &ms,
		ErrorMessage:   "HTTP 500",
		CheckedAt:      time.Date(2026, 8, 18, 12, 0, 0, 0, time.UTC),
	}
	b, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got CheckRecord
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.ServiceID != want.ServiceID || got.Status != want.Status ||
		got.ErrorMessage != want.ErrorMessage || !got.CheckedAt.Equal(want.CheckedAt) {
		t.Fatalf("mismatch after round-trip:\nwant=%+v\ngot =%+v", want, got)
	}
	if got.ResponseTimeMS == nil || *got.ResponseTimeMS != ms {
		t.Fatalf("response time lost: %+v", got.ResponseTimeMS)
	}
}
