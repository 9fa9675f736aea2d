package transcript

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"
)

func TestEncodeCSV_RoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	turns := []Turn{
		{ID: 1, Timestamp: now, SessionID: "s1", Name: "J. Doe", Email: "jdoe@example.edu", Role: RoleUser, Message: "Let's discuss a supply-chain case"},
		{ID: 2, Timestamp: now.Add(time.Second), SessionID: "s1", Name: "J. Doe", Email: "jdoe@example.edu", Role: RoleAssistant, Message: "line one\nline two, with a comma and \"quotes\""},
	}

	b, err := EncodeCSV(turns)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	recs, err := csv.NewReader(bytes.NewReader(b)).ReadAll()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(recs) != len(turns)+1 {
		t.Fatalf("expected header + %d rows, got %d records", len(turns), len(recs))
	}
	if recs[0][0] != "id" || recs[0][6] != "message" {
		t.Fatalf("unexpected header: %v", recs[0])
	}
	for i, turn := range turns {
		row := recs[i+1]
		if row[5] != turn.Role {
			t.Fatalf("row %d role: got %q want %q", i, row[5], turn.Role)
		}
		if row[6] != turn.Message {
			t.Fatalf("row %d message did not survive round trip: got %q want %q", i, row[6], turn.Message)
		}
	}
}

func TestEncodeCSV_Empty(t *testing.T) {
	b, err := EncodeCSV(nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	recs, err := csv.NewReader(bytes.NewReader(b)).ReadAll()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected header only, got %d records", len(recs))
	}
}

func TestExportFilename(t *testing.T) {
	cases := map[string]string{
		"jdoe@example.edu": "jdoe_example.edu_chatlog.csv",
		"a.b-c@x.org":      "a.b-c_x.org_chatlog.csv",
		"plain":            "plain_chatlog.csv",
	}
	for in, want := range cases {
		if got := ExportFilename(in); got != want {
			t.Fatalf("ExportFilename(%q) = %q, want %q", in, got, want)
		}
	}
}
