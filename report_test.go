package safemx

import (
	"bytes"
	"context"
	"encoding/json"
	"slices"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/oklog/ulid/v2"
	"github.com/tinylib/msgp/msgp"

	"github.com/synqronlabs/safemx/dns"
)

func TestReportJSONKeys(t *testing.T) {
	checker, _ := newMockChecker(exampleZone, false)

	tests := []struct {
		name   string
		checks Checks
		want   []string
	}{
		{"spf only", Checks{SPF: true}, []string{"spf"}},
		{"dmarc and dkim", Checks{DMARC: true, DKIM: true}, []string{"dkim", "dmarc"}},
		{"all", Checks{SPF: true, DMARC: true, DKIM: true}, []string{"dkim", "dmarc", "spf"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := checker.Run(context.Background(), "example.com", tt.checks)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			var buf bytes.Buffer
			if err := report.WriteJSON(&buf); err != nil {
				t.Fatalf("WriteJSON() error = %v", err)
			}
			var got map[string]json.RawMessage
			if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}

			keys := make([]string, 0, len(got))
			for k := range got {
				keys = append(keys, k)
			}
			slices.Sort(keys)
			if diff := cmp.Diff(tt.want, keys); diff != "" {
				t.Errorf("keys mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReportJSONShape(t *testing.T) {
	report := &Report{
		SPF:  ClassifySPF("example.com", dns.Found("v=spf1 ip4:192.0.2.1 -all")),
		DKIM: ClassifyDKIM("example.com", "", dns.Outcome{Kind: dns.OutcomeNoRecord}),
	}

	b, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var got struct {
		SPF struct {
			Version    string `json:"version"`
			Mechanisms []struct {
				Type  string `json:"type"`
				Value string `json:"value"`
			} `json:"mechanisms"`
			Absent []string `json:"absent"`
		} `json:"spf"`
		DKIM struct {
			ErrorCode string `json:"error_code"`
		} `json:"dkim"`
	}
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if got.SPF.Version != "v=spf1" {
		t.Errorf("spf.version = %q", got.SPF.Version)
	}
	if len(got.SPF.Mechanisms) != 2 || got.SPF.Mechanisms[0].Type != "ip" || got.SPF.Mechanisms[1].Value != "-all" {
		t.Errorf("spf.mechanisms = %+v", got.SPF.Mechanisms)
	}
	if diff := cmp.Diff([]string{"a", "mx", "ptr", "exists", "include"}, got.SPF.Absent); diff != "" {
		t.Errorf("spf.absent mismatch (-want +got):\n%s", diff)
	}
	if got.DKIM.ErrorCode != "NO_DKIM" {
		t.Errorf("dkim.error_code = %q", got.DKIM.ErrorCode)
	}
}

func TestReportMsgpack(t *testing.T) {
	checkedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	report := &Report{
		ID:        ulid.MustNew(ulid.Timestamp(checkedAt), bytes.NewReader(make([]byte, 16))),
		Domain:    "example.com",
		CheckedAt: checkedAt,
		SPF:       ClassifySPF("example.com", dns.Found("v=spf1 -all", "v=spf1 ~all")),
		DMARC:     ClassifyDMARC("example.com", dns.Found("v=DMARC1; p=none")),
		DKIM:      ClassifyDKIM("example.com", "s1", dns.Found("v=DKIM1; p=")),
	}

	var buf bytes.Buffer
	if err := report.WriteMsgpack(&buf); err != nil {
		t.Fatalf("WriteMsgpack() error = %v", err)
	}
	b := buf.Bytes()

	sz, b, err := msgp.ReadMapHeaderBytes(b)
	if err != nil {
		t.Fatalf("ReadMapHeaderBytes() error = %v", err)
	}
	if sz != 6 {
		t.Fatalf("top-level map size = %d, want 6", sz)
	}

	var keys []string
	for range sz {
		var key string
		key, b, err = msgp.ReadStringBytes(b)
		if err != nil {
			t.Fatalf("ReadStringBytes() error = %v", err)
		}
		keys = append(keys, key)

		switch key {
		case "id":
			var id string
			id, b, err = msgp.ReadStringBytes(b)
			if err == nil && id != report.ID.String() {
				t.Errorf("id = %q, want %q", id, report.ID)
			}
		case "checked_at":
			var ts time.Time
			ts, b, err = msgp.ReadTimeBytes(b)
			if err == nil && !ts.Equal(checkedAt) {
				t.Errorf("checked_at = %v, want %v", ts, checkedAt)
			}
		default:
			b, err = msgp.Skip(b)
		}
		if err != nil {
			t.Fatalf("decoding %q: %v", key, err)
		}
	}
	if len(b) != 0 {
		t.Errorf("%d trailing bytes", len(b))
	}

	want := []string{"id", "domain", "checked_at", "spf", "dmarc", "dkim"}
	if diff := cmp.Diff(want, keys); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
}

// The nested maps must carry exactly the entries their headers announce.
func TestReportMsgpackJSON(t *testing.T) {
	report := &Report{
		Domain: "example.com",
		SPF:    ClassifySPF("example.com", dns.Found("v=spf1 a mx/24 redirect=_spf.example.com")),
		DMARC:  ClassifyDMARC("example.com", dns.Found("v=DMARC1; p=reject; pct=20")),
		DKIM:   ClassifyDKIM("example.com", "", dns.Found("v=DKIM1; k=ed25519; p=11qYAYKxCrfVS/7TyWQHOg7hcvPapiMlrwIaaPcHURo=")),
	}
	payload, err := report.MarshalMsg(nil)
	if err != nil {
		t.Fatalf("MarshalMsg() error = %v", err)
	}

	// Skip id, domain and checked_at; the time extension has no JSON form.
	sz, payload, err := msgp.ReadMapHeaderBytes(payload)
	if err != nil || sz != 6 {
		t.Fatalf("ReadMapHeaderBytes() = %d, %v", sz, err)
	}
	for range 6 {
		if payload, err = msgp.Skip(payload); err != nil {
			t.Fatalf("Skip() error = %v", err)
		}
	}
	doc := append(msgp.AppendMapHeader(nil, 3), payload...)

	var out bytes.Buffer
	if _, err := msgp.UnmarshalAsJSON(&out, doc); err != nil {
		t.Fatalf("UnmarshalAsJSON() error = %v", err)
	}

	var got map[string]map[string]any
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("Unmarshal(%s) error = %v", out.String(), err)
	}
	spfResult, _ := got["spf"]["result"].(map[string]any)
	if spfResult["lookup_count"] != float64(3) {
		t.Errorf("spf.result.lookup_count = %v, want 3", spfResult["lookup_count"])
	}
	dmarcResult, _ := got["dmarc"]["result"].(map[string]any)
	dmarcFields, _ := dmarcResult["fields"].(map[string]any)
	if dmarcFields["pct"] != "20" || dmarcFields["rua"] != nil {
		t.Errorf("dmarc fields = %v", dmarcFields)
	}
	dkimResult, _ := got["dkim"]["result"].(map[string]any)
	key, _ := dkimResult["key"].(map[string]any)
	if key["type"] != "ed25519" || key["bits"] != float64(256) {
		t.Errorf("dkim key = %v", key)
	}
}
