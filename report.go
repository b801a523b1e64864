package safemx

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/oklog/ulid/v2"
)

// Report collects the checks run against one domain.
type Report struct {
	ID        ulid.ULID
	Domain    string
	CheckedAt time.Time

	// A check that was not requested is nil.
	SPF   *CheckResult
	DMARC *CheckResult
	DKIM  *CheckResult
}

// Results returns the non-nil check results in SPF, DMARC, DKIM order.
func (r *Report) Results() []*CheckResult {
	var out []*CheckResult
	for _, c := range []*CheckResult{r.SPF, r.DMARC, r.DKIM} {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

type reportJSON struct {
	SPF   *CheckResult `json:"spf,omitempty"`
	DMARC *CheckResult `json:"dmarc,omitempty"`
	DKIM  *CheckResult `json:"dkim,omitempty"`
}

// MarshalJSON encodes the report as an object with one key per requested
// check.
func (r *Report) MarshalJSON() ([]byte, error) {
	return json.Marshal(reportJSON{SPF: r.SPF, DMARC: r.DMARC, DKIM: r.DKIM})
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("safemx: encode report: %w", err)
	}
	return nil
}

// WriteMsgpack writes the report as MessagePack.
func (r *Report) WriteMsgpack(w io.Writer) error {
	b, err := r.MarshalMsg(nil)
	if err != nil {
		return fmt.Errorf("safemx: encode report: %w", err)
	}
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("safemx: write report: %w", err)
	}
	return nil
}
