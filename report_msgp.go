package safemx

import (
	"maps"
	"slices"

	"github.com/tinylib/msgp/msgp"

	"github.com/synqronlabs/safemx/dkim"
	"github.com/synqronlabs/safemx/dmarc"
	"github.com/synqronlabs/safemx/spf"
	"github.com/synqronlabs/safemx/utils"
)

var _ msgp.Marshaler = (*Report)(nil)

// MarshalMsg implements msgp.Marshaler. The encoding carries the report ID
// and timestamp, and for every check its query details alongside the
// parsed record or error. Map keys match the JSON names.
func (r *Report) MarshalMsg(b []byte) ([]byte, error) {
	results := r.Results()

	o := msgp.AppendMapHeader(b, uint32(3+len(results)))
	o = msgp.AppendString(o, "id")
	o = msgp.AppendString(o, r.ID.String())
	o = msgp.AppendString(o, "domain")
	o = msgp.AppendString(o, r.Domain)
	o = msgp.AppendString(o, "checked_at")
	o = msgp.AppendTime(o, r.CheckedAt)

	for _, c := range results {
		o = msgp.AppendString(o, string(c.Type))
		o = appendCheck(o, c)
	}
	return o, nil
}

func appendCheck(o []byte, c *CheckResult) []byte {
	n := uint32(6)
	if c.Err != nil {
		n = 8
	}
	o = msgp.AppendMapHeader(o, n)
	o = msgp.AppendString(o, "type")
	o = msgp.AppendString(o, string(c.Type))
	o = msgp.AppendString(o, "domain")
	o = msgp.AppendString(o, c.Domain)
	o = msgp.AppendString(o, "name")
	o = msgp.AppendString(o, c.Name)
	o = msgp.AppendString(o, "selector")
	o = msgp.AppendString(o, c.Selector)
	o = msgp.AppendString(o, "authentic")
	o = msgp.AppendBool(o, c.Authentic)

	if c.Err != nil {
		o = msgp.AppendString(o, "error")
		o = msgp.AppendString(o, c.Err.Message)
		o = msgp.AppendString(o, "error_code")
		o = msgp.AppendString(o, string(c.Err.Code))
		o = msgp.AppendString(o, "records")
		return appendStrings(o, c.Err.Records)
	}

	o = msgp.AppendString(o, "result")
	switch {
	case c.SPF != nil:
		return appendSPF(o, c.SPF)
	case c.DMARC != nil:
		return appendDMARC(o, c.DMARC)
	case c.DKIM != nil:
		return appendDKIM(o, c.DKIM)
	}
	return msgp.AppendNil(o)
}

func appendSPF(o []byte, r *spf.Result) []byte {
	o = msgp.AppendMapHeader(o, 8)
	o = msgp.AppendString(o, "record")
	o = msgp.AppendString(o, r.Record)
	o = msgp.AppendString(o, "version")
	if r.Version == "" {
		o = msgp.AppendNil(o)
	} else {
		o = msgp.AppendString(o, r.Version)
	}

	o = msgp.AppendString(o, "mechanisms")
	o = msgp.AppendArrayHeader(o, uint32(len(r.Mechanisms)))
	for _, m := range r.Mechanisms {
		o = msgp.AppendMapHeader(o, 5)
		o = msgp.AppendString(o, "type")
		o = msgp.AppendString(o, string(m.Kind))
		o = msgp.AppendString(o, "value")
		o = msgp.AppendString(o, m.Value)
		o = msgp.AppendString(o, "domain")
		o = msgp.AppendString(o, m.Domain)
		o = msgp.AppendString(o, "prefix_length")
		o = msgp.AppendString(o, m.PrefixLength)
		o = msgp.AppendString(o, "explanation")
		o = msgp.AppendString(o, m.Explanation)
	}

	o = msgp.AppendString(o, "modifiers")
	o = msgp.AppendArrayHeader(o, uint32(len(r.Modifiers)))
	for _, m := range r.Modifiers {
		o = msgp.AppendMapHeader(o, 4)
		o = msgp.AppendString(o, "type")
		o = msgp.AppendString(o, string(m.Kind))
		o = msgp.AppendString(o, "value")
		o = msgp.AppendString(o, m.Value)
		o = msgp.AppendString(o, "domain")
		o = msgp.AppendString(o, m.Domain)
		o = msgp.AppendString(o, "explanation")
		o = msgp.AppendString(o, m.Explanation)
	}

	o = msgp.AppendString(o, "absent")
	o = msgp.AppendArrayHeader(o, uint32(len(r.Absent)))
	for _, k := range r.Absent {
		o = msgp.AppendString(o, string(k))
	}

	o = msgp.AppendString(o, "lookup_count")
	o = msgp.AppendInt(o, r.LookupCount)
	o = msgp.AppendString(o, "warnings")
	o = appendStrings(o, r.Warnings)
	o = msgp.AppendString(o, "notes")
	return appendStrings(o, r.Notes)
}

func appendDMARC(o []byte, r *dmarc.Result) []byte {
	o = msgp.AppendMapHeader(o, 5)
	o = appendTagRecord(o, r.Record, r.Fields, r.Explanations)
	o = msgp.AppendString(o, "warnings")
	o = appendStrings(o, r.Warnings)
	o = msgp.AppendString(o, "notes")
	return appendStrings(o, r.Notes)
}

func appendDKIM(o []byte, r *dkim.Result) []byte {
	o = msgp.AppendMapHeader(o, 6)
	o = appendTagRecord(o, r.Record, r.Fields, r.Explanations)
	o = msgp.AppendString(o, "warnings")
	o = appendStrings(o, r.Warnings)
	o = msgp.AppendString(o, "notes")
	o = appendStrings(o, r.Notes)

	o = msgp.AppendString(o, "key")
	if r.Key == nil {
		return msgp.AppendNil(o)
	}
	o = msgp.AppendMapHeader(o, 4)
	o = msgp.AppendString(o, "type")
	o = msgp.AppendString(o, r.Key.Type)
	o = msgp.AppendString(o, "bits")
	o = msgp.AppendInt(o, r.Key.Bits)
	o = msgp.AppendString(o, "revoked")
	o = msgp.AppendBool(o, r.Key.Revoked)
	o = msgp.AppendString(o, "error")
	return msgp.AppendString(o, r.Key.Error)
}

// appendTagRecord writes the record, fields and explanations entries shared
// by DMARC and DKIM. Absent fields encode as nil. Keys are sorted.
func appendTagRecord(o []byte, record string, fields map[string]utils.Field, explanations map[string]string) []byte {
	o = msgp.AppendString(o, "record")
	o = msgp.AppendString(o, record)

	o = msgp.AppendString(o, "fields")
	o = msgp.AppendMapHeader(o, uint32(len(fields)))
	for _, tag := range slices.Sorted(maps.Keys(fields)) {
		o = msgp.AppendString(o, tag)
		if f := fields[tag]; f.Present {
			o = msgp.AppendString(o, f.Value)
		} else {
			o = msgp.AppendNil(o)
		}
	}

	o = msgp.AppendString(o, "explanations")
	o = msgp.AppendMapHeader(o, uint32(len(explanations)))
	for _, tag := range slices.Sorted(maps.Keys(explanations)) {
		o = msgp.AppendString(o, tag)
		o = msgp.AppendString(o, explanations[tag])
	}
	return o
}

func appendStrings(o []byte, ss []string) []byte {
	o = msgp.AppendArrayHeader(o, uint32(len(ss)))
	for _, s := range ss {
		o = msgp.AppendString(o, s)
	}
	return o
}
