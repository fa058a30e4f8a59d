package payment

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"net/url"
	"strings"
)

// Param is one biz_content entry. Params keep declaration order, which is
// part of the signature contract with the gateway.
type Param struct {
	Key   string
	Value string
}

type Params []Param

// Digest returns the hex MD5 of input.
func Digest(input string, upper bool) string {
	sum := md5.Sum([]byte(input))
	s := hex.EncodeToString(sum[:])
	if upper {
		return strings.ToUpper(s)
	}
	return s
}

// CanonicalJSON serializes params as a JSON object in declared order.
// Entries with an empty value are omitted. The result is both the signed
// string and the request body.
func CanonicalJSON(params Params) []byte {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for _, p := range params {
		if p.Value == "" {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		writeJSONString(&buf, p.Key)
		buf.WriteByte(':')
		writeJSONString(&buf, p.Value)
	}
	buf.WriteByte('}')
	return buf.Bytes()
}

func writeJSONString(buf *bytes.Buffer, s string) {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	// encoding a string cannot fail
	_ = enc.Encode(s)
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
}

// URLEncodeParams renders params as k=v pairs joined by '&', once raw and
// once with query-escaped values. Empty values are kept as "k=".
func URLEncodeParams(params Params) (unencoded, encoded string) {
	raw := make([]string, 0, len(params))
	esc := make([]string, 0, len(params))
	for _, p := range params {
		raw = append(raw, p.Key+"="+p.Value)
		esc = append(esc, p.Key+"="+url.QueryEscape(p.Value))
	}
	return strings.Join(raw, "&"), strings.Join(esc, "&")
}
