package payment

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDigest(t *testing.T) {
	t.Run("KnownValue", func(t *testing.T) {
		assert.Equal(t, "c2b40631ce7eb833e93aff766ba768eb", Digest(`{"terminal_sn":"T1","sn":"S1"}K1`, false))
	})

	t.Run("UpperCase", func(t *testing.T) {
		assert.Equal(t, "C2B40631CE7EB833E93AFF766BA768EB", Digest(`{"terminal_sn":"T1","sn":"S1"}K1`, true))
	})

	t.Run("Deterministic", func(t *testing.T) {
		assert.Equal(t, Digest("payload-key", false), Digest("payload-key", false))
	})

	t.Run("SingleCharChange", func(t *testing.T) {
		base := `{"terminal_sn":"T1","sn":"S1"}K1`
		for i := range base {
			changed := []byte(base)
			changed[i] ^= 0x01
			assert.NotEqual(t, Digest(base, false), Digest(string(changed), false), "position %d", i)
		}
	})
}

func TestCanonicalJSON(t *testing.T) {
	t.Run("KeepsDeclaredOrder", func(t *testing.T) {
		out := CanonicalJSON(Params{
			{"terminal_sn", "T1"},
			{"sn", "S1"},
			{"refund_request_no", "R1"},
			{"client_sn", "C1"},
		})
		assert.Equal(t, `{"terminal_sn":"T1","sn":"S1","refund_request_no":"R1","client_sn":"C1"}`, string(out))
	})

	t.Run("OmitsEmptyValues", func(t *testing.T) {
		out := CanonicalJSON(Params{
			{"terminal_sn", "T1"},
			{"sn", "S1"},
			{"refund_request_no", ""},
			{"client_sn", ""},
		})
		assert.Equal(t, `{"terminal_sn":"T1","sn":"S1"}`, string(out))
	})

	t.Run("AllEmpty", func(t *testing.T) {
		assert.Equal(t, `{}`, string(CanonicalJSON(Params{{"sn", ""}})))
	})

	t.Run("NoHTMLEscaping", func(t *testing.T) {
		out := CanonicalJSON(Params{{"subject", `<a&b> "q"`}})
		assert.Equal(t, `{"subject":"<a&b> \"q\""}`, string(out))
	})

	t.Run("Unicode", func(t *testing.T) {
		out := CanonicalJSON(Params{{"name", "收钱吧"}})
		assert.Equal(t, `{"name":"收钱吧"}`, string(out))
	})
}

func TestURLEncodeParams(t *testing.T) {
	params := Params{
		{"terminal_sn", "T1"},
		{"subject", "coffee & cake"},
		{"client_sn", "C1"},
		{"total_amount", "100"},
		{"operator", ""},
		{"reflect", `{"k":"v"}`},
		{"notify_url", "https://m.example.com/notify?x=1"},
		{"return_url", ""},
	}

	unencoded, encoded := URLEncodeParams(params)

	assert.Equal(t,
		`terminal_sn=T1&subject=coffee & cake&client_sn=C1&total_amount=100&operator=&reflect={"k":"v"}&notify_url=https://m.example.com/notify?x=1&return_url=`,
		unencoded,
	)

	encPairs := strings.Split(encoded, "&")
	require.Len(t, encPairs, len(params))

	for i, p := range params {
		key, val, ok := strings.Cut(encPairs[i], "=")
		require.True(t, ok)
		assert.Equal(t, p.Key, key)

		decoded, err := url.QueryUnescape(val)
		require.NoError(t, err)
		assert.Equal(t, p.Value, decoded)
	}
}
