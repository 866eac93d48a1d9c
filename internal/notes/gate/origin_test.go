package gate

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		site string
		path string
		want Classification
	}{
		{"same origin notes", "same-origin", "/notes/", Classification{}},
		{"user typed url", "none", "/", Classification{}},
		{"missing header", "", "/notes/", Classification{IsCrossSite: true}},
		{"cross site auth", "cross-site", "/auth/form/", Classification{IsCrossSite: true, IsAuthPath: true}},
		{"open asset", "same-site", "/main.css", Classification{IsOpenPath: true}},
		{"open auth link", "cross-site", "/auth/link/", Classification{IsCrossSite: true, IsAuthPath: true, IsOpenPath: true}},
		{"auth prefix needs slash", "none", "/authors", Classification{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			if tt.site != "" {
				h.Set("Sec-Fetch-Site", tt.site)
			}
			require.Equal(t, tt.want, Classify(h, tt.path))
		})
	}
}

func TestReadPair(t *testing.T) {
	r, _ := http.NewRequest(http.MethodGet, "/", nil)
	require.True(t, ReadPair(r).Anonymous())

	r.AddCookie(&http.Cookie{Name: RefreshCookie, Value: "rt"})
	p := ReadPair(r)
	require.False(t, p.Anonymous())
	require.Empty(t, p.Bearer)
	require.Equal(t, "rt", p.Refresh)
}

func TestOutcomeString(t *testing.T) {
	require.Equal(t, "redirect_to_login", RedirectToLogin.String())
	require.Equal(t, "abandon", Abandon.String())
	require.Equal(t, "unknown", Outcome(99).String())
}
