package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestJWTManager_GenerateVerify(t *testing.T) {
	req := require.New(t)
	m := NewJWTManager("secret", time.Hour)

	token, err := m.Generate("user-1")
	req.NoError(err)

	claims, err := m.Verify(token)
	req.NoError(err)
	req.Equal("user-1", claims.Subject)

	exp, err := m.Expiry(token)
	req.NoError(err)
	req.WithinDuration(time.Now().Add(time.Hour), exp, time.Minute)
	req.Equal(time.Hour, m.Duration())

	again, err := m.Generate("user-1")
	req.NoError(err)
	req.NotEqual(token, again)
	second, err := m.Verify(again)
	req.NoError(err)
	req.NotEqual(claims.ID, second.ID)
}

func TestJWTManager_RejectsForeignAndExpired(t *testing.T) {
	req := require.New(t)

	token, err := NewJWTManager("other", time.Hour).Generate("user-1")
	req.NoError(err)
	_, err = NewJWTManager("secret", time.Hour).Verify(token)
	req.ErrorIs(err, ErrInvalidToken)

	expired, err := NewJWTManager("secret", -time.Minute).Generate("user-1")
	req.NoError(err)
	_, err = NewJWTManager("secret", time.Hour).Verify(expired)
	req.ErrorIs(err, ErrInvalidToken)

	_, err = NewJWTManager("secret", time.Hour).Verify("garbage")
	req.ErrorIs(err, ErrInvalidToken)
}

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name   string
		target string
		header string
		want   string
	}{
		{name: "query", target: "/ws?token=abc", want: "abc"},
		{name: "bearer header", target: "/ws", header: "Bearer xyz", want: "xyz"},
		{name: "query wins", target: "/ws?token=abc", header: "Bearer xyz", want: "abc"},
		{name: "wrong scheme", target: "/ws", header: "Basic xyz", want: ""},
		{name: "none", target: "/ws", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.target, nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			require.Equal(t, tt.want, ExtractToken(r))
		})
	}
}
