package utils

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetIpAddress(t *testing.T) {
	tests := []struct {
		name       string
		header     http.Header
		remoteAddr string
		want       string
	}{
		{
			name:       "plain ipv4",
			remoteAddr: "203.0.113.7:51234",
			want:       "203.0.113.7",
		},
		{
			name:       "bracketed ipv6",
			remoteAddr: "[2001:db8::1]:443",
			want:       "2001:db8::1",
		},
		{
			name:       "ipv4 mapped ipv6",
			remoteAddr: "[::ffff:203.0.113.7]:443",
			want:       "203.0.113.7",
		},
		{
			name:       "cloudflare header wins",
			header:     http.Header{"Cf-Connecting-Ip": []string{"198.51.100.9"}},
			remoteAddr: "203.0.113.7:51234",
			want:       "198.51.100.9",
		},
		{
			name:       "forwarded-for takes the leftmost hop",
			header:     http.Header{"X-Forwarded-For": []string{"198.51.100.9, 10.0.0.1"}},
			remoteAddr: "203.0.113.7:51234",
			want:       "198.51.100.9",
		},
		{
			name: "empty address",
			want: "",
		},
		{
			name:       "address without port",
			remoteAddr: "not-an-address",
			want:       "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetIpAddress(tt.header, tt.remoteAddr))
		})
	}
}
