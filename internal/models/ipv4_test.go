package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIPv4RoundTrip(t *testing.T) {
	for _, s := range []string{"0.0.0.0", "127.0.0.1", "192.168.1.10", "10.0.0.255", "255.255.255.255"} {
		ip, err := ParseIPv4(s)
		require.NoError(t, err, s)
		assert.Equal(t, s, ip.String())
	}
}

func TestIPv4MatchesInetAton(t *testing.T) {
	ip, err := ParseIPv4("192.168.1.10")
	require.NoError(t, err)
	// SELECT INET_ATON('192.168.1.10') = 3232235786
	assert.Equal(t, IPv4(3232235786), ip)
}

func TestParseIPv4Rejects(t *testing.T) {
	for _, s := range []string{"", "abc", "256.1.1.1", "::1", "1.2.3", "::ffff:1.2.3.4"} {
		_, err := ParseIPv4(s)
		assert.ErrorIs(t, err, ErrBadIPv4, s)
	}
}

func TestIPv4Scan(t *testing.T) {
	var ip IPv4
	require.NoError(t, ip.Scan(int64(3232235786)))
	assert.Equal(t, "192.168.1.10", ip.String())

	require.NoError(t, ip.Scan([]byte("2130706433")))
	assert.Equal(t, "127.0.0.1", ip.String())

	require.NoError(t, ip.Scan(nil))
	assert.Equal(t, "0.0.0.0", ip.String())

	assert.Error(t, ip.Scan(1.5))
}

func TestIPv4JSON(t *testing.T) {
	ip, err := ParseIPv4("10.1.2.3")
	require.NoError(t, err)

	b, err := json.Marshal(ip)
	require.NoError(t, err)
	assert.JSONEq(t, `"10.1.2.3"`, string(b))

	var back IPv4
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, ip, back)
}
