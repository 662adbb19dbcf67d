package models

import (
	"database/sql/driver"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"net/netip"
	"strconv"
	"strings"
)

// IPv4 хранится в БД как 32-битное число (как INET_ATON в MySQL),
// наружу отдаётся строкой "a.b.c.d".
type IPv4 uint32

var ErrBadIPv4 = errors.New("invalid ipv4 address")

// ParseIPv4 переводит dotted-quad в 32-битное представление.
func ParseIPv4(s string) (IPv4, error) {
	a, err := netip.ParseAddr(strings.TrimSpace(s))
	if err != nil || !a.Is4() {
		return 0, fmt.Errorf("%w: %q", ErrBadIPv4, s)
	}
	b := a.As4()
	return IPv4(binary.BigEndian.Uint32(b[:])), nil
}

func (ip IPv4) String() string {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(ip))
	return netip.AddrFrom4(b).String()
}

func (ip IPv4) MarshalJSON() ([]byte, error) {
	return json.Marshal(ip.String())
}

func (ip *IPv4) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseIPv4(s)
	if err != nil {
		return err
	}
	*ip = v
	return nil
}

// Value — в колонку пишем число.
func (ip IPv4) Value() (driver.Value, error) {
	return int64(ip), nil
}

// Scan принимает то, что отдают mysql/postgres/sqlite драйверы для целых.
func (ip *IPv4) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*ip = 0
	case int64:
		*ip = IPv4(uint32(v))
	case uint64:
		*ip = IPv4(uint32(v))
	case []byte:
		n, err := strconv.ParseUint(string(v), 10, 32)
		if err != nil {
			return fmt.Errorf("scan ipv4: %w", err)
		}
		*ip = IPv4(n)
	case string:
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return fmt.Errorf("scan ipv4: %w", err)
		}
		*ip = IPv4(n)
	default:
		return fmt.Errorf("scan ipv4: unsupported type %T", src)
	}
	return nil
}
