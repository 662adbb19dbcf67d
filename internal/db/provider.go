package db

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/spf13/viper"
)

// ConnectionInfo — содержимое connection.json:
// {"url": "mysql:host=db;dbname=rc", "username": "...", "passwd": "..."}
type ConnectionInfo struct {
	URL      string `mapstructure:"url"`
	Username string `mapstructure:"username"`
	Passwd   string `mapstructure:"passwd"`
}

func LoadConnectionFile(path string) (*ConnectionInfo, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("connection file %s: %w", path, err)
	}
	var ci ConnectionInfo
	if err := v.Unmarshal(&ci); err != nil {
		return nil, fmt.Errorf("connection file %s: %w", path, err)
	}
	if strings.TrimSpace(ci.URL) == "" {
		return nil, fmt.Errorf("connection file %s: url is empty", path)
	}
	return &ci, nil
}

// Resolve переводит PDO-подобный url ("mysql:host=...;port=...;dbname=...")
// в driver + DSN для gorm. Поддерживаются mysql, pgsql, sqlite.
func (ci ConnectionInfo) Resolve() (driver, dsn string, err error) {
	scheme, rest, ok := strings.Cut(ci.URL, ":")
	if !ok {
		return "", "", fmt.Errorf("bad connection url %q", ci.URL)
	}
	switch scheme {
	case "sqlite":
		return "sqlite", rest, nil
	case "mysql", "pgsql":
	default:
		return "", "", fmt.Errorf("unsupported connection scheme %q", scheme)
	}

	params := map[string]string{}
	for _, kv := range strings.Split(rest, ";") {
		k, v, ok := strings.Cut(strings.TrimSpace(kv), "=")
		if ok {
			params[strings.ToLower(k)] = v
		}
	}
	host := params["host"]
	if host == "" {
		host = "localhost"
	}

	if scheme == "mysql" {
		port := params["port"]
		if port == "" {
			port = "3306"
		}
		mc := gomysql.NewConfig()
		mc.User = ci.Username
		mc.Passwd = ci.Passwd
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(host, port)
		mc.DBName = params["dbname"]
		mc.ParseTime = true
		if cs := params["charset"]; cs != "" {
			mc.Params = map[string]string{"charset": cs}
		}
		return "mysql", mc.FormatDSN(), nil
	}

	port := params["port"]
	if port == "" {
		port = "5432"
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(ci.Username, ci.Passwd),
		Host:   net.JoinHostPort(host, port),
		Path:   "/" + params["dbname"],
	}
	q := url.Values{}
	if sm := params["sslmode"]; sm != "" {
		q.Set("sslmode", sm)
	} else {
		q.Set("sslmode", "disable")
	}
	u.RawQuery = q.Encode()
	return "postgres", u.String(), nil
}
