package config

import (
	"fmt"
	"net"
	neturl "net/url"
	"strconv"
	"strings"

	mysqldriver "github.com/go-sql-driver/mysql"
)

// DSNValue builds the MySQL DSN from the structured config, unless an
// explicit dsn/url was given.
func (c DatabaseRuntimeConfig) DSNValue() string {
	if v := strings.TrimSpace(c.DSN); v != "" {
		return v
	}
	if v := strings.TrimSpace(c.URL); v != "" {
		return v
	}

	mc := mysqldriver.NewConfig()
	mc.Net = "tcp"

	host := strings.TrimSpace(c.Host)
	if host == "" {
		host = defaultDBHost
	}
	port := c.Port
	if port == 0 {
		port = defaultDBPort
	}
	mc.Addr = net.JoinHostPort(host, strconv.Itoa(port))

	mc.User = strings.TrimSpace(c.User)
	if mc.User == "" {
		mc.User = strings.TrimSpace(c.Username)
	}
	if mc.User == "" {
		mc.User = defaultDBUser
	}
	mc.Passwd = strings.TrimSpace(c.Password)
	if mc.Passwd == "" {
		mc.Passwd = defaultDBPassword
	}
	mc.DBName = strings.TrimSpace(c.Name)
	if mc.DBName == "" {
		mc.DBName = strings.TrimSpace(c.DBName)
	}
	if mc.DBName == "" {
		mc.DBName = defaultDBName
	}
	mc.ParseTime = c.ParseTime

	params := map[string]string{}
	for key, value := range c.Params {
		k := strings.TrimSpace(key)
		v := strings.TrimSpace(value)
		if k != "" && v != "" {
			params[k] = v
		}
	}
	if params["charset"] == "" {
		charset := strings.TrimSpace(c.Charset)
		if charset == "" {
			charset = defaultDBCharset
		}
		params["charset"] = charset
	}
	if params["loc"] == "" {
		loc := strings.TrimSpace(c.Loc)
		if loc == "" {
			loc = defaultDBLoc
		}
		params["loc"] = loc
	}
	mc.Params = params

	return mc.FormatDSN()
}

// URIValue builds the MongoDB connection URI, unless an explicit uri was given.
func (c MongoRuntimeConfig) URIValue() string {
	if v := strings.TrimSpace(c.URI); v != "" {
		return v
	}

	host := strings.TrimSpace(c.Host)
	if host == "" {
		host = defaultMongoHost
	}
	port := c.Port
	if port == 0 {
		port = defaultMongoPort
	}

	u := &neturl.URL{
		Scheme: "mongodb",
		Host:   net.JoinHostPort(host, strconv.Itoa(port)),
	}
	username := strings.TrimSpace(c.Username)
	password := strings.TrimSpace(c.Password)
	if username != "" {
		if password != "" {
			u.User = neturl.UserPassword(username, password)
		} else {
			u.User = neturl.User(username)
		}
	}
	return u.String()
}

// DatabaseValue returns the Mongo database name.
func (c MongoRuntimeConfig) DatabaseValue() string {
	if v := strings.TrimSpace(c.Database); v != "" {
		return v
	}
	return defaultMongoDatabase
}

// URLValue builds the Redis URL, unless an explicit url was given.
func (c RedisRuntimeConfig) URLValue() string {
	if u := strings.TrimSpace(c.URL); u != "" {
		return u
	}

	host := strings.TrimSpace(c.Host)
	if host == "" {
		host = defaultRedisHost
	}
	port := c.Port
	if port == 0 {
		port = defaultRedisPort
	}
	db := c.DB
	if db < 0 {
		db = defaultRedisDB
	}

	scheme := strings.ToLower(strings.TrimSpace(c.Scheme))
	if scheme == "" {
		if c.TLS {
			scheme = "rediss"
		} else {
			scheme = "redis"
		}
	}
	if scheme != "redis" && scheme != "rediss" {
		scheme = "redis"
	}

	u := &neturl.URL{
		Scheme: scheme,
		Host:   net.JoinHostPort(host, strconv.Itoa(port)),
		Path:   fmt.Sprintf("/%d", db),
	}
	username := strings.TrimSpace(c.Username)
	password := strings.TrimSpace(c.Password)
	if username != "" {
		if password != "" {
			u.User = neturl.UserPassword(username, password)
		} else {
			u.User = neturl.User(username)
		}
	} else if password != "" {
		u.User = neturl.UserPassword("", password)
	}

	if len(c.Params) > 0 {
		query := neturl.Values{}
		for key, value := range c.Params {
			k := strings.TrimSpace(key)
			v := strings.TrimSpace(value)
			if k != "" && v != "" {
				query.Set(k, v)
			}
		}
		if len(query) > 0 {
			u.RawQuery = query.Encode()
		}
	}

	return u.String()
}
