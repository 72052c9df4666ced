package sqldb

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"              // registers "postgres"
	_ "github.com/microsoft/go-mssqldb" // registers "sqlserver"
	_ "modernc.org/sqlite"             // registers "sqlite"
)

// Driver names as registered with database/sql.
const (
	DriverSQLServer = "sqlserver"
	DriverSQLite    = "sqlite"
	DriverPostgres  = "postgres"
	DriverPgx       = "pgx"
)

// Auth modes.
const (
	AuthSQL        = "sql"
	AuthIntegrated = "integrated"
)

// DefaultConnectTimeout bounds a single strategy attempt.
const DefaultConnectTimeout = 10 * time.Second

func init() {
	// modernc registers as "sqlite", which sqlx does not know about.
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// Strategy is one way of reaching the data store. Strategies are tried in
// the order they are configured.
type Strategy struct {
	Name     string            `yaml:"name"`
	Driver   string            `yaml:"driver"` // sqlserver, sqlite, postgres, pgx
	Auth     string            `yaml:"auth"`   // sql, integrated
	Host     string            `yaml:"host"`
	Port     int               `yaml:"port"`
	Instance string            `yaml:"instance"` // SQL Server named instance
	Database string            `yaml:"database"`
	User     string            `yaml:"user"`
	Password string            `yaml:"password"`
	Path     string            `yaml:"path"` // sqlite file
	DSN      string            `yaml:"dsn"`  // overrides everything above
	Params   map[string]string `yaml:"params"`
	Timeout  time.Duration     `yaml:"timeout"`
	Migrate  bool              `yaml:"migrate"`

	MaxOpenConns int `yaml:"max_open_conns"`
	MaxIdleConns int `yaml:"max_idle_conns"`
}

// WithDefaults returns a copy with zero fields filled in.
func (s Strategy) WithDefaults() Strategy {
	if s.Timeout <= 0 {
		s.Timeout = DefaultConnectTimeout
	}
	if s.Auth == "" {
		s.Auth = AuthSQL
	}
	if s.Name == "" {
		s.Name = s.Driver
	}
	return s
}

// Validate checks that the strategy can produce a DSN.
func (s Strategy) Validate() error {
	if _, ok := dialects[s.Driver]; !ok {
		return fmt.Errorf("strategy %q: unsupported driver %q", s.Name, s.Driver)
	}
	if s.Auth != "" && s.Auth != AuthSQL && s.Auth != AuthIntegrated {
		return fmt.Errorf("strategy %q: unsupported auth mode %q", s.Name, s.Auth)
	}
	if s.DSN != "" {
		return nil
	}
	if s.Driver == DriverSQLite {
		if s.Path == "" {
			return fmt.Errorf("strategy %q: sqlite requires a path", s.Name)
		}
		return nil
	}
	if s.Host == "" {
		return fmt.Errorf("strategy %q: host is required", s.Name)
	}
	return nil
}

// Dialect returns the SQL dialect spoken by the strategy's driver.
func (s Strategy) Dialect() Dialect {
	return dialects[s.Driver]
}

// DataSourceName builds the driver DSN.
func (s Strategy) DataSourceName() string {
	if s.DSN != "" {
		return s.DSN
	}

	switch s.Driver {
	case DriverSQLite:
		q := url.Values{}
		q.Add("_pragma", "busy_timeout(5000)")
		q.Add("_pragma", "foreign_keys(1)")
		for k, v := range s.Params {
			q.Add(k, v)
		}
		return s.Path + "?" + q.Encode()

	case DriverSQLServer:
		q := url.Values{}
		if s.Database != "" {
			q.Set("database", s.Database)
		}
		q.Set("encrypt", "disable")
		q.Set("TrustServerCertificate", "true")
		q.Set("connection timeout", strconv.Itoa(int(s.timeout().Seconds())))
		for k, v := range s.Params {
			q.Set(k, v)
		}
		u := &url.URL{
			Scheme:   "sqlserver",
			Host:     s.hostPort(),
			RawQuery: q.Encode(),
		}
		if s.Instance != "" {
			u.Path = s.Instance
		}
		// Without credentials go-mssqldb falls back to integrated (SSPI/Kerberos) auth.
		if s.Auth != AuthIntegrated && s.User != "" {
			u.User = url.UserPassword(s.User, s.Password)
		}
		return u.String()

	default: // postgres, pgx
		q := url.Values{}
		q.Set("sslmode", "disable")
		q.Set("connect_timeout", strconv.Itoa(int(s.timeout().Seconds())))
		for k, v := range s.Params {
			q.Set(k, v)
		}
		u := &url.URL{
			Scheme:   "postgres",
			Host:     s.hostPort(),
			Path:     "/" + s.Database,
			RawQuery: q.Encode(),
		}
		if s.Auth != AuthIntegrated && s.User != "" {
			u.User = url.UserPassword(s.User, s.Password)
		}
		return u.String()
	}
}

func (s Strategy) hostPort() string {
	if s.Port == 0 {
		return s.Host
	}
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

func (s Strategy) timeout() time.Duration {
	if s.Timeout <= 0 {
		return DefaultConnectTimeout
	}
	return s.Timeout
}

// Info is the public description of a strategy, safe to log or serve.
type Info struct {
	Name     string `json:"name"`
	Driver   string `json:"driver"`
	Dialect  string `json:"dialect"`
	Auth     string `json:"auth"`
	Target   string `json:"target"`
	Database string `json:"database,omitempty"`
}

// Info describes the strategy without credentials.
func (s Strategy) Info() Info {
	target := s.Path
	if s.Driver != DriverSQLite {
		target = s.hostPort()
		if s.Instance != "" {
			target += `\` + s.Instance
		}
	}
	if s.DSN != "" {
		target = redactDSN(s.DSN)
	}
	return Info{
		Name:     s.Name,
		Driver:   s.Driver,
		Dialect:  string(s.Dialect()),
		Auth:     s.Auth,
		Target:   target,
		Database: s.Database,
	}
}

func redactDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.Scheme == "" {
		// key=value style DSNs: drop anything that looks like a secret
		var kept []string
		for _, part := range strings.Split(dsn, ";") {
			if strings.Contains(strings.ToLower(part), "password") {
				continue
			}
			kept = append(kept, part)
		}
		return strings.Join(kept, ";")
	}
	if u.User != nil {
		u.User = url.User(u.User.Username())
	}
	return u.String()
}
