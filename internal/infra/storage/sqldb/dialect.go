package sqldb

// Dialect identifies the SQL flavor behind a strategy.
type Dialect string

const (
	DialectSQLServer Dialect = "sqlserver"
	DialectSQLite    Dialect = "sqlite"
	DialectPostgres  Dialect = "postgres"
)

var dialects = map[string]Dialect{
	DriverSQLServer: DialectSQLServer,
	DriverSQLite:    DialectSQLite,
	DriverPostgres:  DialectPostgres,
	DriverPgx:       DialectPostgres,
}

// Statement holds the text of one logical query per dialect. Parameters use
// sqlx named syntax (:name) and are rebound for the active driver.
type Statement map[Dialect]string

// Portable returns a statement that uses the same text for every dialect.
func Portable(text string) Statement {
	return Statement{
		DialectSQLServer: text,
		DialectSQLite:    text,
		DialectPostgres:  text,
	}
}

const probeQuery = "SELECT 1 AS health_check"

// serverInfo is the probe used by TestConnection.
var serverInfo = Statement{
	DialectSQLServer: `
		SELECT
			CAST(@@VERSION AS nvarchar(4000)) AS server_version,
			DB_NAME() AS database_name,
			CAST(@@SERVERNAME AS nvarchar(256)) AS server_name,
			CONVERT(nvarchar(33), GETDATE(), 126) AS server_time`,
	DialectSQLite: `
		SELECT
			sqlite_version() AS server_version,
			'main' AS database_name,
			'sqlite' AS server_name,
			datetime('now') AS server_time`,
	DialectPostgres: `
		SELECT
			version() AS server_version,
			current_database() AS database_name,
			COALESCE(CAST(inet_server_addr() AS text), 'localhost') AS server_name,
			CAST(now() AS text) AS server_time`,
}
