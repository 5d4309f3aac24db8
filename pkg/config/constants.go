package config

const (
	EnvPrefix = "artvia"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	EnvDBDSN  = "ARTVIA_DB_DSN"
	EnvDBHost = "ARTVIA_DB_HOST"
	EnvDBUser = "ARTVIA_DB_USER"
	EnvDBName = "ARTVIA_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
