package shared

type ServerConfig struct {
	Listener ListenerConfig `mapstructure:"listener" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
}

type ListenerConfig struct {
	Port int `mapstructure:"port" validate:"required"`
}

type DatabaseConfig struct {
	Adapter  string         `mapstructure:"adapter" validate:"required,oneof=sqlite postgres"`
	Sqlite   SqliteConfig   `mapstructure:"sqlite"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type SqliteConfig struct {
	// Directory that holds the sqlite db file. Defaults to the working directory.
	RootDir string `mapstructure:"rootDir"`
}

type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}
