package config

const SERVER_YML = `
listener:
  port: 3000

database:
  adapter: sqlite
  sqlite:
    rootDir:
  postgres:
    dsn:
`
