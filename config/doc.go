/*
Package config loads the panel client configuration.

Values come from defaults, an optional YAML file and the environment, in that
order. LoadDotEnv feeds .env files into the environment first:

	_ = config.LoadDotEnv(".env")
	cfg, err := config.Load("painel.yaml")

Environment variables: PAINEL_API_URL, PAINEL_TOKEN, PAINEL_PUBLIC, PAINEL_TIMEOUT,
PAINEL_RATE_LIMIT, PAINEL_RATE_BURST, PAINEL_MAX_RETRIES, PAINEL_BACKEND,
PAINEL_RESOURCES, PAINEL_PER_PAGE, AWS_REGION, AWS_ACCESS_KEY, AWS_SECRET_KEY,
AWS_DDB_TABLE, AWS_DDB_ENDPOINT, LOG_LEVEL and LOG_FORMAT.
*/
package config
