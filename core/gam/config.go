package gam

// Config holds configuration for the Ad Manager connection.
type Config struct {
	// NetworkCode is the Ad Manager network the session is scoped to.
	NetworkCode string `mapstructure:"network_code" default:""`
	// CredentialsFile is the path to a service-account JSON key file.
	CredentialsFile string `mapstructure:"credentials_file" default:""`
	// CredentialsJSON is the service-account key material inline.
	// Takes precedence over CredentialsFile when both are set.
	CredentialsJSON string `mapstructure:"credentials_json" default:""`
	// Endpoint is the base URL of the Ad Manager API.
	Endpoint string `mapstructure:"endpoint" default:"https://admanager.googleapis.com"`
	// ApplicationName identifies this client in outgoing requests.
	ApplicationName string `mapstructure:"application_name" default:"admanager-sync"`
	// TimeoutSeconds is the per-request timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
