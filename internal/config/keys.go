package config

const (
	KeyEnvFile          = "env_file"
	KeyLogLevel         = "log_level"
	KeyTransport        = "transport"
	KeyHost             = "host"
	KeyPort             = "port"
	KeyIBPURL           = "ibp_url"
	KeyIBPUsername      = "ibp_username"
	KeyIBPPassword      = "ibp_password"
	KeyIBPTimeout       = "ibp_request_timeout"
	KeyIBPMaxResults    = "ibp_max_results"
	KeyIBPTokenURL      = "ibp_token_url"
	KeyIBPClientID      = "ibp_client_id"
	KeyIBPClientSecret  = "ibp_client_secret"
	KeyAttributeMapFile = "ibp_attribute_map_file"
)

// flagKeys maps persistent flag names onto configuration keys when the two
// differ by more than dash/underscore spelling.
var flagKeys = map[string]string{
	"attribute-map": KeyAttributeMapFile,
}
