package cnst

const (
	AppName     = "backoffice"
	CommandName = "apiserver"
)

const (
	ApiServerYaml    = "apiserver.yaml"
	SessionWatchYaml = "sessionwatch.yaml"
)

const (
	RedisClusterTypeSentinel = "sentinel"
	RedisClusterTypeCluster  = "cluster"
	RedisClusterTypeSingle   = "single"
)

// DateLayout is the wire and storage layout of calendar dates.
const DateLayout = "2006-01-02"
