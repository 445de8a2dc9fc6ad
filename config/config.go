package config

// Error helps to handle better config errors on startup
type Error struct {
	// Critical indicates if the error encountered is critical and the app must be stopped
	Critical bool
	// Message error message
	Message string
}

// SuretyCfg stores the global configs for the surety node
type SuretyCfg struct {
	// LogLevel logging level (debug, info, warn, error, fatal)
	LogLevel string
	// LogOutput logging output (stdout, stderr or filepath)
	LogOutput string
	// LogErrorFile for logging warning, error and fatal messages
	LogErrorFile string
	// DataDir directory where the node stores its persistent state
	DataDir string
	// SaveConfig overwrites the config file with the CLI provided flags
	SaveConfig bool
	// Owner hex address allowed to flip the operational flag
	Owner string
	// GenesisAirline hex address of the airline registered at startup
	GenesisAirline string
	// GenesisAirlineName display name of the genesis airline
	GenesisAirlineName string
	// Seed for the oracle index assignment, 0 means random
	Seed int64
	API API
	Sim Sim
}

// API stores the http api configuration
type API struct {
	// Enabled serves the json api when true
	Enabled bool
	// Host to listen on
	Host string
	// Port to listen on
	Port int
	// Route base path of the api
	Route string
	// MetricsPath where the prometheus endpoint is exposed, empty disables it
	MetricsPath string
}

// Sim stores the oracle simulator configuration
type Sim struct {
	// Enabled runs the simulated oracle swarm when true
	Enabled bool
	// Oracles number of simulated oracle agents
	Oracles int
	// Status fixed flight status code reported by every agent, 0 means random
	Status uint8
}
