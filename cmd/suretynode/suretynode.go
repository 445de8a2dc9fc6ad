package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"

	"go.suretynet.io/surety/api"
	"go.suretynet.io/surety/config"
	"go.suretynet.io/surety/db"
	"go.suretynet.io/surety/db/metadb"
	"go.suretynet.io/surety/events"
	"go.suretynet.io/surety/ledger/archive"
	"go.suretynet.io/surety/log"
	"go.suretynet.io/surety/metrics"
	"go.suretynet.io/surety/oraclesim"
	"go.suretynet.io/surety/service"
	"go.suretynet.io/surety/types"
)

func newConfig() (*config.SuretyCfg, config.Error) {
	var cfgError config.Error
	globalCfg := new(config.SuretyCfg)
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, config.Error{
			Critical: true,
			Message:  fmt.Sprintf("cannot get user home directory with error: %s", err),
		}
	}

	// CLI flags have preference over the config file
	flag.StringVarP(&globalCfg.DataDir, "dataDir", "d", home+"/.surety",
		"directory where data is stored")
	globalCfg.LogLevel = *flag.StringP("logLevel", "l", "info",
		"log level (debug, info, warn, error, fatal)")
	globalCfg.LogOutput = *flag.String("logOutput", "stdout",
		"log output (stdout, stderr or filepath)")
	globalCfg.LogErrorFile = *flag.String("logErrorFile", "",
		"log errors and warnings to a file")
	globalCfg.SaveConfig = *flag.Bool("saveConfig", false,
		"overwrite an existing config file with the provided CLI flags")
	globalCfg.Owner = *flag.StringP("owner", "o", "",
		"hex address allowed to pause and resume the system")
	globalCfg.GenesisAirline = *flag.StringP("genesisAirline", "g", "",
		"hex address of the airline registered at startup")
	globalCfg.GenesisAirlineName = *flag.String("genesisAirlineName", "Genesis Airline",
		"display name of the genesis airline")
	globalCfg.Seed = *flag.Int64("seed", 0,
		"seed for the oracle index assignment (zero is random)")
	// api
	globalCfg.API.Enabled = *flag.Bool("api", true, "enable the http json api")
	globalCfg.API.Host = *flag.String("listenHost", "0.0.0.0",
		"API endpoint listen address")
	globalCfg.API.Port = *flag.IntP("listenPort", "p", 9090,
		"API endpoint http port")
	globalCfg.API.Route = *flag.String("apiRoute", "/v1",
		"surety HTTP API base route")
	globalCfg.API.MetricsPath = *flag.String("metricsPath", "/metrics",
		"prometheus metrics endpoint path (empty disables it)")
	// oracle simulator
	globalCfg.Sim.Enabled = *flag.Bool("sim", true,
		"run the simulated oracle swarm")
	globalCfg.Sim.Oracles = *flag.Int("simOracles", oraclesim.DefaultOracles,
		"number of simulated oracle agents")
	globalCfg.Sim.Status = *flag.Uint8("simStatus", 0,
		"fixed status code reported by the simulated oracles (zero is random)")

	flag.CommandLine.SortFlags = false
	flag.Parse()

	// setting up viper
	viper := viper.New()
	viper.SetConfigName("surety")
	viper.SetConfigType("yml")
	viper.SetEnvPrefix("SURETY")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.BindPFlag("dataDir", flag.Lookup("dataDir"))
	globalCfg.DataDir = filepath.Clean(viper.GetString("dataDir"))
	viper.AddConfigPath(globalCfg.DataDir)

	viper.BindPFlag("logLevel", flag.Lookup("logLevel"))
	viper.BindPFlag("logErrorFile", flag.Lookup("logErrorFile"))
	viper.BindPFlag("logOutput", flag.Lookup("logOutput"))
	viper.BindPFlag("saveConfig", flag.Lookup("saveConfig"))
	viper.BindPFlag("owner", flag.Lookup("owner"))
	viper.BindPFlag("genesisAirline", flag.Lookup("genesisAirline"))
	viper.BindPFlag("genesisAirlineName", flag.Lookup("genesisAirlineName"))
	viper.BindPFlag("seed", flag.Lookup("seed"))
	viper.BindPFlag("api.Enabled", flag.Lookup("api"))
	viper.BindPFlag("api.Host", flag.Lookup("listenHost"))
	viper.BindPFlag("api.Port", flag.Lookup("listenPort"))
	viper.BindPFlag("api.Route", flag.Lookup("apiRoute"))
	viper.BindPFlag("api.MetricsPath", flag.Lookup("metricsPath"))
	viper.BindPFlag("sim.Enabled", flag.Lookup("sim"))
	viper.BindPFlag("sim.Oracles", flag.Lookup("simOracles"))
	viper.BindPFlag("sim.Status", flag.Lookup("simStatus"))

	// check if config file exists
	_, err = os.Stat(globalCfg.DataDir + "/surety.yml")
	if os.IsNotExist(err) {
		cfgError = config.Error{
			Message: fmt.Sprintf("creating new config file in %s", globalCfg.DataDir),
		}
		if err = os.MkdirAll(globalCfg.DataDir, os.ModePerm); err != nil {
			cfgError = config.Error{
				Message: fmt.Sprintf("cannot create data directory: %s", err),
			}
		}
		if err := viper.SafeWriteConfig(); err != nil {
			cfgError = config.Error{
				Message: fmt.Sprintf("cannot write config file into config dir: %s", err),
			}
		}
	} else {
		if err = viper.ReadInConfig(); err != nil {
			cfgError = config.Error{
				Message: fmt.Sprintf("cannot read loaded config file in %s: %s", globalCfg.DataDir, err),
			}
		}
	}
	if err = viper.Unmarshal(&globalCfg); err != nil {
		cfgError = config.Error{
			Message: fmt.Sprintf("cannot unmarshal loaded config file: %s", err),
		}
	}

	if globalCfg.SaveConfig {
		viper.Set("saveConfig", false)
		if err := viper.WriteConfig(); err != nil {
			cfgError = config.Error{
				Message: fmt.Sprintf("cannot overwrite config file into config dir: %s", err),
			}
		}
	}

	return globalCfg, cfgError
}

func main() {
	globalCfg, cfgErr := newConfig()
	if globalCfg == nil {
		log.Fatal("cannot read configuration")
	}
	log.Init(globalCfg.LogLevel, globalCfg.LogOutput)
	if path := globalCfg.LogErrorFile; path != "" {
		if err := log.SetFileErrorLog(path); err != nil {
			log.Fatal(err)
		}
	}
	log.Debugf("initializing config %+v", *globalCfg)

	if cfgErr.Critical && cfgErr.Message != "" {
		log.Fatalf("critical error loading config: %s", cfgErr.Message)
	} else if !cfgErr.Critical && cfgErr.Message != "" {
		log.Warnf("non-critical error loading config: %s", cfgErr.Message)
	} else {
		log.Infof("config file loaded successfully. Reminder: CLI flags have preference")
	}

	if !ethcommon.IsHexAddress(globalCfg.Owner) {
		log.Fatalf("owner %q is not a valid hex address", globalCfg.Owner)
	}
	if !ethcommon.IsHexAddress(globalCfg.GenesisAirline) {
		log.Fatalf("genesisAirline %q is not a valid hex address", globalCfg.GenesisAirline)
	}

	// events dispatcher with its persistent disk queue
	dispatcher := events.NewDispatcher("surety-events", globalCfg.DataDir+"/events")
	defer dispatcher.Close()

	// archive sink on top of the key-value store
	database, err := metadb.New(db.TypePebble, globalCfg.DataDir+"/archive")
	if err != nil {
		log.Fatalf("cannot open archive database: %s", err)
	}
	arch := archive.New(database)
	defer arch.Close()
	dispatcher.AddSink(arch)

	svc, err := service.New(service.Options{
		Owner:              ethcommon.HexToAddress(globalCfg.Owner),
		GenesisAirline:     ethcommon.HexToAddress(globalCfg.GenesisAirline),
		GenesisAirlineName: globalCfg.GenesisAirlineName,
		Seed:               globalCfg.Seed,
		Dispatcher:         dispatcher,
	})
	if err != nil {
		log.Fatalf("cannot create the surety service: %s", err)
	}

	if globalCfg.Sim.Enabled {
		sim := oraclesim.New(svc, oraclesim.Config{
			Oracles: globalCfg.Sim.Oracles,
			Seed:    globalCfg.Seed,
			Status:  types.FlightStatus(globalCfg.Sim.Status),
		})
		if err := sim.Start(dispatcher.Subscribe()); err != nil {
			log.Fatalf("cannot start the oracle simulator: %s", err)
		}
		defer sim.Close()
	}

	dispatcher.Start()

	if globalCfg.API.Enabled {
		router := new(api.Router)
		if err := router.Init(globalCfg.API.Host, globalCfg.API.Port); err != nil {
			log.Fatalf("cannot init the http router: %s", err)
		}
		if _, err := api.Attach(svc, router, globalCfg.API.Route); err != nil {
			log.Fatalf("cannot attach the api handlers: %s", err)
		}
		if globalCfg.API.MetricsPath != "" {
			metrics.NewAgent(globalCfg.API.MetricsPath, router.Mux)
		}
	}

	log.Info("surety node startup complete")

	// close if interrupt received
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
	log.Warnf("received SIGTERM, exiting at %s", time.Now().Format(time.RFC850))
	os.Exit(0)
}
