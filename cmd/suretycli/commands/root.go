// Package commands implements suretycli, a convenience CLI that talks to
// the json api of a running surety node.
package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.suretynet.io/surety/log"
)

var (
	apiURL string
	from   string
	debug  bool
)

var Stdout io.Writer = os.Stdout

func init() {
	RootCmd.CompletionOptions.DisableDefaultCmd = true
	RootCmd.PersistentFlags().StringVarP(&apiURL, "url", "u",
		"http://127.0.0.1:9090/v1", "surety node API URL")
	RootCmd.PersistentFlags().StringVarP(&from, "from", "f", "",
		"hex address acting as the command caller")
	RootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false,
		"prints additional information")
	RootCmd.AddCommand(airlineCmd)
	RootCmd.AddCommand(oracleCmd)
	RootCmd.AddCommand(flightCmd)
	RootCmd.AddCommand(insuranceCmd)
	RootCmd.AddCommand(adminCmd)
	airlineCmd.AddCommand(airlineInfoCmd)
	airlineCmd.AddCommand(airlineRegisterCmd)
	airlineCmd.AddCommand(airlineFundCmd)
	oracleCmd.AddCommand(oracleRegisterCmd)
	oracleCmd.AddCommand(oracleIndexesCmd)
	oracleCmd.AddCommand(oracleRespondCmd)
	flightCmd.AddCommand(flightFetchCmd)
	flightCmd.AddCommand(flightStatusCmd)
	insuranceCmd.AddCommand(insuranceBuyCmd)
	insuranceCmd.AddCommand(insuranceCreditCmd)
	insuranceCmd.AddCommand(insurancePayCmd)
	adminCmd.AddCommand(adminPauseCmd)
	adminCmd.AddCommand(adminResumeCmd)
	adminCmd.AddCommand(adminStatusCmd)
}

var RootCmd = &cobra.Command{
	Use:   "suretycli",
	Short: "suretycli is a convenience CLI for operating a surety node",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if debug {
			log.Init("debug", "stdout")
		} else {
			log.Init("error", "stdout")
		}
	},
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
