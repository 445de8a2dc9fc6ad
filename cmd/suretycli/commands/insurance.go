package commands

import (
	"net/http"

	"github.com/spf13/cobra"
	"go.suretynet.io/surety/types"
)

var insuranceCmd = &cobra.Command{
	Use:   "insurance",
	Short: "Passenger insurance commands",
}

var insuranceBuyCmd = &cobra.Command{
	Use:   "buy <airline> <flight> <timestamp> <premium-wei>",
	Short: "Buy insurance on a flight as the caller passenger",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		ts, err := parseTimestamp(args[2])
		if err != nil {
			return err
		}
		premium, err := parseAmount(args[3])
		if err != nil {
			return err
		}
		req := struct {
			Airline   string        `json:"airline"`
			Flight    string        `json:"flight"`
			Timestamp int64         `json:"timestamp"`
			Premium   *types.BigInt `json:"premium"`
		}{Airline: args[0], Flight: args[1], Timestamp: ts, Premium: premium}
		return call(http.MethodPost, "/insurance", req, nil)
	},
}

var insuranceCreditCmd = &cobra.Command{
	Use:   "credit <airline> <flight> <timestamp>",
	Short: "Check the caller's policy credit on a flight",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := flightPath(args[0], args[1], args[2])
		if err != nil {
			return err
		}
		var resp struct {
			Status  uint8         `json:"status"`
			Credit  *types.BigInt `json:"credit"`
			Premium *types.BigInt `json:"premium"`
			Paid    bool          `json:"paid"`
		}
		if err := call(http.MethodGet, "/insurance"+path, nil, &resp); err != nil {
			return err
		}
		return printJSON(resp)
	},
}

var insurancePayCmd = &cobra.Command{
	Use:   "pay <airline> <flight> <timestamp>",
	Short: "Withdraw the caller's credited payout on a flight",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := flightPath(args[0], args[1], args[2])
		if err != nil {
			return err
		}
		var resp struct {
			Amount *types.BigInt `json:"amount"`
		}
		if err := call(http.MethodPost, "/insurance"+path+"/pay", nil, &resp); err != nil {
			return err
		}
		return printJSON(resp)
	},
}
