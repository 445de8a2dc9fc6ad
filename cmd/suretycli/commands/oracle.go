package commands

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"
	"go.suretynet.io/surety/types"
)

var oracleCmd = &cobra.Command{
	Use:   "oracle",
	Short: "Oracle registration and response commands",
}

var oracleRegisterCmd = &cobra.Command{
	Use:   "register [fee-wei]",
	Short: "Register the caller as an oracle, paying the registration fee",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fee := types.OracleRegistrationFee
		if len(args) == 1 {
			var err error
			if fee, err = parseAmount(args[0]); err != nil {
				return err
			}
		}
		req := struct {
			Fee *types.BigInt `json:"fee"`
		}{Fee: fee}
		var resp struct {
			Indexes [3]uint8 `json:"indexes"`
		}
		if err := call(http.MethodPost, "/oracles", req, &resp); err != nil {
			return err
		}
		return printJSON(resp)
	},
}

var oracleIndexesCmd = &cobra.Command{
	Use:   "indexes",
	Short: "Show the index assignment of the caller oracle",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp struct {
			Indexes [3]uint8 `json:"indexes"`
		}
		if err := call(http.MethodGet, "/oracles/indexes", nil, &resp); err != nil {
			return err
		}
		return printJSON(resp)
	},
}

var oracleRespondCmd = &cobra.Command{
	Use:   "respond <index> <airline> <flight> <timestamp> <status-code>",
	Short: "Submit a flight status response for one of the caller's indexes",
	Args:  cobra.ExactArgs(5),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.ParseUint(args[0], 10, 8)
		if err != nil {
			return fmt.Errorf("index %q is not a number: %w", args[0], err)
		}
		ts, err := parseTimestamp(args[3])
		if err != nil {
			return err
		}
		status, err := strconv.ParseUint(args[4], 10, 8)
		if err != nil {
			return fmt.Errorf("status %q is not a number: %w", args[4], err)
		}
		req := struct {
			Airline   string `json:"airline"`
			Flight    string `json:"flight"`
			Timestamp int64  `json:"timestamp"`
			Index     uint8  `json:"index"`
			Status    uint8  `json:"status"`
		}{
			Airline:   args[1],
			Flight:    args[2],
			Timestamp: ts,
			Index:     uint8(index),
			Status:    uint8(status),
		}
		return call(http.MethodPost, "/oracles/responses", req, nil)
	},
}
