package commands

import (
	"fmt"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.suretynet.io/surety/types"
)

var airlineCmd = &cobra.Command{
	Use:   "airline",
	Short: "Airline governance commands",
}

var airlineInfoCmd = &cobra.Command{
	Use:   "info <address>",
	Short: "Get the registration, funding state and balance of an airline",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !common.IsHexAddress(args[0]) {
			return fmt.Errorf("%q is not a valid hex address", args[0])
		}
		var resp struct {
			Address    string        `json:"address"`
			Name       string        `json:"name"`
			Registered bool          `json:"registered"`
			Funded     bool          `json:"funded"`
			Balance    *types.BigInt `json:"balance"`
		}
		if err := call(http.MethodGet, "/airlines/"+common.HexToAddress(args[0]).Hex(),
			nil, &resp); err != nil {
			return err
		}
		return printJSON(resp)
	},
}

var airlineRegisterCmd = &cobra.Command{
	Use:   "register <address> <name>",
	Short: "Register or vote for a candidate airline (caller must be a funded airline)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !common.IsHexAddress(args[0]) {
			return fmt.Errorf("%q is not a valid hex address", args[0])
		}
		req := struct {
			Address string `json:"address"`
			Name    string `json:"name"`
		}{Address: common.HexToAddress(args[0]).Hex(), Name: args[1]}
		var resp struct {
			Admitted bool `json:"admitted"`
			Votes    int  `json:"votes"`
		}
		if err := call(http.MethodPost, "/airlines", req, &resp); err != nil {
			return err
		}
		return printJSON(resp)
	},
}

var airlineFundCmd = &cobra.Command{
	Use:   "fund <address> <amount-wei>",
	Short: "Add funding to the caller's own airline",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !common.IsHexAddress(args[0]) {
			return fmt.Errorf("%q is not a valid hex address", args[0])
		}
		amount, err := parseAmount(args[1])
		if err != nil {
			return err
		}
		req := struct {
			Amount *types.BigInt `json:"amount"`
		}{Amount: amount}
		var resp struct {
			Balance *types.BigInt `json:"balance"`
		}
		path := "/airlines/" + common.HexToAddress(args[0]).Hex() + "/fund"
		if err := call(http.MethodPost, path, req, &resp); err != nil {
			return err
		}
		return printJSON(resp)
	},
}
