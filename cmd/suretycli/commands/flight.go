package commands

import (
	"net/http"

	"github.com/spf13/cobra"
)

var flightCmd = &cobra.Command{
	Use:   "flight",
	Short: "Flight status commands",
}

var flightFetchCmd = &cobra.Command{
	Use:   "fetch <airline> <flight> <timestamp>",
	Short: "Open an oracle request for the flight status",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ts, err := parseTimestamp(args[2])
		if err != nil {
			return err
		}
		req := struct {
			Airline   string `json:"airline"`
			Flight    string `json:"flight"`
			Timestamp int64  `json:"timestamp"`
		}{Airline: args[0], Flight: args[1], Timestamp: ts}
		var resp struct {
			ID    string `json:"id"`
			Index uint8  `json:"index"`
		}
		if err := call(http.MethodPost, "/flights/fetch", req, &resp); err != nil {
			return err
		}
		return printJSON(resp)
	},
}

var flightStatusCmd = &cobra.Command{
	Use:   "status <airline> <flight> <timestamp>",
	Short: "Get the canonical status of a flight",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := flightPath(args[0], args[1], args[2])
		if err != nil {
			return err
		}
		var resp struct {
			Status uint8  `json:"status"`
			Label  string `json:"label"`
		}
		if err := call(http.MethodGet, "/flights"+path, nil, &resp); err != nil {
			return err
		}
		return printJSON(resp)
	},
}
