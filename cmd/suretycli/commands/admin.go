package commands

import (
	"net/http"

	"github.com/spf13/cobra"
	"go.suretynet.io/surety/types"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Owner-only operational commands",
}

func setOperational(operational bool) error {
	req := struct {
		Operational bool `json:"operational"`
	}{Operational: operational}
	return call(http.MethodPost, "/admin/operational", req, nil)
}

var adminPauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause every state-changing operation (caller must be the owner)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return setOperational(false)
	},
}

var adminResumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume normal operation (caller must be the owner)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return setOperational(true)
	},
}

var adminStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the operational flag and the escrow pool balance",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp struct {
			Operational bool          `json:"operational"`
			Escrow      *types.BigInt `json:"escrow"`
		}
		if err := call(http.MethodGet, "/status", nil, &resp); err != nil {
			return err
		}
		return printJSON(resp)
	},
}
