package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"go.suretynet.io/surety/types"
)

// call performs a request against the node api, sending the --from address
// in the caller header and decoding the json reply into out (when non-nil).
func call(method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, apiURL+path, reader)
	if err != nil {
		return err
	}
	if from != "" {
		if !common.IsHexAddress(from) {
			return fmt.Errorf("--from %q is not a valid hex address", from)
		}
		req.Header.Set("X-Caller", common.HexToAddress(from).Hex())
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("%s (http %d)", apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("unexpected http status %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func parseTimestamp(s string) (int64, error) {
	ts, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("timestamp %q is not a unix time: %w", s, err)
	}
	return ts, nil
}

func parseAmount(s string) (*types.BigInt, error) {
	amount, err := new(types.BigInt).SetString(s)
	if err != nil {
		return nil, fmt.Errorf("amount %q is not a base 10 integer: %w", s, err)
	}
	return amount, nil
}

// flightPath builds the /{airline}/{flight}/{timestamp} route suffix.
func flightPath(airline, flight, timestamp string) (string, error) {
	if !common.IsHexAddress(airline) {
		return "", fmt.Errorf("airline %q is not a valid hex address", airline)
	}
	ts, err := parseTimestamp(timestamp)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("/%s/%s/%d", common.HexToAddress(airline).Hex(), flight, ts), nil
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(Stdout, string(data))
	return nil
}
