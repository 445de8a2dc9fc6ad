// Package api exposes the insurance network over HTTP/JSON. Commands carry
// the caller identity in the X-Caller header, mirroring the transaction
// sender of the on-chain interface. Resolved flight statuses are cached in
// an LRU since they are immutable once quorum is reached.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"
	lru "github.com/hashicorp/golang-lru"
	"go.suretynet.io/surety/insurance"
	"go.suretynet.io/surety/ledger"
	"go.suretynet.io/surety/log"
	"go.suretynet.io/surety/service"
	"go.suretynet.io/surety/types"
)

// CallerHeader carries the identity executing a command.
const CallerHeader = "X-Caller"

// ErrMalformed flags request decoding failures, mapped to 400.
var ErrMalformed = fmt.Errorf("malformed request")

const statusCacheSize = 2048

// API binds the service command and query surface to a chi router.
type API struct {
	svc         *service.Service
	statusCache *lru.Cache
}

// Attach mounts all the handlers under baseRoute on the router mux.
func Attach(svc *service.Service, router *Router, baseRoute string) (*API, error) {
	cache, err := lru.New(statusCacheSize)
	if err != nil {
		return nil, err
	}
	a := &API{svc: svc, statusCache: cache}
	router.Mux.Route(baseRoute, func(r chi.Router) {
		r.Post("/airlines", a.registerAirlineHandler)
		r.Get("/airlines/{address}", a.getAirlineHandler)
		r.Post("/airlines/{address}/fund", a.fundHandler)
		r.Post("/oracles", a.registerOracleHandler)
		r.Get("/oracles/indexes", a.oracleIndexesHandler)
		r.Post("/oracles/responses", a.submitResponseHandler)
		r.Post("/flights/fetch", a.fetchStatusHandler)
		r.Get("/flights/{airline}/{flight}/{timestamp}", a.flightStatusHandler)
		r.Post("/insurance", a.buyHandler)
		r.Get("/insurance/{airline}/{flight}/{timestamp}", a.checkCreditHandler)
		r.Post("/insurance/{airline}/{flight}/{timestamp}/pay", a.payHandler)
		r.Post("/admin/operational", a.setOperationalHandler)
		r.Get("/status", a.statusHandler)
	})
	log.Infof("api available at %s", baseRoute)
	return a, nil
}

// httpStatus maps the error taxonomy of the core onto http codes.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, ledger.ErrSystemPaused):
		return http.StatusServiceUnavailable
	case errors.Is(err, ledger.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ledger.ErrInsufficientFee),
		errors.Is(err, ledger.ErrInsufficientFunds),
		errors.Is(err, ledger.ErrOverCap):
		return http.StatusPaymentRequired
	case errors.Is(err, ledger.ErrDuplicateVote),
		errors.Is(err, ledger.ErrAirlineAlreadyExists),
		errors.Is(err, ledger.ErrOracleAlreadyExists),
		errors.Is(err, ledger.ErrNothingDue):
		return http.StatusConflict
	case errors.Is(err, ledger.ErrUnknownAirline),
		errors.Is(err, ledger.ErrAirlineNotFound),
		errors.Is(err, ledger.ErrOracleNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrInvalidIndex),
		errors.Is(err, ledger.ErrInvalidStatus),
		errors.Is(err, ErrMalformed):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

type errorMsg struct {
	Error string `json:"error"`
}

func writeErr(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus(err))
	if encErr := json.NewEncoder(w).Encode(errorMsg{Error: err.Error()}); encErr != nil {
		log.Warnf("cannot write error response: %s", encErr)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warnf("cannot write response: %s", err)
	}
}

func caller(r *http.Request) (common.Address, error) {
	h := r.Header.Get(CallerHeader)
	if !common.IsHexAddress(h) {
		return common.Address{}, fmt.Errorf("%w: missing or bad %s header", ErrMalformed, CallerHeader)
	}
	return common.HexToAddress(h), nil
}

func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%w: bad address %q", ErrMalformed, s)
	}
	return common.HexToAddress(s), nil
}

// urlFlightKey builds the flight key from the route parameters.
func urlFlightKey(r *http.Request) (types.FlightKey, error) {
	airline, err := parseAddress(chi.URLParam(r, "airline"))
	if err != nil {
		return types.FlightKey{}, err
	}
	ts, err := strconv.ParseInt(chi.URLParam(r, "timestamp"), 10, 64)
	if err != nil {
		return types.FlightKey{}, fmt.Errorf("%w: bad timestamp %q", ErrMalformed, chi.URLParam(r, "timestamp"))
	}
	return types.FlightKey{
		Airline:   airline,
		Flight:    chi.URLParam(r, "flight"),
		Timestamp: ts,
	}, nil
}

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: bad body: %s", ErrMalformed, err)
	}
	return nil
}

type flightRef struct {
	Airline   string `json:"airline"`
	Flight    string `json:"flight"`
	Timestamp int64  `json:"timestamp"`
}

func (f flightRef) key() (types.FlightKey, error) {
	airline, err := parseAddress(f.Airline)
	if err != nil {
		return types.FlightKey{}, err
	}
	return types.FlightKey{Airline: airline, Flight: f.Flight, Timestamp: f.Timestamp}, nil
}

type registerAirlineRequest struct {
	Address string `json:"address"`
	Name    string `json:"name"`
}

type registerAirlineResponse struct {
	Admitted bool `json:"admitted"`
	Votes    int  `json:"votes"`
}

func (a *API) registerAirlineHandler(w http.ResponseWriter, r *http.Request) {
	from, err := caller(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	var req registerAirlineRequest
	if err := decodeBody(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	candidate, err := parseAddress(req.Address)
	if err != nil {
		writeErr(w, err)
		return
	}
	admitted, votes, err := a.svc.RegisterAirline(candidate, req.Name, from)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, registerAirlineResponse{Admitted: admitted, Votes: votes})
}

type airlineResponse struct {
	Address    string        `json:"address"`
	Name       string        `json:"name"`
	Registered bool          `json:"registered"`
	Funded     bool          `json:"funded"`
	Balance    *types.BigInt `json:"balance"`
}

func (a *API) getAirlineHandler(w http.ResponseWriter, r *http.Request) {
	address, err := parseAddress(chi.URLParam(r, "address"))
	if err != nil {
		writeErr(w, err)
		return
	}
	airline, ok := a.svc.GetAirline(address)
	if !ok {
		writeErr(w, ledger.ErrAirlineNotFound)
		return
	}
	writeJSON(w, airlineResponse{
		Address:    airline.Address.Hex(),
		Name:       airline.Name,
		Registered: airline.Registered,
		Funded:     airline.Funded,
		Balance:    airline.Balance,
	})
}

type fundRequest struct {
	Amount *types.BigInt `json:"amount"`
}

type fundResponse struct {
	Balance *types.BigInt `json:"balance"`
}

func (a *API) fundHandler(w http.ResponseWriter, r *http.Request) {
	from, err := caller(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	address, err := parseAddress(chi.URLParam(r, "address"))
	if err != nil {
		writeErr(w, err)
		return
	}
	var req fundRequest
	if err := decodeBody(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	balance, err := a.svc.Fund(address, req.Amount, from)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, fundResponse{Balance: balance})
}

type registerOracleRequest struct {
	Fee *types.BigInt `json:"fee"`
}

type oracleIndexesResponse struct {
	Indexes [3]uint8 `json:"indexes"`
}

func (a *API) registerOracleHandler(w http.ResponseWriter, r *http.Request) {
	from, err := caller(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	var req registerOracleRequest
	if err := decodeBody(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	indexes, err := a.svc.RegisterOracle(from, req.Fee)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, oracleIndexesResponse{Indexes: indexes})
}

func (a *API) oracleIndexesHandler(w http.ResponseWriter, r *http.Request) {
	from, err := caller(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	indexes, err := a.svc.OracleIndexes(from)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, oracleIndexesResponse{Indexes: indexes})
}

type fetchStatusResponse struct {
	ID    string `json:"id"`
	Index uint8  `json:"index"`
}

func (a *API) fetchStatusHandler(w http.ResponseWriter, r *http.Request) {
	from, err := caller(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	var ref flightRef
	if err := decodeBody(r, &ref); err != nil {
		writeErr(w, err)
		return
	}
	key, err := ref.key()
	if err != nil {
		writeErr(w, err)
		return
	}
	req, err := a.svc.FetchFlightStatus(key, from)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, fetchStatusResponse{ID: req.ID, Index: req.Index})
}

type submitResponseRequest struct {
	flightRef
	Index  uint8 `json:"index"`
	Status uint8 `json:"status"`
}

func (a *API) submitResponseHandler(w http.ResponseWriter, r *http.Request) {
	from, err := caller(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	var req submitResponseRequest
	if err := decodeBody(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	key, err := req.key()
	if err != nil {
		writeErr(w, err)
		return
	}
	if err := a.svc.SubmitOracleResponse(req.Index, key, types.FlightStatus(req.Status), from); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, struct{}{})
}

type flightStatusResponse struct {
	Status uint8  `json:"status"`
	Label  string `json:"label"`
}

func (a *API) flightStatusHandler(w http.ResponseWriter, r *http.Request) {
	key, err := urlFlightKey(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	if cached, ok := a.statusCache.Get(key); ok {
		status := cached.(types.FlightStatus)
		writeJSON(w, flightStatusResponse{Status: uint8(status), Label: status.String()})
		return
	}
	status := a.svc.FlightStatus(key)
	if status.Resolved() {
		a.statusCache.Add(key, status)
	}
	writeJSON(w, flightStatusResponse{Status: uint8(status), Label: status.String()})
}

type buyRequest struct {
	flightRef
	Premium *types.BigInt `json:"premium"`
}

func (a *API) buyHandler(w http.ResponseWriter, r *http.Request) {
	from, err := caller(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	var req buyRequest
	if err := decodeBody(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	key, err := req.key()
	if err != nil {
		writeErr(w, err)
		return
	}
	if err := a.svc.Buy(from, key, req.Premium); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, struct{}{})
}

type creditResponse struct {
	Status  uint8         `json:"status"`
	Credit  *types.BigInt `json:"credit"`
	Premium *types.BigInt `json:"premium"`
	Paid    bool          `json:"paid"`
}

func (a *API) checkCreditHandler(w http.ResponseWriter, r *http.Request) {
	from, err := caller(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	key, err := urlFlightKey(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	credit := a.svc.CheckCredit(from, key)
	writeJSON(w, toCreditResponse(credit, a.svc.GetInsuranceValue(from, key)))
}

func toCreditResponse(c insurance.Credit, premium *types.BigInt) creditResponse {
	return creditResponse{
		Status:  uint8(c.Status),
		Credit:  c.Credit,
		Premium: premium,
		Paid:    c.Paid,
	}
}

type payResponse struct {
	Amount *types.BigInt `json:"amount"`
}

func (a *API) payHandler(w http.ResponseWriter, r *http.Request) {
	from, err := caller(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	key, err := urlFlightKey(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	amount, err := a.svc.Pay(from, key)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, payResponse{Amount: amount})
}

type operationalRequest struct {
	Operational bool `json:"operational"`
}

func (a *API) setOperationalHandler(w http.ResponseWriter, r *http.Request) {
	from, err := caller(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	var req operationalRequest
	if err := decodeBody(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	if err := a.svc.SetOperational(req.Operational, from); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, struct{}{})
}

type statusResponse struct {
	Operational bool          `json:"operational"`
	Escrow      *types.BigInt `json:"escrow"`
}

func (a *API) statusHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, statusResponse{
		Operational: a.svc.IsOperational(),
		Escrow:      a.svc.EscrowBalance(),
	})
}
