package http

import (
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/labstack/echo/v4"

	"nix/domain/order"
	"nix/service"
)

// ResponseError represents the response error struct.
type ResponseError struct {
	Message string `json:"message"`
}

// LedgerHandler exposes the ledger's boundary operations over HTTP.
type LedgerHandler struct {
	svc *service.LedgerService
}

const resourcePrefix = "/orders"

// NewLedgerHandler will initialize the /orders resources endpoint.
func NewLedgerHandler(e *echo.Echo, svc *service.LedgerService) {
	handler := &LedgerHandler{svc: svc}

	e.POST(resourcePrefix, handler.AddOrder)
	e.POST(resourcePrefix+"/:index/execute", handler.ExecuteOrder)
	e.DELETE(resourcePrefix+"/:index", handler.CancelOrder)
	e.GET(resourcePrefix+"/:index", handler.GetOrder)
	e.GET(resourcePrefix+"/length", handler.Length)
}

type addOrderRequest struct {
	Maker            string   `json:"maker"`
	Taker            string   `json:"taker"`
	Token            string   `json:"token"`
	TokenIDs         []uint64 `json:"tokenIds"`
	SettlementAmount string   `json:"settlementAmount"`
	OrderType        uint8    `json:"orderType"`
	Expiry           int64    `json:"expiry"`
}

type addOrderResponse struct {
	Index int       `json:"index"`
	Key   order.Key `json:"key"`
}

func (h *LedgerHandler) AddOrder(c echo.Context) error {
	var req addOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	maker, err := parseAddress(req.Maker, true)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	taker, err := parseAddress(req.Taker, false)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	token, err := parseAddress(req.Token, true)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	amount, err := parseAmount(req.SettlementAmount)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	idx, key, err := h.svc.MakerAddOrder(
		maker, taker, token, req.TokenIDs, amount,
		order.OrderType(req.OrderType), req.Expiry,
	)
	if err != nil {
		return c.JSON(statusCode(err), ResponseError{Message: err.Error()})
	}
	return c.JSON(http.StatusCreated, addOrderResponse{Index: idx, Key: key})
}

type executeOrderRequest struct {
	Caller           string   `json:"caller"`
	TokenIDs         []uint64 `json:"tokenIds"`
	SettlementAmount string   `json:"settlementAmount"`
}

type executeOrderResponse struct {
	Index    int            `json:"index"`
	Key      order.Key      `json:"key"`
	Filler   common.Address `json:"filler"`
	TokenIDs []uint64       `json:"tokenIds"`
	Amount   string         `json:"amount"`
	Status   string         `json:"status"`
}

func (h *LedgerHandler) ExecuteOrder(c echo.Context) error {
	index, err := parseIndex(c.Param("index"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	var req executeOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	caller, err := parseAddress(req.Caller, true)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	amount, err := parseAmount(req.SettlementAmount)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	rcpt, err := h.svc.TakerExecuteOrder(index, req.TokenIDs, amount, caller)
	if err != nil {
		return c.JSON(statusCode(err), ResponseError{Message: err.Error()})
	}
	return c.JSON(http.StatusOK, executeOrderResponse{
		Index:    rcpt.Index,
		Key:      rcpt.Key,
		Filler:   rcpt.Filler,
		TokenIDs: rcpt.TokenIDs,
		Amount:   rcpt.Amount.String(),
		Status:   rcpt.Order.Status.String(),
	})
}

type cancelOrderRequest struct {
	Caller string `json:"caller"`
}

func (h *LedgerHandler) CancelOrder(c echo.Context) error {
	index, err := parseIndex(c.Param("index"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	var req cancelOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	caller, err := parseAddress(req.Caller, true)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.svc.CancelOrder(index, caller); err != nil {
		return c.JSON(statusCode(err), ResponseError{Message: err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

type orderView struct {
	Index            int            `json:"index"`
	Key              order.Key      `json:"key"`
	Maker            common.Address `json:"maker"`
	Taker            common.Address `json:"taker"`
	Token            common.Address `json:"token"`
	TokenIDs         []uint64       `json:"tokenIds"`
	Remaining        []uint64       `json:"remaining"`
	SettlementAmount string         `json:"settlementAmount"`
	OrderType        string         `json:"orderType"`
	Expiry           int64          `json:"expiry"`
	Status           string         `json:"status"`
}

func (h *LedgerHandler) GetOrder(c echo.Context) error {
	index, err := parseIndex(c.Param("index"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	o, key, err := h.svc.GetOrderByIndex(index)
	if err != nil {
		return c.JSON(statusCode(err), ResponseError{Message: err.Error()})
	}
	return c.JSON(http.StatusOK, orderView{
		Index:            index,
		Key:              key,
		Maker:            o.Maker,
		Taker:            o.Taker,
		Token:            o.Token,
		TokenIDs:         o.TokenIDs,
		Remaining:        o.Remaining,
		SettlementAmount: o.SettlementAmount.String(),
		OrderType:        o.Type.String(),
		Expiry:           o.Expiry,
		Status:           o.Status.String(),
	})
}

type lengthResponse struct {
	Length int `json:"length"`
}

func (h *LedgerHandler) Length(c echo.Context) error {
	return c.JSON(http.StatusOK, lengthResponse{Length: h.svc.OrdersLength()})
}

// -------------------- Helpers --------------------

func parseIndex(s string) (int, error) {
	idx, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid order index %q", s)
	}
	return idx, nil
}

func parseAddress(s string, required bool) (common.Address, error) {
	if s == "" {
		if required {
			return common.Address{}, errors.New("address required")
		}
		return common.Address{}, nil
	}
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid address %q", s)
	}
	return common.HexToAddress(s), nil
}

func parseAmount(s string) (*big.Int, error) {
	amount, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid settlement amount %q", s)
	}
	return amount, nil
}

func statusCode(err error) int {
	switch {
	case errors.Is(err, order.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, order.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, order.ErrDuplicateOrder),
		errors.Is(err, order.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, order.ErrInvalidOrder),
		errors.Is(err, order.ErrExpiredOrder),
		errors.Is(err, order.ErrPartialFillNotAllowed),
		errors.Is(err, order.ErrInvalidTokenIds),
		errors.Is(err, order.ErrPriceMismatch):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
