package bybit

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	bybit_api "github.com/bybit-exchange/bybit.go.api"

	"github.com/ducminhle1904/crypto-protection-bot/pkg/types"
)

// historyOrder is the slice of the v5 order-history payload the protection
// engine cares about.
type historyOrder struct {
	OrderID       string `json:"orderId"`
	Symbol        string `json:"symbol"`
	Side          string `json:"side"`
	OrderStatus   string `json:"orderStatus"`
	StopOrderType string `json:"stopOrderType"`
	ReduceOnly    bool   `json:"reduceOnly"`
	Qty           string `json:"qty"`
	AvgPrice      string `json:"avgPrice"`
	ClosedPnl     string `json:"closedPnl"`
	CumExecValue  string `json:"cumExecValue"`
	CreatedTime   string `json:"createdTime"`
	UpdatedTime   string `json:"updatedTime"`
}

// GetClosedTrades fetches recent order history for a symbol and maps the
// filled position-closing orders into trade records. Bybit timestamps are
// epoch milliseconds without a zone; they are stamped as UTC here, before
// they reach the protections.
func (c *Client) GetClosedTrades(ctx context.Context, category, symbol string, limit int) ([]*types.Trade, error) {
	params := map[string]interface{}{
		"category": category,
	}
	if symbol != "" {
		params["symbol"] = symbol
	}
	if limit > 0 {
		params["limit"] = limit
	}

	result, err := c.httpClient.NewUtaBybitServiceWithParams(params).GetOrderHistory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get order history: %w", err)
	}

	orders, err := parseHistoryResponse(result)
	if err != nil {
		return nil, fmt.Errorf("failed to parse order history response: %w", err)
	}

	var trades []*types.Trade
	for _, order := range orders {
		if trade := tradeFromOrder(order); trade != nil {
			trades = append(trades, trade)
		}
	}
	return trades, nil
}

// parseHistoryResponse unwraps the standard Bybit response envelope.
func parseHistoryResponse(response interface{}) ([]historyOrder, error) {
	serverResp, ok := response.(*bybit_api.ServerResponse)
	if !ok {
		return nil, fmt.Errorf("invalid response type")
	}

	if serverResp.RetCode != 0 {
		return nil, fmt.Errorf("API error: %s (code: %d)", serverResp.RetMsg, serverResp.RetCode)
	}

	resultBytes, err := json.Marshal(serverResp.Result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	var listResult struct {
		List []historyOrder `json:"list"`
	}
	if err := json.Unmarshal(resultBytes, &listResult); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order list: %w", err)
	}

	return listResult.List, nil
}

// tradeFromOrder maps a filled position-closing order to a trade record.
// Orders that did not close a position are skipped.
func tradeFromOrder(order historyOrder) *types.Trade {
	if order.OrderStatus != "Filled" || !order.ReduceOnly {
		return nil
	}

	closeDate := parseEpochMillis(order.UpdatedTime)
	if closeDate == nil {
		return nil
	}

	// A Sell closes a long position, a Buy closes a short.
	isShort := strings.EqualFold(order.Side, "Buy")

	trade := &types.Trade{
		OrderID:    order.OrderID,
		Pair:       order.Symbol,
		IsShort:    isShort,
		Amount:     parseFloat(order.Qty),
		CloseDate:  closeDate,
		ProfitAbs:  parseFloat(order.ClosedPnl),
		ExitReason: exitReasonFromOrder(order),
	}
	if openDate := parseEpochMillis(order.CreatedTime); openDate != nil {
		trade.OpenDate = *openDate
	}
	if execValue := parseFloat(order.CumExecValue); execValue > 0 {
		trade.ProfitRatio = trade.ProfitAbs / execValue
	}
	return trade
}

func exitReasonFromOrder(order historyOrder) string {
	switch order.StopOrderType {
	case "StopLoss":
		return types.ExitReasonStopLoss
	case "TrailingStop":
		return types.ExitReasonTrailingStopLoss
	case "TakeProfit":
		return types.ExitReasonTakeProfit
	default:
		return types.ExitReasonExitSignal
	}
}

func parseEpochMillis(value string) *time.Time {
	millis, err := strconv.ParseInt(value, 10, 64)
	if err != nil || millis <= 0 {
		return nil
	}
	t := time.UnixMilli(millis).UTC()
	return &t
}

func parseFloat(value string) float64 {
	parsed, _ := strconv.ParseFloat(value, 64)
	return parsed
}
