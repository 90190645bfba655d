package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordercore/internal/rules"
)

// runCLI executes one full command invocation in JSON mode against
// the given database and decodes the response.
func runCLI(t *testing.T, dbPath string, args ...string) (CLIResponse, error) {
	t.Helper()

	cmd := NewRootCommand()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(append([]string{"--format", "json", "--db", dbPath}, args...))

	execErr := cmd.Execute()

	var resp CLIResponse
	if buf.Len() > 0 {
		require.NoError(t, json.Unmarshal(buf.Bytes(), &resp), "output: %s", buf.String())
	}
	return resp, execErr
}

func dataField(t *testing.T, resp CLIResponse, key string) string {
	t.Helper()
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok, "unexpected data payload %v", resp.Data)
	v, ok := data[key].(string)
	require.True(t, ok, "missing %s in %v", key, data)
	return v
}

func TestCLI_FullOrderFlow(t *testing.T) {
	db := filepath.Join(t.TempDir(), "orders.db")

	resp, err := runCLI(t, db, "add-customer", "Ada Lovelace", "--email", "ada@example.com")
	require.NoError(t, err)
	require.Equal(t, "ok", resp.Status)
	customerID := dataField(t, resp, "customer_id")

	resp, err = runCLI(t, db, "add-product", "2500", "--category", "widgets", "--stock", "8")
	require.NoError(t, err)
	productID := dataField(t, resp, "product_id")

	resp, err = runCLI(t, db, "create-order", customerID)
	require.NoError(t, err)
	orderID := dataField(t, resp, "order_id")

	_, err = runCLI(t, db, "add-item", orderID, productID, "3")
	require.NoError(t, err)

	resp, err = runCLI(t, db, "show", orderID)
	require.NoError(t, err)
	require.Equal(t, "ok", resp.Status)
	detail, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	order, ok := detail["Order"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "pending", order["Status"])
	assert.Equal(t, float64(7500), order["TotalCents"])

	_, err = runCLI(t, db, "set-status", orderID, "processing", "--actor", "ops-team")
	require.NoError(t, err)

	resp, err = runCLI(t, db, "audit", orderID)
	require.NoError(t, err)
	records, ok := resp.Data.([]interface{})
	require.True(t, ok)
	require.Len(t, records, 1)
}

func TestCLI_InsufficientStockExitCode(t *testing.T) {
	db := filepath.Join(t.TempDir(), "orders.db")

	resp, err := runCLI(t, db, "add-customer", "Ada", "--email", "ada@example.com")
	require.NoError(t, err)
	customerID := dataField(t, resp, "customer_id")

	resp, err = runCLI(t, db, "add-product", "100", "--stock", "2")
	require.NoError(t, err)
	productID := dataField(t, resp, "product_id")

	resp, err = runCLI(t, db, "create-order", customerID)
	require.NoError(t, err)
	orderID := dataField(t, resp, "order_id")

	resp, err = runCLI(t, db, "add-item", orderID, productID, "5")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	require.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, string(rules.CodeInsufficientStock), resp.Error.Code)
	assert.Equal(t, "5", resp.Error.Details["requested"])
	assert.Equal(t, "2", resp.Error.Details["available"])

	// Rejected reservation left nothing behind.
	resp, err = runCLI(t, db, "show", orderID)
	require.NoError(t, err)
	detail := resp.Data.(map[string]interface{})
	order := detail["Order"].(map[string]interface{})
	assert.Equal(t, float64(0), order["TotalCents"])
}

func TestCLI_UnknownOrderIsFailureNotCommandError(t *testing.T) {
	db := filepath.Join(t.TempDir(), "orders.db")

	resp, err := runCLI(t, db, "show", "ghost")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Equal(t, string(rules.CodeUnknownOrder), resp.Error.Code)
}

func TestCLI_RemoveItemAndCancel(t *testing.T) {
	db := filepath.Join(t.TempDir(), "orders.db")

	resp, err := runCLI(t, db, "add-customer", "Ada", "--email", "ada@example.com")
	require.NoError(t, err)
	customerID := dataField(t, resp, "customer_id")

	resp, err = runCLI(t, db, "add-product", "1000", "--stock", "10")
	require.NoError(t, err)
	productID := dataField(t, resp, "product_id")

	resp, err = runCLI(t, db, "create-order", customerID)
	require.NoError(t, err)
	orderID := dataField(t, resp, "order_id")

	_, err = runCLI(t, db, "add-item", orderID, productID, "4")
	require.NoError(t, err)

	resp, err = runCLI(t, db, "show", orderID)
	require.NoError(t, err)
	items := resp.Data.(map[string]interface{})["Items"].([]interface{})
	require.Len(t, items, 1)
	itemID := items[0].(map[string]interface{})["ID"].(string)

	_, err = runCLI(t, db, "remove-item", orderID, itemID)
	require.NoError(t, err)

	_, err = runCLI(t, db, "add-item", orderID, productID, "2")
	require.NoError(t, err)
	_, err = runCLI(t, db, "set-status", orderID, "cancelled")
	require.NoError(t, err)

	resp, err = runCLI(t, db, "show", orderID)
	require.NoError(t, err)
	order := resp.Data.(map[string]interface{})["Order"].(map[string]interface{})
	assert.Equal(t, "cancelled", order["Status"])
}

func TestCLI_InvalidQuantityIsCommandError(t *testing.T) {
	db := filepath.Join(t.TempDir(), "orders.db")

	resp, err := runCLI(t, db, "add-product", "100", "--stock", "2")
	require.NoError(t, err)
	productID := dataField(t, resp, "product_id")

	_, err = runCLI(t, db, "restock", productID, "0")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestCLI_AlertsAndReport(t *testing.T) {
	db := filepath.Join(t.TempDir(), "orders.db")

	resp, err := runCLI(t, db, "add-customer", "Ada", "--email", "ada@example.com")
	require.NoError(t, err)
	customerID := dataField(t, resp, "customer_id")

	resp, err = runCLI(t, db, "add-product", "500", "--stock", "12")
	require.NoError(t, err)
	productID := dataField(t, resp, "product_id")

	resp, err = runCLI(t, db, "create-order", customerID)
	require.NoError(t, err)
	orderID := dataField(t, resp, "order_id")

	// 12 -> 9 crosses the default threshold.
	_, err = runCLI(t, db, "add-item", orderID, productID, "3")
	require.NoError(t, err)

	resp, err = runCLI(t, db, "alerts", productID)
	require.NoError(t, err)
	alerts, ok := resp.Data.([]interface{})
	require.True(t, ok)
	require.Len(t, alerts, 1)

	resp, err = runCLI(t, db, "report", "--start", "2000-01-01", "--end", "2100-01-01")
	require.NoError(t, err)
	require.Equal(t, "ok", resp.Status)
	days, ok := resp.Data.([]interface{})
	require.True(t, ok)
	require.Len(t, days, 1)
}
