package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roivaz/ibp-masterdata-mcp/internal/ibp"
	"github.com/roivaz/ibp-masterdata-mcp/internal/logging"
	"github.com/roivaz/ibp-masterdata-mcp/internal/masterdata"
)

type rpcResponse struct {
	ID     int             `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type toolCallResult struct {
	IsError bool `json:"isError"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func handle(t *testing.T, srv *Server, id int, method string, params any) rpcResponse {
	t.Helper()
	msg := map[string]any{"jsonrpc": "2.0", "id": id, "method": method}
	if params != nil {
		msg["params"] = params
	}
	raw, err := json.Marshal(msg)
	require.NoError(t, err)

	reply := srv.MCP.HandleMessage(context.Background(), raw)
	require.NotNil(t, reply)
	encoded, err := json.Marshal(reply)
	require.NoError(t, err)

	var resp rpcResponse
	require.NoError(t, json.Unmarshal(encoded, &resp))
	return resp
}

func callTool(t *testing.T, srv *Server, name string, args map[string]any) (toolCallResult, rpcResponse) {
	t.Helper()
	resp := handle(t, srv, 7, "tools/call", map[string]any{"name": name, "arguments": args})
	var result toolCallResult
	if resp.Error == nil {
		require.NoError(t, json.Unmarshal(resp.Result, &result))
	}
	return result, resp
}

func newMasterDataServer(t *testing.T, password string, handler http.HandlerFunc) (*Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(remote.Close)

	svc, err := masterdata.Build(masterdata.Config{
		IBP: ibp.Config{
			BaseURL:  remote.URL + "/odata/ZMDM?$",
			Username: "GPT",
			Password: password,
		},
	}, logging.Discard())
	require.NoError(t, err)
	return New(MasterDataConfig(svc, logging.Discard())), &calls
}

func rowsHandler(attribute string, n int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows := make([]map[string]string, n)
		for i := range rows {
			rows[i] = map[string]string{attribute: fmt.Sprintf("%s-%d", attribute, i)}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"d": map[string]any{"results": rows}})
	}
}

func TestToolsListExposesMasterDataTools(t *testing.T) {
	srv, _ := newMasterDataServer(t, "secret", rowsHandler("ZMDMPLATFORMNAME", 1))

	resp := handle(t, srv, 1, "tools/list", nil)
	require.Nil(t, resp.Error)

	var result struct {
		Tools []struct {
			Name        string         `json:"name"`
			InputSchema map[string]any `json:"inputSchema"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(resp.Result, &result))

	names := make([]string, 0, len(result.Tools))
	for _, tool := range result.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{ToolGetSingleMasterData, ToolGetMasterDataMultiple, ToolListAttributes}, names)
}

func TestSingleToolTruncatesOverProtocol(t *testing.T) {
	srv, calls := newMasterDataServer(t, "secret", rowsHandler("ZMDMPLATFORMNAME", 40))

	result, resp := callTool(t, srv, ToolGetSingleMasterData, map[string]any{"masterData": "Unknown"})
	require.Nil(t, resp.Error)
	require.Len(t, result.Content, 1)

	var values []string
	require.NoError(t, json.Unmarshal([]byte(result.Content[0].Text), &values))
	require.Len(t, values, 30)
	assert.Equal(t, "ZMDMPLATFORMNAME-0", values[0])
	assert.Equal(t, "ZMDMPLATFORMNAME-29", values[29])
	assert.EqualValues(t, 1, calls.Load())
}

func TestMultipleToolDuplicateNamesOverProtocol(t *testing.T) {
	var selection atomic.Value
	srv, calls := newMasterDataServer(t, "secret", func(w http.ResponseWriter, r *http.Request) {
		selection.Store(r.URL.Query().Get("$select"))
		rowsHandler("ZMDMPLATFORMNAME", 2)(w, r)
	})

	result, resp := callTool(t, srv, ToolGetMasterDataMultiple, map[string]any{"masterData": []string{"PFAM", "PFAM"}})
	require.Nil(t, resp.Error)

	var out map[string][]string
	require.NoError(t, json.Unmarshal([]byte(result.Content[0].Text), &out))
	assert.Equal(t, map[string][]string{"PFAM": {"ZMDMPLATFORMNAME-0", "ZMDMPLATFORMNAME-1"}}, out)
	assert.EqualValues(t, 1, calls.Load())
	assert.Equal(t, "ZMDMPLATFORMNAME,ZMDMPLATFORMNAME", selection.Load())
}

func TestRemoteFailureIsSuccessEnvelope(t *testing.T) {
	srv, _ := newMasterDataServer(t, "secret", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	result, resp := callTool(t, srv, ToolGetSingleMasterData, map[string]any{"masterData": "PFAM"})
	require.Nil(t, resp.Error)
	assert.False(t, result.IsError)
	assert.Equal(t, "Error fetching data from IBP: Internal Server Error", result.Content[0].Text)
}

func TestMissingPasswordIsProtocolError(t *testing.T) {
	srv, calls := newMasterDataServer(t, "", rowsHandler("ZMDMPLATFORMNAME", 1))

	_, resp := callTool(t, srv, ToolGetSingleMasterData, map[string]any{"masterData": "PFAM"})
	require.NotNil(t, resp.Error)
	assert.Contains(t, resp.Error.Message, "credentials")
	assert.EqualValues(t, 0, calls.Load())
}

func TestListToolOverProtocol(t *testing.T) {
	srv, calls := newMasterDataServer(t, "", rowsHandler("ZMDMPLATFORMNAME", 1))

	result, resp := callTool(t, srv, ToolListAttributes, map[string]any{})
	require.Nil(t, resp.Error)

	var entries []masterdata.Entry
	require.NoError(t, json.Unmarshal([]byte(result.Content[0].Text), &entries))
	assert.Len(t, entries, 3)
	assert.EqualValues(t, 0, calls.Load())
}

func TestWeatherServer(t *testing.T) {
	srv := New(WeatherConfig(logging.Discard()))

	result, resp := callTool(t, srv, ToolFetchWeather, map[string]any{"city": "Oslo"})
	require.Nil(t, resp.Error)
	assert.Equal(t, "The weather in Oslo is sunny.", result.Content[0].Text)

	_, resp = callTool(t, srv, ToolGetSingleMasterData, map[string]any{"masterData": "PFAM"})
	assert.NotNil(t, resp.Error)
}

func TestStreamableHTTPEndpoint(t *testing.T) {
	srv, calls := newMasterDataServer(t, "secret", rowsHandler("ZMDMPLATFORMNAME", 2))
	front := httptest.NewServer(srv.Handler)
	t.Cleanup(front.Close)

	body := `{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"get-single-ibp-master-data","arguments":{"masterData":"PFAM"}}}`
	post := func(path string) *http.Response {
		req, err := http.NewRequest(http.MethodPost, front.URL+path, strings.NewReader(body))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json, text/event-stream")
		resp, err := front.Client().Do(req)
		require.NoError(t, err)
		t.Cleanup(func() { _ = resp.Body.Close() })
		return resp
	}

	resp := post(EndpointPath)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var rpc rpcResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rpc))
	require.Nil(t, rpc.Error)
	assert.Equal(t, 3, rpc.ID)
	var result toolCallResult
	require.NoError(t, json.Unmarshal(rpc.Result, &result))
	require.Len(t, result.Content, 1)
	var values []string
	require.NoError(t, json.Unmarshal([]byte(result.Content[0].Text), &values))
	assert.Equal(t, []string{"ZMDMPLATFORMNAME-0", "ZMDMPLATFORMNAME-1"}, values)
	assert.EqualValues(t, 1, calls.Load())

	resp = post("/other")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.EqualValues(t, 1, calls.Load())
}

func TestServeStdio(t *testing.T) {
	srv := New(WeatherConfig(logging.Discard()))

	requests := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"0.0.1"}}}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"fetch-weather","arguments":{"city":"Porto"}}}`,
	}, "\n") + "\n"

	inR, inW := io.Pipe()
	outR, outW := io.Pipe()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- srv.ServeStdio(ctx, inR, outW, nil) }()
	go func() { _, _ = io.WriteString(inW, requests) }()

	dec := json.NewDecoder(outR)
	var weather string
	for weather == "" {
		var resp rpcResponse
		require.NoError(t, dec.Decode(&resp))
		if resp.ID != 2 {
			continue
		}
		require.Nil(t, resp.Error)
		var result toolCallResult
		require.NoError(t, json.Unmarshal(resp.Result, &result))
		weather = result.Content[0].Text
	}
	assert.Equal(t, "The weather in Porto is sunny.", weather)

	cancel()
	_ = inW.Close()
	_ = outR.Close()
	<-done
}
