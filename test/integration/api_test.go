//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/respira-lab/respira/internal/analysis"
	"github.com/respira-lab/respira/internal/rrv"
	"github.com/respira-lab/respira/internal/server"
	"github.com/stretchr/testify/require"
)

type integrationHarness struct {
	baseURL    string
	client     *http.Client
	cancel     context.CancelFunc
	serverDone chan error
}

func (h *integrationHarness) close(t *testing.T) {
	t.Helper()

	h.cancel()
	select {
	case <-h.serverDone:
	case <-time.After(5 * time.Second):
		t.Log("server shutdown timed out")
	}
}

func startHarness(t *testing.T) *integrationHarness {
	t.Helper()

	svc := analysis.NewService(rrv.Zero(), nil, 1000)
	handler := analysis.NewHandler(svc, 8)

	port := freePort(t)
	addr := fmt.Sprintf("127.0.0.1:%d", port)
	httpServer := server.New(addr, nil, "release")
	handler.RegisterRoutes(httpServer.Engine)

	ctx, cancel := context.WithCancel(context.Background())
	serverDone := make(chan error, 1)
	go func() { serverDone <- httpServer.Run(ctx) }()

	baseURL := "http://" + addr
	waitForHealthy(t, baseURL)

	return &integrationHarness{
		baseURL:    baseURL,
		client:     &http.Client{Timeout: 5 * time.Second},
		cancel:     cancel,
		serverDone: serverDone,
	}
}

func TestAPI_AnalyzeRecording(t *testing.T) {
	h := startHarness(t)
	defer h.close(t)

	request := analysis.AnalyzeRequest{
		SamplingRate: 100,
		Recording: analysis.RecordingPayload{
			Columns: []analysis.ColumnPayload{
				{Name: "RSP_Rate", Values: []float64{10, 12, 14}},
				{Name: "RSP_Amplitude", Values: []float64{0.5, 0.7, 0.6}},
			},
		},
	}

	status, body := postJSON(t, h.client, h.baseURL+"/v1/analyze", request)
	require.Equal(t, http.StatusOK, status, string(body))

	var result analysis.AnalyzeResponse
	require.NoError(t, json.Unmarshal(body, &result))
	require.Equal(t, "interval", result.Kind)
	require.Len(t, result.Table.Columns, 17)
	require.Len(t, result.Table.Rows, 1)
	require.InDelta(t, 12.0, result.Table.Rows[0].Features["RSP_Rate_Mean"], 1e-12)
	require.InDelta(t, 0.6, result.Table.Rows[0].Features["RSP_Amplitude_Mean"], 1e-12)
}

func TestAPI_AnalyzeEpochs(t *testing.T) {
	h := startHarness(t)
	defer h.close(t)

	request := analysis.EpochsRequest{
		Epochs: map[string]analysis.RecordingPayload{
			"baseline": {Columns: []analysis.ColumnPayload{
				{Name: "RSP_Rate", Values: []float64{14, 16}},
				{Name: "RSP_Amplitude", Values: []float64{0.8, 1.0}},
			}},
			"stimulus": {Columns: []analysis.ColumnPayload{
				{Name: "RSP_Rate", Values: []float64{18, 22}},
				{Name: "RSP_Amplitude", Values: []float64{1.0, 1.2}},
			}},
		},
	}

	status, body := postJSON(t, h.client, h.baseURL+"/v1/epochs/analyze", request)
	require.Equal(t, http.StatusOK, status, string(body))

	var result analysis.AnalyzeResponse
	require.NoError(t, json.Unmarshal(body, &result))
	require.Equal(t, "epochs", result.Kind)
	require.Len(t, result.Table.Rows, 2)
	require.Equal(t, "baseline", result.Table.Rows[0].Label)
	require.Equal(t, "stimulus", result.Table.Rows[1].Label)
}

func TestAPI_MissingColumnRejected(t *testing.T) {
	h := startHarness(t)
	defer h.close(t)

	request := analysis.AnalyzeRequest{
		Recording: analysis.RecordingPayload{
			Columns: []analysis.ColumnPayload{
				{Name: "RSP_Amplitude", Values: []float64{0.5}},
			},
		},
	}

	status, body := postJSON(t, h.client, h.baseURL+"/v1/analyze", request)
	require.Equal(t, http.StatusBadRequest, status, string(body))
}

func postJSON(t *testing.T, client *http.Client, url string, payload interface{}) (int, []byte) {
	t.Helper()

	data, err := json.Marshal(payload)
	require.NoError(t, err)

	resp, err := client.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

func waitForHealthy(t *testing.T, baseURL string) {
	t.Helper()

	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(baseURL + "/health")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("server did not become healthy in time")
}

func freePort(t *testing.T) int {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}
