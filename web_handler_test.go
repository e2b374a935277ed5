package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pivolan/equipment_analyzer/client"
	"github.com/pivolan/equipment_analyzer/config"
	"github.com/pivolan/equipment_analyzer/domain/models"
	"github.com/pivolan/equipment_analyzer/engine"
	"github.com/pivolan/equipment_analyzer/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const plantCSV = "Name,Type,Flowrate,Pressure,Temperature\n" +
	"P-1,Pump,10,2,80\n" +
	"P-2,Pump,20,4,90\n" +
	"V-1,Valve,30,6,100\n"

type fakeNotifier struct {
	mu       sync.Mutex
	notified chan string
	views    []*engine.View
}

func (f *fakeNotifier) NotifyUpload(d *models.UploadedDataset, view *engine.View) {
	f.mu.Lock()
	f.views = append(f.views, view)
	f.mu.Unlock()
	f.notified <- d.ID
}

type testEnv struct {
	srv      *server
	api      *client.Client
	url      string
	store    *storage.MemoryStore
	notifier *fakeNotifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := storage.NewMemoryStore()
	notifier := &fakeNotifier{notified: make(chan string, 16)}
	cfg := &config.Config{UploadDir: t.TempDir(), HistoryLimit: 5}
	srv := newServer(store, cfg, notifier)
	ts := httptest.NewServer(srv.routes())
	t.Cleanup(ts.Close)
	return &testEnv{
		srv:      srv,
		api:      client.New(ts.URL+"/api/", nil),
		url:      ts.URL + "/api/",
		store:    store,
		notifier: notifier,
	}
}

func (e *testEnv) upload(t *testing.T, filename, content string) *models.UploadedDataset {
	t.Helper()
	d, err := e.api.Upload(context.Background(), filename, strings.NewReader(content), "")
	require.NoError(t, err)
	return d
}

func TestUploadProcessesDataset(t *testing.T) {
	env := newTestEnv(t)
	d := env.upload(t, "plant.csv", plantCSV)

	assert.NotEmpty(t, d.ID)
	assert.Equal(t, "plant.csv", d.DatasetName)
	assert.Equal(t, models.StatusProcessed, d.Status)
	require.NotNil(t, d.SummaryData)
	assert.Equal(t, 3, d.SummaryData.TotalCount)
	assert.Equal(t, 20.0, d.SummaryData.AvgFlowrate)
	assert.Equal(t, 4.0, d.SummaryData.AvgPressure)
	assert.Equal(t, 90.0, d.SummaryData.AvgTemperature)
	assert.Equal(t, map[string]int{"Pump": 2, "Valve": 1}, d.SummaryData.EquipmentTypeDistribution)

	stored, err := env.store.Get(context.Background(), d.ID)
	require.NoError(t, err)
	_, err = os.Stat(stored.FilePath)
	assert.NoError(t, err)

	select {
	case id := <-env.notifier.notified:
		assert.Equal(t, d.ID, id)
	case <-time.After(5 * time.Second):
		t.Fatal("notifier was not called")
	}
	env.notifier.mu.Lock()
	assert.Equal(t, []string{"Pump", "Valve"}, env.notifier.views[0].Labels)
	env.notifier.mu.Unlock()
}

func TestUploadWithDatasetName(t *testing.T) {
	env := newTestEnv(t)
	d, err := env.api.Upload(context.Background(), "plant.csv", strings.NewReader(plantCSV), "North plant")
	require.NoError(t, err)
	assert.Equal(t, "North plant", d.DatasetName)
}

func TestUploadMissingColumns(t *testing.T) {
	env := newTestEnv(t)
	d := env.upload(t, "bad.csv", "Name,Type\nP-1,Pump\n")

	assert.Equal(t, models.StatusError, d.Status)
	assert.Equal(t, "Missing columns: Flowrate, Pressure, Temperature. Found: ['Name', 'Type']", d.SummaryData.Error)

	select {
	case <-env.notifier.notified:
		t.Fatal("failed uploads are not announced")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUploadRejectsRequests(t *testing.T) {
	env := newTestEnv(t)

	t.Run("no file", func(t *testing.T) {
		body := &bytes.Buffer{}
		form := multipart.NewWriter(body)
		require.NoError(t, form.WriteField("dataset_name", "x"))
		require.NoError(t, form.Close())
		resp, err := http.Post(env.url+"upload/", form.FormDataContentType(), body)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := env.api.Upload(context.Background(), "plant.xlsx", strings.NewReader("x"), "")
		var statusErr *client.StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	})
}

func TestHistoryKeepsNewestUploads(t *testing.T) {
	env := newTestEnv(t)
	var ids []string
	for i := 0; i < 7; i++ {
		ids = append(ids, env.upload(t, fmt.Sprintf("plant_%d.csv", i), plantCSV).ID)
	}

	history, err := env.api.History(context.Background())
	require.NoError(t, err)
	require.Len(t, history, 5)
	assert.Equal(t, ids[6], history[0].ID)
	assert.Equal(t, ids[2], history[4].ID)

	_, err = env.api.Summary(context.Background(), ids[0])
	var statusErr *client.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}

func TestDataKeepsFileOrderAndHeaders(t *testing.T) {
	env := newTestEnv(t)
	d := env.upload(t, "plant.csv", "Name,Equipment Type,Flow Rate,Pressure,Temp\nP-1,Pump,10,2,80\nV-1,Valve,,3,70\n")

	records, err := env.api.Data(context.Background(), d.ID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"Name", "Equipment Type", "Flow Rate", "Pressure", "Temp"}, records[0].Keys())
	name, _ := records[1].Get("Name")
	assert.Equal(t, "V-1", name)
	flow, ok := records[1].Get("Flow Rate")
	assert.True(t, ok)
	assert.Nil(t, flow)
}

func TestSummaryEndpoint(t *testing.T) {
	env := newTestEnv(t)
	d := env.upload(t, "plant.csv", plantCSV)

	resp, err := http.Get(env.url + "summary/" + d.ID + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, d.ID, body["id"])
	assert.Contains(t, body, "summary_data")
	assert.Contains(t, body, "upload_timestamp")
}

func TestViewAndTooltip(t *testing.T) {
	env := newTestEnv(t)
	d := env.upload(t, "plant.csv", plantCSV)

	resp, err := http.Get(env.url + "view/" + d.ID + "/")
	require.NoError(t, err)
	var view struct {
		Labels []string       `json:"labels"`
		Layers []engine.Layer `json:"layers"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	resp.Body.Close()
	assert.Equal(t, []string{"Pump", "Valve"}, view.Labels)
	require.Len(t, view.Layers, 2)
	assert.Equal(t, map[string]int{"Pump": 1, "Valve": 0}, view.Layers[1].CategoryValues)
	assert.Equal(t, "hsl(137.5, 70%, 50%)", view.Layers[1].CategoryColors["Valve"])

	tooltip := func(query string) map[string]interface{} {
		resp, err := http.Get(env.url + "tooltip/" + d.ID + "/?" + query)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		out := map[string]interface{}{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		return out
	}

	hit := tooltip("category=Pump&layer=1")
	assert.Equal(t, true, hit["found"])
	assert.Equal(t, "P-2: Pump", hit["label"])
	assert.Equal(t, "P-2", hit["record"].(map[string]interface{})["Name"])

	padding := tooltip("category=Valve&layer=1")
	assert.Equal(t, false, padding["found"])
	assert.NotContains(t, padding, "record")

	resp, err = http.Get(env.url + "tooltip/" + d.ID + "/?category=Pump&layer=x")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestReportEndpoint(t *testing.T) {
	env := newTestEnv(t)
	d := env.upload(t, "plant.csv", plantCSV)

	resp, err := http.Get(env.url + "report/" + d.ID + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="report_`+d.ID+`.pdf"`, resp.Header.Get("Content-Disposition"))
	body, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF-")))

	resp, err = http.Get(env.url + "report/missing/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDashboardAndTable(t *testing.T) {
	env := newTestEnv(t)
	d := env.upload(t, "plant.csv", plantCSV)

	resp, err := http.Get(env.url + "dashboard/" + d.ID + "/")
	require.NoError(t, err)
	html, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, string(html), "hsl(0, 70%, 40%)")

	resp, err = http.Get(env.url + "table/" + d.ID + "/")
	require.NoError(t, err)
	text, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(text), "Total Equipment")
	assert.Contains(t, string(text), "P-2: Pump")
}

func TestRunView(t *testing.T) {
	env := newTestEnv(t)
	d := env.upload(t, "plant.csv", plantCSV)

	out := &bytes.Buffer{}
	require.NoError(t, runView(context.Background(), env.api, d.ID, out))
	assert.Contains(t, out.String(), "plant.csv")
	assert.Contains(t, out.String(), "20.00 L/min")
	assert.Contains(t, out.String(), "V-1: Valve")

	err := runView(context.Background(), env.api, "missing", out)
	var statusErr *client.StatusError
	assert.ErrorAs(t, err, &statusErr)
}

func TestViewUsesRawHeadersWhileSummaryCanonicalises(t *testing.T) {
	env := newTestEnv(t)
	d := env.upload(t, "lower.csv", "name,type,flowrate,pressure,temperature\nP-1,Pump,10,2,80\nV-1,Valve,30,6,100\n")

	require.Equal(t, models.StatusProcessed, d.Status)
	assert.Equal(t, map[string]int{"Pump": 1, "Valve": 1}, d.SummaryData.EquipmentTypeDistribution)

	state, err := client.NewLoader(env.api).Load(context.Background(), d.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{engine.UnknownCategory}, state.View.Labels)
	require.Len(t, state.View.Layers, 2)
	assert.Equal(t, 2, state.View.Summary.TotalCount)
	assert.Equal(t, "Unit 1: Unknown", state.View.TooltipLabel(engine.UnknownCategory, 0))
}
